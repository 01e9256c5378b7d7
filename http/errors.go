package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"uniride/auth"
	"uniride/entity"
)

// httpError maps domain error kinds to distinct status codes so a
// client can tell whether retrying makes sense. Anything unrecognised
// (e.g. a persistence failure) surfaces as a generic 500 with the
// cause kept internal.
func httpError(err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalidSeatCount),
		errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrEmailTaken):
		return &echo.HTTPError{
			Code:     http.StatusBadRequest,
			Message:  unwrapMessage(err),
			Internal: err,
		}
	case errors.Is(err, entity.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidCredentials):
		return &echo.HTTPError{
			Code:     http.StatusUnauthorized,
			Message:  unwrapMessage(err),
			Internal: err,
		}
	case errors.Is(err, entity.ErrTripNotFound):
		return &echo.HTTPError{
			Code:     http.StatusNotFound,
			Message:  entity.ErrTripNotFound.Error(),
			Internal: err,
		}
	}

	var notEnough entity.NotEnoughSeatsError
	if errors.As(err, &notEnough) {
		return &echo.HTTPError{
			Code:     http.StatusBadRequest,
			Message:  notEnough.Error(),
			Internal: err,
		}
	}

	return &echo.HTTPError{
		Code:     http.StatusInternalServerError,
		Message:  http.StatusText(http.StatusInternalServerError),
		Internal: err,
	}
}

// unwrapMessage strips layer prefixes like "reserving seats: " so the
// client sees only the sentinel's text.
func unwrapMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
