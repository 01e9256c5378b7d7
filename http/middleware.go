package http

import (
	"strings"

	"github.com/labstack/echo/v4"

	"uniride/entity"
)

const identityContextKey = "identity"

// resolveIdentity parses an optional bearer token into an Identity.
// Requests without a valid token stay anonymous; handlers that need an
// identity reject them individually.
func resolveIdentity(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				if identity, err := tokens.Parse(token); err == nil {
					c.Set(identityContextKey, &identity)
				}
			}

			return next(c)
		}
	}
}

func identityFrom(c echo.Context) *entity.Identity {
	identity, _ := c.Get(identityContextKey).(*entity.Identity)
	return identity
}
