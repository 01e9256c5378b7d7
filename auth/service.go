package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"uniride/entity"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserRepo interface {
	Add(ctx context.Context, user entity.User) error
	GetByEmail(ctx context.Context, email string) (entity.User, error)
}

type Service struct {
	users  UserRepo
	tokens TokenIssuer
}

func NewService(users UserRepo, tokens TokenIssuer) Service {
	return Service{
		users:  users,
		tokens: tokens,
	}
}

type RegisterParams struct {
	Email      string
	Password   string
	FullName   string
	Phone      string
	University string
}

// Register creates a student account and returns a signed token for it.
// Drivers are provisioned out of band.
func (s Service) Register(ctx context.Context, p RegisterParams) (string, entity.User, error) {
	if p.Email == "" || p.Password == "" || p.FullName == "" || p.Phone == "" {
		return "", entity.User{}, ErrMissingFields
	}

	_, err := s.users.GetByEmail(ctx, p.Email)
	if err == nil {
		return "", entity.User{}, ErrEmailTaken
	}
	if !errors.Is(err, entity.ErrUserNotFound) {
		return "", entity.User{}, fmt.Errorf("checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", entity.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := entity.User{
		UserID:       uuid.NewString(),
		Email:        p.Email,
		PasswordHash: string(hash),
		FullName:     p.FullName,
		Phone:        p.Phone,
		University:   p.University,
		Role:         entity.RoleStudent,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Add(ctx, user); err != nil {
		return "", entity.User{}, fmt.Errorf("storing user: %w", err)
	}

	token, err := s.tokens.Sign(entity.Identity{UserID: user.UserID, Role: user.Role})
	if err != nil {
		return "", entity.User{}, err
	}

	return token, user, nil
}

func (s Service) Login(ctx context.Context, email, password string) (string, entity.User, error) {
	if email == "" || password == "" {
		return "", entity.User{}, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, entity.ErrUserNotFound) {
		return "", entity.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", entity.User{}, fmt.Errorf("getting user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", entity.User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(entity.Identity{UserID: user.UserID, Role: user.Role})
	if err != nil {
		return "", entity.User{}, err
	}

	return token, user, nil
}
