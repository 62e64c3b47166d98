package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/movielist/movielist-go/internal/crypto"
	"github.com/movielist/movielist-go/internal/model"
	"github.com/movielist/movielist-go/internal/repository"
)

var (
	ErrFirstNameRequired = errors.New("first name is required")
	ErrLastNameRequired  = errors.New("last name is required")
	ErrEmailRequired     = errors.New("email is required")
	ErrEmailInvalid      = errors.New("invalid email address")
	ErrPasswordRequired  = errors.New("password is required")
	ErrPasswordTooShort  = errors.New("password is too short - should be at least 6 characters")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrEmailTaken        = errors.New("email already exists")
)

// UserService handles registration and user lookup.
type UserService struct {
	users repository.UserStore
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserStore) *UserService {
	return &UserService{users: users}
}

// Register validates the request, hashes the password, and persists the
// user. Hashing happens here, before the store call, so the record
// never carries the raw secret.
func (s *UserService) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if err := validateCreateUser(req); err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by their hex id.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// IsValidationError reports whether err is one of the registration
// validation sentinels.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrFirstNameRequired) ||
		errors.Is(err, ErrLastNameRequired) ||
		errors.Is(err, ErrEmailRequired) ||
		errors.Is(err, ErrEmailInvalid) ||
		errors.Is(err, ErrPasswordRequired) ||
		errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrPasswordMismatch)
}

func validateCreateUser(req model.CreateUserRequest) error {
	if req.FirstName == "" {
		return ErrFirstNameRequired
	}
	if req.LastName == "" {
		return ErrLastNameRequired
	}
	if req.Email == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return ErrEmailInvalid
	}
	if req.Password == "" {
		return ErrPasswordRequired
	}
	if len(req.Password) < 6 {
		return ErrPasswordTooShort
	}
	if req.Password != req.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	return nil
}
