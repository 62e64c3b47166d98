package service

import (
	"context"
	"strings"
	"testing"

	"github.com/movielist/movielist-go/internal/crypto"
	"github.com/movielist/movielist-go/internal/model"
)

func validCreateUserRequest() model.CreateUserRequest {
	return model.CreateUserRequest{
		FirstName:            "Jane",
		LastName:             "Doe",
		Email:                "jane@example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CreateUserRequest)
		want   error
	}{
		{"missing first name", func(r *model.CreateUserRequest) { r.FirstName = "" }, ErrFirstNameRequired},
		{"missing last name", func(r *model.CreateUserRequest) { r.LastName = "" }, ErrLastNameRequired},
		{"missing email", func(r *model.CreateUserRequest) { r.Email = "" }, ErrEmailRequired},
		{"invalid email", func(r *model.CreateUserRequest) { r.Email = "not-an-email" }, ErrEmailInvalid},
		{"missing password", func(r *model.CreateUserRequest) { r.Password = "" }, ErrPasswordRequired},
		{"short password", func(r *model.CreateUserRequest) { r.Password = "12345"; r.PasswordConfirmation = "12345" }, ErrPasswordTooShort},
		{"mismatched confirmation", func(r *model.CreateUserRequest) { r.PasswordConfirmation = "password124" }, ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(newFakeUserStore())

			req := validCreateUserRequest()
			tt.mutate(&req)

			_, err := svc.Register(context.Background(), req)
			if err != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegister_Success(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users)

	user, err := svc.Register(context.Background(), validCreateUserRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID.IsZero() {
		t.Error("expected a generated id")
	}
	if user.Email != "jane@example.com" {
		t.Errorf("unexpected email %q", user.Email)
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users)

	user, err := svc.Register(context.Background(), validCreateUserRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := users.users[user.ID.Hex()]
	if stored.Password == "password123" {
		t.Fatal("raw password was persisted")
	}
	if !strings.HasPrefix(stored.Password, "$argon2id$") {
		t.Errorf("expected argon2id hash, got %q", stored.Password)
	}
	if !crypto.VerifyPassword("password123", stored.Password) {
		t.Error("stored hash does not verify against the password")
	}
}

func TestRegister_LowercasesEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users)

	req := validCreateUserRequest()
	req.Email = "Jane@Example.COM"

	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "jane@example.com" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users)

	if _, err := svc.Register(context.Background(), validCreateUserRequest()); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	if _, err := svc.Register(context.Background(), validCreateUserRequest()); err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}
