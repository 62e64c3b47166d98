package crypto

import (
	"strings"
	"testing"
)

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("expected PHC argon2id prefix, got %q", hash)
	}
	if strings.Contains(hash, "password123") {
		t.Error("hash contains the raw password")
	}
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	first, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}

func TestVerifyPassword_Correct(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !VerifyPassword("password123", hash) {
		t.Error("expected correct password to verify")
	}
}

func TestVerifyPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if VerifyPassword("password124", hash) {
		t.Error("expected wrong password to fail")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if VerifyPassword("password123", "not-a-phc-string") {
		t.Error("expected malformed hash to fail verification")
	}
	if VerifyPassword("password123", "") {
		t.Error("expected empty hash to fail verification")
	}
}
