package auth

import (
	"errors"
	"testing"

	"booklibrary/internal/catalog"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if hash == "correct horse battery" {
		t.Error("Expected hash to differ from the plain password")
	}

	if !VerifyPassword(hash, "correct horse battery") {
		t.Error("Expected matching password to verify")
	}

	if VerifyPassword(hash, "wrong password") {
		t.Error("Expected mismatched password to fail verification")
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{
		"seven77",
		"a much longer passphrase",
	}
	for _, password := range valid {
		if err := ValidatePassword(password); err != nil {
			t.Errorf("Password %q should be valid but got error: %v", password, err)
		}
	}

	tooShort := []string{
		"",
		"short",
		"sixsix",
	}
	for _, password := range tooShort {
		if err := ValidatePassword(password); !errors.Is(err, catalog.ErrPasswordTooShort) {
			t.Errorf("Expected ErrPasswordTooShort for %q, got %v", password, err)
		}
	}
}
