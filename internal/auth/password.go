package auth

import (
	"booklibrary/internal/catalog"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePassword applies the catalog's password floor to the raw
// password before it is hashed.
func ValidatePassword(password string) error {
	if len(password) < catalog.MinPasswordLength {
		return catalog.ErrPasswordTooShort
	}
	return nil
}
