package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only keys off the first 72 bytes of its input; longer passwords
// are rejected rather than silently truncated.
const maxPasswordBytes = 72

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")
)

// HashPassword derives a bcrypt hash of the password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

// CheckPassword verifies a plaintext password against a stored hash. A
// mismatch is reported as ErrInvalidPassword; any other error means the
// hash itself is unusable.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidPassword
	}
	return err
}
