package auth

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts; longer passwords
// would be silently cut.
const MaxPasswordBytes = 72

const csrfKeyBytes = 32

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length of 72 bytes")
)

// HashPassword returns a salted bcrypt hash. A zero cost means
// bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	switch {
	case password == "":
		return "", ErrPasswordRequired
	case len(password) > MaxPasswordBytes:
		return "", ErrPasswordTooLong
	case cost == 0:
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

// CheckPassword reports ErrInvalidPassword when password does not match
// hash. Malformed hashes surface bcrypt's own error.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidPassword
	}
	return err
}

// NewCSRFKey returns a random key for signing CSRF tokens.
func NewCSRFKey() ([]byte, error) {
	key := make([]byte, csrfKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
