package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("secret hashing failed")
	ErrMismatch      = errors.New("secret does not match")
	ErrEmptySecret   = errors.New("secret is empty")
)

const (
	DefaultCost = bcrypt.DefaultCost
	// Short-lived verification codes are also rate limited by attempt count.
	CodeCost = bcrypt.MinCost
)

func HashPassword(password string) (string, error) {
	return hash(password, DefaultCost)
}

func HashCode(code string) (string, error) {
	return hash(code, CodeCost)
}

func hash(secret string, cost int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", ErrHashingFailed
	}

	return string(hashedBytes), nil
}

func Compare(hashed, secret string) error {
	if hashed == "" || secret == "" {
		return ErrEmptySecret
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}

	return nil
}

// Matcher compares submitted codes against bcrypt hashes.
type Matcher struct{}

func (Matcher) Matches(hashed, code string) bool {
	return Compare(hashed, code) == nil
}
