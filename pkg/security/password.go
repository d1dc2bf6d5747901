package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

const defaultCodeLength = 6

// ErrPasswordTooShort is returned when a password is below the configured minimum.
var ErrPasswordTooShort = errors.New("password too short")

// HashPassword returns a bcrypt hash for the provided password.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	if err := CheckPasswordLength(password, cfg); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost(cfg.BcryptCost))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword returns true when the password matches the encoded hash.
func VerifyPassword(password, encoded string) (bool, error) {
	if encoded == "" {
		return false, bcrypt.ErrHashTooShort
	}
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// CheckPasswordLength enforces the configured minimum length.
func CheckPasswordLength(password string, cfg config.PasswordConfig) error {
	minLength := cfg.MinLength
	if minLength <= 0 {
		minLength = 8
	}
	if len([]rune(password)) < minLength {
		return fmt.Errorf("%w: minimum is %d characters", ErrPasswordTooShort, minLength)
	}
	return nil
}

func bcryptCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

// GenerateNumericCode produces a zero-padded random numeric code of the given length.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		length = defaultCodeLength
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		digit, err := randInt(10)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + digit))
	}
	return b.String(), nil
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
