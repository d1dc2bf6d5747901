// Package identity holds the pieces shared by the user and customer
// credential lifecycles: one-time codes, email normalisation, and the
// domain errors both flows surface.
package identity

import (
	"crypto/subtle"
	"regexp"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/security"
)

const codeLength = 6

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail rejects empty or malformed addresses.
func ValidateEmail(email string) error {
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !emailRe.MatchString(email) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid email format")
	}
	return nil
}

// Code is a freshly issued one-time code and its expiry.
type Code struct {
	Value   string
	Expires time.Time
}

// IssueCode generates a 6-digit code valid for ttl from now.
func IssueCode(now time.Time, ttl time.Duration) (Code, error) {
	value, err := security.GenerateNumericCode(codeLength)
	if err != nil {
		return Code{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate code")
	}
	return Code{Value: value, Expires: now.Add(ttl)}, nil
}

// CheckCode compares the provided code with the stored one. A missing stored
// code counts as a mismatch.
func CheckCode(stored *string, expires *time.Time, provided string, now time.Time) error {
	provided = strings.TrimSpace(provided)
	if stored == nil || provided == "" || subtle.ConstantTimeCompare([]byte(*stored), []byte(provided)) != 1 {
		return ErrInvalidCode()
	}
	if expires == nil || now.After(*expires) {
		return ErrCodeExpired()
	}
	return nil
}

func ErrAlreadyRegistered() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
}

func ErrAlreadyVerified() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "email already verified")
}

func ErrInvalidCode() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid code")
}

func ErrCodeExpired() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "code expired")
}

func ErrInvalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}

func ErrEmailNotVerified() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "email not verified")
}

func ErrInvalidOrExpiredToken() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token")
}

// ErrNotFound reports a missing principal of the named kind.
func ErrNotFound(kind string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, kind+" not found")
}
