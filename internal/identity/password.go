package identity

import (
	"errors"

	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/security"
)

// HashPassword validates length and hashes, mapping failures onto the typed taxonomy.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "password must be at least 8 characters")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return hash, nil
}

// CheckPassword reports InvalidCredentials for a mismatch or unusable hash.
func CheckPassword(password, hash string) error {
	ok, err := security.VerifyPassword(password, hash)
	if err != nil || !ok {
		return ErrInvalidCredentials()
	}
	return nil
}
