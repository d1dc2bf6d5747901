package db

import (
	"errors"
	"strings"

	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When constraintName is provided, the helper looks
// for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if constraintName != "" {
		return strings.Contains(err.Error(), constraintName) && isUnique(err)
	}
	return isUnique(err)
}

// IsForeignKeyViolation reports whether err is a referential integrity failure.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if code := pgCode(err); code != "" {
		return code == pgForeignKeyViolation
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

// IsNotFound reports whether err is gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Translate maps persistence errors onto the typed error taxonomy. Errors that
// are already typed pass through untouched.
func Translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	if entity == "" {
		entity = "record"
	}
	switch {
	case IsNotFound(err):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, entity+" not found")
	case isUnique(err):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, entity+" already exists")
	case IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, entity+" references a missing record")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database error")
}

func isUnique(err error) bool {
	if code := pgCode(err); code != "" {
		return code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique constraint failed")
}

func pgCode(err error) string {
	pg, _ := pkgerrors.Postgres(err)
	return pg.Code
}
