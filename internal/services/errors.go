package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the target record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateAssociation indicates an already-existing membership pair.
	ErrDuplicateAssociation = errors.New("duplicate association")
	// ErrValidationRejected indicates a mandatory-layer case without an anchor.
	ErrValidationRejected = errors.New("validation rejected")
)

// MapStoreError translates storage-layer failures into the service error
// taxonomy. Uniqueness violations surface as ErrDuplicateAssociation so a
// concurrent duplicate insert loses at the constraint and still reports a
// conflict, never a silent success.
func MapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Join(ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return errors.Join(ErrDuplicateAssociation, err) // unique_violation
		case "23503":
			return errors.Join(ErrNotFound, err) // foreign_key_violation
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "already exists") {
		return errors.Join(ErrDuplicateAssociation, err)
	}
	return err
}
