package postgres

import (
	"accounts/internal/domain/repository"
	"accounts/internal/infra/persistence/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// indexFields maps unique index names to the account field they guard.
var indexFields = map[string]string{
	model.AccountEmailIndex:   repository.FieldEmail,
	model.AccountCompanyIndex: repository.FieldCompany,
	model.AccountSubjectIndex: repository.FieldSubject,
}

// asDuplicateKey converts a unique violation into *repository.DuplicateKeyError.
// It returns nil for any other error.
func asDuplicateKey(err error) *repository.DuplicateKeyError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgerrcode.UniqueViolation {
			return nil
		}

		return &repository.DuplicateKeyError{Field: indexFields[pgErr.ConstraintName]}
	}

	// With TranslateError enabled GORM hides the driver error and the constraint name with it.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &repository.DuplicateKeyError{}
	}

	return nil
}
