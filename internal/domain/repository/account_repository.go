// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the usecase layer and the infrastructure layer.
package repository

import (
	"context"
	"fmt"

	"accounts/internal/domain/entity"
	"accounts/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrAccountNotFound is returned when no account matches a lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateKey is matched by every DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Unique account fields, as reported in DuplicateKeyError.Field.
const (
	FieldEmail   = "email"
	FieldCompany = "company"
	FieldSubject = "subject"
)

// DuplicateKeyError reports that Create hit a uniqueness constraint.
// Field is empty when the store cannot tell which constraint fired.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return ErrDuplicateKey.Error()
	}

	return fmt.Sprintf("duplicate key: %s", e.Field)
}

// Is makes errors.Is(err, ErrDuplicateKey) match.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// UniqueFields selects which descriptive fields besides email must be unique.
type UniqueFields struct {
	Company bool
	Subject bool
}

// AccountRepository persists accounts. It is the only stateful component of the service.
type AccountRepository interface {
	// FindByEmail returns ErrAccountNotFound when no account has this email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByID returns ErrAccountNotFound when no account has this id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// Create checks uniqueness and inserts as one atomic step. On success the store
	// fills in ID and timestamps. A uniqueness conflict returns *DuplicateKeyError
	// and leaves the store untouched.
	Create(ctx context.Context, account *entity.Account) error

	// List returns every account ordered by creation time.
	List(ctx context.Context) ([]*entity.Account, error)
}
