// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"accounts/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to create an account.
type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required"`
	Company  string `validate:"required"`
	Subject  string `validate:"required"`
	Password string `validate:"required"`
}

// AuthenticateInput defines the credentials presented at sign-in.
type AuthenticateInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// --- Output DTOs ---

// AuthOutput is returned by both sign-up and sign-in.
type AuthOutput struct {
	Token string
	User  *entity.PublicAccount
}

// AccountUsecase defines the account operations the delivery layer depends on.
type AccountUsecase interface {
	// Register creates an account and returns a token for it.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Authenticate checks credentials and returns a fresh token.
	Authenticate(ctx context.Context, input *AuthenticateInput) (*AuthOutput, error)

	// ListAccounts returns the public view of every account.
	ListAccounts(ctx context.Context) ([]*entity.PublicAccount, error)

	// GetAccount returns the public view of one account.
	GetAccount(ctx context.Context, id uuid.UUID) (*entity.PublicAccount, error)
}
