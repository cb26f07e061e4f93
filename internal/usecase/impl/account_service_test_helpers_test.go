package impl

import (
	"io"
	"log/slog"
	"testing"

	"accounts/config"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/infra/auth"
	"accounts/internal/infra/persistence/memory"
	"accounts/internal/infra/workerpool"
	mockSvc "accounts/internal/mocks/service"
	"accounts/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: bcrypt.MinCost,
			Workers:    2,
		},
		Accounts: &config.AccountsConfig{UniqueCompany: true, UniqueSubject: true},
	}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"

	return cfg
}

// accountServiceFixtures wires the service against the in-memory store and real crypto.
type accountServiceFixtures struct {
	service   usecase.AccountUsecase
	repo      repository.AccountRepository
	tokens    service.TokenService
	hasher    service.PasswordHasher
	publisher *mockSvc.MockEventPublisher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	t.Helper()

	cfg := newTestConfig()
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.EXPECT().PublishAccountEvent(mock.Anything, mock.Anything).Return(nil).Maybe()

	fixtures := accountServiceFixtures{
		repo:      memory.NewAccountRepository(cfg),
		tokens:    tokens,
		hasher:    auth.NewBcryptHasher(cfg),
		publisher: publisher,
	}
	fixtures.service = NewAccountService(AccountServiceParams{
		AccountRepo:  fixtures.repo,
		Hasher:       fixtures.hasher,
		TokenService: fixtures.tokens,
		Publisher:    fixtures.publisher,
		Pool:         workerpool.NewFromConfig(cfg),
		Logger:       newDiscardLogger(),
	})

	return fixtures
}

func adaInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Name:     "Ada",
		Email:    "ada@x.com",
		Company:  "Acme",
		Subject:  "billing",
		Password: "s3cret",
	}
}
