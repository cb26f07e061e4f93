package impl

import (
	"context"
	"testing"

	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/infra/auth"
	"accounts/internal/infra/persistence/memory"
	"accounts/internal/infra/workerpool"
	mockRepo "accounts/internal/mocks/repository"
	mockSvc "accounts/internal/mocks/service"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newServiceWithRepo(t *testing.T, repo repository.AccountRepository) usecase.AccountUsecase {
	t.Helper()

	tokens, err := auth.NewJWTService(newTestConfig())
	require.NoError(t, err)

	return NewAccountService(AccountServiceParams{
		AccountRepo:  repo,
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokens,
		Pool:         workerpool.New(1),
		Logger:       newDiscardLogger(),
	})
}

func assertInternal(t *testing.T, err error) {
	t.Helper()

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInternalError))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Server error", appErr.Message())
	assert.NotContains(t, appErr.Message(), "connection reset")
}

func TestAccountService_Register_LookupFailure(t *testing.T) {
	repo := mockRepo.NewMockAccountRepository(t)
	repo.EXPECT().FindByEmail(mock.Anything, "ada@x.com").
		Return(nil, domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "failed to find account by email"))

	_, err := newServiceWithRepo(t, repo).Register(context.Background(), adaInput())

	assertInternal(t, err)
}

func TestAccountService_Register_CreateFailure(t *testing.T) {
	repo := mockRepo.NewMockAccountRepository(t)
	repo.EXPECT().FindByEmail(mock.Anything, "ada@x.com").Return(nil, repository.ErrAccountNotFound)
	repo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*entity.Account")).
		Return(errors.New("connection reset"))

	_, err := newServiceWithRepo(t, repo).Register(context.Background(), adaInput())

	assertInternal(t, err)
}

func TestAccountService_Register_CreateRaceLost(t *testing.T) {
	repo := mockRepo.NewMockAccountRepository(t)
	repo.EXPECT().FindByEmail(mock.Anything, "ada@x.com").Return(nil, repository.ErrAccountNotFound)
	repo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*entity.Account")).
		Return(&repository.DuplicateKeyError{Field: repository.FieldEmail})

	_, err := newServiceWithRepo(t, repo).Register(context.Background(), adaInput())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountExists))
}

func TestAccountService_Register_StoresHashNotPassword(t *testing.T) {
	repo := mockRepo.NewMockAccountRepository(t)
	repo.EXPECT().FindByEmail(mock.Anything, "ada@x.com").Return(nil, repository.ErrAccountNotFound)
	repo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*entity.Account")).
		Run(func(_ context.Context, account *entity.Account) {
			assert.NotEqual(t, "s3cret", account.CredentialHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.CredentialHash), []byte("s3cret")))
			account.ID = uuid.New()
		}).
		Return(nil)

	out, err := newServiceWithRepo(t, repo).Register(context.Background(), adaInput())
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
}

func TestAccountService_Register_TokenFailureKeepsAccount(t *testing.T) {
	cfg := newTestConfig()
	repo := memory.NewAccountRepository(cfg)
	tokens := mockSvc.NewMockTokenService(t)
	tokens.EXPECT().Issue(mock.Anything).Return("", errors.New("signer unavailable")).Once()

	srv := NewAccountService(AccountServiceParams{
		AccountRepo:  repo,
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokens,
		Pool:         workerpool.New(1),
		Logger:       newDiscardLogger(),
	})

	_, err := srv.Register(context.Background(), adaInput())
	assertInternal(t, err)

	stored, err := repo.FindByEmail(context.Background(), "ada@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Name)

	tokens.EXPECT().Issue(stored.ID).Return("token", nil).Once()
	out, err := srv.Authenticate(context.Background(), &usecase.AuthenticateInput{Email: "ada@x.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "token", out.Token)
}

func TestAccountService_Register_PublishFailureIsIgnored(t *testing.T) {
	cfg := newTestConfig()
	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.EXPECT().PublishAccountEvent(mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	srv := NewAccountService(AccountServiceParams{
		AccountRepo:  memory.NewAccountRepository(cfg),
		Hasher:       auth.NewBcryptHasher(cfg),
		TokenService: tokens,
		Publisher:    publisher,
		Pool:         workerpool.New(1),
		Logger:       newDiscardLogger(),
	})

	out, err := srv.Register(context.Background(), adaInput())
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
}

func TestAccountService_Authenticate_LookupFailure(t *testing.T) {
	repo := mockRepo.NewMockAccountRepository(t)
	repo.EXPECT().FindByEmail(mock.Anything, "ada@x.com").Return(nil, errors.New("connection reset"))

	_, err := newServiceWithRepo(t, repo).Authenticate(context.Background(),
		&usecase.AuthenticateInput{Email: "ada@x.com", Password: "s3cret"})

	assertInternal(t, err)
}

func TestAccountService_ListAccounts_Failure(t *testing.T) {
	repo := mockRepo.NewMockAccountRepository(t)
	repo.EXPECT().List(mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := newServiceWithRepo(t, repo).ListAccounts(context.Background())

	assertInternal(t, err)
}

func TestAccountService_GetAccount_Failure(t *testing.T) {
	repo := mockRepo.NewMockAccountRepository(t)
	repo.EXPECT().FindByID(mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := newServiceWithRepo(t, repo).GetAccount(context.Background(), uuid.New())

	assertInternal(t, err)
}

func TestAccountService_CanceledWhileWaitingForWorker(t *testing.T) {
	repo := mockRepo.NewMockAccountRepository(t)
	repo.EXPECT().FindByEmail(mock.Anything, "ada@x.com").Return(nil, repository.ErrAccountNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newServiceWithRepo(t, repo).Register(ctx, adaInput())

	assertInternal(t, err)
}
