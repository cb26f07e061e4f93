// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	// bcrypt only reads the first 72 bytes; longer passwords are refused instead of truncated.
	maxPasswordBytes = 72

	eventPublishTimeout = 3 * time.Second
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	publisher    service.EventPublisher
	pool         service.WorkerPool
	validate     *validator.Validate
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Publisher    service.EventPublisher
	Pool         service.WorkerPool
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		publisher:    params.Publisher,
		pool:         params.Pool,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account and signs a token for it. The insert and the token are not
// atomic: if signing fails the account stays and the caller can sign in later.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	if err := srv.validateInput(input, input.Password); err != nil {
		return nil, err
	}

	_, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		srv.log(ctx).Info("Registration rejected, email already registered", slog.String("email", input.Email))

		return nil, domainerrors.ErrAccountExists.WrapMessage("email already registered")
	case !errors.Is(err, repository.ErrAccountNotFound):
		return nil, srv.internalError(ctx, err, "failed to look up account during registration")
	}

	var credentialHash string
	err = srv.pool.Do(ctx, func() error {
		var hashErr error
		credentialHash, hashErr = srv.hasher.Hash(input.Password)

		return hashErr
	})
	if err != nil {
		return nil, srv.internalError(ctx, err, "failed to hash password")
	}

	account := &entity.Account{
		Name:           input.Name,
		Email:          input.Email,
		Company:        input.Company,
		Subject:        input.Subject,
		CredentialHash: credentialHash,
	}
	if err := srv.accountRepo.Create(ctx, account); err != nil {
		var dupErr *repository.DuplicateKeyError
		if errors.As(err, &dupErr) {
			srv.log(ctx).Info("Registration rejected, unique field taken",
				slog.String("email", input.Email),
				slog.String("field", dupErr.Field),
			)

			return nil, domainerrors.ErrAccountExists.WrapMessage(dupErr.Error())
		}

		return nil, srv.internalError(ctx, err, "failed to create account")
	}

	srv.log(ctx).Info("Account registered", slog.String("accountID", account.ID.String()))

	token, err := srv.issueToken(ctx, account.ID)
	if err != nil {
		return nil, srv.internalError(ctx, err, "failed to issue token after registration")
	}

	srv.publishRegistered(ctx, account)

	return &usecase.AuthOutput{Token: token, User: account.Public()}, nil
}

// Authenticate verifies the password for email and returns a fresh token.
func (srv *accountService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*usecase.AuthOutput, error) {
	if err := srv.validateInput(input, input.Password); err != nil {
		return nil, err
	}

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Info("Sign-in for unknown email", slog.String("email", input.Email))

			return nil, domainerrors.ErrAccountNotFound.WrapMessage("no account for email")
		}

		return nil, srv.internalError(ctx, err, "failed to look up account during sign-in")
	}

	var matched bool
	err = srv.pool.Do(ctx, func() error {
		matched = srv.hasher.Check(input.Password, account.CredentialHash)

		return nil
	})
	if err != nil {
		return nil, srv.internalError(ctx, err, "failed to verify password")
	}
	if !matched {
		srv.log(ctx).Info("Sign-in with wrong password", slog.String("accountID", account.ID.String()))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch")
	}

	token, err := srv.issueToken(ctx, account.ID)
	if err != nil {
		return nil, srv.internalError(ctx, err, "failed to issue token")
	}

	srv.log(ctx).Debug("Account signed in", slog.String("accountID", account.ID.String()))

	return &usecase.AuthOutput{Token: token, User: account.Public()}, nil
}

// ListAccounts returns every account without credentials.
func (srv *accountService) ListAccounts(ctx context.Context) ([]*entity.PublicAccount, error) {
	accounts, err := srv.accountRepo.List(ctx)
	if err != nil {
		return nil, srv.internalError(ctx, err, "failed to list accounts")
	}

	views := make([]*entity.PublicAccount, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, account.Listing())
	}

	return views, nil
}

// GetAccount returns one account without credentials.
func (srv *accountService) GetAccount(ctx context.Context, id uuid.UUID) (*entity.PublicAccount, error) {
	account, err := srv.accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("no account for id")
		}

		return nil, srv.internalError(ctx, err, "failed to load account")
	}

	return account.Listing(), nil
}

func (srv *accountService) validateInput(input any, password string) error {
	if err := srv.validate.Struct(input); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}
	if len(password) > maxPasswordBytes {
		return domainerrors.ErrValidationFailed.WrapMessage("password longer than 72 bytes")
	}

	return nil
}

func (srv *accountService) issueToken(ctx context.Context, accountID uuid.UUID) (string, error) {
	var token string
	err := srv.pool.Do(ctx, func() error {
		var issueErr error
		token, issueErr = srv.tokenService.Issue(accountID)

		return issueErr
	})

	return token, err
}

// publishRegistered announces the new account. Failures are logged and never reach the caller.
func (srv *accountService) publishRegistered(ctx context.Context, account *entity.Account) {
	if srv.publisher == nil {
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	event := &service.AccountEvent{
		ID:         uuid.NewString(),
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       service.AccountRegistered,
		AccountID:  account.ID.String(),
		Email:      account.Email,
		Company:    account.Company,
		OccurredAt: account.CreatedAt,
	}
	if err := srv.publisher.PublishAccountEvent(publishCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account event",
			slog.String("accountID", event.AccountID),
			slog.String("eventType", string(event.Type)),
			slog.Any("error", err),
		)
	}
}

// internalError logs the cause and returns the generic server error.
func (srv *accountService) internalError(ctx context.Context, err error, msg string) error {
	srv.log(ctx).Error(msg, slog.Any("error", err))

	return domainerrors.ErrInternalError.WrapMessage(msg)
}
