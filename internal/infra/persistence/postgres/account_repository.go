package postgres

import (
	"context"
	"log/slog"

	"accounts/config"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/lifecycle"
	"accounts/internal/domain/repository"
	"accounts/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// accountRepository implements repository.AccountRepository using GORM.
type accountRepository struct {
	db *gorm.DB
}

// RepositoryParams holds dependencies for the account repository.
type RepositoryParams struct {
	fx.In

	Lc     fx.Lifecycle
	DB     *gorm.DB
	Config *config.Config
	Logger *slog.Logger
}

// NewAccountRepository returns the postgres account store and schedules the schema
// migration to run at startup, after the connection has been verified.
func NewAccountRepository(params RepositoryParams) repository.AccountRepository {
	fields := UniqueFieldsFromConfig(params.Config)

	params.Lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			return Migrate(ctx, params.DB, fields, params.Logger)
		},
	})

	return newAccountRepository(params.DB)
}

func newAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

// UniqueFieldsFromConfig reads which descriptive fields must be unique.
func UniqueFieldsFromConfig(cfg *config.Config) repository.UniqueFields {
	if cfg == nil || cfg.Accounts == nil {
		return repository.UniqueFields{Company: true, Subject: true}
	}

	return repository.UniqueFields{
		Company: cfg.Accounts.UniqueCompany,
		Subject: cfg.Accounts.UniqueSubject,
	}
}

// FindByEmail retrieves a single account by its login email.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// FindByID retrieves a single account by its ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// Create inserts the account in a single statement. The unique indexes make the
// uniqueness check and the insert one atomic step.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM, err := fromAccountDomain(account)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if dupErr := asDuplicateKey(err); dupErr != nil {
			return dupErr
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// List returns every account, oldest first.
func (repo *accountRepository) List(ctx context.Context) ([]*entity.Account, error) {
	var accountMs []*model.AccountModel
	err := repo.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&accountMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountMs))
	for _, accountM := range accountMs {
		accounts = append(accounts, toAccountDomain(accountM))
	}

	return accounts, nil
}

func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:             data.ID,
		Name:           data.Name,
		Email:          data.Email,
		Company:        data.Company,
		Subject:        data.Subject,
		CredentialHash: data.CredentialHash,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromAccountDomain builds the insert model, assigning a time-ordered ID when the
// entity has none.
func fromAccountDomain(data *entity.Account) (*model.AccountModel, error) {
	id := data.ID
	if id == uuid.Nil {
		generated, err := uuid.NewV7()
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate account id")
		}
		id = generated
	}

	return &model.AccountModel{
		ID:             id,
		Name:           data.Name,
		Email:          data.Email,
		Company:        data.Company,
		Subject:        data.Subject,
		CredentialHash: data.CredentialHash,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}, nil
}
