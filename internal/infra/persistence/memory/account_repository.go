// Package memory provides an in-process account store for development and tests.
// Data does not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"accounts/config"
	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// accountRepository keeps accounts in maps guarded by one lock. Create holds the write
// lock across the uniqueness check and the insert.
type accountRepository struct {
	mu     sync.RWMutex
	fields repository.UniqueFields
	now    func() time.Time

	byID      map[uuid.UUID]*entity.Account
	byEmail   map[string]uuid.UUID
	byCompany map[string]uuid.UUID
	bySubject map[string]uuid.UUID
	order     []uuid.UUID
}

// NewAccountRepository returns a store enforcing the uniqueness rules from config.
func NewAccountRepository(cfg *config.Config) repository.AccountRepository {
	fields := repository.UniqueFields{Company: true, Subject: true}
	if cfg != nil && cfg.Accounts != nil {
		fields = repository.UniqueFields{
			Company: cfg.Accounts.UniqueCompany,
			Subject: cfg.Accounts.UniqueSubject,
		}
	}

	return NewAccountRepositoryWithFields(fields)
}

// NewAccountRepositoryWithFields returns a store enforcing the given uniqueness rules.
func NewAccountRepositoryWithFields(fields repository.UniqueFields) repository.AccountRepository {
	return &accountRepository{
		fields:    fields,
		now:       time.Now,
		byID:      make(map[uuid.UUID]*entity.Account),
		byEmail:   make(map[string]uuid.UUID),
		byCompany: make(map[string]uuid.UUID),
		bySubject: make(map[string]uuid.UUID),
	}
}

func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[email]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(repo.byID[id]), nil
}

func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	account, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(account), nil
}

func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "failed to generate account id")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if field := repo.conflict(account); field != "" {
		return &repository.DuplicateKeyError{Field: field}
	}

	now := repo.now()
	stored := cloneAccount(account)
	stored.ID = id
	stored.CreatedAt = now
	stored.UpdatedAt = now

	repo.byID[id] = stored
	repo.byEmail[stored.Email] = id
	if repo.fields.Company {
		repo.byCompany[stored.Company] = id
	}
	if repo.fields.Subject {
		repo.bySubject[stored.Subject] = id
	}
	repo.order = append(repo.order, id)

	account.ID = id
	account.CreatedAt = now
	account.UpdatedAt = now

	return nil
}

// conflict returns the first unique field the account collides on. Caller holds the lock.
func (repo *accountRepository) conflict(account *entity.Account) string {
	if _, ok := repo.byEmail[account.Email]; ok {
		return repository.FieldEmail
	}
	if _, ok := repo.byCompany[account.Company]; ok && repo.fields.Company {
		return repository.FieldCompany
	}
	if _, ok := repo.bySubject[account.Subject]; ok && repo.fields.Subject {
		return repository.FieldSubject
	}

	return ""
}

// List returns accounts in insertion order, which is creation order.
func (repo *accountRepository) List(ctx context.Context) ([]*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	accounts := make([]*entity.Account, 0, len(repo.order))
	for _, id := range repo.order {
		accounts = append(accounts, cloneAccount(repo.byID[id]))
	}

	return accounts, nil
}

// cloneAccount keeps callers from mutating stored records.
func cloneAccount(account *entity.Account) *entity.Account {
	cloned := *account

	return &cloned
}
