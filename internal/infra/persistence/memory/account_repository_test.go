package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"accounts/config"
	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(email, company, subject string) *entity.Account {
	return &entity.Account{
		Name:           "Ada",
		Email:          email,
		Company:        company,
		Subject:        subject,
		CredentialHash: "hash",
	}
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepositoryWithFields(repository.UniqueFields{Company: true, Subject: true})

	account := newAccount("ada@x.com", "Acme", "billing")
	require.NoError(t, repo.Create(ctx, account))
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.False(t, account.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "ada@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.CredentialHash)

	byID, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", byID.Email)
}

func TestAccountRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(nil)

	_, err := repo.FindByEmail(ctx, "ghost@x.com")
	assert.True(t, errors.Is(err, repository.ErrAccountNotFound))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, repository.ErrAccountNotFound))
}

func TestAccountRepository_Uniqueness(t *testing.T) {
	tests := []struct {
		name      string
		fields    repository.UniqueFields
		second    *entity.Account
		wantField string
	}{
		{
			name:      "duplicate email",
			fields:    repository.UniqueFields{},
			second:    newAccount("ada@x.com", "Other", "other"),
			wantField: repository.FieldEmail,
		},
		{
			name:      "duplicate company",
			fields:    repository.UniqueFields{Company: true, Subject: true},
			second:    newAccount("bob@x.com", "Acme", "other"),
			wantField: repository.FieldCompany,
		},
		{
			name:      "duplicate subject",
			fields:    repository.UniqueFields{Company: true, Subject: true},
			second:    newAccount("bob@x.com", "Other", "billing"),
			wantField: repository.FieldSubject,
		},
		{
			name:   "company uniqueness disabled",
			fields: repository.UniqueFields{Subject: true},
			second: newAccount("bob@x.com", "Acme", "other"),
		},
		{
			name:   "both disabled",
			fields: repository.UniqueFields{},
			second: newAccount("bob@x.com", "Acme", "billing"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewAccountRepositoryWithFields(tt.fields)
			require.NoError(t, repo.Create(ctx, newAccount("ada@x.com", "Acme", "billing")))

			err := repo.Create(ctx, tt.second)
			accounts, listErr := repo.List(ctx)
			require.NoError(t, listErr)

			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Len(t, accounts, 2)

				return
			}

			var dupErr *repository.DuplicateKeyError
			require.True(t, errors.As(err, &dupErr))
			assert.Equal(t, tt.wantField, dupErr.Field)
			assert.True(t, errors.Is(err, repository.ErrDuplicateKey))
			assert.Len(t, accounts, 1, "a failed create must not change the store")
			assert.Equal(t, uuid.Nil, tt.second.ID)
		})
	}
}

func TestNewAccountRepository_FromConfig(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(&config.Config{Accounts: &config.AccountsConfig{UniqueCompany: false, UniqueSubject: false}})

	require.NoError(t, repo.Create(ctx, newAccount("ada@x.com", "Acme", "billing")))
	require.NoError(t, repo.Create(ctx, newAccount("bob@x.com", "Acme", "billing")))
}

func TestAccountRepository_ListOrderAndIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepositoryWithFields(repository.UniqueFields{})

	for i := range 5 {
		require.NoError(t, repo.Create(ctx, newAccount(fmt.Sprintf("user%d@x.com", i), "Acme", "billing")))
	}

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 5)
	for i, account := range accounts {
		assert.Equal(t, fmt.Sprintf("user%d@x.com", i), account.Email)
	}

	accounts[0].Email = "mutated@x.com"
	_, err = repo.FindByEmail(ctx, "user0@x.com")
	assert.NoError(t, err)
}

func TestAccountRepository_ConcurrentDuplicateCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepositoryWithFields(repository.UniqueFields{Company: true, Subject: true})

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, newAccount("ada@x.com", fmt.Sprintf("Acme%d", i), fmt.Sprintf("s%d", i)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, repository.ErrDuplicateKey):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestAccountRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewAccountRepository(nil)

	assert.Error(t, repo.Create(ctx, newAccount("ada@x.com", "Acme", "billing")))
	_, err := repo.FindByEmail(ctx, "ada@x.com")
	assert.True(t, errors.Is(err, context.Canceled))
}
