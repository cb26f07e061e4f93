package postgres

import (
	"testing"
	"time"

	"accounts/config"
	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountMapping_RoundTrip(t *testing.T) {
	account := &entity.Account{
		Name:           "Ada",
		Email:          "ada@x.com",
		Company:        "Acme",
		Subject:        "billing",
		CredentialHash: "hash",
	}

	accountM, err := fromAccountDomain(account)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, accountM.ID)
	assert.Equal(t, uuid.Version(7), accountM.ID.Version())

	accountM.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	back := toAccountDomain(accountM)

	assert.Equal(t, accountM.ID, back.ID)
	assert.Equal(t, account.Email, back.Email)
	assert.Equal(t, account.CredentialHash, back.CredentialHash)
	assert.Equal(t, accountM.CreatedAt, back.CreatedAt)
}

func TestAccountMapping_KeepsExistingID(t *testing.T) {
	id := uuid.New()

	accountM, err := fromAccountDomain(&entity.Account{ID: id})
	require.NoError(t, err)
	assert.Equal(t, id, accountM.ID)

	assert.Nil(t, toAccountDomain(nil))
}

func TestUniqueFieldsFromConfig(t *testing.T) {
	assert.Equal(t, repository.UniqueFields{Company: true, Subject: true}, UniqueFieldsFromConfig(nil))
	assert.Equal(t, repository.UniqueFields{Company: true, Subject: true}, UniqueFieldsFromConfig(&config.Config{}))

	cfg := &config.Config{Accounts: &config.AccountsConfig{UniqueCompany: false, UniqueSubject: true}}
	assert.Equal(t, repository.UniqueFields{Company: false, Subject: true}, UniqueFieldsFromConfig(cfg))
}

func TestOptionalIndexes(t *testing.T) {
	indexes := optionalIndexes(repository.UniqueFields{Company: true})

	require.Len(t, indexes, 2)
	assert.Equal(t, "company", indexes[0].column)
	assert.True(t, indexes[0].enabled)
	assert.Equal(t, "subject", indexes[1].column)
	assert.False(t, indexes[1].enabled)
}
