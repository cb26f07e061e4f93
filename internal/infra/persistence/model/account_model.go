// Package model holds the GORM persistence models. They never leave the infra layer;
// repositories map them to domain entities.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Index names. The postgres store maps unique violations back to fields through them.
const (
	AccountEmailIndex   = "idx_accounts_email"
	AccountCompanyIndex = "idx_accounts_company"
	AccountSubjectIndex = "idx_accounts_subject"
)

// AccountModel mirrors the 'accounts' table. IDs are UUIDv7 generated by the application,
// so no database extension is required. The company and subject unique indexes are
// managed by the migration according to configuration.
type AccountModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_email"`
	Company        string    `gorm:"type:varchar(255);not null"`
	Subject        string    `gorm:"type:varchar(255);not null"`
	CredentialHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
