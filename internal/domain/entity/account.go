// Package entity contains the core business objects of the accounts service.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is one registered user. It is the internal record and carries the
// credential hash, so it must never be serialized to a client directly.
type Account struct {
	ID             uuid.UUID // Assigned by the store on creation. Immutable.
	Name           string    // Display name.
	Email          string    // Login key, unique across all accounts.
	Company        string
	Subject        string
	CredentialHash string // Output of the password hasher.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicAccount is the client-facing view of an Account. It has no credential field.
type PublicAccount struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Subject   string    `json:"subject,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Public returns the view returned by sign-up and sign-in: id, name, email and company.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:      a.ID,
		Name:    a.Name,
		Email:   a.Email,
		Company: a.Company,
	}
}

// Listing returns the view used by account listings, which also includes the
// subject and the creation time.
func (a *Account) Listing() *PublicAccount {
	view := a.Public()
	view.Subject = a.Subject
	view.CreatedAt = a.CreatedAt

	return view
}
