// Package service defines interfaces for stateless domain capabilities.
// Implementations live under internal/infra and are injected by Fx.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (bcrypt), keeping the usecases pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	// It fails only when the password cannot be hashed at all.
	Hash(password string) (string, error)

	// Check reports whether password matches hash. It never returns an error;
	// a malformed hash is simply a mismatch.
	Check(password, hash string) bool
}
