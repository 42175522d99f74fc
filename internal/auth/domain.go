package auth

import "time"

// User represents an account holder. The ledger engine only ever sees
// the id as an opaque ownership scope.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
