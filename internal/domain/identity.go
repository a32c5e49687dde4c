package domain

import "time"

// Identity represents an account as issued by the identity provider.
// The ID is immutable once created.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
}

// Account is the provider-side record backing an Identity. The password
// hash never leaves the identity service.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity projects the public part of the account.
func (a Account) Identity() Identity {
	return Identity{ID: a.ID, Email: a.Email, DisplayName: a.DisplayName}
}

// PasswordReset is an outstanding password-reset request.
type PasswordReset struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
}
