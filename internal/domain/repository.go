package domain

import "context"

// AccountRepository defines persistence for identity-provider accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdateDisplayName(ctx context.Context, id, name string) error
	CreatePasswordReset(ctx context.Context, reset *PasswordReset) error
}

// ProfileRepository defines persistence for profile records.
// GetByID returns ErrNotFound for an absent profile; callers treat that
// as a normal empty result, not a failure.
type ProfileRepository interface {
	Put(ctx context.Context, record *ProfileRecord) error
	GetByID(ctx context.Context, id string) (*ProfileRecord, error)
}
