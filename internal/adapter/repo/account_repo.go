package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// AccountRepositoryPG implements domain.AccountRepository backed by PostgreSQL.
type AccountRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepositoryPG.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepositoryPG {
	return &AccountRepositoryPG{pool: pool}
}

// Create inserts a new account. A duplicate email maps to domain.ErrEmailInUse.
func (r *AccountRepositoryPG) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO accounts (id, email, display_name, password_hash)
VALUES ($1, $2, $3, $4);
`, account.ID, account.Email, account.DisplayName, account.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrEmailInUse
		}
		return err
	}
	return nil
}

// GetByID fetches an account by UUID.
func (r *AccountRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, display_name, password_hash, created_at, updated_at FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetByEmail fetches an account by e-mail, case-insensitively.
func (r *AccountRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, display_name, password_hash, created_at, updated_at FROM accounts WHERE LOWER(email) = LOWER($1)`, email)
	return scanAccount(row)
}

// UpdateDisplayName sets the public display name on an account.
func (r *AccountRepositoryPG) UpdateDisplayName(ctx context.Context, id, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET display_name = $2, updated_at = NOW() WHERE id = $1`, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreatePasswordReset records an outstanding reset token.
func (r *AccountRepositoryPG) CreatePasswordReset(ctx context.Context, reset *domain.PasswordReset) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO password_resets (token, account_id, expires_at)
VALUES ($1, $2, $3);
`, reset.Token, reset.AccountID, reset.ExpiresAt)
	return err
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
