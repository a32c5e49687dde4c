package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// ProfileRepositoryPG implements domain.ProfileRepository backed by PostgreSQL.
type ProfileRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepositoryPG.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{pool: pool}
}

// Put writes the profile record keyed by account id. Writing the same id
// again replaces the record, so a retried signup write stays idempotent.
func (r *ProfileRepositoryPG) Put(ctx context.Context, record *domain.ProfileRecord) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO profiles (id, business_name, phone, business_type, plan, created_at, trial_start, trial_end)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE
SET business_name = EXCLUDED.business_name,
    phone = EXCLUDED.phone,
    business_type = EXCLUDED.business_type,
    plan = EXCLUDED.plan;
`,
		record.ID,
		record.BusinessName,
		record.Phone,
		string(record.BusinessType),
		record.Plan,
		record.CreatedAt,
		record.TrialStart,
		record.TrialEnd,
	)
	return err
}

// GetByID fetches the profile for an account id.
func (r *ProfileRepositoryPG) GetByID(ctx context.Context, id string) (*domain.ProfileRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, business_name, phone, business_type, plan, created_at, trial_start, trial_end FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func scanProfile(row pgx.Row) (*domain.ProfileRecord, error) {
	var p domain.ProfileRecord
	var businessType string
	if err := row.Scan(&p.ID, &p.BusinessName, &p.Phone, &businessType, &p.Plan, &p.CreatedAt, &p.TrialStart, &p.TrialEnd); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.BusinessType = domain.BusinessType(businessType)
	return &p, nil
}
