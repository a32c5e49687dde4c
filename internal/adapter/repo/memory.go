package repo

import (
	"context"
	"strings"
	"sync"

	"server/internal/domain"
)

// MemoryAccountRepository is an in-memory domain.AccountRepository used by
// tests and by the API server when no database is configured.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	resets   map[string]domain.PasswordReset
}

// NewMemoryAccountRepository creates an empty in-memory account store.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[string]domain.Account),
		resets:   make(map[string]domain.PasswordReset),
	}
}

func (r *MemoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return domain.ErrEmailInUse
		}
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *MemoryAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			acc := a
			return &acc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryAccountRepository) UpdateDisplayName(_ context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.DisplayName = name
	r.accounts[id] = a
	return nil
}

func (r *MemoryAccountRepository) CreatePasswordReset(_ context.Context, reset *domain.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets[reset.Token] = *reset
	return nil
}

// MemoryProfileRepository is an in-memory domain.ProfileRepository.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.ProfileRecord
}

// NewMemoryProfileRepository creates an empty in-memory profile store.
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{profiles: make(map[string]domain.ProfileRecord)}
}

func (r *MemoryProfileRepository) Put(_ context.Context, record *domain.ProfileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[record.ID] = *record
	return nil
}

func (r *MemoryProfileRepository) GetByID(_ context.Context, id string) (*domain.ProfileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}
