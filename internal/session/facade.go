package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/validate"
)

// Unsubscribe cancels a session-change subscription.
type Unsubscribe func()

// IdentityProvider is the capability the facade needs from the remote
// identity service.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error)
	VerifyCredential(ctx context.Context, email, password string) (*domain.Identity, error)
	EndSession(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
	SetDisplayName(ctx context.Context, id, name string) error

	// OnSessionChange registers a listener invoked once after
	// registration and again on every credential change. A nil identity
	// means no active credential.
	OnSessionChange(fn func(identity *domain.Identity)) Unsubscribe
}

// ProfileStore is the capability the facade needs from the remote
// document store. ReadProfile reports absence as domain.ErrNotFound.
type ProfileStore interface {
	WriteProfile(ctx context.Context, record *domain.ProfileRecord) error
	ReadProfile(ctx context.Context, id string) (*domain.ProfileRecord, error)
}

// ProfileFields carries the business data submitted at signup.
type ProfileFields struct {
	BusinessName string
	Phone        string
	BusinessType domain.BusinessType
}

// Facade is the single point of mutation for the session store. All
// remote-call failures land in the store's error slot and are returned
// to the caller; the session itself changes only from the provider's
// session-change notification.
type Facade struct {
	provider IdentityProvider
	profiles ProfileStore
	store    *Store
	logger   zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending *domain.ProfileRecord
	unsub   Unsubscribe
}

// NewFacade wires the facade to its collaborators. Call Start to begin
// mirroring provider session state into the store.
func NewFacade(provider IdentityProvider, profiles ProfileStore, store *Store, logger zerolog.Logger) *Facade {
	return &Facade{
		provider: provider,
		profiles: profiles,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Start subscribes to the provider's session notifications. The provider
// fires the listener once on subscription, which moves the store out of
// Initializing.
func (f *Facade) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unsub != nil {
		return
	}
	f.unsub = f.provider.OnSessionChange(f.handleSessionChange)
}

// Close cancels the session subscription.
func (f *Facade) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unsub != nil {
		f.unsub()
		f.unsub = nil
	}
}

// Signup creates an account, names it after the business, and writes the
// trial profile. The returned identity is valid immediately; the session
// itself follows once the provider notification fires.
func (f *Facade) Signup(ctx context.Context, email, password string, fields ProfileFields) (*domain.Identity, error) {
	f.store.clearError()

	// Validation failures stay out of the store's error slot; forms
	// surface them per field before any remote call.
	email, err := validate.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validate.Password(password); err != nil {
		return nil, err
	}

	identity, err := f.provider.CreateAccount(ctx, email, password)
	if err != nil {
		f.store.setError(err.Error())
		return nil, err
	}

	// Stage the trial profile before the remaining provider calls. The
	// provider may fire session notifications during them, and the
	// session-change handler writes a staged record it finds missing.
	record := domain.NewTrialProfile(identity.ID, fields.BusinessName, fields.Phone, fields.BusinessType, f.now())
	f.mu.Lock()
	f.pending = &record
	f.mu.Unlock()

	if err := f.provider.SetDisplayName(ctx, identity.ID, fields.BusinessName); err != nil {
		f.store.setError(err.Error())
		return nil, err
	}
	identity.DisplayName = fields.BusinessName

	f.mu.Lock()
	pending := f.pending
	f.mu.Unlock()
	if pending != nil {
		if err := f.profiles.WriteProfile(ctx, pending); err != nil {
			// The identity exists without a profile. The record stays
			// staged so the session-change handler can retry the write.
			f.store.setError(err.Error())
			return nil, err
		}
		f.mu.Lock()
		if f.pending == pending {
			f.pending = nil
		}
		f.mu.Unlock()
	}

	return identity, nil
}

// Login verifies the credential with the provider. No session state is
// touched here; the provider notification is authoritative.
func (f *Facade) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	f.store.clearError()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredential
	}

	identity, err := f.provider.VerifyCredential(ctx, email, password)
	if err != nil {
		f.store.setError(err.Error())
		return nil, err
	}
	return identity, nil
}

// Logout asks the provider to end the session. The store transitions to
// Anonymous only once the provider notification confirms it; there is no
// optimistic clearing.
func (f *Facade) Logout(ctx context.Context) error {
	f.store.clearError()
	if err := f.provider.EndSession(ctx); err != nil {
		f.store.setError(err.Error())
		return err
	}
	return nil
}

// ResetPassword requests a password-reset message for the email.
func (f *Facade) ResetPassword(ctx context.Context, email string) error {
	f.store.clearError()
	email, err := validate.NormalizeEmail(email)
	if err != nil {
		return err
	}
	if err := f.provider.SendPasswordReset(ctx, email); err != nil {
		f.store.setError(err.Error())
		return err
	}
	return nil
}

// Profile reads the profile record for an identity id. Absence is a
// valid state and returns (nil, nil).
func (f *Facade) Profile(ctx context.Context, id string) (*domain.ProfileRecord, error) {
	record, err := f.profiles.ReadProfile(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// handleSessionChange is the store's only writer. It merges the provider
// notification with the profile lookup and commits the result.
func (f *Facade) handleSessionChange(identity *domain.Identity) {
	if identity == nil {
		f.store.set(StateAnonymous, nil)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := f.profiles.ReadProfile(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			profile = f.recoverPendingProfile(ctx, identity.ID)
		} else {
			f.logger.Error().Err(err).Str("account_id", identity.ID).Msg("profile read failed")
			profile = nil
		}
	}

	merged := mergeSession(*identity, profile)
	f.store.set(StateAuthenticated, &merged)
}

// recoverPendingProfile retries the profile write left behind by a
// signup whose second step failed. Returns the written record, or nil
// when there is nothing to recover.
func (f *Facade) recoverPendingProfile(ctx context.Context, id string) *domain.ProfileRecord {
	f.mu.Lock()
	pending := f.pending
	f.mu.Unlock()

	if pending == nil || pending.ID != id {
		return nil
	}
	if err := f.profiles.WriteProfile(ctx, pending); err != nil {
		f.logger.Error().Err(err).Str("account_id", id).Msg("pending profile write failed")
		return nil
	}

	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()
	return pending
}

// mergeSession combines a provider identity with an optional profile
// record into the session projection. Pure function.
func mergeSession(identity domain.Identity, profile *domain.ProfileRecord) Session {
	s := Session{Identity: identity}
	if profile != nil {
		s.Profile = *profile
		s.HasProfile = true
	}
	return s
}
