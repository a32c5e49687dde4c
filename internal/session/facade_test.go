package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"server/internal/domain"
)

// ---- fakes ----

// fakeProvider simulates the remote identity provider. Session-change
// notifications are fired explicitly by the test via signalChange, so a
// test controls ordering relative to the originating call.
type fakeProvider struct {
	mu        sync.Mutex
	listeners []func(*domain.Identity)

	createErr  error
	verifyErr  error
	endErr     error
	resetErr   error
	displayErr error

	created      []domain.Identity
	displayNames map[string]string
	resetEmails  []string
	endCalls     int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{displayNames: make(map[string]string)}
}

func (p *fakeProvider) CreateAccount(_ context.Context, email, _ string) (*domain.Identity, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	id := domain.Identity{ID: "acct-" + email, Email: email}
	p.mu.Lock()
	p.created = append(p.created, id)
	p.mu.Unlock()
	return &id, nil
}

func (p *fakeProvider) VerifyCredential(_ context.Context, email, _ string) (*domain.Identity, error) {
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	return &domain.Identity{ID: "acct-" + email, Email: email}, nil
}

func (p *fakeProvider) EndSession(context.Context) error {
	p.mu.Lock()
	p.endCalls++
	p.mu.Unlock()
	return p.endErr
}

func (p *fakeProvider) SendPasswordReset(_ context.Context, email string) error {
	if p.resetErr != nil {
		return p.resetErr
	}
	p.mu.Lock()
	p.resetEmails = append(p.resetEmails, email)
	p.mu.Unlock()
	return nil
}

func (p *fakeProvider) SetDisplayName(_ context.Context, id, name string) error {
	if p.displayErr != nil {
		return p.displayErr
	}
	p.mu.Lock()
	p.displayNames[id] = name
	p.mu.Unlock()
	return nil
}

func (p *fakeProvider) OnSessionChange(fn func(*domain.Identity)) Unsubscribe {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
	return func() {}
}

func (p *fakeProvider) signalChange(identity *domain.Identity) {
	p.mu.Lock()
	listeners := append([]func(*domain.Identity){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn(identity)
	}
}

// fakeProfiles simulates the remote document store.
type fakeProfiles struct {
	mu       sync.Mutex
	records  map[string]domain.ProfileRecord
	writeErr error
	readErr  error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{records: make(map[string]domain.ProfileRecord)}
}

func (s *fakeProfiles) WriteProfile(_ context.Context, record *domain.ProfileRecord) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.mu.Lock()
	s.records[record.ID] = *record
	s.mu.Unlock()
	return nil
}

func (s *fakeProfiles) ReadProfile(_ context.Context, id string) (*domain.ProfileRecord, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func newTestFacade(t *testing.T) (*Facade, *Store, *fakeProvider, *fakeProfiles) {
	t.Helper()
	provider := newFakeProvider()
	profiles := newFakeProfiles()
	store := NewStore()
	f := NewFacade(provider, profiles, store, zerolog.Nop())
	f.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	f.Start()
	t.Cleanup(f.Close)
	return f, store, provider, profiles
}

// ---- tests ----

func TestSignupWritesTrialProfileAndMergesSession(t *testing.T) {
	f, store, provider, profiles := newTestFacade(t)
	ctx := context.Background()

	identity, err := f.Signup(ctx, "joe@example.com", "secret1", ProfileFields{
		BusinessName: "Joe's Cafe",
		Phone:        "555-0100",
		BusinessType: domain.BusinessTypeCafe,
	})
	require.NoError(t, err)
	require.Equal(t, "Joe's Cafe", identity.DisplayName)
	require.Equal(t, "Joe's Cafe", provider.displayNames[identity.ID])

	written, ok := profiles.records[identity.ID]
	require.True(t, ok, "profile record must be written at signup")
	require.Equal(t, domain.BusinessTypeCafe, written.BusinessType)
	require.Equal(t, domain.PlanTrial, written.Plan)
	require.Equal(t, domain.TrialWindow, written.TrialEnd.Sub(written.TrialStart))
	require.Equal(t, 30*24*time.Hour, written.TrialEnd.Sub(written.TrialStart))

	// Session stays untouched until the provider notification fires.
	state, _ := store.Current()
	require.Equal(t, StateInitializing, state)

	provider.signalChange(identity)

	state, sess := store.Current()
	require.Equal(t, StateAuthenticated, state)
	require.True(t, sess.HasProfile)
	require.Equal(t, "Joe's Cafe", sess.Profile.BusinessName)
	require.Equal(t, "555-0100", sess.Profile.Phone)
	require.Equal(t, domain.BusinessTypeCafe, sess.Profile.BusinessType)
}

func TestSignupNormalizesEmail(t *testing.T) {
	f, _, provider, _ := newTestFacade(t)

	identity, err := f.Signup(context.Background(), "  joe@example.com  ", "secret1", ProfileFields{
		BusinessName: "Joe's Cafe",
	})
	require.NoError(t, err)
	require.Equal(t, "joe@example.com", identity.Email)
	require.Len(t, provider.created, 1)
	require.Equal(t, "joe@example.com", provider.created[0].Email, "provider must receive the trimmed address")
}

func TestSignupValidationStaysOutOfErrorSlot(t *testing.T) {
	f, store, _, profiles := newTestFacade(t)
	ctx := context.Background()

	_, err := f.Signup(ctx, "joe@example.com", "12345", ProfileFields{BusinessName: "Joe's Cafe"})
	require.ErrorIs(t, err, domain.ErrWeakPassword)
	require.Empty(t, store.LastError(), "validation errors are handled by the form, not the error slot")

	_, err = f.Signup(ctx, "not-an-email", "secret1", ProfileFields{BusinessName: "Joe's Cafe"})
	require.ErrorIs(t, err, domain.ErrInvalidEmail)
	require.Empty(t, profiles.records, "no profile may be written for a rejected signup")
}

func TestSignupProviderFailureWritesNoProfile(t *testing.T) {
	f, store, provider, profiles := newTestFacade(t)
	provider.createErr = domain.ErrEmailInUse

	_, err := f.Signup(context.Background(), "joe@example.com", "secret1", ProfileFields{BusinessName: "Joe's Cafe"})
	require.ErrorIs(t, err, domain.ErrEmailInUse)
	require.Equal(t, domain.ErrEmailInUse.Error(), store.LastError())
	require.Empty(t, profiles.records)
}

func TestFailedLoginLeavesSessionUnchanged(t *testing.T) {
	f, store, provider, _ := newTestFacade(t)
	provider.signalChange(nil)

	provider.verifyErr = domain.ErrUnknownAccount
	_, err := f.Login(context.Background(), "ghost@example.com", "secret1")
	require.ErrorIs(t, err, domain.ErrUnknownAccount)

	state, sess := store.Current()
	require.Equal(t, StateAnonymous, state)
	require.Nil(t, sess)
	require.NotEmpty(t, store.LastError())
}

func TestLogoutWhenAnonymousIsIdempotent(t *testing.T) {
	f, store, provider, _ := newTestFacade(t)
	provider.signalChange(nil)

	require.NoError(t, f.Logout(context.Background()))
	provider.signalChange(nil)

	state, _ := store.Current()
	require.Equal(t, StateAnonymous, state)
	require.Empty(t, store.LastError())
}

func TestLogoutFailureKeepsSessionAsReported(t *testing.T) {
	f, store, provider, profiles := newTestFacade(t)
	identity := &domain.Identity{ID: "acct-1", Email: "joe@example.com"}
	require.NoError(t, profiles.WriteProfile(context.Background(), &domain.ProfileRecord{ID: "acct-1", BusinessName: "Joe's Cafe"}))
	provider.signalChange(identity)

	provider.endErr = errors.New("network unreachable")
	err := f.Logout(context.Background())
	require.Error(t, err)
	require.Equal(t, "network unreachable", store.LastError())

	// No optimistic clearing: the session stays authenticated.
	state, _ := store.Current()
	require.Equal(t, StateAuthenticated, state)
}

func TestErrorClearedAtStartOfNextOperation(t *testing.T) {
	f, store, provider, _ := newTestFacade(t)
	provider.signalChange(nil)

	provider.verifyErr = domain.ErrInvalidCredential
	_, err := f.Login(context.Background(), "joe@example.com", "wrong")
	require.Error(t, err)
	require.NotEmpty(t, store.LastError())

	provider.verifyErr = nil
	_, err = f.Login(context.Background(), "joe@example.com", "secret1")
	require.NoError(t, err)
	require.Empty(t, store.LastError())
}

func TestPendingProfileRetriedOnNotification(t *testing.T) {
	f, store, provider, profiles := newTestFacade(t)

	profiles.writeErr = errors.New("store unavailable")
	_, err := f.Signup(context.Background(), "joe@example.com", "secret1", ProfileFields{
		BusinessName: "Joe's Cafe",
		Phone:        "555-0100",
		BusinessType: domain.BusinessTypeCafe,
	})
	require.Error(t, err)
	require.Empty(t, profiles.records)

	// The identity exists without a profile. Once the store recovers
	// and the provider notification arrives, the pending record is
	// written and merged.
	profiles.writeErr = nil
	provider.signalChange(&domain.Identity{ID: "acct-joe@example.com", Email: "joe@example.com"})

	state, sess := store.Current()
	require.Equal(t, StateAuthenticated, state)
	require.True(t, sess.HasProfile)
	require.Equal(t, "Joe's Cafe", sess.Profile.BusinessName)
	require.Contains(t, profiles.records, "acct-joe@example.com")
}

func TestAuthenticatedWithoutProfileIsValid(t *testing.T) {
	_, store, provider, _ := newTestFacade(t)

	provider.signalChange(&domain.Identity{ID: "acct-1", Email: "joe@example.com"})

	state, sess := store.Current()
	require.Equal(t, StateAuthenticated, state)
	require.False(t, sess.HasProfile)
	require.Equal(t, "joe@example.com", sess.Identity.Email)
}

func TestProfileAbsenceIsNotAnError(t *testing.T) {
	f, _, _, _ := newTestFacade(t)

	record, err := f.Profile(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, record)
}

func TestResetPasswordDoesNotTouchSession(t *testing.T) {
	f, store, provider, _ := newTestFacade(t)
	provider.signalChange(nil)

	require.NoError(t, f.ResetPassword(context.Background(), "joe@example.com"))
	require.Equal(t, []string{"joe@example.com"}, provider.resetEmails)

	state, _ := store.Current()
	require.Equal(t, StateAnonymous, state)
}

func TestMergeSession(t *testing.T) {
	identity := domain.Identity{ID: "acct-1", Email: "joe@example.com", DisplayName: "Joe's Cafe"}

	merged := mergeSession(identity, nil)
	require.False(t, merged.HasProfile)
	require.Equal(t, identity, merged.Identity)

	profile := domain.ProfileRecord{ID: "acct-1", BusinessName: "Joe's Cafe", Plan: domain.PlanTrial}
	merged = mergeSession(identity, &profile)
	require.True(t, merged.HasProfile)
	require.Equal(t, profile, merged.Profile)
}
