package session

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"server/internal/domain"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Decision
	}{
		{"initializing waits", StateInitializing, DecisionWait},
		{"anonymous redirects", StateAnonymous, DecisionRedirect},
		{"authenticated allows", StateAuthenticated, DecisionAllow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Decide(tt.state))
		})
	}
}

// A slow provider startup must keep the guard waiting: protected content
// never renders before the first session notification.
func TestGuardWaitsForSlowProviderStartup(t *testing.T) {
	provider := newFakeProvider()
	profiles := newFakeProfiles()
	store := NewStore()
	guard := NewGuard(store)

	f := NewFacade(provider, profiles, store, zerolog.Nop())
	f.Start()
	defer f.Close()

	// Subscribed, but the provider has not fired its first callback.
	require.Equal(t, DecisionWait, guard.Decide())

	provider.signalChange(nil)
	require.Equal(t, DecisionRedirect, guard.Decide())

	provider.signalChange(&domain.Identity{ID: "acct-1", Email: "joe@example.com"})
	require.Equal(t, DecisionAllow, guard.Decide())

	provider.signalChange(nil)
	require.Equal(t, DecisionRedirect, guard.Decide())
}
