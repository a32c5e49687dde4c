package session

// Decision is the route guard's verdict for a protected view.
type Decision int

const (
	// DecisionWait renders a waiting indicator and nothing else.
	DecisionWait Decision = iota
	// DecisionAllow renders the requested protected view.
	DecisionAllow
	// DecisionRedirect sends the visitor to the public entry view.
	DecisionRedirect
)

// Decide maps a session state to a guard decision. Pure function, no
// side effects beyond the caller's navigation.
func Decide(state State) Decision {
	switch state {
	case StateInitializing:
		return DecisionWait
	case StateAuthenticated:
		return DecisionAllow
	default:
		return DecisionRedirect
	}
}

// Guard gates navigation to protected views based on the session store.
type Guard struct {
	store *Store
}

// NewGuard binds a guard to the session store.
func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Decide returns the verdict for the store's current state.
func (g *Guard) Decide() Decision {
	state, _ := g.store.Current()
	return Decide(state)
}
