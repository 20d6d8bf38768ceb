package domain

// Account is a locally registered user. The ID is an e-mail address and also
// the lookup key; the credential is compared verbatim on sign-in.
type Account struct {
	ID         string `json:"id"`
	Credential string `json:"password"`
}

// SessionState is the credential store's state machine position.
type SessionState int

const (
	StateAnonymous SessionState = iota
	StateAuthenticated
)

// String returns the state name
func (s SessionState) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session is derived from the credential store, never stored on its own.
// Authenticated implies AccountID names an existing account.
type Session struct {
	AccountID     string
	Authenticated bool
}

// State returns the state machine position for the session
func (s Session) State() SessionState {
	if s.Authenticated {
		return StateAuthenticated
	}
	return StateAnonymous
}
