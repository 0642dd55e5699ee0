package session

import (
	"strings"
)

const roleSuperAdmin = "Super Administrator"

// Allowed symbol set for the password complexity policy.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidationError reports a rejected credential mutation. The message is
// surfaced verbatim to the operator.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError is returned on login failure. The message is deliberately generic:
// it never reveals which field was wrong.
type AuthError struct{}

func (e *AuthError) Error() string {
	return "Identifiants invalides."
}

// Session is an in-memory authenticated operator session.
type Session struct {
	Username string
	Role     string
}

// Manager gates the console behind a login check and owns identity mutations.
// Single operator, single writer; no locking discipline needed.
type Manager struct {
	store   *Store
	session *Session
}

// NewManager creates a manager over the given credential store.
func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

// Login establishes a session iff both fields exactly match the stored
// credentials. Any mismatch yields the same generic error.
func (m *Manager) Login(username, password string) (*Session, error) {
	creds := m.store.Credentials()
	if username != creds.AdminUsername || password != creds.AdminPassword {
		return nil, &AuthError{}
	}

	m.session = &Session{
		Username: creds.AdminUsername,
		Role:     roleSuperAdmin,
	}
	return m.session, nil
}

// Logout clears the active session. Callers are expected to confirm with the
// operator first; the console never invokes this without a confirmed prompt.
func (m *Manager) Logout() {
	m.session = nil
}

// Current returns the active session, or nil when logged out.
func (m *Manager) Current() *Session {
	return m.session
}

// LoggedIn reports whether an operator session is active.
func (m *Manager) LoggedIn() bool {
	return m.session != nil
}

// UpdateUsername validates and persists a new admin username, updating the
// active session's displayed identity in the same step.
func (m *Manager) UpdateUsername(candidate string) error {
	trimmed := strings.TrimSpace(candidate)
	if len([]rune(trimmed)) < 3 {
		return &ValidationError{Message: "L'utilisateur doit faire au moins 3 caractères."}
	}

	if err := m.store.SetUsername(trimmed); err != nil {
		return err
	}

	if m.session != nil {
		m.session.Username = trimmed
	}
	return nil
}

// UpdatePassword validates the candidate against the complexity policy and
// persists it.
func (m *Manager) UpdatePassword(candidate string) error {
	if !passwordMeetsPolicy(candidate) {
		return &ValidationError{Message: "Critères : Min. 8 caractères, incluant lettres, chiffres et symboles."}
	}

	return m.store.SetPassword(candidate)
}

// SaveAPIKey validates and persists the API key. The key is held for future
// use; it is never checked against the issuance service here.
func (m *Manager) SaveAPIKey(candidate string) error {
	if len(candidate) < 32 {
		return &ValidationError{Message: "La clé API doit contenir au moins 32 caractères."}
	}

	return m.store.SetAPIKey(candidate)
}

// passwordMeetsPolicy checks: length >= 8, at least one ASCII letter, one
// digit, and one symbol from the allowed set.
func passwordMeetsPolicy(p string) bool {
	if len(p) < 8 {
		return false
	}

	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range p {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	return hasLetter && hasDigit && hasSymbol
}
