// Package account holds locally registered accounts and the sign-in session.
package account

import (
	"errors"
	"log/slog"
	"regexp"
	"slices"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// User-facing rejection messages
const (
	msgMissingFields  = "이메일과 비밀번호를 입력하세요."
	msgInvalidEmail   = "이메일 형식이 올바르지 않습니다."
	msgMismatch       = "비밀번호가 일치하지 않습니다."
	msgTerms          = "약관에 동의해야 합니다."
	msgDuplicate      = "이미 가입된 이메일입니다."
	msgBadCredentials = "이메일 또는 비밀번호가 올바르지 않습니다."
)

const flagTrue = "true"

// Store is the credential store. It keeps the account collection and the
// session in memory and mirrors every change to durable storage on a best
// effort basis.
type Store struct {
	kv     domain.KeyValueStore
	logger *slog.Logger

	mu            sync.RWMutex
	accounts      []domain.Account
	session       domain.Session
	apiCredential string
}

// NewStore loads the account collection, migrating a legacy single-account
// entry if one is present. The session starts anonymous; call
// RestoreSession to pick up a remembered sign-in.
func NewStore(kv domain.KeyValueStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kv, logger: logger}
	s.accounts = s.loadAccounts()

	if data, err := kv.Get(store.KeyAPICredential); err == nil {
		s.apiCredential = string(data)
	}
	return s
}

func (s *Store) loadAccounts() []domain.Account {
	var accounts []domain.Account
	if err := store.ReadJSON(s.kv, store.KeyUsers, &accounts); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("ignoring unreadable account list", "error", err)
		accounts = nil
	}

	var legacy domain.Account
	err := store.ReadJSON(s.kv, store.KeyLegacyUser, &legacy)
	if errors.Is(err, domain.ErrNotFound) {
		return accounts
	}
	if err != nil || legacy.ID == "" {
		s.logger.Warn("dropping unreadable legacy account", "error", err)
		s.removeLegacy()
		return accounts
	}

	if !slices.ContainsFunc(accounts, func(a domain.Account) bool { return a.ID == legacy.ID }) {
		accounts = append(accounts, legacy)
	}
	if err := store.WriteJSON(s.kv, store.KeyUsers, accounts); err != nil {
		// Keep the legacy key so the next start can retry
		s.logger.Warn("failed to migrate legacy account", "error", err)
		return accounts
	}
	s.removeLegacy()
	s.logger.Info("migrated legacy account", "id", legacy.ID)
	return accounts
}

func (s *Store) removeLegacy() {
	if err := s.kv.Delete(store.KeyLegacyUser); err != nil {
		s.logger.Warn("failed to remove legacy account key", "error", err)
	}
}

// SignUp registers a new account. Checks run in order: missing fields, e-mail
// shape, confirmation, terms, duplicate id; the first failure is returned as
// a *domain.AuthError and nothing changes. On success the session is left
// anonymous and the credential becomes the stored API credential.
func (s *Store) SignUp(id, credential, confirm string, agreed bool) error {
	switch {
	case id == "" || credential == "":
		return &domain.AuthError{Reason: domain.ErrMissingFields, Message: msgMissingFields}
	case !emailPattern.MatchString(id):
		return &domain.AuthError{Reason: domain.ErrInvalidEmail, Message: msgInvalidEmail}
	case credential != confirm:
		return &domain.AuthError{Reason: domain.ErrCredentialMismatch, Message: msgMismatch}
	case !agreed:
		return &domain.AuthError{Reason: domain.ErrTermsNotAccepted, Message: msgTerms}
	}

	s.mu.Lock()
	if s.indexOf(id) >= 0 {
		s.mu.Unlock()
		return &domain.AuthError{Reason: domain.ErrDuplicateAccount, Message: msgDuplicate}
	}
	s.accounts = append(s.accounts, domain.Account{ID: id, Credential: credential})
	s.session = domain.Session{}
	s.apiCredential = credential
	accounts := slices.Clone(s.accounts)
	s.mu.Unlock()

	s.persist(store.WriteJSON(s.kv, store.KeyUsers, accounts), store.KeyUsers)
	s.persist(s.kv.Set(store.KeyAPICredential, []byte(credential)), store.KeyAPICredential)
	s.persist(s.kv.Set(store.KeyLogin, []byte("false")), store.KeyLogin)
	s.persist(s.kv.Delete(store.KeyCurrentUser), store.KeyCurrentUser)

	s.logger.Info("account registered", "id", id)
	return nil
}

// SignIn authenticates by exact id and credential match. Unknown ids and
// wrong credentials share one message; errors.Is tells them apart.
func (s *Store) SignIn(id, credential string, remember bool) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Info("sign-in rejected", "id", id, "reason", domain.ErrNoSuchAccount)
		return &domain.AuthError{Reason: domain.ErrNoSuchAccount, Message: msgBadCredentials}
	}
	if s.accounts[idx].Credential != credential {
		s.mu.Unlock()
		s.logger.Info("sign-in rejected", "id", id, "reason", domain.ErrWrongCredential)
		return &domain.AuthError{Reason: domain.ErrWrongCredential, Message: msgBadCredentials}
	}
	s.session = domain.Session{AccountID: id, Authenticated: true}
	s.apiCredential = credential
	s.mu.Unlock()

	s.persist(s.kv.Set(store.KeyCurrentUser, []byte(id)), store.KeyCurrentUser)
	s.persist(s.kv.Set(store.KeyLogin, []byte(flagTrue)), store.KeyLogin)
	s.persist(s.kv.Set(store.KeyAPICredential, []byte(credential)), store.KeyAPICredential)
	if remember {
		s.persist(s.kv.Set(store.KeyRemember, []byte(flagTrue)), store.KeyRemember)
	} else {
		s.persist(s.kv.Delete(store.KeyRemember), store.KeyRemember)
	}

	s.logger.Info("signed in", "id", id, "remember", remember)
	return nil
}

// SignOut returns to anonymous. Accounts and the remember flag are kept.
func (s *Store) SignOut() {
	s.mu.Lock()
	id := s.session.AccountID
	s.session = domain.Session{}
	s.mu.Unlock()

	s.persist(s.kv.Set(store.KeyLogin, []byte("false")), store.KeyLogin)
	s.persist(s.kv.Delete(store.KeyCurrentUser), store.KeyCurrentUser)
	s.logger.Info("signed out", "id", id)
}

// RestoreSession re-enters the authenticated state when the stored session
// flag is set, the remember flag is present and the current account still
// exists. Missing or unreadable storage leaves the session anonymous.
func (s *Store) RestoreSession() domain.Session {
	login, err := s.kv.Get(store.KeyLogin)
	if err != nil || string(login) != flagTrue {
		return s.Session()
	}
	if _, err := s.kv.Get(store.KeyRemember); err != nil {
		s.logger.Debug("session not remembered")
		return s.Session()
	}
	current, err := s.kv.Get(store.KeyCurrentUser)
	if err != nil || len(current) == 0 {
		return s.Session()
	}
	id := string(current)

	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		s.logger.Warn("stored session names a missing account", "id", id)
		return s.Session()
	}
	s.session = domain.Session{AccountID: id, Authenticated: true}
	restored := s.session
	s.mu.Unlock()

	s.logger.Info("session restored", "id", id)
	return restored
}

// Session returns a snapshot of the current session
func (s *Store) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// CurrentAccount returns the signed-in account
func (s *Store) CurrentAccount() (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.Authenticated {
		return domain.Account{}, false
	}
	idx := s.indexOf(s.session.AccountID)
	if idx < 0 {
		return domain.Account{}, false
	}
	return s.accounts[idx], true
}

// APICredential returns the credential recorded by the last sign-up or
// sign-in. The catalog client uses it when no API key is configured.
func (s *Store) APICredential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiCredential
}

// Accounts returns a snapshot of the registered accounts
func (s *Store) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.accounts)
}

// indexOf must be called with mu held
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.accounts, func(a domain.Account) bool { return a.ID == id })
}

func (s *Store) persist(err error, key string) {
	if err != nil {
		s.logger.Warn("failed to persist account state", "key", key, "error", err)
	}
}
