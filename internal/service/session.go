package service

import "github.com/mmcdole/marquee/internal/account"

// SessionService manages user session operations
type SessionService struct {
	accounts *account.Store
	catalog  *CatalogService
}

// NewSessionService creates a new SessionService
func NewSessionService(accounts *account.Store, catalog *CatalogService) *SessionService {
	return &SessionService{accounts: accounts, catalog: catalog}
}

// Logout returns to anonymous and drops in-memory catalog responses, which
// were fetched with the signed-out account's credential.
func (s *SessionService) Logout() {
	s.accounts.SignOut()
	if s.catalog != nil {
		s.catalog.InvalidateAll()
	}
}
