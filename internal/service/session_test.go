package service

import (
	"context"
	"testing"

	"github.com/mmcdole/marquee/internal/account"
	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_LogoutSignsOutAndDropsResponses(t *testing.T) {
	client := &fakeCatalog{items: []domain.CatalogItem{{ID: 1, Title: "A"}}}
	catalog, kv, _ := setupCatalog(t, client)
	accounts := account.NewStore(kv, adapter.NullLogger())

	require.NoError(t, accounts.SignUp("kim@example.com", "key", "key", true))
	require.NoError(t, accounts.SignIn("kim@example.com", "key", true))

	_, err := catalog.List(context.Background(), domain.EndpointPopular, 1)
	require.NoError(t, err)

	NewSessionService(accounts, catalog).Logout()

	assert.False(t, accounts.Session().Authenticated)
	assert.Len(t, accounts.Accounts(), 1, "accounts survive sign-out")

	_, err = catalog.List(context.Background(), domain.EndpointPopular, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), client.listCalls.Load(), "cached page was dropped")
}
