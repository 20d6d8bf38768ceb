// Package wishlist keeps the user's saved titles in insertion order.
package wishlist

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/sahilm/fuzzy"
)

// Store is the wishlist. Every mutation writes the whole list; a failed
// write is logged and the in-memory list keeps the change.
type Store struct {
	kv     domain.KeyValueStore
	logger *slog.Logger

	mu    sync.RWMutex
	items []domain.CatalogItem
}

// NewStore loads the stored wishlist. Corrupt data loads as empty.
func NewStore(kv domain.KeyValueStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kv, logger: logger}

	if err := store.ReadJSON(kv, store.KeyWishlist, &s.items); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("ignoring unreadable wishlist", "error", err)
		}
		s.items = nil
	}
	return s
}

// Toggle removes the item if a title with its ID is saved, otherwise appends
// it. Re-adding a title puts it at the end. Reports whether it was added.
func (s *Store) Toggle(item domain.CatalogItem) bool {
	s.mu.Lock()
	idx := s.indexOf(item.ID)
	added := idx < 0
	if added {
		s.items = append(s.items, item)
	} else {
		s.items = slices.Delete(s.items, idx, idx+1)
	}
	snapshot := slices.Clone(s.items)
	s.mu.Unlock()

	s.persist(snapshot)
	s.logger.Debug("wishlist toggled", "id", item.ID, "added", added, "count", len(snapshot))
	return added
}

// IsWishlisted reports whether a title with id is saved
func (s *Store) IsWishlisted(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// List returns the saved titles in insertion order
func (s *Store) List() []domain.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Len returns the number of saved titles
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Filter returns saved titles whose title fuzzy-matches query, best match
// first. An empty query returns the whole list.
func (s *Store) Filter(query string) []domain.CatalogItem {
	items := s.List()
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), titleSource(items))
	result := make([]domain.CatalogItem, len(matches))
	for i, m := range matches {
		result[i] = items[m.Index]
	}
	return result
}

// Clear empties the wishlist
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.persist([]domain.CatalogItem{})
	s.logger.Info("wishlist cleared")
}

// indexOf must be called with mu held
func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.items, func(it domain.CatalogItem) bool { return it.ID == id })
}

func (s *Store) persist(items []domain.CatalogItem) {
	if items == nil {
		items = []domain.CatalogItem{}
	}
	if err := store.WriteJSON(s.kv, store.KeyWishlist, items); err != nil {
		s.logger.Warn("failed to persist wishlist", "error", err)
	}
}

// titleSource implements fuzzy.Source over lowercased titles
type titleSource []domain.CatalogItem

func (t titleSource) String(i int) string { return strings.ToLower(t[i].Title) }

func (t titleSource) Len() int { return len(t) }
