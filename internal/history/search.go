// Package history keeps the recent search queries and recently viewed titles.
package history

import (
	"errors"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
)

// MaxSearches is how many queries the search history keeps
const MaxSearches = 5

// SearchHistory is the most-recent-first list of submitted queries
type SearchHistory struct {
	kv     domain.KeyValueStore
	logger *slog.Logger

	mu      sync.RWMutex
	queries []string
}

// NewSearchHistory loads the stored queries. Unreadable data loads as empty.
func NewSearchHistory(kv domain.KeyValueStore, logger *slog.Logger) *SearchHistory {
	if logger == nil {
		logger = slog.Default()
	}
	h := &SearchHistory{kv: kv, logger: logger}
	if err := store.ReadJSON(kv, store.KeySearchHistory, &h.queries); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("ignoring unreadable search history", "error", err)
		}
		h.queries = nil
	}
	if len(h.queries) > MaxSearches {
		h.queries = h.queries[:MaxSearches]
	}
	return h
}

// Add moves query to the front. Blank queries are ignored; duplicates are
// matched exactly.
func (h *SearchHistory) Add(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	h.mu.Lock()
	next := make([]string, 0, MaxSearches)
	next = append(next, query)
	for _, q := range h.queries {
		if q != query && len(next) < MaxSearches {
			next = append(next, q)
		}
	}
	h.queries = next
	snapshot := slices.Clone(next)
	h.mu.Unlock()

	h.persist(snapshot)
}

// List returns the queries, most recent first
func (h *SearchHistory) List() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.queries)
}

// Suggest returns stored queries that fuzzy-match prefix, closest first.
// Ties keep recency order. An empty prefix returns the whole history.
func (h *SearchHistory) Suggest(prefix string) []string {
	queries := h.List()
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return queries
	}

	ranks := fuzzy.RankFindFold(prefix, queries)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

// Clear empties the search history
func (h *SearchHistory) Clear() {
	h.mu.Lock()
	h.queries = nil
	h.mu.Unlock()

	h.persist([]string{})
}

func (h *SearchHistory) persist(queries []string) {
	if err := store.WriteJSON(h.kv, store.KeySearchHistory, queries); err != nil {
		h.logger.Warn("failed to persist search history", "error", err)
	}
}
