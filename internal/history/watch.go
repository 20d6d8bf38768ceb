package history

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
)

// MaxWatched is how many viewed titles the watch history keeps
const MaxWatched = 20

// WatchHistory is the most-recent-first list of viewed titles, one entry
// per title id
type WatchHistory struct {
	kv     domain.KeyValueStore
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries []domain.WatchEntry
}

// NewWatchHistory loads the stored entries. Unreadable data loads as empty.
func NewWatchHistory(kv domain.KeyValueStore, logger *slog.Logger) *WatchHistory {
	if logger == nil {
		logger = slog.Default()
	}
	h := &WatchHistory{kv: kv, logger: logger, now: time.Now}
	if err := store.ReadJSON(kv, store.KeyWatchHistory, &h.entries); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("ignoring unreadable watch history", "error", err)
		}
		h.entries = nil
	}
	if len(h.entries) > MaxWatched {
		h.entries = h.entries[:MaxWatched]
	}
	return h
}

// WithClock replaces the time source. Used by tests.
func (h *WatchHistory) WithClock(now func() time.Time) *WatchHistory {
	h.now = now
	return h
}

// Record moves item to the front, stamped with the current time
func (h *WatchHistory) Record(item domain.CatalogItem) {
	entry := domain.WatchEntry{
		ID:         item.ID,
		Title:      item.Title,
		PosterPath: item.PosterPath,
		Timestamp:  h.now().UnixMilli(),
	}

	h.mu.Lock()
	next := make([]domain.WatchEntry, 0, MaxWatched)
	next = append(next, entry)
	for _, e := range h.entries {
		if e.ID != entry.ID && len(next) < MaxWatched {
			next = append(next, e)
		}
	}
	h.entries = next
	snapshot := slices.Clone(next)
	h.mu.Unlock()

	h.persist(snapshot)
}

// List returns the entries, most recent first
func (h *WatchHistory) List() []domain.WatchEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.entries)
}

// LastViewed returns when id was last recorded
func (h *WatchHistory) LastViewed(id int) (time.Time, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, e := range h.entries {
		if e.ID == id {
			return e.ViewedAt(), true
		}
	}
	return time.Time{}, false
}

// Clear empties the watch history
func (h *WatchHistory) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()

	h.persist([]domain.WatchEntry{})
}

func (h *WatchHistory) persist(entries []domain.WatchEntry) {
	if err := store.WriteJSON(h.kv, store.KeyWatchHistory, entries); err != nil {
		h.logger.Warn("failed to persist watch history", "error", err)
	}
}
