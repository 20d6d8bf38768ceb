// Package preferences persists the theme and language choice.
package preferences

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
)

// Store holds the current preferences
type Store struct {
	kv     domain.KeyValueStore
	logger *slog.Logger

	mu    sync.RWMutex
	prefs domain.Preferences
}

// NewStore loads saved preferences. Each field falls back to its default
// when missing or unknown; unreadable data loads as all defaults.
func NewStore(kv domain.KeyValueStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kv, logger: logger, prefs: domain.DefaultPreferences()}

	var saved domain.Preferences
	if err := store.ReadJSON(kv, store.KeyPreferences, &saved); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("ignoring unreadable preferences", "error", err)
		}
		return s
	}
	if saved.Theme.Valid() {
		s.prefs.Theme = saved.Theme
	}
	if saved.Language.Valid() {
		s.prefs.Language = saved.Language
	}
	return s
}

// Get returns the current preferences
func (s *Store) Get() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// ToggleTheme switches between neon and dark and returns the new theme
func (s *Store) ToggleTheme() domain.Theme {
	next := domain.ThemeDark
	if s.Get().Theme == domain.ThemeDark {
		next = domain.ThemeNeon
	}
	_ = s.SetTheme(next)
	return next
}

// SetTheme selects a theme
func (s *Store) SetTheme(theme domain.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("theme %q: %w", theme, domain.ErrInvalidPreference)
	}
	s.mu.Lock()
	s.prefs.Theme = theme
	prefs := s.prefs
	s.mu.Unlock()

	s.persist(prefs)
	return nil
}

// SetLanguage selects a language
func (s *Store) SetLanguage(lang domain.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("language %q: %w", lang, domain.ErrInvalidPreference)
	}
	s.mu.Lock()
	s.prefs.Language = lang
	prefs := s.prefs
	s.mu.Unlock()

	s.persist(prefs)
	return nil
}

// ToggleLanguage switches between Korean and English and returns the new
// language
func (s *Store) ToggleLanguage() domain.Language {
	next := domain.LanguageEnglish
	if s.Get().Language == domain.LanguageEnglish {
		next = domain.LanguageKorean
	}
	_ = s.SetLanguage(next)
	return next
}

func (s *Store) persist(prefs domain.Preferences) {
	if err := store.WriteJSON(s.kv, store.KeyPreferences, prefs); err != nil {
		s.logger.Warn("failed to persist preferences", "error", err)
	}
}
