package tui

import (
	"github.com/mmcdole/marquee/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg signals that a paged list finished loading. The controller
// already holds the result; Err repeats any failure for the status line.
type PageLoadedMsg struct {
	Mode ViewMode
	Err  error
}

// MoreLoadedMsg signals that the infinite list handled a boundary signal
type MoreLoadedMsg struct {
	Started bool
	Err     error
}

// GenresLoadedMsg carries the genre list
type GenresLoadedMsg struct {
	Genres []domain.Genre
}

// DetailLoadedMsg carries a fetched title
type DetailLoadedMsg struct {
	Item domain.CatalogItem
}

// DetailFailedMsg signals that a detail fetch failed
type DetailFailedMsg struct {
	ID  int
	Err error
}

// HighlightTickMsg advances the auto-rotating highlight
type HighlightTickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
