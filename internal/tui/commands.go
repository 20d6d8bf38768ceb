package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/listview"
	"github.com/mmcdole/marquee/internal/service"
)

// requestTimeout bounds every catalog call started from the UI
const requestTimeout = 20 * time.Second

// Command factories for async operations

// PageCmd runs a table controller action (Load, Next, Prev) and reports
// back for mode
func PageCmd(mode ViewMode, action func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return PageLoadedMsg{Mode: mode, Err: action(ctx)}
	}
}

// LoadMoreCmd forwards a boundary signal to the infinite list
func LoadMoreCmd(inf *listview.Infinite) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		started, err := inf.LoadMore(ctx)
		return MoreLoadedMsg{Started: started, Err: err}
	}
}

// LoadGenresCmd loads the genre list
func LoadGenresCmd(svc *service.CatalogService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		genres, err := svc.Genres(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading genres"}
		}
		return GenresLoadedMsg{Genres: genres}
	}
}

// LoadDetailCmd loads one title through the detail cache
func LoadDetailCmd(svc *service.CatalogService, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		item, err := svc.Detail(ctx, id)
		if err != nil {
			return DetailFailedMsg{ID: id, Err: err}
		}
		return DetailLoadedMsg{Item: item}
	}
}

// HighlightTickCmd schedules the next highlight rotation
func HighlightTickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return HighlightTickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
