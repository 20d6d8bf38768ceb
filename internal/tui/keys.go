package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Home     key.Binding
	End      key.Binding
	Enter    key.Binding
	Back     key.Binding

	// Views
	TableView    key.Binding
	ScrollView   key.Binding
	WishlistView key.Binding
	SearchView   key.Binding

	// Actions
	Search   key.Binding
	Filter   key.Binding
	Wishlist key.Binding
	Sort     key.Binding
	Genre    key.Binding
	Rating   key.Binding
	Year     key.Binding
	ClearAll key.Binding
	Refresh  key.Binding
	Theme    key.Binding
	Language key.Binding
	SignOut  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("l/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("h/←", "prev page"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next list"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev list"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "close"),
		),

		// Views
		TableView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "table"),
		),
		ScrollView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "scroll"),
		),
		WishlistView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "wishlist"),
		),
		SearchView: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "results"),
		),

		// Actions
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter wishlist"),
		),
		Wishlist: key.NewBinding(
			key.WithKeys("w", " "),
			key.WithHelp("w", "wishlist"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Genre: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "genre"),
		),
		Rating: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "min rating"),
		),
		Year: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "min year"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Language: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "language"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "sign out"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
