package listview

import "sync"

// Highlighter is a rotating index for the auto-advancing highlight. It only
// feeds presentation and never touches controller state.
type Highlighter struct {
	mu    sync.Mutex
	index int
}

// Advance moves to the next of n positions, wrapping to 0
func (h *Highlighter) Advance(n int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 {
		h.index = 0
		return 0
	}
	h.index = (h.index + 1) % n
	return h.index
}

// Index returns the current position clamped to n positions
func (h *Highlighter) Index(n int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 || h.index >= n {
		return 0
	}
	return h.index
}

// Reset returns to position 0
func (h *Highlighter) Reset() {
	h.mu.Lock()
	h.index = 0
	h.mu.Unlock()
}
