package styles

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	assert.Equal(t, Neon, For(domain.ThemeNeon).Palette)
	assert.Equal(t, Dark, For(domain.ThemeDark).Palette)
	assert.Equal(t, Neon, For("unknown").Palette)
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "", Truncate("Heat", 0))
	assert.Equal(t, "Heat", Truncate("Heat", 10))
	assert.LessOrEqual(t, runewidth.StringWidth(Truncate("Heatwave", 4)), 4)

	assert.Equal(t, "Heat  ", Pad("Heat", 6))
	assert.Equal(t, 6, runewidth.StringWidth(Pad("기생충 (2019)", 6)))
}
