package domain

// Theme selects the UI palette
type Theme string

const (
	ThemeNeon Theme = "neon"
	ThemeDark Theme = "dark"
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeNeon || t == ThemeDark
}

// Language selects the UI language
type Language string

const (
	LanguageKorean  Language = "ko"
	LanguageEnglish Language = "en"
)

// Valid reports whether l is a known language
func (l Language) Valid() bool {
	return l == LanguageKorean || l == LanguageEnglish
}

// Preferences holds user interface preferences.
type Preferences struct {
	Theme    Theme    `json:"theme"`
	Language Language `json:"language"`
}

// DefaultPreferences returns the preferences used before anything is saved.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeNeon, Language: LanguageKorean}
}
