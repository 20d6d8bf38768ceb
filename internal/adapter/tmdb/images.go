package tmdb

import "strings"

// DefaultImageBaseURL is the public image CDN root
const DefaultImageBaseURL = "https://image.tmdb.org/t/p"

// ImageSize is a poster rendition
type ImageSize string

const (
	SizeW200     ImageSize = "w200"
	SizeW300     ImageSize = "w300"
	SizeW500     ImageSize = "w500"
	SizeOriginal ImageSize = "original"
)

// Valid reports whether s is a supported rendition
func (s ImageSize) Valid() bool {
	switch s {
	case SizeW200, SizeW300, SizeW500, SizeOriginal:
		return true
	}
	return false
}

// ImageURL composes {base}/{size}{posterPath}. An empty poster path yields ""
// so the caller can render a placeholder; an unknown size falls back to w500.
func ImageURL(base string, size ImageSize, posterPath string) string {
	if posterPath == "" {
		return ""
	}
	if base == "" {
		base = DefaultImageBaseURL
	}
	if !size.Valid() {
		size = SizeW500
	}
	if !strings.HasPrefix(posterPath, "/") {
		posterPath = "/" + posterPath
	}
	return strings.TrimRight(base, "/") + "/" + string(size) + posterPath
}
