package cache

import "net/url"

// Key builds the cache key for a request: the endpoint path followed by the
// full parameter set in sorted order. Callers must fill in defaulted
// parameters before keying so implicit and explicit defaults collide.
func Key(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	// Encode sorts by key
	return path + "?" + params.Encode()
}
