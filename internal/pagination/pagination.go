// Package pagination normalizes limit/offset arguments for list operations.
package pagination

// DefaultLimit is the page size used by most listings when the caller passes
// a non-positive limit. Comment listings use DefaultCommentLimit.
const (
	DefaultLimit        = 20
	DefaultCommentLimit = 50
	DefaultMaxLimit     = 100
)

// Clamp normalizes a limit/offset pair. A non-positive limit falls back to
// fallback; limits above max are capped at max; negative offsets clamp to 0.
// max <= 0 means DefaultMaxLimit.
func Clamp(limit, offset, fallback, max int) (int, int) {
	if max <= 0 {
		max = DefaultMaxLimit
	}
	if fallback <= 0 || fallback > max {
		fallback = DefaultLimit
	}
	if limit <= 0 {
		limit = fallback
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
