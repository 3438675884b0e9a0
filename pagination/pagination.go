// Package pagination slices ordered result lists into windows.
package pagination

const (
	// DefaultLimit is used when the requested limit is not positive.
	DefaultLimit = 50
	// MaxLimit caps any requested limit.
	MaxLimit = 500
)

// Page is one window over an ordered list.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// Window returns items[offset:offset+limit] using the package defaults.
func Window[T any](items []T, limit, offset int) Page[T] {
	return Bounded(items, limit, offset, DefaultLimit, MaxLimit)
}

// Bounded is Window with explicit default and maximum limits. A non-positive
// limit becomes def, anything above max is capped, a negative offset is
// treated as zero and an offset past the end yields an empty page. The
// returned Items never alias the input.
func Bounded[T any](items []T, limit, offset, def, maxLimit int) Page[T] {
	if def <= 0 {
		def = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if limit <= 0 {
		limit = def
	}
	limit = min(limit, maxLimit)
	offset = max0(offset)

	total := len(items)
	p := Page[T]{Items: []T{}, Total: total, Offset: offset, Limit: limit}
	if offset >= total {
		return p
	}
	end := min(offset+limit, total)
	p.Items = append(p.Items, items[offset:end]...)
	p.HasMore = offset+limit < total
	return p
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
