package pagination

const (
	// DefaultLimit is the page size used when the caller does not provide one.
	DefaultLimit = 20
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
)

// Normalize clamps page and limit into usable values.
func Normalize(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset converts a normalized page/limit pair into a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// Meta describes one page of results.
type Meta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewMeta builds pagination metadata from a normalized page/limit pair and
// the total row count.
func NewMeta(page, limit, total int) Meta {
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return Meta{Page: page, Limit: limit, Total: total, Pages: pages}
}
