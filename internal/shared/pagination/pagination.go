// Package pagination provides the page envelope shared by list endpoints.
package pagination

// Page は1ページ分の要素と件数メタデータをまとめたレスポンス封筒です。
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// New builds a Page from one page of items and the total row count.
// page is normalized to 1 when the caller passes 0 or a negative value.
func New[T any](items []T, page, perPage int, total int64) Page[T] {
	page = NormalizePage(page)
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Map converts a page's items with fn, keeping the count metadata.
// Handlers use it to turn entity pages into response pages.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return Page[U]{
		Items:      items,
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

// NormalizePage clamps a page number to a minimum of 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset returns the SQL OFFSET for a page number.
func Offset(page, perPage int) int {
	return (NormalizePage(page) - 1) * perPage
}
