package dto

import "github.com/thealper2/llava-image-archiver/internal/entity"

// SearchParams carries a validated search request into the use case layer.
// Page is 1-based.
type SearchParams struct {
	Query      string
	SearchType entity.SearchType
	Page       int
	PerPage    int
}

// Offset returns the SQL offset for the requested page.
func (p SearchParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}
