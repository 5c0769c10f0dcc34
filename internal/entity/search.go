package entity

// SearchType selects between literal SQL matching and embedding similarity.
type SearchType string

const (
	SearchSQL      SearchType = "sql"
	SearchSemantic SearchType = "semantic"
)

// SearchResult pairs an image with its similarity score. For literal search
// the score is fixed at 1.0; it is only displayed in semantic mode.
type SearchResult struct {
	Image      Image   `json:"image"`
	Similarity float64 `json:"similarity"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Query      string         `json:"query"`
	SearchType SearchType     `json:"search_type"`
	Results    []SearchResult `json:"results"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
}
