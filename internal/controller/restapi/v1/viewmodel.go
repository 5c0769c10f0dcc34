package v1

import (
	"fmt"
	"net/url"

	"github.com/thealper2/llava-image-archiver/internal/entity"
)

const descriptionPreviewLen = 100

// ResultView is the template model for one result card.
type ResultView struct {
	Filename       string
	FileHash       string
	Description    string
	ShowSimilarity bool
	SimilarityPct  float64
	SimilarityText string
}

func resultViews(page *entity.SearchPage) []ResultView {
	semantic := page.SearchType == entity.SearchSemantic

	views := make([]ResultView, 0, len(page.Results))
	for _, res := range page.Results {
		v := ResultView{
			Filename:       res.Image.Filename,
			FileHash:       res.Image.FileHash,
			ShowSimilarity: semantic,
		}

		if res.Image.Description != nil {
			v.Description = truncate(*res.Image.Description, descriptionPreviewLen)
		}

		if semantic {
			v.SimilarityPct = res.Similarity * 100
			v.SimilarityText = fmt.Sprintf("%.2f", v.SimilarityPct)
		}

		views = append(views, v)
	}

	return views
}

// truncate cuts s to max runes, appending an ellipsis when something was cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Pagination is the template model for the pager row. Empty Prev/Next URLs
// hide the corresponding link.
type Pagination struct {
	Show       bool
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

func buildPagination(page *entity.SearchPage) Pagination {
	p := Pagination{Page: page.Page}

	if page.PerPage <= 0 || page.Total <= page.PerPage {
		return p
	}

	p.Show = true
	p.TotalPages = (page.Total + page.PerPage - 1) / page.PerPage

	if page.Page > 1 {
		p.PrevURL = searchURL(page.Query, page.SearchType, page.Page-1)
	}
	if page.Page < p.TotalPages {
		p.NextURL = searchURL(page.Query, page.SearchType, page.Page+1)
	}

	return p
}

func searchURL(query string, searchType entity.SearchType, page int) string {
	values := url.Values{}
	values.Set("query", query)
	values.Set("type", string(searchType))
	values.Set("page", fmt.Sprint(page))

	return "/search?" + values.Encode()
}
