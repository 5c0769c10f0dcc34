package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/thealper2/llava-image-archiver/internal/dto"
	"github.com/thealper2/llava-image-archiver/internal/entity"
)

// searchImages renders the results page for both search modes.
func (r *V1) searchImages(ctx *fiber.Ctx) error {
	query := strings.TrimSpace(ctx.Query("query"))

	searchType := entity.SearchSQL
	if ctx.Query("type") == string(entity.SearchSemantic) {
		searchType = entity.SearchSemantic
	}

	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	params := dto.SearchParams{
		Query:      query,
		SearchType: searchType,
		Page:       page,
		PerPage:    r.perPage,
	}

	result, err := r.search.Search(ctx.UserContext(), params)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - searchImages")

		return ctx.Status(http.StatusInternalServerError).Render("results", fiber.Map{
			"Error":      "Search failed, please try again.",
			"Query":      query,
			"SearchType": string(searchType),
			"Total":      0,
			"Page":       1,
			"PerPage":    r.perPage,
		})
	}

	return ctx.Render("results", fiber.Map{
		"Query":      result.Query,
		"SearchType": string(result.SearchType),
		"Results":    resultViews(result),
		"Total":      result.Total,
		"Page":       result.Page,
		"PerPage":    result.PerPage,
		"Pagination": buildPagination(result),
	})
}
