package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thealper2/llava-image-archiver/internal/usecase"
	"github.com/thealper2/llava-image-archiver/pkg/logger"
)

func NewArchiveRoutes(app fiber.Router, archive usecase.ArchiveUseCase, search usecase.SearchUseCase, perPage int, l logger.Interface) {
	r := &V1{archive: archive, search: search, perPage: perPage, logger: l}

	{
		// UI
		app.Get("/", r.index)
		app.Get("/search", r.searchImages)
		app.Get("/view/:hash", r.viewImage)

		// API
		app.Post("/scan", r.scanDirectory)
		app.Get("/image/:hash", r.getImageFile)
		app.Get("/thumb/:hash", r.getThumbnail)
	}

	// Anything unmatched renders the 404 page.
	app.Use(r.notFound)
}
