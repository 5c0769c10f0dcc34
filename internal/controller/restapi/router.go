package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/thealper2/llava-image-archiver/config"
	v1 "github.com/thealper2/llava-image-archiver/internal/controller/restapi/v1"
	"github.com/thealper2/llava-image-archiver/internal/usecase"
	"github.com/thealper2/llava-image-archiver/pkg/logger"
)

// @title llava-image-archiver
// @version 1.0.0
// @host localhost:8080
// @BasePath /
func NewRouter(app *fiber.App, cfg *config.Config, archive usecase.ArchiveUseCase, search usecase.SearchUseCase, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})

	v1.NewArchiveRoutes(app, archive, search, cfg.Search.PerPage, l)
}
