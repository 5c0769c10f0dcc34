package v1

import (
	"errors"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/thealper2/llava-image-archiver/internal/controller/restapi/v1/validate"
	"github.com/thealper2/llava-image-archiver/pkg/types/errs"
)

// index renders the home page with the scan form.
func (r *V1) index(ctx *fiber.Ctx) error {
	return ctx.Render("index", fiber.Map{})
}

// viewImage renders the detail page for one archived image. A record whose
// file has vanished from disk still renders, with an error banner.
func (r *V1) viewImage(ctx *fiber.Ctx) error {
	hash := ctx.Params("hash")
	if !validate.IsFileHash(hash) {
		return r.notFound(ctx)
	}

	image, err := r.search.GetImage(ctx.UserContext(), hash)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return r.notFound(ctx)
		}
		r.logger.Error(err, "restapi - v1 - viewImage")

		return ctx.Status(http.StatusInternalServerError).Render("500", fiber.Map{})
	}

	data := fiber.Map{"Image": image}
	if _, err := os.Stat(image.Filepath); err != nil {
		data["Error"] = "Image file not found on disk"
	}

	return ctx.Render("view", data)
}

func (r *V1) notFound(ctx *fiber.Ctx) error {
	return ctx.Status(http.StatusNotFound).Render("404", fiber.Map{})
}
