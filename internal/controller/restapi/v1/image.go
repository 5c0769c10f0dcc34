package v1

import (
	"errors"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/thealper2/llava-image-archiver/internal/controller/restapi/v1/validate"
	"github.com/thealper2/llava-image-archiver/pkg/types/errs"
)

// @Summary 	Get the original image file
// @Description Streams the archived image's bytes from its path on disk
// @Tags 		images
// @Produce 	image/jpeg,image/png,image/gif,image/webp,image/bmp
// @Param		hash path string true "SHA-256 file hash"
// @Success		200 {file} binary
// @Failure 	404 "Unknown hash or file missing on disk"
// @Router 		/image/{hash} [get]
func (r *V1) getImageFile(ctx *fiber.Ctx) error {
	hash := ctx.Params("hash")
	if !validate.IsFileHash(hash) {
		return ctx.SendStatus(http.StatusNotFound)
	}

	image, err := r.search.GetImage(ctx.UserContext(), hash)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return ctx.SendStatus(http.StatusNotFound)
		}
		r.logger.Error(err, "restapi - v1 - getImageFile")

		return ctx.SendStatus(http.StatusInternalServerError)
	}

	if _, err := os.Stat(image.Filepath); err != nil {
		return ctx.SendStatus(http.StatusNotFound)
	}

	return ctx.SendFile(image.Filepath)
}

// @Summary 	Get a thumbnail
// @Description Serves the stored JPEG thumbnail generated during scanning
// @Tags 		images
// @Produce 	image/jpeg
// @Param		hash path string true "SHA-256 file hash"
// @Success		200 {file} binary
// @Failure 	404 "Unknown hash or no thumbnail stored"
// @Router 		/thumb/{hash} [get]
func (r *V1) getThumbnail(ctx *fiber.Ctx) error {
	hash := ctx.Params("hash")
	if !validate.IsFileHash(hash) {
		return ctx.SendStatus(http.StatusNotFound)
	}

	thumb, err := r.search.GetThumbnail(ctx.UserContext(), hash)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return ctx.SendStatus(http.StatusNotFound)
		}
		r.logger.Error(err, "restapi - v1 - getThumbnail")

		return ctx.SendStatus(http.StatusInternalServerError)
	}

	ctx.Set(fiber.HeaderContentType, "image/jpeg")

	return ctx.Send(thumb)
}
