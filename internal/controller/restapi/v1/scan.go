package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/thealper2/llava-image-archiver/internal/controller/restapi/v1/response"
	"github.com/thealper2/llava-image-archiver/pkg/types/errs"
)

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Error: msg})
}

// @Summary  	Scan a directory
// @Description Walks the directory, archives new images, captions them with the vision model
// @Tags 		scan
// @Accept 		x-www-form-urlencoded
// @Produce 	json
// @Param 		directory formData string true "Absolute path of the directory to scan"
// @Success 	200 {object} response.ScanResult
// @Failure 	400 {object} response.Error "Missing or invalid directory"
// @Failure 	409 {object} response.Error "A scan is already running"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/scan [post]
func (r *V1) scanDirectory(ctx *fiber.Ctx) error {
	directory := strings.TrimSpace(ctx.FormValue("directory"))
	if directory == "" {
		return errorResponse(ctx, http.StatusBadRequest, "No directory specified")
	}

	report, err := r.archive.Scan(ctx.UserContext(), directory)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidDirectory):
			return errorResponse(ctx, http.StatusBadRequest, "Invalid directory path")
		case errors.Is(err, errs.ErrScanInProgress):
			return errorResponse(ctx, http.StatusConflict, "A scan is already running")
		}

		r.logger.Error(err, "restapi - v1 - scanDirectory")

		return errorResponse(ctx, http.StatusInternalServerError, "scan failed")
	}

	return ctx.JSON(response.ScanResult{
		Success:        true,
		ProcessedCount: report.Processed,
		SkippedCount:   report.Skipped,
		FailedCount:    report.Failed,
		ElapsedTime:    report.Elapsed.Seconds(),
	})
}
