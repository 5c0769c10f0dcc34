package v1

import (
	"github.com/thealper2/llava-image-archiver/internal/usecase"
	"github.com/thealper2/llava-image-archiver/pkg/logger"
)

type V1 struct {
	archive usecase.ArchiveUseCase
	search  usecase.SearchUseCase
	perPage int
	logger  logger.Interface
}
