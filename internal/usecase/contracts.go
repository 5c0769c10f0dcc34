package usecase

import (
	"context"

	"github.com/thealper2/llava-image-archiver/internal/dto"
	"github.com/thealper2/llava-image-archiver/internal/entity"
)

type (
	ArchiveUseCase interface {
		Scan(ctx context.Context, directory string) (*dto.ScanReport, error)
		KnownDirectories(ctx context.Context) ([]string, error)
	}

	SearchUseCase interface {
		Search(ctx context.Context, params dto.SearchParams) (*entity.SearchPage, error)
		GetImage(ctx context.Context, fileHash string) (*entity.Image, error)
		GetThumbnail(ctx context.Context, fileHash string) ([]byte, error)
	}
)
