package repo

import (
	"context"

	"github.com/thealper2/llava-image-archiver/internal/entity"
)

type (
	ImageMetadataRepo interface {
		Create(ctx context.Context, image *entity.Image) error
		GetByHash(ctx context.Context, fileHash string) (*entity.Image, error)
		ExistsByHash(ctx context.Context, fileHash string) (bool, error)
		SearchLiteral(ctx context.Context, query string, limit, offset int) ([]entity.Image, error)
		CountLiteral(ctx context.Context, query string) (int, error)
		Delete(ctx context.Context, fileHash string) error
	}

	DescriptionRepo interface {
		Upsert(ctx context.Context, desc *entity.Description) error
		AllEmbeddings(ctx context.Context) (map[string][]byte, error)
		GetThumbnail(ctx context.Context, imageHash string) ([]byte, error)
	}

	ScanRunRepo interface {
		Create(ctx context.Context, run *entity.ScanRun) error
		Finish(ctx context.Context, run *entity.ScanRun) error
		Directories(ctx context.Context) ([]string, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)
