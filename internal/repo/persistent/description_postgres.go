package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/thealper2/llava-image-archiver/internal/entity"
	"github.com/thealper2/llava-image-archiver/pkg/postgres"
	"github.com/thealper2/llava-image-archiver/pkg/types/errs"
)

const (
	embeddingColumn = "embedding"
	thumbnailColumn = "thumbnail"
)

type DescriptionRepo struct {
	*postgres.Postgres
}

func NewDescriptionRepo(pg *postgres.Postgres) *DescriptionRepo {
	return &DescriptionRepo{pg}
}

func (r *DescriptionRepo) Upsert(ctx context.Context, desc *entity.Description) error {
	sql, args, err := r.Builder.
		Insert(descriptionsTable).
		Columns(imageHashColumn, descriptionColumn, embeddingColumn, thumbnailColumn).
		Values(desc.ImageHash, desc.Text, desc.Embedding, desc.Thumbnail).
		Suffix(`ON CONFLICT (image_hash) DO UPDATE SET
			description = excluded.description,
			embedding = excluded.embedding,
			thumbnail = excluded.thumbnail`).
		ToSql()
	if err != nil {
		return fmt.Errorf("DescriptionRepo - Upsert - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("DescriptionRepo - Upsert - executor.Exec: %w", err)
	}

	return nil
}

// AllEmbeddings returns every stored embedding keyed by image hash. The
// semantic search scores these in memory, so rows without an embedding are
// filtered out here.
func (r *DescriptionRepo) AllEmbeddings(ctx context.Context) (map[string][]byte, error) {
	sql, args, err := r.Builder.
		Select(imageHashColumn, embeddingColumn).
		From(descriptionsTable).
		Where(squirrel.NotEq{embeddingColumn: nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("DescriptionRepo - AllEmbeddings - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("DescriptionRepo - AllEmbeddings - executor.Query: %w", err)
	}
	defer rows.Close()

	embeddings := make(map[string][]byte)
	for rows.Next() {
		var hash string
		var blob []byte
		if err = rows.Scan(&hash, &blob); err != nil {
			return nil, fmt.Errorf("DescriptionRepo - AllEmbeddings - rows.Scan: %w", err)
		}
		embeddings[hash] = blob
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("DescriptionRepo - AllEmbeddings - rows.Err: %w", err)
	}

	return embeddings, nil
}

func (r *DescriptionRepo) GetThumbnail(ctx context.Context, imageHash string) ([]byte, error) {
	sql, args, err := r.Builder.
		Select(thumbnailColumn).
		From(descriptionsTable).
		Where(squirrel.And{
			squirrel.Eq{imageHashColumn: imageHash},
			squirrel.NotEq{thumbnailColumn: nil},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("DescriptionRepo - GetThumbnail - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var thumb []byte
	err = executor.QueryRow(ctx, sql, args...).Scan(&thumb)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("DescriptionRepo - GetThumbnail: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("DescriptionRepo - GetThumbnail - executor.QueryRow: %w", err)
	}

	return thumb, nil
}
