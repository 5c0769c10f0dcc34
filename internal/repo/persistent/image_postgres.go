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
	// Tables
	imagesTable       = "images"
	descriptionsTable = "descriptions"

	// Columns
	idColumn          = "id"
	filepathColumn    = "filepath"
	filenameColumn    = "filename"
	fileHashColumn    = "file_hash"
	fileSizeColumn    = "file_size"
	widthColumn       = "width"
	heightColumn      = "height"
	createdAtColumn   = "created_at"
	processedAtColumn = "processed_at"
	imageHashColumn   = "image_hash"
	descriptionColumn = "description"
)

type ImageMetadataRepo struct {
	*postgres.Postgres
}

func NewImageMetadataRepo(pg *postgres.Postgres) *ImageMetadataRepo {
	return &ImageMetadataRepo{pg}
}

func (r *ImageMetadataRepo) Create(ctx context.Context, image *entity.Image) error {
	sql, args, err := r.Builder.
		Insert(imagesTable).
		Columns(
			filepathColumn,
			filenameColumn,
			fileHashColumn,
			fileSizeColumn,
			widthColumn,
			heightColumn,
			createdAtColumn,
			processedAtColumn,
		).
		Values(
			image.Filepath,
			image.Filename,
			image.FileHash,
			image.FileSize,
			image.Width,
			image.Height,
			image.CreatedAt,
			image.ProcessedAt,
		).
		Suffix("ON CONFLICT (file_hash) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	err = executor.QueryRow(ctx, sql, args...).Scan(&image.ID)
	if err != nil {
		// No row returned means the hash is already archived; look the ID up.
		if errors.Is(err, pgx.ErrNoRows) {
			return r.fillExistingID(ctx, image)
		}
		return fmt.Errorf("ImageMetadataRepo - Create - executor.QueryRow: %w", err)
	}

	return nil
}

func (r *ImageMetadataRepo) fillExistingID(ctx context.Context, image *entity.Image) error {
	sql, args, err := r.Builder.
		Select(idColumn).
		From(imagesTable).
		Where(squirrel.Eq{fileHashColumn: image.FileHash}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - fillExistingID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	err = executor.QueryRow(ctx, sql, args...).Scan(&image.ID)
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - fillExistingID - executor.QueryRow: %w", err)
	}

	return nil
}

func (r *ImageMetadataRepo) GetByHash(ctx context.Context, fileHash string) (*entity.Image, error) {
	sql, args, err := r.Builder.
		Select(
			"i."+idColumn,
			"i."+filepathColumn,
			"i."+filenameColumn,
			"i."+fileHashColumn,
			"i."+fileSizeColumn,
			"i."+widthColumn,
			"i."+heightColumn,
			"i."+createdAtColumn,
			"i."+processedAtColumn,
			"d."+descriptionColumn,
		).
		From(imagesTable + " i").
		LeftJoin(descriptionsTable + " d ON i." + fileHashColumn + " = d." + imageHashColumn).
		Where(squirrel.Eq{"i." + fileHashColumn: fileHash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ImageMetadataRepo - GetByHash - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var image entity.Image
	err = executor.QueryRow(ctx, sql, args...).Scan(
		&image.ID,
		&image.Filepath,
		&image.Filename,
		&image.FileHash,
		&image.FileSize,
		&image.Width,
		&image.Height,
		&image.CreatedAt,
		&image.ProcessedAt,
		&image.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ImageMetadataRepo - GetByHash: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("ImageMetadataRepo - GetByHash - executor.QueryRow: %w", err)
	}

	return &image, nil
}

func (r *ImageMetadataRepo) ExistsByHash(ctx context.Context, fileHash string) (bool, error) {
	sql, args, err := r.Builder.
		Select("1").
		From(imagesTable).
		Where(squirrel.Eq{fileHashColumn: fileHash}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("ImageMetadataRepo - ExistsByHash - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var one int
	err = executor.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("ImageMetadataRepo - ExistsByHash - executor.QueryRow: %w", err)
	}

	return true, nil
}

func (r *ImageMetadataRepo) literalWhere(query string) squirrel.Or {
	pattern := "%" + query + "%"

	return squirrel.Or{
		squirrel.ILike{"i." + filenameColumn: pattern},
		squirrel.ILike{"d." + descriptionColumn: pattern},
	}
}

func (r *ImageMetadataRepo) SearchLiteral(ctx context.Context, query string, limit, offset int) ([]entity.Image, error) {
	sql, args, err := r.Builder.
		Select(
			"i."+idColumn,
			"i."+filepathColumn,
			"i."+filenameColumn,
			"i."+fileHashColumn,
			"i."+fileSizeColumn,
			"i."+widthColumn,
			"i."+heightColumn,
			"i."+createdAtColumn,
			"i."+processedAtColumn,
			"d."+descriptionColumn,
		).
		From(imagesTable + " i").
		LeftJoin(descriptionsTable + " d ON i." + fileHashColumn + " = d." + imageHashColumn).
		Where(r.literalWhere(query)).
		OrderBy("i." + filenameColumn).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ImageMetadataRepo - SearchLiteral - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ImageMetadataRepo - SearchLiteral - executor.Query: %w", err)
	}
	defer rows.Close()

	var images []entity.Image
	for rows.Next() {
		var image entity.Image
		err = rows.Scan(
			&image.ID,
			&image.Filepath,
			&image.Filename,
			&image.FileHash,
			&image.FileSize,
			&image.Width,
			&image.Height,
			&image.CreatedAt,
			&image.ProcessedAt,
			&image.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("ImageMetadataRepo - SearchLiteral - rows.Scan: %w", err)
		}
		images = append(images, image)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ImageMetadataRepo - SearchLiteral - rows.Err: %w", err)
	}

	return images, nil
}

func (r *ImageMetadataRepo) CountLiteral(ctx context.Context, query string) (int, error) {
	sql, args, err := r.Builder.
		Select("COUNT(*)").
		From(imagesTable + " i").
		LeftJoin(descriptionsTable + " d ON i." + fileHashColumn + " = d." + imageHashColumn).
		Where(r.literalWhere(query)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ImageMetadataRepo - CountLiteral - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var total int
	err = executor.QueryRow(ctx, sql, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("ImageMetadataRepo - CountLiteral - executor.QueryRow: %w", err)
	}

	return total, nil
}

func (r *ImageMetadataRepo) Delete(ctx context.Context, fileHash string) error {
	sql, args, err := r.Builder.
		Delete(imagesTable).
		Where(squirrel.Eq{fileHashColumn: fileHash}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Delete - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Delete - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ImageMetadataRepo - Delete: %w", errs.ErrRecordNotFound)
	}

	return nil
}
