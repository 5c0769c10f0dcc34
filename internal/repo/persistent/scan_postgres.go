package persistent

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/thealper2/llava-image-archiver/internal/entity"
	"github.com/thealper2/llava-image-archiver/pkg/postgres"
	"github.com/thealper2/llava-image-archiver/pkg/types/errs"
)

const (
	scanRunsTable = "scan_runs"

	directoryColumn  = "directory"
	statusColumn     = "status"
	processedColumn  = "processed"
	skippedColumn    = "skipped"
	failedColumn     = "failed"
	startedAtColumn  = "started_at"
	finishedAtColumn = "finished_at"
)

type ScanRunRepo struct {
	*postgres.Postgres
}

func NewScanRunRepo(pg *postgres.Postgres) *ScanRunRepo {
	return &ScanRunRepo{pg}
}

func (r *ScanRunRepo) Create(ctx context.Context, run *entity.ScanRun) error {
	sql, args, err := r.Builder.
		Insert(scanRunsTable).
		Columns(idColumn, directoryColumn, statusColumn, startedAtColumn).
		Values(run.ID, run.Directory, run.Status, run.StartedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("ScanRunRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ScanRunRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *ScanRunRepo) Finish(ctx context.Context, run *entity.ScanRun) error {
	sql, args, err := r.Builder.
		Update(scanRunsTable).
		Set(statusColumn, run.Status).
		Set(processedColumn, run.Processed).
		Set(skippedColumn, run.Skipped).
		Set(failedColumn, run.Failed).
		Set(finishedAtColumn, run.FinishedAt).
		Where(squirrel.Eq{idColumn: run.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ScanRunRepo - Finish - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ScanRunRepo - Finish - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ScanRunRepo - Finish: %w", errs.ErrRecordNotFound)
	}

	return nil
}

// Directories returns the distinct scanned directories, most recently
// scanned first. The rescan worker walks this list.
func (r *ScanRunRepo) Directories(ctx context.Context) ([]string, error) {
	sql, args, err := r.Builder.
		Select(directoryColumn).
		From(scanRunsTable).
		GroupBy(directoryColumn).
		OrderBy("MAX(" + startedAtColumn + ") DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ScanRunRepo - Directories - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ScanRunRepo - Directories - executor.Query: %w", err)
	}
	defer rows.Close()

	var dirs []string
	for rows.Next() {
		var dir string
		if err = rows.Scan(&dir); err != nil {
			return nil, fmt.Errorf("ScanRunRepo - Directories - rows.Scan: %w", err)
		}
		dirs = append(dirs, dir)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ScanRunRepo - Directories - rows.Err: %w", err)
	}

	return dirs, nil
}
