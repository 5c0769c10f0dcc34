package archive

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/thealper2/llava-image-archiver/internal/dto"
	"github.com/thealper2/llava-image-archiver/internal/entity"
	"github.com/thealper2/llava-image-archiver/internal/infrastructure"
	"github.com/thealper2/llava-image-archiver/internal/infrastructure/scanner"
	"github.com/thealper2/llava-image-archiver/internal/repo"
	"github.com/thealper2/llava-image-archiver/pkg/logger"
	"github.com/thealper2/llava-image-archiver/pkg/types/errs"
)

// ArchiveUseCase ingests images from local directories: walk, hash, caption
// with the vision model, embed the caption, thumbnail, persist.
type ArchiveUseCase struct {
	imageRepo  repo.ImageMetadataRepo
	descRepo   repo.DescriptionRepo
	scanRepo   repo.ScanRunRepo
	transactor repo.Transactor

	scanner   *scanner.Scanner
	describer infrastructure.Describer
	embedder  infrastructure.Embedder
	media     infrastructure.MediaProcessor

	workers int
	logger  logger.Interface

	// one scan at a time; concurrent requests are rejected
	scanning atomic.Bool
}

func New(
	imageRepo repo.ImageMetadataRepo,
	descRepo repo.DescriptionRepo,
	scanRepo repo.ScanRunRepo,
	transactor repo.Transactor,
	sc *scanner.Scanner,
	describer infrastructure.Describer,
	embedder infrastructure.Embedder,
	media infrastructure.MediaProcessor,
	workers int,
	l logger.Interface,
) *ArchiveUseCase {
	return &ArchiveUseCase{
		imageRepo:  imageRepo,
		descRepo:   descRepo,
		scanRepo:   scanRepo,
		transactor: transactor,
		scanner:    sc,
		describer:  describer,
		embedder:   embedder,
		media:      media,
		workers:    workers,
		logger:     l,
	}
}

// Scan walks directory, archives every image file not yet known, and returns
// the counts. Individual file failures are logged and counted, never fatal.
func (uc *ArchiveUseCase) Scan(ctx context.Context, directory string) (*dto.ScanReport, error) {
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("ArchiveUseCase - Scan: %w", errs.ErrInvalidDirectory)
	}

	if !uc.scanning.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("ArchiveUseCase - Scan: %w", errs.ErrScanInProgress)
	}
	defer uc.scanning.Store(false)

	run := &entity.ScanRun{
		ID:        uuid.New(),
		Directory: directory,
		Status:    entity.ScanRunning,
		StartedAt: time.Now(),
	}

	if err := uc.scanRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("ArchiveUseCase - Scan - uc.scanRepo.Create: %w", err)
	}

	start := time.Now()
	report, pipelineErr := uc.runPipeline(ctx, directory)
	report.Elapsed = time.Since(start)

	now := time.Now()
	run.FinishedAt = &now
	run.Processed = report.Processed
	run.Skipped = report.Skipped
	run.Failed = report.Failed
	run.Status = entity.ScanFinished
	if pipelineErr != nil {
		run.Status = entity.ScanFailed
	}

	if err := uc.scanRepo.Finish(ctx, run); err != nil {
		uc.logger.Error(err, "ArchiveUseCase - Scan - uc.scanRepo.Finish")
	}

	if pipelineErr != nil {
		return report, fmt.Errorf("ArchiveUseCase - Scan - uc.runPipeline: %w", pipelineErr)
	}

	uc.logger.Info(
		"scan finished: dir=%s processed=%d skipped=%d failed=%d elapsed=%s",
		directory, report.Processed, report.Skipped, report.Failed, report.Elapsed,
	)

	return report, nil
}

// KnownDirectories lists every directory that has been scanned before, for
// the periodic rescan worker.
func (uc *ArchiveUseCase) KnownDirectories(ctx context.Context) ([]string, error) {
	dirs, err := uc.scanRepo.Directories(ctx)
	if err != nil {
		return nil, fmt.Errorf("ArchiveUseCase - KnownDirectories - uc.scanRepo.Directories: %w", err)
	}

	return dirs, nil
}
