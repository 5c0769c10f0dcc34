package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/thealper2/llava-image-archiver/internal/dto"
	"github.com/thealper2/llava-image-archiver/internal/embedding"
	"github.com/thealper2/llava-image-archiver/internal/entity"
	"github.com/thealper2/llava-image-archiver/internal/infrastructure/scanner"
	"golang.org/x/sync/errgroup"
)

// fileWork is a discovered file that is not yet in the archive.
type fileWork struct {
	info scanner.FileInfo
	hash string
	data []byte
}

// archivedImage has everything the store stage persists for one file.
type archivedImage struct {
	work        fileWork
	description string
	vector      []float32
	width       *int
	height      *int
	thumbnail   []byte
}

// runPipeline is staged: walk -> N hash/dedupe workers -> N describe+embed
// workers -> one store writer. Caption and embedding calls dominate, so the
// enrich stage carries the same worker count as hashing.
func (uc *ArchiveUseCase) runPipeline(ctx context.Context, directory string) (*dto.ScanReport, error) {
	workers := uc.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var skipped, failed atomic.Int64

	// Stage 1: walk
	fileCh, walkErrCh := uc.scanner.Scan(ctx, directory)

	// Stage 2: hash + dedupe
	workCh := make(chan fileWork, workers)
	hashGroup := new(errgroup.Group)
	for i := 0; i < workers; i++ {
		hashGroup.Go(func() error {
			for fi := range fileCh {
				data, err := os.ReadFile(fi.Path)
				if err != nil {
					uc.logger.Warn("scan: read %s failed: %v", fi.Path, err)
					failed.Add(1)
					continue
				}

				sum := sha256.Sum256(data)
				hash := hex.EncodeToString(sum[:])

				exists, err := uc.imageRepo.ExistsByHash(ctx, hash)
				if err != nil {
					uc.logger.Error(err, "ArchiveUseCase - runPipeline - uc.imageRepo.ExistsByHash")
					failed.Add(1)
					continue
				}
				if exists {
					skipped.Add(1)
					continue
				}

				select {
				case workCh <- fileWork{info: fi, hash: hash, data: data}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		_ = hashGroup.Wait()
		close(workCh)
	}()

	// Stage 3: describe + embed + thumbnail
	storeCh := make(chan archivedImage, workers)
	enrichGroup := new(errgroup.Group)
	for i := 0; i < workers; i++ {
		enrichGroup.Go(func() error {
			for w := range workCh {
				item, ok := uc.enrich(ctx, w)
				if !ok {
					failed.Add(1)
					continue
				}

				select {
				case storeCh <- item:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		_ = enrichGroup.Wait()
		close(storeCh)
	}()

	// Stage 4: store
	report := &dto.ScanReport{}
	for item := range storeCh {
		if err := uc.store(ctx, item); err != nil {
			uc.logger.Error(err, "ArchiveUseCase - runPipeline - uc.store")
			failed.Add(1)
			continue
		}
		report.Processed++
	}

	report.Skipped = int(skipped.Load())
	report.Failed = int(failed.Load())

	if err := <-walkErrCh; err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	return report, nil
}

// enrich captions, embeds, and thumbnails one file. A caption or embedding
// failure drops the file (it stays unknown and is retried on the next scan);
// dimension or thumbnail failures only lose that metadata.
func (uc *ArchiveUseCase) enrich(ctx context.Context, w fileWork) (archivedImage, bool) {
	description, err := uc.describer.Describe(ctx, w.info.Path)
	if err != nil {
		uc.logger.Warn("scan: describe %s failed: %v", w.info.Path, err)
		return archivedImage{}, false
	}

	vector, err := uc.embedder.EmbedSingle(ctx, description)
	if err != nil {
		uc.logger.Warn("scan: embed %s failed: %v", w.info.Path, err)
		return archivedImage{}, false
	}

	item := archivedImage{
		work:        w,
		description: description,
		vector:      vector,
	}

	width, height, err := uc.media.Dimensions(w.data)
	if err != nil {
		uc.logger.Warn("scan: dimensions of %s unavailable: %v", w.info.Path, err)
	} else {
		item.width, item.height = &width, &height
	}

	thumb, err := uc.media.Thumbnail(w.data)
	if err != nil {
		uc.logger.Warn("scan: thumbnail for %s unavailable: %v", w.info.Path, err)
	} else {
		item.thumbnail = thumb
	}

	return item, true
}

// store persists the image record and its description in one transaction.
func (uc *ArchiveUseCase) store(ctx context.Context, item archivedImage) error {
	image := &entity.Image{
		Filepath:    item.work.info.Path,
		Filename:    item.work.info.Name,
		FileHash:    item.work.hash,
		FileSize:    item.work.info.Size,
		Width:       item.width,
		Height:      item.height,
		CreatedAt:   item.work.info.ModTime,
		ProcessedAt: time.Now(),
	}

	desc := &entity.Description{
		ImageHash: item.work.hash,
		Text:      item.description,
		Embedding: embedding.Encode(item.vector),
		Thumbnail: item.thumbnail,
	}

	return uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.imageRepo.Create(ctx, image); err != nil {
			return err
		}
		return uc.descRepo.Upsert(ctx, desc)
	})
}
