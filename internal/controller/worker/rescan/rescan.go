// Package rescan periodically re-walks previously scanned directories so
// images added after the original scan get archived without user action.
package rescan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thealper2/llava-image-archiver/internal/usecase"
	"github.com/thealper2/llava-image-archiver/pkg/logger"
	"github.com/thealper2/llava-image-archiver/pkg/types/errs"
)

type Worker struct {
	archive usecase.ArchiveUseCase
	logger  logger.Interface

	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(archive usecase.ArchiveUseCase, l logger.Interface, interval time.Duration) *Worker {
	return &Worker{
		archive:  archive,
		logger:   l,
		interval: interval,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return nil // disabled
	}

	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("rescan - Start - worker already started")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.rescanAll()
			}
		}
	}()

	return nil
}

func (w *Worker) rescanAll() {
	dirs, err := w.archive.KnownDirectories(w.ctx)
	if err != nil {
		w.logger.Error(err, "rescan - rescanAll - w.archive.KnownDirectories")

		return
	}

	for _, dir := range dirs {
		if w.ctx.Err() != nil {
			return
		}

		report, err := w.archive.Scan(w.ctx, dir)
		if err != nil {
			// A user-triggered scan wins; try again next tick. A directory
			// that no longer exists is only worth a debug line.
			switch {
			case errors.Is(err, errs.ErrScanInProgress):
				return
			case errors.Is(err, errs.ErrInvalidDirectory):
				w.logger.Debug("rescan: directory %s no longer exists", dir)
			default:
				w.logger.Error(err, "rescan - rescanAll - w.archive.Scan")
			}
			continue
		}

		if report.Processed > 0 {
			w.logger.Info("rescan: archived %d new images from %s", report.Processed, dir)
		}
	}
}

func (w *Worker) Shutdown(ctx context.Context) error {
	if !w.started.Load() {
		return nil
	}

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})

	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
