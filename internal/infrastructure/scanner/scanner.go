// Package scanner finds image files under a directory tree.
package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// FileInfo holds metadata about a discovered image file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// supportedExtensions mirrors the formats the processor can decode.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// IsImageFile reports whether the path has a supported image extension.
func IsImageFile(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

type Scanner struct {
	maxFileSize int64
}

func New(maxFileSize int64) *Scanner {
	return &Scanner{maxFileSize: maxFileSize}
}

// Scan traverses the tree rooted at root and sends discovered image files on
// the returned channel. Dot-directories and symlinks are skipped, as are
// empty files and files above the size cap. Unreadable entries are skipped
// rather than aborting the walk.
func (s *Scanner) Scan(ctx context.Context, root string) (<-chan FileInfo, <-chan error) {
	files := make(chan FileInfo, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			errs <- err
			return
		}

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip errors, keep walking
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			if d.IsDir() {
				if path != absRoot && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}

			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}

			if !IsImageFile(path) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}

			if info.Size() == 0 || (s.maxFileSize > 0 && info.Size() > s.maxFileSize) {
				return nil
			}

			select {
			case files <- FileInfo{Path: path, Name: d.Name(), Size: info.Size(), ModTime: info.ModTime()}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			errs <- err
		}
	}()

	return files, errs
}
