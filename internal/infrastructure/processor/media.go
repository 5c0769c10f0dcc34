// Package processor probes image dimensions and renders thumbnails for the
// results grid.
package processor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Register decoders for formats the archiver accepts but the standard
	// image package doesn't cover.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const thumbBound = 320

type MediaProcessor struct {
}

func New() *MediaProcessor {
	return &MediaProcessor{}
}

// Dimensions returns the pixel width and height of the encoded image.
func (p *MediaProcessor) Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("MediaProcessor - Dimensions - image.DecodeConfig: %w", err)
	}

	return cfg.Width, cfg.Height, nil
}

// Thumbnail renders the image as a JPEG fitting inside a 320x320 box,
// preserving aspect ratio.
func (p *MediaProcessor) Thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("MediaProcessor - Thumbnail - imaging.Decode: %w", err)
	}

	thumb := imaging.Fit(img, thumbBound, thumbBound, imaging.Lanczos)

	var buf bytes.Buffer
	err = imaging.Encode(&buf, thumb, imaging.JPEG)
	if err != nil {
		return nil, fmt.Errorf("MediaProcessor - Thumbnail - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
