package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestDimensions(t *testing.T) {
	data := encodePNG(t, 640, 480)

	width, height, err := New().Dimensions(data)
	if err != nil {
		t.Fatalf("Dimensions failed: %v", err)
	}
	if width != 640 || height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", width, height)
	}
}

func TestDimensionsRejectsGarbage(t *testing.T) {
	if _, _, err := New().Dimensions([]byte("not an image")); err == nil {
		t.Fatal("expected error for non-image bytes, got nil")
	}
}

func TestThumbnailFitsBoundAndKeepsAspect(t *testing.T) {
	data := encodePNG(t, 1600, 800)

	thumb, err := New().Thumbnail(data)
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("thumbnail format = %q, want jpeg", format)
	}
	if cfg.Width > 320 || cfg.Height > 320 {
		t.Errorf("thumbnail = %dx%d, want within 320x320", cfg.Width, cfg.Height)
	}
	if cfg.Width != 320 || cfg.Height != 160 {
		t.Errorf("thumbnail = %dx%d, want 320x160 for a 2:1 source", cfg.Width, cfg.Height)
	}
}

func TestThumbnailSmallImageNotUpscaled(t *testing.T) {
	data := encodePNG(t, 100, 50)

	thumb, err := New().Thumbnail(data)
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("thumbnail = %dx%d, want 100x50 (no upscale)", cfg.Width, cfg.Height)
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	if _, err := New().Thumbnail([]byte("not an image")); err == nil {
		t.Fatal("expected error for non-image bytes, got nil")
	}
}
