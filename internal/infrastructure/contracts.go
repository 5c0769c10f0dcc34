package infrastructure

import "context"

type (
	// Describer produces a textual caption for an image file.
	Describer interface {
		Describe(ctx context.Context, imagePath string) (string, error)
	}

	// Embedder turns texts into embedding vectors, order-preserving.
	Embedder interface {
		Embed(ctx context.Context, texts []string) ([][]float32, error)
		EmbedSingle(ctx context.Context, text string) ([]float32, error)
	}

	// MediaProcessor probes dimensions and renders thumbnails.
	MediaProcessor interface {
		Dimensions(data []byte) (int, int, error)
		Thumbnail(data []byte) ([]byte, error)
	}
)
