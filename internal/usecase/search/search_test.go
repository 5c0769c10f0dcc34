package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/thealper2/llava-image-archiver/internal/dto"
	"github.com/thealper2/llava-image-archiver/internal/embedding"
	"github.com/thealper2/llava-image-archiver/internal/entity"
	"github.com/thealper2/llava-image-archiver/pkg/types/errs"
)

type nopLogger struct{}

func (nopLogger) Debug(message interface{}, args ...interface{}) {}
func (nopLogger) Info(message string, args ...interface{})       {}
func (nopLogger) Warn(message string, args ...interface{})       {}
func (nopLogger) Error(message interface{}, args ...interface{}) {}
func (nopLogger) Fatal(message interface{}, args ...interface{}) {}

type fakeImageRepo struct {
	images  map[string]entity.Image
	literal []entity.Image
	total   int
}

func (f *fakeImageRepo) Create(ctx context.Context, image *entity.Image) error { return nil }

func (f *fakeImageRepo) GetByHash(ctx context.Context, fileHash string) (*entity.Image, error) {
	img, ok := f.images[fileHash]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}
	return &img, nil
}

func (f *fakeImageRepo) ExistsByHash(ctx context.Context, fileHash string) (bool, error) {
	_, ok := f.images[fileHash]
	return ok, nil
}

func (f *fakeImageRepo) SearchLiteral(ctx context.Context, query string, limit, offset int) ([]entity.Image, error) {
	return f.literal, nil
}

func (f *fakeImageRepo) CountLiteral(ctx context.Context, query string) (int, error) {
	return f.total, nil
}

func (f *fakeImageRepo) Delete(ctx context.Context, fileHash string) error { return nil }

type fakeDescRepo struct {
	embeddings map[string][]byte
}

func (f *fakeDescRepo) Upsert(ctx context.Context, desc *entity.Description) error { return nil }

func (f *fakeDescRepo) AllEmbeddings(ctx context.Context) (map[string][]byte, error) {
	return f.embeddings, nil
}

func (f *fakeDescRepo) GetThumbnail(ctx context.Context, imageHash string) ([]byte, error) {
	return nil, errs.ErrRecordNotFound
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = f.vector
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func testImage(hash string) entity.Image {
	return entity.Image{Filename: hash + ".jpg", FileHash: hash}
}

func TestSearchEmptyQuery(t *testing.T) {
	uc := New(&fakeImageRepo{}, &fakeDescRepo{}, &fakeEmbedder{}, 0.5, nopLogger{})

	page, err := uc.Search(context.Background(), dto.SearchParams{
		Query:      "",
		SearchType: entity.SearchSemantic,
		Page:       1,
		PerPage:    20,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if page.Total != 0 || len(page.Results) != 0 {
		t.Errorf("empty query returned %d results (total %d), want none", len(page.Results), page.Total)
	}
}

func TestSearchLiteral(t *testing.T) {
	repo := &fakeImageRepo{
		literal: []entity.Image{testImage("aaa"), testImage("bbb")},
		total:   7,
	}
	uc := New(repo, &fakeDescRepo{}, &fakeEmbedder{}, 0.5, nopLogger{})

	page, err := uc.Search(context.Background(), dto.SearchParams{
		Query:      "sunset",
		SearchType: entity.SearchSQL,
		Page:       1,
		PerPage:    2,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if page.Total != 7 {
		t.Errorf("Total = %d, want 7", page.Total)
	}
	if len(page.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(page.Results))
	}
	for _, res := range page.Results {
		if res.Similarity != 1.0 {
			t.Errorf("literal result similarity = %v, want 1.0", res.Similarity)
		}
	}
}

func TestSearchDefaultsToLiteral(t *testing.T) {
	repo := &fakeImageRepo{total: 1, literal: []entity.Image{testImage("aaa")}}
	uc := New(repo, &fakeDescRepo{}, &fakeEmbedder{}, 0.5, nopLogger{})

	page, err := uc.Search(context.Background(), dto.SearchParams{
		Query:      "cat",
		SearchType: entity.SearchType("bogus"),
		Page:       1,
		PerPage:    10,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if page.SearchType != entity.SearchSQL {
		t.Errorf("SearchType = %q, want %q", page.SearchType, entity.SearchSQL)
	}
}

func TestSearchSemanticThresholdAndOrder(t *testing.T) {
	// Query vector points along x; similarity to each stored vector is the
	// cosine of its angle from x.
	query := []float32{1, 0}
	stored := map[string][]byte{
		"exact":      embedding.Encode([]float32{2, 0}),       // 1.0
		"close":      embedding.Encode([]float32{1, 0.5}),     // ~0.894
		"borderline": embedding.Encode([]float32{1, 1}),       // ~0.707
		"below":      embedding.Encode([]float32{0.1, 1}),     // ~0.0995
		"staledim":   embedding.Encode([]float32{1, 0, 0}),    // wrong dimension
		"corrupt":    {1, 2, 3},                               // not a whole float32
		"orphan":     embedding.Encode([]float32{0.99, 0.01}), // no image row
	}

	repo := &fakeImageRepo{images: map[string]entity.Image{
		"exact":      testImage("exact"),
		"close":      testImage("close"),
		"borderline": testImage("borderline"),
		"below":      testImage("below"),
	}}
	uc := New(repo, &fakeDescRepo{embeddings: stored}, &fakeEmbedder{vector: query}, 0.5, nopLogger{})

	page, err := uc.Search(context.Background(), dto.SearchParams{
		Query:      "anything",
		SearchType: entity.SearchSemantic,
		Page:       1,
		PerPage:    20,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// orphan scores above threshold but has no image row, so the total counts
	// it while the rendered page drops it.
	if page.Total != 4 {
		t.Errorf("Total = %d, want 4", page.Total)
	}

	wantOrder := []string{"exact", "close", "borderline"}
	if len(page.Results) != len(wantOrder) {
		t.Fatalf("got %d results, want %d", len(page.Results), len(wantOrder))
	}
	for i, want := range wantOrder {
		if page.Results[i].Image.FileHash != want {
			t.Errorf("result[%d] = %q, want %q", i, page.Results[i].Image.FileHash, want)
		}
	}

	for i := 1; i < len(page.Results); i++ {
		if page.Results[i].Similarity > page.Results[i-1].Similarity {
			t.Errorf("results not sorted: %v before %v", page.Results[i-1].Similarity, page.Results[i].Similarity)
		}
	}
}

func TestSearchSemanticPagination(t *testing.T) {
	query := []float32{1, 0}

	images := make(map[string]entity.Image)
	stored := make(map[string][]byte)
	for i := 0; i < 5; i++ {
		hash := fmt.Sprintf("img%d", i)
		images[hash] = testImage(hash)
		stored[hash] = embedding.Encode(query)
	}

	uc := New(&fakeImageRepo{images: images}, &fakeDescRepo{embeddings: stored}, &fakeEmbedder{vector: query}, 0.5, nopLogger{})

	page, err := uc.Search(context.Background(), dto.SearchParams{
		Query:      "anything",
		SearchType: entity.SearchSemantic,
		Page:       2,
		PerPage:    2,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if page.Total != 5 {
		t.Errorf("Total = %d, want 5", page.Total)
	}
	if len(page.Results) != 2 {
		t.Errorf("page 2 has %d results, want 2", len(page.Results))
	}

	// Identical scores fall back to hash order, so page 3 holds img4 only.
	page, err = uc.Search(context.Background(), dto.SearchParams{
		Query:      "anything",
		SearchType: entity.SearchSemantic,
		Page:       3,
		PerPage:    2,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].Image.FileHash != "img4" {
		t.Errorf("page 3 = %+v, want just img4", page.Results)
	}

	// Past the end is an empty page, not an error.
	page, err = uc.Search(context.Background(), dto.SearchParams{
		Query:      "anything",
		SearchType: entity.SearchSemantic,
		Page:       9,
		PerPage:    2,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(page.Results) != 0 {
		t.Errorf("page past the end has %d results, want 0", len(page.Results))
	}
}

func TestSearchSemanticEmbedderError(t *testing.T) {
	uc := New(&fakeImageRepo{}, &fakeDescRepo{}, &fakeEmbedder{err: errors.New("model offline")}, 0.5, nopLogger{})

	_, err := uc.Search(context.Background(), dto.SearchParams{
		Query:      "anything",
		SearchType: entity.SearchSemantic,
		Page:       1,
		PerPage:    20,
	})
	if err == nil {
		t.Fatal("expected error when embedder fails, got nil")
	}
}

func TestGetImage(t *testing.T) {
	repo := &fakeImageRepo{images: map[string]entity.Image{"aaa": testImage("aaa")}}
	uc := New(repo, &fakeDescRepo{}, &fakeEmbedder{}, 0.5, nopLogger{})

	img, err := uc.GetImage(context.Background(), "aaa")
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if img.FileHash != "aaa" {
		t.Errorf("FileHash = %q, want %q", img.FileHash, "aaa")
	}

	_, err = uc.GetImage(context.Background(), "missing")
	if !errors.Is(err, errs.ErrRecordNotFound) {
		t.Errorf("GetImage(missing) error = %v, want ErrRecordNotFound", err)
	}
}
