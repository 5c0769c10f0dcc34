package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/thealper2/llava-image-archiver/internal/dto"
	"github.com/thealper2/llava-image-archiver/internal/embedding"
	"github.com/thealper2/llava-image-archiver/internal/entity"
	"github.com/thealper2/llava-image-archiver/internal/infrastructure"
	"github.com/thealper2/llava-image-archiver/internal/repo"
	"github.com/thealper2/llava-image-archiver/pkg/logger"
)

// SearchUseCase answers literal and semantic queries over the archive.
type SearchUseCase struct {
	imageRepo repo.ImageMetadataRepo
	descRepo  repo.DescriptionRepo
	embedder  infrastructure.Embedder

	threshold float64
	logger    logger.Interface
}

func New(
	imageRepo repo.ImageMetadataRepo,
	descRepo repo.DescriptionRepo,
	embedder infrastructure.Embedder,
	threshold float64,
	l logger.Interface,
) *SearchUseCase {
	return &SearchUseCase{
		imageRepo: imageRepo,
		descRepo:  descRepo,
		embedder:  embedder,
		threshold: threshold,
		logger:    l,
	}
}

func (uc *SearchUseCase) Search(ctx context.Context, params dto.SearchParams) (*entity.SearchPage, error) {
	page := &entity.SearchPage{
		Query:      params.Query,
		SearchType: params.SearchType,
		Page:       params.Page,
		PerPage:    params.PerPage,
	}

	// An empty query renders an empty results page rather than failing.
	if params.Query == "" {
		return page, nil
	}

	var err error
	switch params.SearchType {
	case entity.SearchSemantic:
		err = uc.searchSemantic(ctx, params, page)
	default:
		page.SearchType = entity.SearchSQL
		err = uc.searchLiteral(ctx, params, page)
	}
	if err != nil {
		return nil, err
	}

	return page, nil
}

// searchLiteral matches the query against filenames and descriptions,
// paginated in SQL. Every hit carries similarity 1.0 so both modes render
// through the same template.
func (uc *SearchUseCase) searchLiteral(ctx context.Context, params dto.SearchParams, page *entity.SearchPage) error {
	images, err := uc.imageRepo.SearchLiteral(ctx, params.Query, params.PerPage, params.Offset())
	if err != nil {
		return fmt.Errorf("SearchUseCase - searchLiteral - uc.imageRepo.SearchLiteral: %w", err)
	}

	total, err := uc.imageRepo.CountLiteral(ctx, params.Query)
	if err != nil {
		return fmt.Errorf("SearchUseCase - searchLiteral - uc.imageRepo.CountLiteral: %w", err)
	}

	page.Total = total
	page.Results = make([]entity.SearchResult, 0, len(images))
	for _, img := range images {
		page.Results = append(page.Results, entity.SearchResult{Image: img, Similarity: 1.0})
	}

	return nil
}

// searchSemantic embeds the query, scores every stored description embedding
// by cosine similarity, keeps hits at or above the threshold sorted best
// first, and paginates in memory.
func (uc *SearchUseCase) searchSemantic(ctx context.Context, params dto.SearchParams, page *entity.SearchPage) error {
	queryVec, err := uc.embedder.EmbedSingle(ctx, params.Query)
	if err != nil {
		return fmt.Errorf("SearchUseCase - searchSemantic - uc.embedder.EmbedSingle: %w", err)
	}

	stored, err := uc.descRepo.AllEmbeddings(ctx)
	if err != nil {
		return fmt.Errorf("SearchUseCase - searchSemantic - uc.descRepo.AllEmbeddings: %w", err)
	}

	type hit struct {
		hash       string
		similarity float64
	}

	hits := make([]hit, 0, len(stored))
	for hash, blob := range stored {
		vec, err := embedding.Decode(blob)
		if err != nil {
			uc.logger.Warn("semantic search: bad embedding for %s: %v", hash, err)
			continue
		}
		if len(vec) != len(queryVec) {
			// Stale row embedded with a different model.
			continue
		}

		similarity := embedding.Cosine(queryVec, vec)
		if similarity >= uc.threshold {
			hits = append(hits, hit{hash: hash, similarity: similarity})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].similarity != hits[j].similarity {
			return hits[i].similarity > hits[j].similarity
		}
		return hits[i].hash < hits[j].hash
	})

	page.Total = len(hits)

	start := params.Offset()
	if start >= len(hits) {
		return nil
	}
	end := start + params.PerPage
	if end > len(hits) {
		end = len(hits)
	}

	page.Results = make([]entity.SearchResult, 0, end-start)
	for _, h := range hits[start:end] {
		image, err := uc.imageRepo.GetByHash(ctx, h.hash)
		if err != nil {
			uc.logger.Warn("semantic search: image %s missing: %v", h.hash, err)
			continue
		}
		page.Results = append(page.Results, entity.SearchResult{Image: *image, Similarity: h.similarity})
	}

	return nil
}

func (uc *SearchUseCase) GetImage(ctx context.Context, fileHash string) (*entity.Image, error) {
	image, err := uc.imageRepo.GetByHash(ctx, fileHash)
	if err != nil {
		return nil, fmt.Errorf("SearchUseCase - GetImage - uc.imageRepo.GetByHash: %w", err)
	}

	return image, nil
}

func (uc *SearchUseCase) GetThumbnail(ctx context.Context, fileHash string) ([]byte, error) {
	thumb, err := uc.descRepo.GetThumbnail(ctx, fileHash)
	if err != nil {
		return nil, fmt.Errorf("SearchUseCase - GetThumbnail - uc.descRepo.GetThumbnail: %w", err)
	}

	return thumb, nil
}
