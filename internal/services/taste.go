package services

import (
	"context"
	"fmt"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/repos"
)

// TasteLikeCount is how many of the user's most recent likes contribute to
// the taste vector.
const TasteLikeCount = 3

type TasteService interface {
	// BuildTaste derives a representative vector from the user's most recent
	// liked articles. Returns (nil, nil) when the user has no qualifying
	// likes; that is the cold-start signal, not an error.
	BuildTaste(ctx context.Context, userID int64) ([]float32, error)
}

type tasteService struct {
	log       *logger.Logger
	swipeRepo repos.SwipeRepo
}

func NewTasteService(log *logger.Logger, swipeRepo repos.SwipeRepo) TasteService {
	serviceLog := log.With("service", "TasteService")
	return &tasteService{log: serviceLog, swipeRepo: swipeRepo}
}

func (ts *tasteService) BuildTaste(ctx context.Context, userID int64) ([]float32, error) {
	articles, err := ts.swipeRepo.GetRecentLikedArticles(ctx, nil, userID, TasteLikeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent liked articles: %w", err)
	}
	if len(articles) == 0 {
		return nil, nil
	}
	vectors := make([][]float32, 0, len(articles))
	for _, a := range articles {
		vectors = append(vectors, a.Embedding.Slice())
	}
	taste, err := meanVector(vectors)
	if err != nil {
		return nil, fmt.Errorf("failed to average liked embeddings: %w", err)
	}
	return taste, nil
}

// meanVector computes the element-wise arithmetic mean. The corpus schema
// guarantees a single dimensionality; a mismatch here means corrupted data,
// so it is surfaced rather than papered over.
func meanVector(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, nil
	}
	dim := len(vectors[0])
	sums := make([]float64, dim)
	for _, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("embedding dimensionality mismatch: %d != %d", len(vec), dim)
		}
		for i, v := range vec {
			sums[i] += float64(v)
		}
	}
	mean := make([]float32, dim)
	n := float64(len(vectors))
	for i := range sums {
		mean[i] = float32(sums[i] / n)
	}
	return mean, nil
}
