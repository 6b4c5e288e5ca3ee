package services

import (
	"context"
	"math"
	"testing"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/repos"
	"github.com/tidefeed/tidefeed-backend/internal/types"
)

type fakeSwipeRepo struct {
	recentLiked   []*types.Article
	likedArticles []*types.Article
	swipedIDs     []int64
	total         int64
	topSources    []repos.SourceLikeCount
	created       []*types.Swipe
	deletedFor    []int64
}

func (f *fakeSwipeRepo) Create(ctx context.Context, tx *gorm.DB, swipe *types.Swipe) (*types.Swipe, error) {
	swipe.ID = int64(len(f.created) + 1)
	f.created = append(f.created, swipe)
	return swipe, nil
}

func (f *fakeSwipeRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID int64) error {
	f.deletedFor = append(f.deletedFor, userID)
	return nil
}

func (f *fakeSwipeRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID int64) (int64, error) {
	return f.total, nil
}

func (f *fakeSwipeRepo) GetSwipedArticleIDs(ctx context.Context, tx *gorm.DB, userID int64) ([]int64, error) {
	return f.swipedIDs, nil
}

func (f *fakeSwipeRepo) GetRecentLikedArticles(ctx context.Context, tx *gorm.DB, userID int64, limit int) ([]*types.Article, error) {
	if limit > len(f.recentLiked) {
		limit = len(f.recentLiked)
	}
	return f.recentLiked[:limit], nil
}

func (f *fakeSwipeRepo) GetLikedArticles(ctx context.Context, tx *gorm.DB, userID int64) ([]*types.Article, error) {
	return f.likedArticles, nil
}

func (f *fakeSwipeRepo) TopLikedSources(ctx context.Context, tx *gorm.DB, userID int64, limit int) ([]repos.SourceLikeCount, error) {
	if limit > len(f.topSources) {
		limit = len(f.topSources)
	}
	return f.topSources[:limit], nil
}

func embeddedArticle(id int64, vec []float32) *types.Article {
	return &types.Article{ID: id, Embedding: pgvector.NewVector(vec)}
}

func TestMeanVector(t *testing.T) {
	cases := []struct {
		name    string
		vectors [][]float32
		want    []float32
		wantErr bool
	}{
		{
			name:    "single_vector_is_identity",
			vectors: [][]float32{{1, 2, 3}},
			want:    []float32{1, 2, 3},
		},
		{
			name:    "elementwise_mean",
			vectors: [][]float32{{1, 0, 2}, {3, 2, 0}},
			want:    []float32{2, 1, 1},
		},
		{
			name:    "three_vectors",
			vectors: [][]float32{{1, 0}, {0, 1}, {2, 2}},
			want:    []float32{1, 1},
		},
		{
			name:    "dimensionality_mismatch",
			vectors: [][]float32{{1, 2}, {1, 2, 3}},
			wantErr: true,
		},
		{
			name:    "empty_input",
			vectors: nil,
			want:    nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := meanVector(tc.vectors)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("meanVector expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("meanVector returned error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("meanVector dimension = %d, want %d", len(got), len(tc.want))
			}
			for i := range tc.want {
				if math.Abs(float64(got[i]-tc.want[i])) > 1e-6 {
					t.Fatalf("meanVector[%d] = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestBuildTasteColdStart(t *testing.T) {
	ts := NewTasteService(logger.NewNop(), &fakeSwipeRepo{})
	taste, err := ts.BuildTaste(context.Background(), 1)
	if err != nil {
		t.Fatalf("BuildTaste returned error: %v", err)
	}
	if taste != nil {
		t.Fatalf("BuildTaste = %v, want nil for user with no likes", taste)
	}
}

func TestBuildTasteAveragesRecentLikes(t *testing.T) {
	repo := &fakeSwipeRepo{
		recentLiked: []*types.Article{
			embeddedArticle(1, []float32{1, 0, 0}),
			embeddedArticle(2, []float32{0, 1, 0}),
			embeddedArticle(3, []float32{0, 0, 1}),
		},
	}
	ts := NewTasteService(logger.NewNop(), repo)
	taste, err := ts.BuildTaste(context.Background(), 1)
	if err != nil {
		t.Fatalf("BuildTaste returned error: %v", err)
	}
	want := []float32{1.0 / 3, 1.0 / 3, 1.0 / 3}
	if len(taste) != len(want) {
		t.Fatalf("taste dimension = %d, want %d", len(taste), len(want))
	}
	for i := range want {
		if math.Abs(float64(taste[i]-want[i])) > 1e-6 {
			t.Fatalf("taste[%d] = %v, want %v", i, taste[i], want[i])
		}
	}
}

func TestBuildTasteLimitsToRecentLikes(t *testing.T) {
	// Four likes on record, only the three most recent should contribute.
	repo := &fakeSwipeRepo{
		recentLiked: []*types.Article{
			embeddedArticle(1, []float32{1, 1}),
			embeddedArticle(2, []float32{1, 1}),
			embeddedArticle(3, []float32{1, 1}),
			embeddedArticle(4, []float32{100, 100}),
		},
	}
	ts := NewTasteService(logger.NewNop(), repo)
	taste, err := ts.BuildTaste(context.Background(), 1)
	if err != nil {
		t.Fatalf("BuildTaste returned error: %v", err)
	}
	for i := range taste {
		if math.Abs(float64(taste[i]-1)) > 1e-6 {
			t.Fatalf("taste[%d] = %v, want 1 (older like leaked into the window)", i, taste[i])
		}
	}
}
