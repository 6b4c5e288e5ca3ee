package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pgvector/pgvector-go"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/repos"
	"github.com/tidefeed/tidefeed-backend/internal/types"
)

const (
	// FeedSize is the target feed length per request.
	FeedSize = 10
	// SmartSize is how many similarity-ranked articles a warm feed carries.
	SmartSize = 7
)

type FeedService interface {
	// BuildFeed assembles one feed for the user: similarity-ranked
	// exploitation plus random exploration when a taste vector exists, pure
	// random when it does not. Already-swiped articles never reappear.
	BuildFeed(ctx context.Context, userID int64) ([]*types.Article, error)
}

type feedService struct {
	log          *logger.Logger
	articleRepo  repos.ArticleRepo
	swipeRepo    repos.SwipeRepo
	tasteService TasteService
}

func NewFeedService(log *logger.Logger, articleRepo repos.ArticleRepo, swipeRepo repos.SwipeRepo, tasteService TasteService) FeedService {
	serviceLog := log.With("service", "FeedService")
	return &feedService{
		log:          serviceLog,
		articleRepo:  articleRepo,
		swipeRepo:    swipeRepo,
		tasteService: tasteService,
	}
}

func (fs *feedService) BuildFeed(ctx context.Context, userID int64) ([]*types.Article, error) {
	swipedIDs, err := fs.swipeRepo.GetSwipedArticleIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load swipe history: %w", err)
	}

	taste, err := fs.tasteService.BuildTaste(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Cold start: no likes yet, nothing to rank against.
	if len(taste) == 0 {
		feed, err := fs.articleRepo.GetRandomExcluding(ctx, nil, swipedIDs, FeedSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load cold-start feed: %w", err)
		}
		fs.log.Debug("Built cold-start feed", "user_id", userID, "size", len(feed))
		return feed, nil
	}

	smart, err := fs.articleRepo.GetBySimilarity(ctx, nil, pgvector.NewVector(taste), swipedIDs, SmartSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load similarity-ranked articles: %w", err)
	}

	exclude := make([]int64, 0, len(swipedIDs)+len(smart))
	exclude = append(exclude, swipedIDs...)
	for _, a := range smart {
		exclude = append(exclude, a.ID)
	}

	// The exploration slot absorbs whatever the smart query could not fill,
	// so an exhausted similarity neighborhood still yields a full feed.
	dumbLimit := FeedSize - len(smart)
	dumb, err := fs.articleRepo.GetRandomExcluding(ctx, nil, exclude, dumbLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load exploration articles: %w", err)
	}

	feed := append(smart, dumb...)
	shuffleArticles(feed)
	fs.log.Debug("Built hybrid feed", "user_id", userID, "smart", len(smart), "dumb", len(dumb))
	return feed, nil
}

// shuffleArticles randomizes presentation order so exploration items are not
// visually segregated from ranked ones.
func shuffleArticles(articles []*types.Article) {
	rand.Shuffle(len(articles), func(i, j int) {
		articles[i], articles[j] = articles[j], articles[i]
	})
}
