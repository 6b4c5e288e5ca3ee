package services

import (
	"context"
	"fmt"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/repos"
	"github.com/tidefeed/tidefeed-backend/internal/types"
)

// TopTopicCount is how many most-liked source names stats reports.
const TopTopicCount = 3

// Stats aggregates a user's swipe activity.
type Stats struct {
	TotalSwipes int64    `json:"totalSwipes"`
	TopTopics   []string `json:"topTopics"`
}

type SwipeService interface {
	RecordSwipe(ctx context.Context, userID, articleID int64, liked bool) (*types.Swipe, error)
	// ResetSwipes irreversibly clears the user's swipe history, returning
	// them to cold start.
	ResetSwipes(ctx context.Context, userID int64) error
	GetStats(ctx context.Context, userID int64) (*Stats, error)
	GetLikedArticles(ctx context.Context, userID int64) ([]*types.Article, error)
}

type swipeService struct {
	log       *logger.Logger
	swipeRepo repos.SwipeRepo
}

func NewSwipeService(log *logger.Logger, swipeRepo repos.SwipeRepo) SwipeService {
	serviceLog := log.With("service", "SwipeService")
	return &swipeService{log: serviceLog, swipeRepo: swipeRepo}
}

func (ss *swipeService) RecordSwipe(ctx context.Context, userID, articleID int64, liked bool) (*types.Swipe, error) {
	swipe := &types.Swipe{
		UserID:    userID,
		ArticleID: articleID,
		Liked:     liked,
	}
	stored, err := ss.swipeRepo.Create(ctx, nil, swipe)
	if err != nil {
		return nil, fmt.Errorf("failed to record swipe: %w", err)
	}
	return stored, nil
}

func (ss *swipeService) ResetSwipes(ctx context.Context, userID int64) error {
	if err := ss.swipeRepo.DeleteByUserID(ctx, nil, userID); err != nil {
		return fmt.Errorf("failed to reset swipes: %w", err)
	}
	ss.log.Info("Cleared swipe history", "user_id", userID)
	return nil
}

func (ss *swipeService) GetStats(ctx context.Context, userID int64) (*Stats, error) {
	total, err := ss.swipeRepo.CountByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count swipes: %w", err)
	}
	sources, err := ss.swipeRepo.TopLikedSources(ctx, nil, userID, TopTopicCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate liked sources: %w", err)
	}
	topics := make([]string, 0, len(sources))
	for _, s := range sources {
		topics = append(topics, s.Source)
	}
	return &Stats{TotalSwipes: total, TopTopics: topics}, nil
}

func (ss *swipeService) GetLikedArticles(ctx context.Context, userID int64) ([]*types.Article, error) {
	articles, err := ss.swipeRepo.GetLikedArticles(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load liked articles: %w", err)
	}
	return articles, nil
}
