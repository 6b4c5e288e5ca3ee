package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/types"
)

// SourceLikeCount is one row of the liked-source aggregation behind stats.
type SourceLikeCount struct {
	Source string `json:"source"`
	Likes  int64  `json:"likes"`
}

type SwipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, swipe *types.Swipe) (*types.Swipe, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID int64) error
	CountByUserID(ctx context.Context, tx *gorm.DB, userID int64) (int64, error)
	// GetSwipedArticleIDs returns every article id the user has ever swiped,
	// liked or not.
	GetSwipedArticleIDs(ctx context.Context, tx *gorm.DB, userID int64) ([]int64, error)
	// GetRecentLikedArticles returns the articles behind the user's most
	// recent likes, most recent first. Duplicate likes of the same article
	// yield duplicate rows.
	GetRecentLikedArticles(ctx context.Context, tx *gorm.DB, userID int64, limit int) ([]*types.Article, error)
	// GetLikedArticles returns the user's liked articles deduplicated per
	// article, most recently liked first.
	GetLikedArticles(ctx context.Context, tx *gorm.DB, userID int64) ([]*types.Article, error)
	TopLikedSources(ctx context.Context, tx *gorm.DB, userID int64, limit int) ([]SourceLikeCount, error)
}

type swipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSwipeRepo(db *gorm.DB, baseLog *logger.Logger) SwipeRepo {
	repoLog := baseLog.With("repo", "SwipeRepo")
	return &swipeRepo{db: db, log: repoLog}
}

func (sr *swipeRepo) Create(ctx context.Context, tx *gorm.DB, swipe *types.Swipe) (*types.Swipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(swipe).Error; err != nil {
		return nil, err
	}
	return swipe, nil
}

func (sr *swipeRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.Swipe{}).Error
}

func (sr *swipeRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Swipe{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (sr *swipeRepo) GetSwipedArticleIDs(ctx context.Context, tx *gorm.DB, userID int64) ([]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var ids []int64
	if err := transaction.WithContext(ctx).
		Model(&types.Swipe{}).
		Distinct("article_id").
		Where("user_id = ?", userID).
		Pluck("article_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (sr *swipeRepo) GetRecentLikedArticles(ctx context.Context, tx *gorm.DB, userID int64, limit int) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Article
	if err := transaction.WithContext(ctx).Raw(`
		SELECT a.* FROM article a
		JOIN swipe s ON s.article_id = a.id
		WHERE s.user_id = ? AND s.liked = TRUE
		ORDER BY s.created_at DESC
		LIMIT ?`,
		userID, limit,
	).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *swipeRepo) GetLikedArticles(ctx context.Context, tx *gorm.DB, userID int64) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Article
	if err := transaction.WithContext(ctx).Raw(`
		SELECT a.* FROM article a
		JOIN swipe s ON s.article_id = a.id
		WHERE s.user_id = ? AND s.liked = TRUE
		GROUP BY a.id
		ORDER BY MAX(s.created_at) DESC`,
		userID,
	).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *swipeRepo) TopLikedSources(ctx context.Context, tx *gorm.DB, userID int64, limit int) ([]SourceLikeCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []SourceLikeCount
	if err := transaction.WithContext(ctx).Raw(`
		SELECT a.source AS source, COUNT(*) AS likes FROM swipe s
		JOIN article a ON a.id = s.article_id
		WHERE s.user_id = ? AND s.liked = TRUE
		GROUP BY a.source
		ORDER BY likes DESC
		LIMIT ?`,
		userID, limit,
	).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
