package repos

import (
	"context"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/types"
)

type ArticleRepo interface {
	// CreateIgnoreDuplicates inserts the given articles, silently skipping
	// any whose URL already exists. Returns the number of genuinely new rows.
	CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, articles []*types.Article) (int64, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, articleIDs []int64) ([]*types.Article, error)
	// GetBySimilarity returns articles ranked by ascending cosine distance to
	// the taste vector, excluding the given ids. An empty exclusion slice is
	// a no-op filter.
	GetBySimilarity(ctx context.Context, tx *gorm.DB, taste pgvector.Vector, excludeIDs []int64, limit int) ([]*types.Article, error)
	// GetRandomExcluding returns up to limit articles in random order,
	// excluding the given ids.
	GetRandomExcluding(ctx context.Context, tx *gorm.DB, excludeIDs []int64, limit int) ([]*types.Article, error)
}

type articleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	repoLog := baseLog.With("repo", "ArticleRepo")
	return &articleRepo{db: db, log: repoLog}
}

func (ar *articleRepo) CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, articles []*types.Article) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(articles) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).
		Create(&articles)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (ar *articleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, articleIDs []int64) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Article
	if len(articleIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id = ANY(?::bigint[])", pq.Array(articleIDs)).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *articleRepo) GetBySimilarity(ctx context.Context, tx *gorm.DB, taste pgvector.Vector, excludeIDs []int64, limit int) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Article
	if err := transaction.WithContext(ctx).Raw(`
		SELECT * FROM article
		WHERE id <> ALL(?::bigint[])
		ORDER BY embedding <=> ?
		LIMIT ?`,
		pq.Array(excludeIDs), taste, limit,
	).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *articleRepo) GetRandomExcluding(ctx context.Context, tx *gorm.DB, excludeIDs []int64, limit int) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Article
	if err := transaction.WithContext(ctx).Raw(`
		SELECT * FROM article
		WHERE id <> ALL(?::bigint[])
		ORDER BY random()
		LIMIT ?`,
		pq.Array(excludeIDs), limit,
	).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
