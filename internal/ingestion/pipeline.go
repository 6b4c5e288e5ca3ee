package ingestion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/tidefeed/tidefeed-backend/internal/clients/embedding"
	"github.com/tidefeed/tidefeed-backend/internal/clients/newsapi"
	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/repos"
	"github.com/tidefeed/tidefeed-backend/internal/types"
)

// HeadlineSource is the slice of the news client the pipeline needs.
type HeadlineSource interface {
	TopHeadlines(ctx context.Context, category string, pageSize int) ([]newsapi.Headline, error)
}

// Summary reports what a run accomplished before finishing or aborting.
type Summary struct {
	Inserted            int64
	Skipped             int
	ProcessedCategories []string
}

type Pipeline struct {
	log           *logger.Logger
	source        HeadlineSource
	embedder      embedding.Provider
	articleRepo   repos.ArticleRepo
	categories    []string
	pageSize      int
	categoryDelay time.Duration
}

func NewPipeline(
	log *logger.Logger,
	source HeadlineSource,
	embedder embedding.Provider,
	articleRepo repos.ArticleRepo,
	categories []string,
	pageSize int,
	categoryDelay time.Duration,
) *Pipeline {
	return &Pipeline{
		log:           log.With("service", "IngestionPipeline"),
		source:        source,
		embedder:      embedder,
		articleRepo:   articleRepo,
		categories:    categories,
		pageSize:      pageSize,
		categoryDelay: categoryDelay,
	}
}

// Run ingests every configured category in order, pausing between categories
// to stay under the upstream rate limit. A 429 from the source aborts the
// entire remaining run; any other fetch or insert error aborts as well.
// Per-article failures (incomplete record, absent embedding) only skip that
// article. The returned Summary is valid on both success and abort.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	runID := uuid.New().String()
	log := p.log.With("run_id", runID)
	log.Info("Starting ingestion run", "categories", strings.Join(p.categories, ","), "page_size", p.pageSize)

	var summary Summary
	for i, category := range p.categories {
		headlines, err := p.source.TopHeadlines(ctx, category, p.pageSize)
		if err != nil {
			if errors.Is(err, newsapi.ErrRateLimited) {
				log.Error("Headline source rate limited, aborting remaining run", "category", category)
			} else {
				log.Error("Headline fetch failed, aborting run", "category", category, "error", err)
			}
			return summary, err
		}

		inserted, skipped, err := p.ingestCategory(ctx, log, category, headlines)
		if err != nil {
			log.Error("Failed to persist category, aborting run", "category", category, "error", err)
			return summary, err
		}
		summary.Inserted += inserted
		summary.Skipped += skipped
		summary.ProcessedCategories = append(summary.ProcessedCategories, category)
		log.Info("Category ingested", "category", category, "fetched", len(headlines), "inserted", inserted, "skipped", skipped)

		if i < len(p.categories)-1 && p.categoryDelay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(p.categoryDelay):
			}
		}
	}

	log.Info("Ingestion run complete", "inserted", summary.Inserted, "skipped", summary.Skipped, "categories", strings.Join(summary.ProcessedCategories, ","))
	return summary, nil
}

func (p *Pipeline) ingestCategory(ctx context.Context, log *logger.Logger, category string, headlines []newsapi.Headline) (int64, int, error) {
	batch := make([]*types.Article, 0, len(headlines))
	skipped := 0

	for _, h := range headlines {
		if strings.TrimSpace(h.Title) == "" ||
			strings.TrimSpace(h.Description) == "" ||
			strings.TrimSpace(h.ImageURL) == "" {
			log.Debug("Skipping incomplete headline", "category", category, "url", h.URL)
			skipped++
			continue
		}

		vec, ok := p.embedder.Embed(ctx, h.Title+". "+h.Description)
		if !ok {
			log.Warn("Embedding unavailable for headline, skipping", "category", category, "url", h.URL)
			skipped++
			continue
		}

		batch = append(batch, &types.Article{
			Title:       h.Title,
			Description: h.Description,
			URL:         h.URL,
			ImageURL:    h.ImageURL,
			Source:      h.Source,
			PublishedAt: h.PublishedAt,
			Embedding:   pgvector.NewVector(vec),
		})
	}

	inserted, err := p.articleRepo.CreateIgnoreDuplicates(ctx, nil, batch)
	if err != nil {
		return 0, skipped, err
	}
	return inserted, skipped, nil
}
