package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tidefeed/tidefeed-backend/internal/clients/embedding"
	"github.com/tidefeed/tidefeed-backend/internal/clients/newsapi"
	"github.com/tidefeed/tidefeed-backend/internal/db"
	"github.com/tidefeed/tidefeed-backend/internal/ingestion"
	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/repos"
	"github.com/tidefeed/tidefeed-backend/internal/utils"
)

const defaultCategories = "general,technology,business,sports,science"

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Required configuration: without an upstream key there is nothing to do.
	newsAPIKey := utils.GetEnv("NEWS_API_KEY", "", log)
	if newsAPIKey == "" {
		log.Error("NEWS_API_KEY is required")
		os.Exit(1)
	}
	newsBaseURL := utils.GetEnv("NEWS_API_BASE_URL", "https://newsapi.org", log)
	categories := splitCategories(utils.GetEnv("NEWS_CATEGORIES", defaultCategories, log))
	pageSize := utils.GetEnvAsInt("NEWS_PAGE_SIZE", 20, log)
	categoryDelay := time.Duration(utils.GetEnvAsInt("NEWS_CATEGORY_DELAY_MS", 1000, log)) * time.Millisecond
	fetchTimeout := time.Duration(utils.GetEnvAsInt("NEWS_FETCH_TIMEOUT_MS", 15000, log)) * time.Millisecond

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	articleRepo := repos.NewArticleRepo(postgresService.DB(), log)

	provider, err := embedding.NewProviderFromEnv(log)
	if err != nil {
		log.Error("Embedding provider init failed", "error", err)
		os.Exit(1)
	}

	newsClient := newsapi.NewClient(log, newsBaseURL, newsAPIKey, fetchTimeout)
	pipeline := ingestion.NewPipeline(log, newsClient, provider, articleRepo, categories, pageSize, categoryDelay)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, runErr := pipeline.Run(ctx)
	log.Info("Ingestion summary",
		"inserted", summary.Inserted,
		"skipped", summary.Skipped,
		"processed_categories", strings.Join(summary.ProcessedCategories, ","),
	)
	if runErr != nil {
		if errors.Is(runErr, newsapi.ErrRateLimited) {
			log.Error("Run aborted: headline source rate limited")
		} else {
			log.Error("Run aborted", "error", runErr)
		}
		os.Exit(1)
	}
}

func splitCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			categories = append(categories, p)
		}
	}
	return categories
}
