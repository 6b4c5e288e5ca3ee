package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/utils"
)

// Provider turns article text into a fixed-length vector. A failed call of
// any kind (transport error, non-2xx, malformed body, timeout) is reported
// as absent (ok == false), never as an error: callers treat absent as
// "skip this item". Retry policy, if any, belongs to the caller.
type Provider interface {
	Embed(ctx context.Context, text string) (vector []float32, ok bool)
}

// NewProviderFromEnv selects the concrete provider wire shape. Which
// protocol is in effect is a configuration concern, not a code fork: the
// ingestion pipeline only ever sees the Provider interface.
func NewProviderFromEnv(log *logger.Logger) (Provider, error) {
	timeout := time.Duration(utils.GetEnvAsInt("EMBEDDING_TIMEOUT_MS", 10000, log)) * time.Millisecond
	providerName := strings.ToLower(utils.GetEnv("EMBEDDING_PROVIDER", "tei", log))
	switch providerName {
	case "tei":
		baseURL := utils.GetEnv("EMBEDDING_URL", "http://localhost:8080", log)
		return NewTEIProvider(log, baseURL, timeout), nil
	case "openai":
		baseURL := utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log)
		apiKey := utils.GetEnv("OPENAI_API_KEY", "", log)
		model := utils.GetEnv("EMBEDDING_MODEL", "text-embedding-3-small", log)
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai embedding provider")
		}
		return NewOpenAIProvider(log, baseURL, apiKey, model, timeout), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", providerName)
	}
}
