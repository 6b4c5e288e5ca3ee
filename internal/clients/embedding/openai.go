package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
)

// OpenAIProvider speaks the hosted-inference wire shape:
// POST /v1/embeddings {"model": "...", "input": ["..."]} ->
// {"data": [{"index": 0, "embedding": [...]}]}.
type OpenAIProvider struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIProvider(log *logger.Logger, baseURL, apiKey, model string, timeout time.Duration) *OpenAIProvider {
	return &OpenAIProvider{
		log:     log.With("client", "OpenAIProvider"),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type openaiEmbeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openaiEmbeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	body, err := json.Marshal(openaiEmbeddingsRequest{Model: p.model, Input: []string{text}})
	if err != nil {
		p.log.Warn("Failed to marshal embedding request", "error", err)
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		p.log.Warn("Failed to build embedding request", "error", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Warn("Embedding request failed", "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.log.Warn("Embedding service returned non-2xx status", "status", resp.StatusCode)
		return nil, false
	}

	var parsed openaiEmbeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		p.log.Warn("Failed to decode embedding response", "error", err)
		return nil, false
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		p.log.Warn("Embedding response contained no vector")
		return nil, false
	}
	return parsed.Data[0].Embedding, true
}
