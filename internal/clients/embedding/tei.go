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

// TEIProvider speaks the HuggingFace text-embeddings-inference wire shape:
// POST /embed {"inputs": ["..."]} -> [[0.1, 0.2, ...]].
type TEIProvider struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewTEIProvider(log *logger.Logger, baseURL string, timeout time.Duration) *TEIProvider {
	return &TEIProvider{
		log:     log.With("client", "TEIProvider"),
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type teiRequest struct {
	Inputs []string `json:"inputs"`
}

func (p *TEIProvider) Embed(ctx context.Context, text string) ([]float32, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	body, err := json.Marshal(teiRequest{Inputs: []string{text}})
	if err != nil {
		p.log.Warn("Failed to marshal embedding request", "error", err)
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		p.log.Warn("Failed to build embedding request", "error", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

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

	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		p.log.Warn("Failed to decode embedding response", "error", err)
		return nil, false
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		p.log.Warn("Embedding response contained no vector")
		return nil, false
	}
	return vectors[0], true
}
