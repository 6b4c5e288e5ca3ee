package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
)

// ErrRateLimited is returned when the headline source answers HTTP 429.
// Callers are expected to stop the run rather than retry.
var ErrRateLimited = errors.New("headline source rate limited")

// Headline is one candidate article as reported by the upstream source.
// Fields may be empty; the ingestion pipeline decides what is acceptable.
type Headline struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	Source      string
	PublishedAt time.Time
}

type Client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(log *logger.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		log:     log.With("client", "NewsAPIClient"),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type topHeadlinesResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// TopHeadlines fetches up to pageSize headlines for one category.
func (c *Client) TopHeadlines(ctx context.Context, category string, pageSize int) ([]Headline, error) {
	params := url.Values{}
	params.Set("category", category)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("country", "us")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/top-headlines?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build top-headlines request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("top-headlines request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("category %q: %w", category, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("top-headlines returned status %d for category %q", resp.StatusCode, category)
	}

	var parsed topHeadlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode top-headlines response: %w", err)
	}

	headlines := make([]Headline, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		publishedAt, perr := time.Parse(time.RFC3339, a.PublishedAt)
		if perr != nil {
			publishedAt = time.Time{}
		}
		headlines = append(headlines, Headline{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			Source:      a.Source.Name,
			PublishedAt: publishedAt,
		})
	}
	return headlines, nil
}
