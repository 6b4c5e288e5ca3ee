package newsapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
)

func TestTopHeadlines(t *testing.T) {
	var gotQuery map[string]string
	var gotAPIKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/top-headlines" {
			t.Errorf("request path = %q, want /v2/top-headlines", r.URL.Path)
		}
		gotAPIKey = r.Header.Get("X-Api-Key")
		q := r.URL.Query()
		gotQuery = map[string]string{
			"category": q.Get("category"),
			"pageSize": q.Get("pageSize"),
			"country":  q.Get("country"),
		}
		io.WriteString(w, `{
			"status": "ok",
			"articles": [
				{
					"source": {"name": "Example Times"},
					"title": "Big news",
					"description": "Something happened",
					"url": "https://example.com/a",
					"urlToImage": "https://example.com/a.jpg",
					"publishedAt": "2026-08-20T12:00:00Z"
				},
				{
					"source": {"name": "Example Times"},
					"title": "Undated news",
					"description": "No timestamp",
					"url": "https://example.com/b",
					"urlToImage": "https://example.com/b.jpg",
					"publishedAt": "not-a-date"
				}
			]
		}`)
	}))
	defer srv.Close()

	c := NewClient(logger.NewNop(), srv.URL, "key123", time.Second)
	headlines, err := c.TopHeadlines(context.Background(), "technology", 20)
	if err != nil {
		t.Fatalf("TopHeadlines returned error: %v", err)
	}
	if gotAPIKey != "key123" {
		t.Fatalf("X-Api-Key = %q, want key123", gotAPIKey)
	}
	if gotQuery["category"] != "technology" || gotQuery["pageSize"] != "20" || gotQuery["country"] != "us" {
		t.Fatalf("query params = %v", gotQuery)
	}
	if len(headlines) != 2 {
		t.Fatalf("got %d headlines, want 2", len(headlines))
	}
	first := headlines[0]
	if first.Title != "Big news" || first.Source != "Example Times" || first.ImageURL != "https://example.com/a.jpg" {
		t.Fatalf("unexpected first headline: %+v", first)
	}
	want := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Fatalf("publishedAt = %v, want %v", first.PublishedAt, want)
	}
	if !headlines[1].PublishedAt.IsZero() {
		t.Fatalf("unparseable publishedAt = %v, want zero time", headlines[1].PublishedAt)
	}
}

func TestTopHeadlinesRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(logger.NewNop(), srv.URL, "key123", time.Second)
	_, err := c.TopHeadlines(context.Background(), "sports", 20)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("TopHeadlines error = %v, want %v", err, ErrRateLimited)
	}
}

func TestTopHeadlinesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(logger.NewNop(), srv.URL, "key123", time.Second)
	_, err := c.TopHeadlines(context.Background(), "sports", 20)
	if err == nil {
		t.Fatalf("TopHeadlines accepted a 502 response")
	}
	if errors.Is(err, ErrRateLimited) {
		t.Fatalf("a 502 must not map to the rate-limit sentinel")
	}
}
