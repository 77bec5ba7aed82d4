package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// DefaultGoogleURL is the Custom Search JSON API endpoint
const DefaultGoogleURL = "https://www.googleapis.com/customsearch/v1"

// GoogleSearcher queries the Google Custom Search JSON API
type GoogleSearcher struct {
	apiKey  string
	cx      string
	baseURL string
	num     int
	client  *http.Client
	limiter *rate.Limiter
}

// NewGoogleSearcher creates a Google Custom Search client. rps <= 0
// disables client-side rate limiting.
func NewGoogleSearcher(apiKey, cx string, num int, rps float64, timeout time.Duration, transport http.RoundTripper) *GoogleSearcher {
	if num <= 0 || num > 10 {
		num = 10
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &GoogleSearcher{
		apiKey:  apiKey,
		cx:      cx,
		baseURL: DefaultGoogleURL,
		num:     num,
		client:  &http.Client{Timeout: timeout, Transport: transport},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Name implements Searcher
func (g *GoogleSearcher) Name() string { return "google" }

type googleResponse struct {
	Items []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Search implements Searcher
func (g *GoogleSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	if g.apiKey == "" || g.cx == "" {
		return nil, ErrNotConfigured
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("key", g.apiKey)
	params.Set("cx", g.cx)
	params.Set("num", strconv.Itoa(g.num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed googleResponse
	if err := json.Unmarshal(body, &parsed); err != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return nil, fmt.Errorf("google search: status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return nil, fmt.Errorf("google search: status %d", resp.StatusCode)
	}

	results := make([]Result, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		results = append(results, Result{URL: item.Link, Title: item.Title, Snippet: item.Snippet})
	}
	return results, nil
}
