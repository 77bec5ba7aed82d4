package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func robotsServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	body := "User-agent: NewsGuard\nDisallow: /private\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n"
	server := robotsServer(t, http.StatusOK, body, nil)

	checker := NewRobotsChecker("NewsGuard/0.1 (+https://example.com)", 5*time.Second, nil)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/news/story")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !allowed {
		t.Error("Expected /news/story to be allowed for NewsGuard")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected crawl delay 2s, got %v", delay)
	}

	if checker.IsAllowed(ctx, server.URL+"/private/page") {
		t.Error("Expected /private/page to be disallowed")
	}
}

func TestRobotsChecker_StatusHandling(t *testing.T) {
	tests := []struct {
		status  int
		allowed bool
	}{
		{http.StatusNotFound, true},
		{http.StatusForbidden, true},
		{http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := robotsServer(t, tt.status, "", nil)
			checker := NewRobotsChecker("NewsGuard/0.1", 5*time.Second, nil)

			if got := checker.IsAllowed(context.Background(), server.URL+"/a"); got != tt.allowed {
				t.Errorf("IsAllowed with status %d = %v, want %v", tt.status, got, tt.allowed)
			}
		})
	}
}

func TestRobotsChecker_CachesPerOrigin(t *testing.T) {
	var hits atomic.Int32
	server := robotsServer(t, http.StatusOK, "User-agent: *\nAllow: /\n", &hits)

	checker := NewRobotsChecker("NewsGuard/0.1", 5*time.Second, nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	checker.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		checker.IsAllowed(context.Background(), server.URL+"/a")
	}
	if hits.Load() != 1 {
		t.Errorf("Expected 1 robots.txt fetch, got %d", hits.Load())
	}

	now = now.Add(2 * time.Hour)
	checker.IsAllowed(context.Background(), server.URL+"/a")
	if hits.Load() != 2 {
		t.Errorf("Expected refetch after expiry, got %d fetches", hits.Load())
	}

	checker.Clear()
	checker.IsAllowed(context.Background(), server.URL+"/a")
	if hits.Load() != 3 {
		t.Errorf("Expected refetch after Clear, got %d fetches", hits.Load())
	}
}

func TestRobotsChecker_Unreachable(t *testing.T) {
	checker := NewRobotsChecker("NewsGuard/0.1", 500*time.Millisecond, nil)

	allowed, _, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/page")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !allowed {
		t.Error("Expected unreachable robots.txt to allow fetching")
	}

	if _, _, err := checker.CanFetch(context.Background(), "/relative"); err == nil {
		t.Error("Expected error for URL without host")
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"NewsGuard/0.1 (+https://example.com)": "NewsGuard",
		"curl/8.0":                             "curl",
		"":                                     "",
	}
	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", in, got, want)
		}
	}
}
