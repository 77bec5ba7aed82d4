package worker

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBurst = 1
	// maxHosts triggers a sweep of idle host buckets
	maxHosts = 512
	idleTTL  = 10 * time.Minute
)

// Limiter throttles requests per news host. "www.example.com" and
// "example.com:443" share one bucket.
type Limiter struct {
	mu    sync.Mutex
	hosts map[string]*hostBucket
	limit rate.Limit
	burst int
	now   func() time.Time
}

type hostBucket struct {
	lim      *rate.Limiter
	lastUsed time.Time
}

// NewLimiter creates a per-host limiter. A non-positive rate disables
// limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = defaultBurst
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &Limiter{
		hosts: make(map[string]*hostBucket),
		limit: limit,
		burst: burst,
		now:   time.Now,
	}
}

// Wait blocks until a request to rawURL's host may proceed
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := HostKey(rawURL)
	if err != nil {
		return err
	}
	return l.bucket(host).Wait(ctx)
}

// Allow reports whether a request may proceed now, consuming a token if so
func (l *Limiter) Allow(rawURL string) bool {
	host, err := HostKey(rawURL)
	if err != nil {
		return false
	}
	return l.bucket(host).Allow()
}

// RespectCrawlDelay slows rawURL's host to one request per delay when that
// is stricter than the configured rate
func (l *Limiter) RespectCrawlDelay(rawURL string, delay time.Duration) {
	if delay <= 0 {
		return
	}
	host, err := HostKey(rawURL)
	if err != nil {
		return
	}
	lim := l.bucket(host)
	if every := rate.Every(delay); every < lim.Limit() {
		lim.SetLimit(every)
	}
}

// Hosts returns the number of tracked hosts
func (l *Limiter) Hosts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hosts)
}

func (l *Limiter) bucket(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if b, ok := l.hosts[host]; ok {
		b.lastUsed = now
		return b.lim
	}

	if len(l.hosts) >= maxHosts {
		for h, b := range l.hosts {
			if now.Sub(b.lastUsed) > idleTTL {
				delete(l.hosts, h)
			}
		}
	}

	b := &hostBucket{lim: rate.NewLimiter(l.limit, l.burst), lastUsed: now}
	l.hosts[host] = b
	return b.lim
}

// HostKey normalizes the host of rawURL for rate limiting
func HostKey(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("no host in url %q", rawURL)
	}
	return strings.TrimPrefix(host, "www."), nil
}
