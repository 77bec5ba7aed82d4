package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/newsguard/internal/model"
)

// Processor checks a single article URL
type Processor interface {
	ProcessURL(ctx context.Context, url string) (*model.ArticleReport, error)
}

// CheckJob represents one article check
type CheckJob struct {
	Index     int
	URL       string
	Processor Processor
	Limiter   *Limiter // may be nil
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	res := &CheckResult{Index: j.Index, URL: j.URL}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.URL); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			return res
		}
	}

	report, err := j.Processor.ProcessURL(ctx, j.URL)
	if err != nil {
		res.Error = err
		return res
	}
	res.Report = report
	return res
}

// CheckResult represents the result of a check job
type CheckResult struct {
	Index  int
	URL    string
	Report *model.ArticleReport
	Error  error
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor checks multiple article URLs concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
	limiter     *Limiter
	progress    func(*CheckResult)
}

// NewBatchProcessor creates a new batch processor. A positive
// requestsPerSecond rate limits jobs per host.
func NewBatchProcessor(processor Processor, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	b := &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
	if requestsPerSecond > 0 {
		b.limiter = NewLimiter(requestsPerSecond, burst)
	}
	return b
}

// OnProgress registers fn to be called as each check finishes
func (b *BatchProcessor) OnProgress(fn func(*CheckResult)) *BatchProcessor {
	b.progress = fn
	return b
}

// ProcessURLs checks multiple URLs concurrently. Every URL gets a result,
// and results come back in input order.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*CheckResult {
	if len(urls) == 0 {
		return []*CheckResult{}
	}

	jobs := make([]Job, len(urls))
	for i, url := range urls {
		jobs[i] = &CheckJob{
			Index:     i,
			URL:       url,
			Processor: b.processor,
			Limiter:   b.limiter,
		}
	}

	checkResults := make([]*CheckResult, 0, len(jobs))
	NewPool(b.concurrency).
		OnResult(func(r Result) {
			res := toCheckResult(r)
			if b.progress != nil {
				b.progress(res)
			}
			checkResults = append(checkResults, res)
		}).
		Run(ctx, jobs)

	sort.Slice(checkResults, func(i, j int) bool {
		return checkResults[i].Index < checkResults[j].Index
	})

	return checkResults
}

func toCheckResult(r Result) *CheckResult {
	switch v := r.(type) {
	case *CheckResult:
		return v
	case *JobError:
		res := &CheckResult{Error: v.Err}
		if job, ok := v.Job.(*CheckJob); ok {
			res.Index, res.URL = job.Index, job.URL
		}
		return res
	default:
		return &CheckResult{Error: r.GetError()}
	}
}

// ProcessFile reads URLs from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CheckResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads URLs from a file (one per line)
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate URLs
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}

// Summary counts successes and failures of a batch
func Summary(results []*CheckResult) (ok, failed int) {
	for _, r := range results {
		if r.Error != nil {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}
