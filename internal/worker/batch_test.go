package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ppiankov/newsguard/internal/model"
)

// MockProcessor implements Processor
type MockProcessor struct {
	ShouldError bool
	FailURL     string
}

func (m *MockProcessor) ProcessURL(ctx context.Context, url string) (*model.ArticleReport, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError || url == m.FailURL {
		return nil, errors.New("check error")
	}
	return &model.ArticleReport{
		URL:     url,
		Outcome: "ok",
	}, nil
}

func TestBatchProcessor_ProcessURLs(t *testing.T) {
	scanner := &MockProcessor{}
	processor := NewBatchProcessor(scanner, 2, 0, 0)

	urls := []string{"http://example.com", "http://google.com", "http://bing.com"}
	ctx := context.Background()

	results := processor.ProcessURLs(ctx, urls)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Report == nil || res.Report.URL != res.URL {
				t.Error("expected report for successful check")
			}
		} else {
			t.Errorf("unexpected error for %s: %v", res.URL, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessURLs_Error(t *testing.T) {
	scanner := &MockProcessor{ShouldError: true}
	processor := NewBatchProcessor(scanner, 2, 0, 0)

	urls := []string{"http://example.com"}
	ctx := context.Background()

	results := processor.ProcessURLs(ctx, urls)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Report != nil {
		t.Error("expected nil report on error")
	}
}

func TestBatchProcessor_ProcessURLs_Empty(t *testing.T) {
	scanner := &MockProcessor{}
	processor := NewBatchProcessor(scanner, 2, 0, 0)

	results := processor.ProcessURLs(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadURLsFromFile(t *testing.T) {
	content := `http://example.com
# comment
https://google.com
   
http://bing.com   `

	tmpfile, err := os.CreateTemp("", "urls")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadURLsFromFile failed: %v", err)
	}

	expected := []string{"http://example.com", "https://google.com", "http://bing.com"}
	if len(urls) != len(expected) {
		t.Fatalf("expected %d URLs, got %d", len(expected), len(urls))
	}

	for i, url := range urls {
		if url != expected[i] {
			t.Errorf("expected URL %s at index %d, got %s", expected[i], i, url)
		}
	}
}

func TestReadURLsFromFile_NonExistent(t *testing.T) {
	_, err := ReadURLsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestCheckResult_GetError(t *testing.T) {
	r1 := &CheckResult{URL: "http://example.com", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("check failed")
	r2 := &CheckResult{URL: "http://example.com", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	content := "http://example.com\nhttps://google.com\n# comment\n\nhttp://bing.com\n"

	tmpfile, err := os.CreateTemp("", "batch_urls")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	scanner := &MockProcessor{}
	processor := NewBatchProcessor(scanner, 2, 0, 0)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	scanner := &MockProcessor{}
	processor := NewBatchProcessor(scanner, 2, 0, 0)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "empty_urls")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	scanner := &MockProcessor{}
	processor := NewBatchProcessor(scanner, 2, 0, 0)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}

func TestReadURLsFromFile_Deduplication(t *testing.T) {
	content := `http://example.com
http://example.com`

	tmpfile, err := os.CreateTemp("", "urls_dedup")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadURLsFromFile failed: %v", err)
	}

	if len(urls) != 1 {
		t.Errorf("expected 1 URL after deduplication, got %d", len(urls))
	}
}

func TestBatchProcessor_ProcessURLs_KeepsOrder(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{FailURL: "http://c.com"}, 4, 0, 0)

	var urls []string
	for i := 0; i < 25; i++ {
		urls = append(urls, fmt.Sprintf("http://%c.com", 'a'+i))
	}

	results := processor.ProcessURLs(context.Background(), urls)
	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}
	for i, res := range results {
		if res.URL != urls[i] {
			t.Errorf("result %d: expected %s, got %s", i, urls[i], res.URL)
		}
	}

	ok, failed := Summary(results)
	if ok != 24 || failed != 1 {
		t.Errorf("expected 24 ok and 1 failed, got %d and %d", ok, failed)
	}
}

func TestBatchProcessor_RateLimited(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 2, 100, 1)
	if processor.limiter == nil {
		t.Fatal("expected limiter to be configured")
	}

	results := processor.ProcessURLs(context.Background(), []string{"http://example.com/1", "http://example.com/2"})
	if ok, _ := Summary(results); ok != 2 {
		t.Errorf("expected 2 successes, got %d", ok)
	}
}

func TestBatchProcessor_CanceledContext(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 2, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.ProcessURLs(ctx, []string{"http://example.com/1", "http://example.com/2", "http://example.com/3"})
	if len(results) != 3 {
		t.Fatalf("expected a result per URL, got %d", len(results))
	}
	for i, r := range results {
		if r.Index != i || r.Error == nil {
			t.Errorf("result %d: index %d, error %v", i, r.Index, r.Error)
		}
	}
}

func TestBatchProcessor_Progress(t *testing.T) {
	var seen []string
	processor := NewBatchProcessor(&MockProcessor{FailURL: "http://b.example/2"}, 1, 0, 0).
		OnProgress(func(r *CheckResult) { seen = append(seen, r.URL) })

	results := processor.ProcessURLs(context.Background(), []string{"http://a.example/1", "http://b.example/2"})

	if len(seen) != 2 {
		t.Fatalf("expected 2 progress calls, got %d", len(seen))
	}
	if ok, failed := Summary(results); ok != 1 || failed != 1 {
		t.Errorf("expected 1 ok and 1 failed, got %d and %d", ok, failed)
	}
}
