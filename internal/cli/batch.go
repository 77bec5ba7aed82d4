package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newsguard/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple article URLs from a file in parallel",
	Long: `Batch verifies many articles concurrently:
- Read URLs from the input file (one per line, # comments allowed)
- Check each article with a pool of workers, rate limited per host
- Write one JSON report per URL

Example:
  newsguard batch urls.txt
  newsguard batch urls.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./newsguard-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	svc, cfg, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}

	w := os.Stderr
	header(w, "NewsGuard Batch Verification")
	fmt.Fprintf(w, "  Input file:   %s\n", file)
	fmt.Fprintf(w, "  Workers:      %d\n", workers)
	fmt.Fprintf(w, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(w, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(w, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(svc, workers, cfg.HTTP.DomainRate, 1).
		OnProgress(func(result *worker.CheckResult) {
			if result.Error != nil {
				fmt.Fprintf(w, "✗ %s: %v\n", result.URL, result.Error)
				return
			}
			path := filepath.Join(outputDir, fmt.Sprintf("%03d-%s.json", result.Index+1, sanitizeFilename(result.URL)))
			if err := emit(nil, path, result.Report); err != nil {
				fmt.Fprintf(w, "✗ %s: %v\n", result.URL, err)
				return
			}
			fmt.Fprintf(w, "✓ %s (authenticity: %d/100, %d references)\n",
				result.URL, result.Report.Verification.AuthenticityScore, len(result.Report.References))
		})

	fmt.Fprintf(w, "⚙️  Processing URLs with %d workers...\n\n", workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	ok, failed := worker.Summary(results)
	header(w, "Batch Complete")
	fmt.Fprintf(w, "  Total:     %d URLs\n", len(results))
	fmt.Fprintf(w, "  Success:   %d\n", ok)
	fmt.Fprintf(w, "  Failures:  %d\n", failed)
	fmt.Fprintf(w, "  Output:    %s\n\n", outputDir)
	return nil
}
