package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newsguard/internal/service"
)

var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Estimate whether an image is AI-generated",
	Long: `Image checks a picture for signs of AI generation. SightEngine is used
when SIGHTENGINE_API_USER and SIGHTENGINE_API_SECRET are set; otherwise the
file's metadata and dimensions are inspected locally.`,
	Args: cobra.ExactArgs(1),
	RunE: runImage,
}

var memeCmd = &cobra.Command{
	Use:   "meme <file>",
	Short: "Read the text of a meme or quote image and check it",
	Long:  `Meme extracts text from an image with Tesseract OCR and checks its credibility.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMeme,
}

func init() {
	for _, c := range []*cobra.Command{imageCmd, memeCmd} {
		c.Flags().StringVar(&outFile, "out", "", "write JSON result to file instead of stdout")
		c.Flags().DurationVar(&runTimeout, "timeout", 3*time.Minute, "overall timeout")
		rootCmd.AddCommand(c)
	}
}

func runImage(cmd *cobra.Command, args []string) error {
	data, name, err := readImage(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	svc, _, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	det, err := svc.DetectImage(ctx, userID, name, data)
	if err != nil {
		return err
	}

	w := os.Stderr
	header(w, "Image Analysis")
	fmt.Fprintf(w, "  Status:      %s\n", det.Status)
	fmt.Fprintf(w, "  Confidence:  %d%%\n", det.Confidence)
	fmt.Fprintf(w, "  Method:      %s\n\n", det.DetectionMethod)
	bullets(w, "Reasons", det.Reasons)
	fmt.Fprintln(w)
	return emit(cmd.OutOrStdout(), outFile, det)
}

func runMeme(cmd *cobra.Command, args []string) error {
	data, name, err := readImage(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	svc, _, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.VerifyMeme(ctx, userID, name, data)
	if errors.Is(err, service.ErrNoReadableText) {
		return fmt.Errorf("%w (extracted: %q)", err, res.ExtractedText)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n  Extracted text:\n    %s\n", res.ExtractedText)
	printCredibility(res.TextVerification)
	return emit(cmd.OutOrStdout(), outFile, res)
}

func readImage(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	return data, filepath.Base(path), nil
}
