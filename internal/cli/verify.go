package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newsguard/internal/model"
)

var (
	inFile     string
	outFile    string
	runTimeout time.Duration
	headlines  []string
	verifyEach bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [text | -]",
	Short: "Verify a news article against web coverage",
	Long: `Verify extracts headlines from a news article, searches the web for
coverage of each, and compares the article with what it found.

Example:
  newsguard verify "Government announces free electricity for all homes"
  newsguard verify --file article.txt --out result.json
  newsguard verify --url https://example.com/story
  cat article.txt | newsguard verify`,
	RunE: runVerify,
}

var articleURL string

type verifyOutput struct {
	Headlines  []string                 `json:"headlines"`
	References []model.ReferenceArticle `json:"verified_articles"`
	Result     model.VerificationResult `json:"result"`
}

var checkCmd = &cobra.Command{
	Use:   "check [text | -]",
	Short: "Check the credibility of a social media post or forward",
	Long: `Check judges a standalone text (WhatsApp forward, tweet, post) for
misinformation signals. Hindi and Marathi texts are translated for the model
and the explanation is translated back.

Example:
  newsguard check "Forward this to 10 groups or your account will be closed"`,
	RunE: runCheck,
}

var headlinesCmd = &cobra.Command{
	Use:   "headlines [text | -]",
	Short: "Extract search-ready headlines from an article",
	RunE:  runHeadlines,
}

var researchCmd = &cobra.Command{
	Use:   "research [text | -]",
	Short: "Search the web for coverage of an article's headlines",
	Long: `Research searches the web for each headline and extracts the articles
found. Headlines come from --headline, or are extracted from the text.

Example:
  newsguard research --file article.txt --verify
  newsguard research --headline "Dam breach floods valley" "full article text"`,
	RunE: runResearch,
}

func init() {
	for _, c := range []*cobra.Command{verifyCmd, checkCmd, headlinesCmd, researchCmd} {
		c.Flags().StringVar(&inFile, "file", "", "read input text from file")
		c.Flags().StringVar(&outFile, "out", "", "write JSON result to file instead of stdout")
		c.Flags().DurationVar(&runTimeout, "timeout", 3*time.Minute, "overall timeout")
		rootCmd.AddCommand(c)
	}
	verifyCmd.Flags().StringVar(&articleURL, "url", "", "verify the article at this URL instead of text")
	researchCmd.Flags().StringArrayVar(&headlines, "headline", nil, "headline to search (repeatable)")
	researchCmd.Flags().BoolVar(&verifyEach, "verify", false, "verify the text against each headline's articles")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	svc, _, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if articleURL != "" {
		report, err := svc.ProcessURL(ctx, articleURL)
		if err != nil {
			return fmt.Errorf("verify failed: %w", err)
		}
		printVerification(report.Verification, report.References)
		return emit(cmd.OutOrStdout(), outFile, report)
	}

	text, err := readInput(args, inFile, pipedStdin())
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Extracting headlines...\n")
	}
	hl, err := svc.Headlines(ctx, text)
	if err != nil {
		return err
	}

	var refs []model.ReferenceArticle
	if len(hl) > 0 {
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Searching for %d headlines...\n", len(hl))
		}
		report, err := svc.Research(ctx, userID, text, hl, false)
		if err != nil {
			return err
		}
		refs = flatten(report)
	}

	res, err := svc.VerifyAuthenticity(ctx, userID, text, refs)
	if err != nil {
		return err
	}
	printVerification(res, refs)
	return emit(cmd.OutOrStdout(), outFile, verifyOutput{
		Headlines:  hl,
		References: refs,
		Result:     res,
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	text, err := readInput(args, inFile, pipedStdin())
	if err != nil {
		return err
	}
	svc, _, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.VerifyText(ctx, userID, text)
	if err != nil {
		return err
	}
	printCredibility(res)
	return emit(cmd.OutOrStdout(), outFile, res)
}

func runHeadlines(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	text, err := readInput(args, inFile, pipedStdin())
	if err != nil {
		return err
	}
	svc, _, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	hl, err := svc.Headlines(ctx, text)
	if err != nil {
		return err
	}
	return emit(cmd.OutOrStdout(), outFile, map[string][]string{"news_headline": hl})
}

func runResearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	text, err := readInput(args, inFile, pipedStdin())
	if err != nil && len(headlines) == 0 {
		return err
	}
	svc, _, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	hl := headlines
	if len(hl) == 0 {
		if hl, err = svc.Headlines(ctx, text); err != nil {
			return err
		}
	}
	report, err := svc.Research(ctx, userID, text, hl, verifyEach)
	if err != nil {
		return err
	}

	w := os.Stderr
	header(w, "Search Results")
	for _, r := range report.Results {
		fmt.Fprintf(w, "  %s (%d articles)\n", r.Headline, len(r.Articles))
		for _, a := range r.Articles {
			fmt.Fprintf(w, "    • %s\n", a.URL)
		}
		if r.Verification != nil {
			fmt.Fprintf(w, "    authenticity: %d/100\n", r.Verification.AuthenticityScore)
		}
	}
	if len(report.Results) == 0 {
		fmt.Fprintf(w, "  No coverage found.\n")
	}
	fmt.Fprintln(w)
	return emit(cmd.OutOrStdout(), outFile, report)
}

// flatten collects a report's articles, deduplicated by URL
func flatten(report model.ResearchReport) []model.ReferenceArticle {
	seen := make(map[string]bool)
	out := []model.ReferenceArticle{}
	for _, r := range report.Results {
		for _, a := range r.Articles {
			if seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			out = append(out, a)
		}
	}
	return out
}

func printVerification(res model.VerificationResult, refs []model.ReferenceArticle) {
	w := os.Stderr
	header(w, "Verification Result")
	fmt.Fprintf(w, "  Authenticity:  %d/100\n", res.AuthenticityScore)
	fmt.Fprintf(w, "  References:    %d\n", len(refs))
	fmt.Fprintf(w, "  Breakdown:     facts %d/40  sources %d/30  details %d/20  context %d/10\n",
		res.ScoreBreakdown.FactualAccuracy, res.ScoreBreakdown.SourceConsistency,
		res.ScoreBreakdown.DetailAccuracy, res.ScoreBreakdown.ContextAccuracy)
	fmt.Fprintln(w)
	bullets(w, "Key findings", res.KeyFindings)
	bullets(w, "Differences", res.Differences)
	fmt.Fprintln(w)
}

func printCredibility(res model.TextVerification) {
	w := os.Stderr
	header(w, "Credibility Check")
	fmt.Fprintf(w, "  Score:     %d/100\n", res.CredibilityScore)
	fmt.Fprintf(w, "  Verdict:   %s\n", res.Verdict)
	fmt.Fprintf(w, "  Language:  %s\n", res.LanguageName)
	fmt.Fprintln(w)
	bullets(w, "Red flags", res.RedFlags)
	bullets(w, "Recommendations", res.Recommendations)
	if res.Summary != "" {
		fmt.Fprintf(w, "\n  %s\n", res.Summary)
	}
	fmt.Fprintln(w)
}
