package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"vibecheck/internal/education"
	"vibecheck/internal/github"
	"vibecheck/internal/logging"
	"vibecheck/internal/pattern"
	"vibecheck/internal/report"
	"vibecheck/internal/review"

	"github.com/spf13/cobra"
)

var (
	analyzeDetail string
	analyzeJSON   bool
	analyzeRepo   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze text, issues or pull requests for anti-patterns",
}

var analyzeTextCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Analyze a text file or stdin",
	Long: `Analyze free text for engineering anti-patterns. Reads from the given
file, or from stdin when no file is passed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyzeText,
}

var analyzeIssueCmd = &cobra.Command{
	Use:   "issue NUMBER",
	Short: "Fetch and analyze a GitHub issue",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeIssue,
}

var analyzePRCmd = &cobra.Command{
	Use:   "pr NUMBER",
	Short: "Fetch and review a GitHub pull request",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzePR,
}

func init() {
	analyzeCmd.PersistentFlags().StringVarP(&analyzeDetail, "detail", "d", "", "educational detail level: brief, standard or comprehensive")
	analyzeCmd.PersistentFlags().BoolVar(&analyzeJSON, "json", false, "emit raw JSON instead of a rendered report")
	analyzeCmd.PersistentFlags().StringVarP(&analyzeRepo, "repo", "r", "", "repository in owner/repo format (overrides configured default)")

	analyzeCmd.AddCommand(analyzeTextCmd)
	analyzeCmd.AddCommand(analyzeIssueCmd)
	analyzeCmd.AddCommand(analyzePRCmd)
}

// newDetector builds the detector from the configured catalog.
func newDetector(catalogPath string) (*pattern.Detector, error) {
	var catalog *pattern.Catalog
	var err error
	if catalogPath != "" {
		catalog, err = pattern.LoadFile(catalogPath)
	} else {
		catalog, err = pattern.Default()
	}
	if err != nil {
		return nil, err
	}
	return pattern.NewDetector(catalog), nil
}

func detailLevel(cfgDefault string) (education.DetailLevel, error) {
	raw := analyzeDetail
	if raw == "" {
		raw = cfgDefault
	}
	return education.ParseDetailLevel(raw)
}

func runAnalyzeText(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	var input []byte
	var err error
	if len(args) == 1 {
		input, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
	} else {
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}
	if len(input) == 0 {
		return fmt.Errorf("no input text")
	}

	detector, err := newDetector(cfg.CatalogPath)
	if err != nil {
		return err
	}
	level, err := detailLevel(cfg.DetailLevel)
	if err != nil {
		return err
	}
	educator, err := education.NewGenerator()
	if err != nil {
		return err
	}

	results := detector.Analyze(string(input))

	var responses []education.Response
	for _, res := range pattern.Detected(results) {
		if def, ok := detector.Catalog().Lookup(res.PatternID); ok {
			responses = append(responses, educator.Respond(def, res, level))
		}
	}

	if analyzeJSON {
		return emitJSON(cmd.OutOrStdout(), struct {
			Patterns    []pattern.DetectionResult `json:"patterns"`
			Educational []education.Response      `json:"educational_content,omitempty"`
		}{results, responses})
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Banner(len(pattern.Detected(results))))
	fmt.Fprint(cmd.OutOrStdout(), report.Render(report.BuildTextReport(results, responses)))
	return nil
}

func runAnalyzeIssue(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	number, err := parseNumber(args[0])
	if err != nil {
		return err
	}
	owner, repo, err := resolveRepo(cfg.DefaultRepository)
	if err != nil {
		return err
	}

	detector, err := newDetector(cfg.CatalogPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	client := github.NewClient(github.ResolveToken(""), logging.GetDefault())
	issue, err := client.FetchIssue(ctx, owner, repo, number)
	if err != nil {
		return err
	}

	results := detector.AnalyzeWithContext(issue.Body, issue.Title)

	if analyzeJSON {
		return emitJSON(cmd.OutOrStdout(), struct {
			Issue    *github.Issue             `json:"issue"`
			Patterns []pattern.DetectionResult `json:"patterns"`
		}{issue, results})
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Title(fmt.Sprintf("Issue #%d: %s", issue.Number, issue.Title)))
	fmt.Fprintln(cmd.OutOrStdout(), report.Banner(len(pattern.Detected(results))))
	fmt.Fprint(cmd.OutOrStdout(), report.Render(report.BuildTextReport(results, nil)))
	return nil
}

func runAnalyzePR(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	number, err := parseNumber(args[0])
	if err != nil {
		return err
	}
	owner, repo, err := resolveRepo(cfg.DefaultRepository)
	if err != nil {
		return err
	}

	detector, err := newDetector(cfg.CatalogPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	client := github.NewClient(github.ResolveToken(""), logging.GetDefault())
	pr, err := client.FetchPullRequest(ctx, owner, repo, number)
	if err != nil {
		return err
	}

	rep := review.Analyze(pr)
	results := detector.AnalyzeWithContext(pr.Body, pr.Title)

	if analyzeJSON {
		return emitJSON(cmd.OutOrStdout(), struct {
			Review   *review.Report            `json:"review"`
			Patterns []pattern.DetectionResult `json:"content_patterns"`
		}{rep, results})
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Render(report.BuildPRReport(pr, rep, results)))
	return nil
}

func resolveRepo(configured string) (owner, repo string, err error) {
	slug := analyzeRepo
	if slug == "" {
		slug = configured
	}
	if slug == "" {
		return "", "", fmt.Errorf("no repository given: pass --repo or set default_repository in the config")
	}
	return github.ParseRepo(slug)
}

func parseNumber(arg string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(arg, "%d", &n); err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid number %q", arg)
	}
	return n, nil
}

func emitJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
