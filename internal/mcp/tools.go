package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vibecheck/internal/education"
	"vibecheck/internal/github"
	"vibecheck/internal/integration"
	"vibecheck/internal/pattern"
	"vibecheck/internal/review"

	"github.com/mark3labs/mcp-go/mcp"
)

// Analysis modes accepted by the issue and PR tools. Quick mode returns
// detection results only; comprehensive mode attaches educational content.
const (
	modeQuick         = "quick"
	modeComprehensive = "comprehensive"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(analyzeTextTool(), s.handleAnalyzeText)
	s.mcpServer.AddTool(analyzeIssueTool(), s.handleAnalyzeIssue)
	s.mcpServer.AddTool(analyzePRTool(), s.handleAnalyzePR)
	s.mcpServer.AddTool(checkIntegrationTool(), s.handleCheckIntegration)
	s.mcpServer.AddTool(analyzeIntegrationTextTool(), s.handleAnalyzeIntegrationText)
	s.mcpServer.AddTool(serverStatusTool(), s.handleServerStatus)
}

func analyzeTextTool() mcp.Tool {
	return mcp.NewTool("analyze_text",
		mcp.WithDescription(
			"Analyze free text for engineering anti-patterns: infrastructure built before "+
				"standard approaches are tested, symptom patching, complexity escalation and "+
				"documentation neglect. Returns per-pattern confidence with evidence and "+
				"educational coaching content.",
		),
		mcp.WithString("text",
			mcp.Description("Text content to analyze (plan, issue draft, design note)."),
			mcp.Required(),
		),
		mcp.WithString("detail_level",
			mcp.Description("Educational detail level: brief, standard or comprehensive. Default standard."),
		),
	)
}

func analyzeIssueTool() mcp.Tool {
	return mcp.NewTool("analyze_issue",
		mcp.WithDescription(
			"Fetch a GitHub issue and analyze its title and body for engineering "+
				"anti-patterns. Uses the configured default repository when none is given.",
		),
		mcp.WithNumber("issue_number",
			mcp.Description("Issue number to analyze."),
			mcp.Required(),
		),
		mcp.WithString("repository",
			mcp.Description("Repository in owner/repo format. Falls back to the configured default."),
		),
		mcp.WithString("analysis_mode",
			mcp.Description("quick (detection only) or comprehensive (with educational content). Default quick."),
		),
		mcp.WithString("detail_level",
			mcp.Description("Educational detail level: brief, standard or comprehensive. Default standard."),
		),
	)
}

func analyzePRTool() mcp.Tool {
	return mcp.NewTool("analyze_pr",
		mcp.WithDescription(
			"Fetch a GitHub pull request and analyze it: size classification, file-level "+
				"risk, issue linkage, structural findings and content anti-patterns in the "+
				"title and description.",
		),
		mcp.WithNumber("pr_number",
			mcp.Description("Pull request number to analyze."),
			mcp.Required(),
		),
		mcp.WithString("repository",
			mcp.Description("Repository in owner/repo format. Falls back to the configured default."),
		),
		mcp.WithString("analysis_mode",
			mcp.Description("quick (metrics and detection only) or comprehensive (with educational content). Default quick."),
		),
		mcp.WithString("detail_level",
			mcp.Description("Educational detail level: brief, standard or comprehensive. Default standard."),
		),
	)
}

func checkIntegrationTool() mcp.Tool {
	return mcp.NewTool("check_integration_alternatives",
		mcp.WithDescription(
			"Validate an integration plan against known official alternatives before "+
				"custom development. Flags planned custom features the vendor's official "+
				"container or SDK already provides, and produces a decision matrix.",
		),
		mcp.WithString("technology",
			mcp.Description("Technology being integrated (e.g. cognee, supabase, claude)."),
			mcp.Required(),
		),
		mcp.WithString("custom_features",
			mcp.Description("Comma-separated list of features planned for custom development."),
			mcp.Required(),
		),
		mcp.WithString("description",
			mcp.Description("Optional free-text description of the integration context."),
		),
	)
}

func analyzeIntegrationTextTool() mcp.Tool {
	return mcp.NewTool("analyze_integration_text",
		mcp.WithDescription(
			"Scan free text for integration anti-patterns: known technologies mentioned "+
				"next to custom development language. Returns detected technologies, "+
				"custom-work phrases and recommendations.",
		),
		mcp.WithString("text",
			mcp.Description("Text content to analyze for integration decisions."),
			mcp.Required(),
		),
		mcp.WithString("detail_level",
			mcp.Description("Educational detail level: brief, standard or comprehensive. Default standard."),
		),
	)
}

func serverStatusTool() mcp.Tool {
	return mcp.NewTool("server_status",
		mcp.WithDescription("Report server version, uptime, loaded patterns and available capabilities."),
	)
}

// textAnalysisResponse is the analyze_text payload.
type textAnalysisResponse struct {
	Status        string                    `json:"status"`
	DetailLevel   string                    `json:"detail_level"`
	TextLength    int                       `json:"text_length"`
	Patterns      []pattern.DetectionResult `json:"patterns"`
	DetectedCount int                       `json:"detected_count"`
	Educational   []education.Response      `json:"educational_content,omitempty"`
}

func (s *Server) handleAnalyzeText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text must not be empty"), nil
	}

	level, err := education.ParseDetailLevel(req.GetString("detail_level", s.config.DetailLevel))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	results := s.detector.Analyze(text)
	s.logger.LogPerformance("analyze_text", start)

	resp := textAnalysisResponse{
		Status:      "success",
		DetailLevel: level.String(),
		TextLength:  len(text),
		Patterns:    results,
		Educational: s.educationFor(results, level),
	}
	resp.DetectedCount = len(pattern.Detected(results))

	return jsonResult(resp)
}

// issueAnalysisResponse is the analyze_issue payload.
type issueAnalysisResponse struct {
	Status        string                    `json:"status"`
	Repository    string                    `json:"repository"`
	Issue         *github.Issue             `json:"issue"`
	AnalysisMode  string                    `json:"analysis_mode"`
	DetailLevel   string                    `json:"detail_level"`
	Patterns      []pattern.DetectionResult `json:"patterns"`
	DetectedCount int                       `json:"detected_count"`
	Educational   []education.Response      `json:"educational_content,omitempty"`
}

func (s *Server) handleAnalyzeIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number := req.GetInt("issue_number", 0)
	if number <= 0 {
		return mcp.NewToolResultError("issue_number must be a positive integer"), nil
	}

	owner, repo, repoSlug, errResult := s.resolveRepository(req)
	if errResult != nil {
		return errResult, nil
	}

	mode, level, errResult := parseModeAndLevel(req, s.config.DetailLevel)
	if errResult != nil {
		return errResult, nil
	}

	client := github.NewClient(github.ResolveToken(""), s.logger)
	issue, err := client.FetchIssue(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	results := s.detector.AnalyzeWithContext(issue.Body, issue.Title)

	resp := issueAnalysisResponse{
		Status:       "success",
		Repository:   repoSlug,
		Issue:        issue,
		AnalysisMode: mode,
		DetailLevel:  level.String(),
		Patterns:     results,
	}
	resp.DetectedCount = len(pattern.Detected(results))
	if mode == modeComprehensive {
		resp.Educational = s.educationFor(results, level)
	}

	return jsonResult(resp)
}

// prAnalysisResponse is the analyze_pr payload.
type prAnalysisResponse struct {
	Status        string                    `json:"status"`
	Repository    string                    `json:"repository"`
	Number        int                       `json:"pr_number"`
	Title         string                    `json:"title"`
	Author        string                    `json:"author"`
	State         string                    `json:"state"`
	URL           string                    `json:"url"`
	AnalysisMode  string                    `json:"analysis_mode"`
	DetailLevel   string                    `json:"detail_level"`
	Review        *review.Report            `json:"review"`
	Patterns      []pattern.DetectionResult `json:"content_patterns"`
	DetectedCount int                       `json:"detected_count"`
	Educational   []education.Response      `json:"educational_content,omitempty"`
}

func (s *Server) handleAnalyzePR(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number := req.GetInt("pr_number", 0)
	if number <= 0 {
		return mcp.NewToolResultError("pr_number must be a positive integer"), nil
	}

	owner, repo, repoSlug, errResult := s.resolveRepository(req)
	if errResult != nil {
		return errResult, nil
	}

	mode, level, errResult := parseModeAndLevel(req, s.config.DetailLevel)
	if errResult != nil {
		return errResult, nil
	}

	client := github.NewClient(github.ResolveToken(""), s.logger)
	pr, err := client.FetchPullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	results := s.detector.AnalyzeWithContext(pr.Body, pr.Title)

	resp := prAnalysisResponse{
		Status:       "success",
		Repository:   repoSlug,
		Number:       pr.Number,
		Title:        pr.Title,
		Author:       pr.Author,
		State:        pr.State,
		URL:          pr.URL,
		AnalysisMode: mode,
		DetailLevel:  level.String(),
		Review:       review.Analyze(pr),
		Patterns:     results,
	}
	resp.DetectedCount = len(pattern.Detected(results))
	if mode == modeComprehensive {
		resp.Educational = s.educationFor(results, level)
	}

	return jsonResult(resp)
}

func (s *Server) handleCheckIntegration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	technology := req.GetString("technology", "")
	featuresRaw := req.GetString("custom_features", "")

	features := strings.Split(featuresRaw, ",")

	rec, err := integration.CheckAlternatives(technology, features)
	if err != nil {
		var verr *integration.ValidationError
		if errors.As(err, &verr) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}

	resp := struct {
		Status      string                      `json:"status"`
		Description string                      `json:"description,omitempty"`
		*integration.Recommendation
	}{
		Status:         "success",
		Description:    req.GetString("description", ""),
		Recommendation: rec,
	}

	return jsonResult(resp)
}

func (s *Server) handleAnalyzeIntegrationText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text must not be empty"), nil
	}

	level, err := education.ParseDetailLevel(req.GetString("detail_level", s.config.DetailLevel))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	analysis := integration.AnalyzeText(text)

	resp := struct {
		Status      string   `json:"status"`
		DetailLevel string   `json:"detail_level"`
		TextLength  int      `json:"text_length"`
		*integration.TextAnalysis
		BestPractices []string `json:"integration_best_practices,omitempty"`
	}{
		Status:       "success",
		DetailLevel:  level.String(),
		TextLength:   len(text),
		TextAnalysis: analysis,
	}

	if level >= education.Standard {
		resp.BestPractices = []string{
			"Always research official deployment options first",
			"Test official solutions with basic requirements",
			"Document specific gaps before custom development",
			"Consider the maintenance burden of custom solutions",
		}
	}

	return jsonResult(resp)
}

func (s *Server) handleServerStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp := struct {
		Name              string   `json:"server_name"`
		Version           string   `json:"version"`
		Status            string   `json:"status"`
		UptimeSeconds     int64    `json:"uptime_seconds"`
		Patterns          []string `json:"patterns"`
		KnownTechnologies []string `json:"known_technologies"`
		DefaultRepository string   `json:"default_repository,omitempty"`
	}{
		Name:              "vibecheck",
		Version:           s.version,
		Status:            "healthy",
		UptimeSeconds:     int64(time.Since(s.startTime).Seconds()),
		Patterns:          s.detector.Catalog().IDs(),
		KnownTechnologies: integration.KnownTechnologies(),
		DefaultRepository: s.config.DefaultRepository,
	}

	return jsonResult(resp)
}

// resolveRepository picks the repository for a tool call: explicit parameter
// first, configured default second. The returned *mcp.CallToolResult is
// non-nil on validation failure.
func (s *Server) resolveRepository(req mcp.CallToolRequest) (owner, repo, slug string, errResult *mcp.CallToolResult) {
	slug = req.GetString("repository", "")
	if slug == "" {
		slug = s.config.DefaultRepository
	}
	if slug == "" {
		return "", "", "", mcp.NewToolResultError("no repository given and no default_repository configured")
	}

	owner, repo, err := github.ParseRepo(slug)
	if err != nil {
		return "", "", "", mcp.NewToolResultError(err.Error())
	}
	return owner, repo, slug, nil
}

func parseModeAndLevel(req mcp.CallToolRequest, defaultLevel string) (string, education.DetailLevel, *mcp.CallToolResult) {
	mode := req.GetString("analysis_mode", modeQuick)
	if mode != modeQuick && mode != modeComprehensive {
		return "", 0, mcp.NewToolResultError(fmt.Sprintf("unknown analysis mode %q (want quick or comprehensive)", mode))
	}

	level, err := education.ParseDetailLevel(req.GetString("detail_level", defaultLevel))
	if err != nil {
		return "", 0, mcp.NewToolResultError(err.Error())
	}
	return mode, level, nil
}

// educationFor attaches educational responses to the detected patterns.
func (s *Server) educationFor(results []pattern.DetectionResult, level education.DetailLevel) []education.Response {
	var responses []education.Response
	for _, res := range pattern.Detected(results) {
		def, ok := s.detector.Catalog().Lookup(res.PatternID)
		if !ok {
			continue
		}
		responses = append(responses, s.educator.Respond(def, res, level))
	}
	return responses
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
