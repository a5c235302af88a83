package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"vibecheck/internal/config"
	"vibecheck/internal/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	logger, _ := logging.NewTestLogger()

	s, err := NewServer(&cfg, logger, "test")
	if err != nil {
		t.Fatalf("Failed to create server: %s", err)
	}
	return s
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("Tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Tool result content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(resultText(t, result)), v); err != nil {
		t.Fatalf("Tool result is not valid JSON: %s", err)
	}
}

func TestNewServerLoadsDefaults(t *testing.T) {
	s := newTestServer(t)

	if s.detector.Catalog().Len() == 0 {
		t.Error("Server should load the embedded pattern catalog")
	}
	if s.mcpServer == nil {
		t.Error("Server should build the underlying MCP server")
	}
}

func TestNewServerRejectsBadCatalogPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CatalogPath = "/nonexistent/patterns.yaml"
	logger, _ := logging.NewTestLogger()

	if _, err := NewServer(&cfg, logger, "test"); err == nil {
		t.Error("Expected error for missing catalog file")
	}
}

func TestHandleAnalyzeTextDetectsPatterns(t *testing.T) {
	s := newTestServer(t)

	text := "We will build a custom REST server with our own authentication " +
		"because there is no official SDK for this service."
	result, err := s.handleAnalyzeText(context.Background(), callRequest(map[string]any{
		"text": text,
	}))
	if err != nil {
		t.Fatalf("handleAnalyzeText failed: %s", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected tool error: %s", resultText(t, result))
	}

	var resp textAnalysisResponse
	decodeResult(t, result, &resp)

	if resp.Status != "success" {
		t.Errorf("Status = %s, want success", resp.Status)
	}
	if resp.TextLength != len(text) {
		t.Errorf("TextLength = %d, want %d", resp.TextLength, len(text))
	}
	if len(resp.Patterns) != s.detector.Catalog().Len() {
		t.Errorf("Expected one result per catalog pattern, got %d", len(resp.Patterns))
	}
	if resp.DetectedCount == 0 {
		t.Error("Expected at least one detection for clearly problematic text")
	}
	if len(resp.Educational) != resp.DetectedCount {
		t.Errorf("Expected educational content for each detection, got %d for %d detections",
			len(resp.Educational), resp.DetectedCount)
	}
}

func TestHandleAnalyzeTextValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"empty text", map[string]any{"text": "   "}},
		{"missing text", map[string]any{}},
		{"bad detail level", map[string]any{"text": "something", "detail_level": "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleAnalyzeText(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatalf("Validation failures should be tool errors, got: %s", err)
			}
			if !result.IsError {
				t.Error("Expected tool error result")
			}
		})
	}
}

func TestHandleAnalyzeIssueValidation(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleAnalyzeIssue(context.Background(), callRequest(map[string]any{
		"issue_number": 0,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if !result.IsError {
		t.Error("Expected tool error for non-positive issue number")
	}

	// No repository parameter and no configured default.
	result, err = s.handleAnalyzeIssue(context.Background(), callRequest(map[string]any{
		"issue_number": 12,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), "repository") {
		t.Errorf("Expected repository error, got: %s", resultText(t, result))
	}

	result, err = s.handleAnalyzeIssue(context.Background(), callRequest(map[string]any{
		"issue_number": 12,
		"repository":   "not-a-slug",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if !result.IsError {
		t.Error("Expected tool error for malformed repository")
	}

	result, err = s.handleAnalyzeIssue(context.Background(), callRequest(map[string]any{
		"issue_number":  12,
		"repository":    "octocat/hello-world",
		"analysis_mode": "thorough",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), "analysis mode") {
		t.Errorf("Expected analysis mode error, got: %s", resultText(t, result))
	}
}

func TestHandleAnalyzePRValidation(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleAnalyzePR(context.Background(), callRequest(map[string]any{
		"pr_number": -3,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if !result.IsError {
		t.Error("Expected tool error for negative PR number")
	}
}

func TestHandleCheckIntegration(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleCheckIntegration(context.Background(), callRequest(map[string]any{
		"technology":      "cognee",
		"custom_features": "REST API, authentication",
	}))
	if err != nil {
		t.Fatalf("handleCheckIntegration failed: %s", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected tool error: %s", resultText(t, result))
	}

	var resp struct {
		Status       string   `json:"status"`
		Technology   string   `json:"technology"`
		WarningLevel string   `json:"warning_level"`
		RedFlags     []string `json:"red_flags_detected"`
	}
	decodeResult(t, result, &resp)

	if resp.Status != "success" || resp.Technology != "cognee" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if len(resp.RedFlags) != 2 {
		t.Errorf("Expected 2 red flags, got %v", resp.RedFlags)
	}
}

func TestHandleCheckIntegrationValidation(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleCheckIntegration(context.Background(), callRequest(map[string]any{
		"technology":      "",
		"custom_features": "something",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if !result.IsError {
		t.Error("Expected tool error for empty technology")
	}
}

func TestHandleAnalyzeIntegrationText(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleAnalyzeIntegrationText(context.Background(), callRequest(map[string]any{
		"text": "Plan: integrate Supabase by building a custom API client from scratch.",
	}))
	if err != nil {
		t.Fatalf("handleAnalyzeIntegrationText failed: %s", err)
	}

	var resp struct {
		Status               string   `json:"status"`
		DetectedTechnologies []string `json:"detected_technologies"`
		WarningLevel         string   `json:"warning_level"`
		BestPractices        []string `json:"integration_best_practices"`
	}
	decodeResult(t, result, &resp)

	if resp.Status != "success" {
		t.Errorf("Status = %s, want success", resp.Status)
	}
	if len(resp.DetectedTechnologies) != 1 || resp.DetectedTechnologies[0] != "supabase" {
		t.Errorf("DetectedTechnologies = %v", resp.DetectedTechnologies)
	}
	if resp.WarningLevel != "warning" {
		t.Errorf("WarningLevel = %s, want warning", resp.WarningLevel)
	}
	if len(resp.BestPractices) == 0 {
		t.Error("Standard detail level should include best practices")
	}
}

func TestHandleServerStatus(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleServerStatus(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleServerStatus failed: %s", err)
	}

	var resp struct {
		Name     string   `json:"server_name"`
		Version  string   `json:"version"`
		Status   string   `json:"status"`
		Patterns []string `json:"patterns"`
	}
	decodeResult(t, result, &resp)

	if resp.Name != "vibecheck" || resp.Version != "test" || resp.Status != "healthy" {
		t.Errorf("Unexpected status response: %+v", resp)
	}
	if len(resp.Patterns) != 4 {
		t.Errorf("Expected 4 built-in patterns, got %v", resp.Patterns)
	}
}

func TestResolveTransport(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		docker   bool
		env      map[string]string
		want     string
	}{
		{"explicit stdio wins", "stdio", true, map[string]string{"MCP_TRANSPORT": "http"}, TransportStdio},
		{"explicit http wins", "http", false, nil, TransportHTTP},
		{"docker forces http", "", true, map[string]string{"TERM": "xterm"}, TransportHTTP},
		{"env override stdio", "", false, map[string]string{"MCP_TRANSPORT": "stdio", "TERM": ""}, TransportStdio},
		{"env override legacy name", "", false, map[string]string{"MCP_TRANSPORT": "streamable-http", "TERM": "xterm"}, TransportHTTP},
		{"terminal implies stdio", "", false, map[string]string{"TERM": "xterm"}, TransportStdio},
		{"no terminal implies http", "", false, map[string]string{"TERM": ""}, TransportHTTP},
	}

	origInDocker := inDocker
	defer func() { inDocker = origInDocker }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MCP_TRANSPORT", "")
			t.Setenv("TERM", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			inDocker = func() bool { return tt.docker }

			if got := ResolveTransport(tt.explicit); got != tt.want {
				t.Errorf("ResolveTransport(%q) = %s, want %s", tt.explicit, got, tt.want)
			}
		})
	}
}
