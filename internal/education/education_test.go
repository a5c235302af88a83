package education

import (
	"strings"
	"testing"

	"vibecheck/internal/pattern"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := NewGenerator()
	if err != nil {
		t.Fatalf("Failed to create generator: %s", err)
	}
	return g
}

func sampleDefinition() *pattern.Definition {
	return &pattern.Definition{
		ID:       "infrastructure_without_implementation",
		Name:     "Infrastructure Without Implementation",
		Severity: "high",
	}
}

func sampleResult() pattern.DetectionResult {
	return pattern.DetectionResult{
		PatternID:  "infrastructure_without_implementation",
		Detected:   true,
		Confidence: 0.7,
		Threshold:  0.5,
		Evidence: []pattern.Evidence{
			{PatternID: "infrastructure_without_implementation", Indicator: "custom server planned", Match: "custom server", Weight: 0.4},
			{PatternID: "infrastructure_without_implementation", Indicator: "standard approach untested", Match: "skip the SDK", Weight: 0.3},
		},
	}
}

func TestParseDetailLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    DetailLevel
		wantErr bool
	}{
		{"brief", Brief, false},
		{"standard", Standard, false},
		{"comprehensive", Comprehensive, false},
		{"", Standard, false},
		{" Comprehensive ", Comprehensive, false},
		{"verbose", Standard, true},
		{"full", Standard, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDetailLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for input %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for input %q: %s", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDetailLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestRespondBrief(t *testing.T) {
	g := newTestGenerator(t)

	resp := g.Respond(sampleDefinition(), sampleResult(), Brief)

	if resp.PatternName != "Infrastructure Without Implementation" {
		t.Errorf("Unexpected pattern name: %s", resp.PatternName)
	}
	if resp.WhyProblematic == "" {
		t.Error("Brief response should include why the pattern is problematic")
	}
	if resp.EvidenceExplanation != "" {
		t.Error("Brief response should not include evidence explanation")
	}
	if len(resp.RemediationSteps) != 0 {
		t.Error("Brief response should not include remediation steps")
	}
	if resp.CaseStudy != nil {
		t.Error("Brief response should not include a case study")
	}
}

func TestRespondStandard(t *testing.T) {
	g := newTestGenerator(t)

	resp := g.Respond(sampleDefinition(), sampleResult(), Standard)

	if resp.EvidenceExplanation == "" {
		t.Error("Standard response should explain the evidence")
	}
	if !strings.Contains(resp.EvidenceExplanation, "custom server planned") {
		t.Errorf("Evidence explanation should name indicators, got: %s", resp.EvidenceExplanation)
	}
	if len(resp.RemediationSteps) == 0 {
		t.Error("Standard response should include remediation steps")
	}
	if len(resp.RemediationSteps) > 3 {
		t.Errorf("Standard response should cap remediation at 3 steps, got %d", len(resp.RemediationSteps))
	}
	if resp.PreventionChecklist != nil {
		t.Error("Standard response should not include the prevention checklist")
	}
}

func TestRespondComprehensive(t *testing.T) {
	g := newTestGenerator(t)

	resp := g.Respond(sampleDefinition(), sampleResult(), Comprehensive)

	if len(resp.RemediationSteps) <= 3 {
		t.Errorf("Comprehensive response should carry the full remediation list, got %d steps", len(resp.RemediationSteps))
	}
	if len(resp.PreventionChecklist) == 0 {
		t.Error("Comprehensive response should include the prevention checklist")
	}
	if resp.CaseStudy == nil {
		t.Fatal("Comprehensive response should include the case study")
	}
	if resp.CaseStudy.ID != "cognee-retry-cycle" {
		t.Errorf("Unexpected case study: %s", resp.CaseStudy.ID)
	}
	if resp.CaseStudy.Summary == "" {
		t.Error("Case study summary should carry the markdown body")
	}
}

func TestRespondUnknownPatternFallsBack(t *testing.T) {
	g := newTestGenerator(t)

	def := &pattern.Definition{ID: "custom_pattern", Name: "Custom Pattern", Severity: "low"}
	resp := g.Respond(def, pattern.DetectionResult{PatternID: "custom_pattern"}, Comprehensive)

	if resp.WhyProblematic == "" {
		t.Error("Unknown pattern should still get generic guidance")
	}
	if len(resp.RemediationSteps) == 0 {
		t.Error("Unknown pattern should still get generic remediation")
	}
	if resp.CaseStudy != nil {
		t.Error("Unknown pattern should have no case study")
	}
}

func TestAllBuiltinPatternsHaveCaseStudies(t *testing.T) {
	g := newTestGenerator(t)

	for _, id := range []string{
		"infrastructure_without_implementation",
		"symptom_driven_development",
		"complexity_escalation",
		"documentation_neglect",
	} {
		cs, ok := g.CaseStudyFor(id)
		if !ok {
			t.Errorf("Missing case study for pattern %s", id)
			continue
		}
		if cs.Title == "" || cs.Impact == "" {
			t.Errorf("Case study for %s missing frontmatter fields: %+v", id, cs)
		}
	}
}

func TestExplainEvidenceEmpty(t *testing.T) {
	got := explainEvidence(nil)
	if got != "No specific evidence found." {
		t.Errorf("Unexpected empty-evidence explanation: %s", got)
	}
}
