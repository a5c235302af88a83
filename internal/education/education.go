// Package education turns raw detection results into coaching content:
// why a detected anti-pattern is a problem, how to remediate it and how to
// prevent it next time. Content depth is controlled by a closed DetailLevel
// type validated at the boundary.
package education

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"vibecheck/internal/pattern"

	"github.com/adrg/frontmatter"
)

//go:embed casestudies/*.md
var caseStudyFS embed.FS

// DetailLevel controls how much educational content is attached to a
// detection. It is a closed set; free-form strings never travel past
// ParseDetailLevel.
type DetailLevel int

const (
	Brief DetailLevel = iota
	Standard
	Comprehensive
)

// ParseDetailLevel validates a user-supplied detail level string.
func ParseDetailLevel(s string) (DetailLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brief":
		return Brief, nil
	case "standard", "":
		return Standard, nil
	case "comprehensive":
		return Comprehensive, nil
	default:
		return Standard, fmt.Errorf("unknown detail level %q (want brief, standard or comprehensive)", s)
	}
}

func (d DetailLevel) String() string {
	switch d {
	case Brief:
		return "brief"
	case Comprehensive:
		return "comprehensive"
	default:
		return "standard"
	}
}

// caseStudyFrontmatter is the YAML header expected in case study files.
type caseStudyFrontmatter struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Pattern string `yaml:"pattern"`
	Impact  string `yaml:"impact"`
}

// CaseStudy is a real-world failure narrative attached to a pattern at the
// comprehensive detail level.
type CaseStudy struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Pattern string `json:"pattern"`
	Impact  string `json:"impact"`
	Summary string `json:"summary"`
}

// Response is the educational payload for one detected pattern.
type Response struct {
	PatternID           string     `json:"pattern_type"`
	PatternName         string     `json:"pattern_name"`
	Severity            string     `json:"severity"`
	DetailLevel         string     `json:"detail_level"`
	WhyProblematic      string     `json:"why_problematic"`
	EvidenceExplanation string     `json:"evidence_explanation,omitempty"`
	RemediationSteps    []string   `json:"remediation_steps,omitempty"`
	PreventionChecklist []string   `json:"prevention_checklist,omitempty"`
	CaseStudy           *CaseStudy `json:"case_study,omitempty"`
}

// Generator produces educational responses. Case studies are loaded once at
// construction from the embedded content directory; the generator is
// read-only afterwards and safe for concurrent use.
type Generator struct {
	caseStudies map[string]*CaseStudy // keyed by pattern id
}

// NewGenerator loads the embedded case study library.
func NewGenerator() (*Generator, error) {
	g := &Generator{caseStudies: make(map[string]*CaseStudy)}

	entries, err := fs.ReadDir(caseStudyFS, "casestudies")
	if err != nil {
		return nil, fmt.Errorf("failed to read case study directory: %w", err)
	}

	for _, entry := range entries {
		content, err := caseStudyFS.ReadFile("casestudies/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read case study %s: %w", entry.Name(), err)
		}

		var matter caseStudyFrontmatter
		body, err := frontmatter.Parse(bytes.NewReader(content), &matter)
		if err != nil {
			return nil, fmt.Errorf("case study %s has no valid frontmatter: %w", entry.Name(), err)
		}
		if matter.ID == "" || matter.Pattern == "" {
			return nil, fmt.Errorf("case study %s: frontmatter requires id and pattern fields", entry.Name())
		}

		g.caseStudies[matter.Pattern] = &CaseStudy{
			ID:      matter.ID,
			Title:   matter.Title,
			Pattern: matter.Pattern,
			Impact:  matter.Impact,
			Summary: strings.TrimSpace(string(body)),
		}
	}

	return g, nil
}

// CaseStudyFor returns the case study attached to a pattern, if any.
func (g *Generator) CaseStudyFor(patternID string) (*CaseStudy, bool) {
	cs, ok := g.caseStudies[patternID]
	return cs, ok
}

// Respond builds the educational payload for a detection result at the given
// detail level. Brief carries only the why; standard adds evidence
// explanation and the top remediation steps; comprehensive adds the full
// remediation list, the prevention checklist and the case study.
func (g *Generator) Respond(def *pattern.Definition, result pattern.DetectionResult, level DetailLevel) Response {
	resp := Response{
		PatternID:      def.ID,
		PatternName:    def.Name,
		Severity:       def.Severity,
		DetailLevel:    level.String(),
		WhyProblematic: whyProblematic(def.ID),
	}

	if level >= Standard {
		resp.EvidenceExplanation = explainEvidence(result.Evidence)
		resp.RemediationSteps = remediationSteps(def.ID)
		if level == Standard && len(resp.RemediationSteps) > 3 {
			resp.RemediationSteps = resp.RemediationSteps[:3]
		}
	}

	if level == Comprehensive {
		resp.PreventionChecklist = preventionChecklist(def.ID)
		if cs, ok := g.caseStudies[def.ID]; ok {
			resp.CaseStudy = cs
		}
	}

	return resp
}

func explainEvidence(evidence []pattern.Evidence) string {
	if len(evidence) == 0 {
		return "No specific evidence found."
	}

	descriptions := make([]string, len(evidence))
	for i, ev := range evidence {
		descriptions[i] = ev.Indicator
	}
	return "The following indicators suggest this anti-pattern: " + strings.Join(descriptions, "; ") + "."
}

func whyProblematic(patternID string) string {
	explanations := map[string]string{
		"infrastructure_without_implementation": "Building custom infrastructure before testing standard approaches " +
			"creates technical debt that compounds over time. Teams assume official SDKs or containers will not work " +
			"without actually testing them, then spend weeks maintaining what a vendor already ships.",
		"symptom_driven_development": "Addressing symptoms instead of root causes accumulates quick fixes and " +
			"workarounds that multiply over time, making the system increasingly fragile and hard to maintain.",
		"complexity_escalation": "Adding complexity without questioning necessity buries simple problems under " +
			"layers of abstraction that are difficult to maintain, debug and extend.",
		"documentation_neglect": "Building solutions without researching the standard approach usually reinvents " +
			"an existing capability poorly. Documentation research reveals proven approaches before code is written.",
	}

	if why, ok := explanations[patternID]; ok {
		return why
	}
	return "This pattern can lead to technical debt and maintenance issues."
}

func remediationSteps(patternID string) []string {
	steps := map[string][]string{
		"infrastructure_without_implementation": {
			"Research official SDK/API documentation thoroughly",
			"Create a minimal proof-of-concept using the standard approach",
			"Test the standard approach with realistic data",
			"Document specific limitations found, if any",
			"Only build custom solutions after proving the standard approach insufficient",
			"Get peer review on the custom vs standard decision",
		},
		"symptom_driven_development": {
			"Identify the root cause of the underlying problem",
			"Design a solution that addresses the root cause",
			"Plan proper error handling rather than suppression",
			"Document the connection between symptom and root cause",
		},
		"complexity_escalation": {
			"Question whether the complexity is truly necessary",
			"Start with the simplest solution that could work",
			"Add complexity incrementally, only when proven needed",
			"Document the justification for each layer",
		},
		"documentation_neglect": {
			"Allocate time for documentation research",
			"Review official guides and community examples",
			"Test the recommended approach before building custom",
			"Record research findings and the decision rationale",
		},
	}

	if s, ok := steps[patternID]; ok {
		return s
	}
	return []string{"Review the approach and consider alternatives"}
}

func preventionChecklist(patternID string) []string {
	checklists := map[string][]string{
		"infrastructure_without_implementation": {
			"Official documentation reviewed",
			"Standard API/SDK tested with a realistic example",
			"Limitations documented with specific examples",
			"Custom approach justified with evidence",
			"Peer review completed",
		},
		"symptom_driven_development": {
			"Root cause identified and documented",
			"Solution addresses the underlying issue, not just symptoms",
			"Solution designed for long-term sustainability",
		},
		"complexity_escalation": {
			"Simplest possible solution considered first",
			"Each layer of complexity justified",
			"Future maintenance impact assessed",
		},
		"documentation_neglect": {
			"Official documentation thoroughly reviewed",
			"Standard approaches tested before custom development",
			"Research findings documented",
		},
	}

	if c, ok := checklists[patternID]; ok {
		return c
	}
	return []string{"Approach reviewed and validated"}
}
