// Package integration validates integration decisions against known official
// alternatives. It guards against the classic failure mode of building a
// custom server or client for a technology whose vendor already ships a
// supported container or SDK.
package integration

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// WarningLevel grades how concerning an integration plan is.
type WarningLevel string

const (
	WarningNone     WarningLevel = "none"
	WarningCaution  WarningLevel = "caution"
	WarningWarning  WarningLevel = "warning"
	WarningCritical WarningLevel = "critical"
)

// ValidationError reports bad input to an integration check. It is the only
// error type the package returns for caller mistakes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// knowledgeEntry is the static record for one technology: what the vendor
// officially ships and which custom-built features it already covers.
type knowledgeEntry struct {
	officialSolutions []string
	coveredFeatures   []string
	testCommand       string
}

// knowledgeBase maps lowercase technology names to their official offerings.
// Entries come from documented integration failures and vendor documentation.
var knowledgeBase = map[string]knowledgeEntry{
	"cognee": {
		officialSolutions: []string{
			"cognee/cognee:main Docker container with built-in API server",
			"cognee Python SDK for direct integration",
		},
		coveredFeatures: []string{"rest api", "rest server", "http server", "api server", "authentication", "jwt", "storage", "search"},
		testCommand:       "docker run cognee/cognee:main",
	},
	"supabase": {
		officialSolutions: []string{
			"Official Supabase client libraries (supabase-js, supabase-py, supabase-go)",
			"Supabase hosted platform with auth, storage and realtime built in",
		},
		coveredFeatures: []string{"authentication", "auth", "storage", "realtime", "database client", "rest api"},
		testCommand:       "supabase init && supabase start",
	},
	"claude": {
		officialSolutions: []string{
			"Official Anthropic SDK (anthropic-sdk-python, anthropic-sdk-typescript)",
			"Anthropic Messages API with documented streaming support",
		},
		coveredFeatures: []string{"http client", "api client", "streaming", "retry", "rate limiting"},
		testCommand:       "pip install anthropic",
	},
	"openai": {
		officialSolutions: []string{
			"Official OpenAI SDK with streaming and retry handling",
		},
		coveredFeatures: []string{"http client", "api client", "streaming", "retry", "rate limiting"},
		testCommand:       "pip install openai",
	},
	"github": {
		officialSolutions: []string{
			"Official Octokit SDKs and the GitHub CLI",
			"GitHub REST and GraphQL APIs with documented client libraries",
		},
		coveredFeatures: []string{"api client", "http client", "authentication", "webhooks", "pagination"},
		testCommand:       "gh api user",
	},
}

// Recommendation is the outcome of an official-alternative check.
type Recommendation struct {
	Technology          string           `json:"technology"`
	WarningLevel        WarningLevel     `json:"warning_level"`
	OfficialSolutions   []string         `json:"official_solutions"`
	RedFlags            []string         `json:"red_flags_detected"`
	ResearchRequired    bool             `json:"research_required"`
	JustificationNeeded bool             `json:"custom_justification_needed"`
	DecisionMatrix      []DecisionOption `json:"decision_matrix"`
	NextSteps           []string         `json:"next_steps"`
	Recommendation      string           `json:"recommendation"`
}

// DecisionOption is one row of the build-vs-use decision matrix.
type DecisionOption struct {
	Approach    string `json:"approach"`
	Effort      string `json:"effort"`
	Maintenance string `json:"maintenance"`
	Notes       string `json:"notes"`
}

// CheckAlternatives validates a planned integration for a technology against
// the knowledge base. customFeatures lists the capabilities the caller plans
// to build themselves.
func CheckAlternatives(technology string, customFeatures []string) (*Recommendation, error) {
	tech := strings.ToLower(strings.TrimSpace(technology))
	if tech == "" {
		return nil, &ValidationError{Field: "technology", Reason: "must not be empty"}
	}
	if len(tech) > 100 {
		return nil, &ValidationError{Field: "technology", Reason: "name too long"}
	}

	features := make([]string, 0, len(customFeatures))
	for _, f := range customFeatures {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			features = append(features, f)
		}
	}

	entry, known := knowledgeBase[tech]
	rec := &Recommendation{
		Technology:   tech,
		WarningLevel: WarningNone,
	}

	if !known {
		rec.ResearchRequired = true
		rec.WarningLevel = WarningCaution
		rec.Recommendation = fmt.Sprintf("No official-alternative data for %q. Research the vendor's deployment options before building custom features.", tech)
		rec.NextSteps = []string{
			fmt.Sprintf("Search for an official %s container, SDK or API client", tech),
			"Test the official solution against the planned feature list",
			"Document concrete gaps before writing custom code",
		}
		rec.DecisionMatrix = decisionMatrix(tech, false)
		return rec, nil
	}

	rec.OfficialSolutions = entry.officialSolutions

	for _, f := range features {
		for _, covered := range entry.coveredFeatures {
			if strings.Contains(f, covered) {
				rec.RedFlags = append(rec.RedFlags,
					fmt.Sprintf("Planned custom %q duplicates functionality the official %s solution provides", f, tech))
				break
			}
		}
	}

	switch {
	case len(rec.RedFlags) >= 3:
		rec.WarningLevel = WarningCritical
	case len(rec.RedFlags) > 0:
		rec.WarningLevel = WarningWarning
	default:
		rec.WarningLevel = WarningCaution
	}

	rec.JustificationNeeded = len(rec.RedFlags) > 0
	rec.ResearchRequired = true
	rec.DecisionMatrix = decisionMatrix(tech, true)
	rec.NextSteps = []string{
		fmt.Sprintf("Test the official %s solution first: %s", tech, entry.testCommand),
		"Verify whether the official solution covers the planned features",
		"Document specific, tested limitations before any custom work",
	}

	if rec.JustificationNeeded {
		rec.Recommendation = fmt.Sprintf("Official %s solutions already cover %d of the planned custom features. Test them before building anything.", tech, len(rec.RedFlags))
	} else {
		rec.Recommendation = fmt.Sprintf("Official %s solutions exist. Confirm they do not cover the planned features before custom development.", tech)
	}

	return rec, nil
}

func decisionMatrix(tech string, known bool) []DecisionOption {
	official := DecisionOption{
		Approach:    fmt.Sprintf("Use official %s solution", tech),
		Effort:      "hours",
		Maintenance: "vendor-supported",
		Notes:       "Validate against real requirements first",
	}
	if !known {
		official.Notes = "Existence unverified, research required"
	}
	return []DecisionOption{
		official,
		{
			Approach:    "Custom development",
			Effort:      "days to weeks",
			Maintenance: "owned by your team indefinitely",
			Notes:       "Requires documented evidence that the official solution is insufficient",
		},
	}
}

// Custom-work phrases scanned for by AnalyzeText. Matched case-insensitively.
var customWorkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)custom\s+(rest\s+)?(server|api|client|sdk|wrapper|integration)`),
	regexp.MustCompile(`(?i)build(ing)?\s+(our|my)\s+own`),
	regexp.MustCompile(`(?i)hand[- ]?roll(ed|ing)?`),
	regexp.MustCompile(`(?i)manual\s+(auth|authentication|http|polling)`),
	regexp.MustCompile(`(?i)write\s+(a|our own)\s+(client|server|wrapper)`),
	regexp.MustCompile(`(?i)from\s+scratch`),
}

// TextAnalysis is the outcome of scanning free text for integration
// anti-patterns.
type TextAnalysis struct {
	DetectedTechnologies []string     `json:"detected_technologies"`
	DetectedCustomWork   []string     `json:"detected_custom_work"`
	WarningLevel         WarningLevel `json:"warning_level"`
	Recommendations      []string     `json:"recommendations"`
}

// AnalyzeText scans text for known technologies appearing next to custom
// development language and grades the combination.
func AnalyzeText(text string) *TextAnalysis {
	lower := strings.ToLower(text)
	analysis := &TextAnalysis{WarningLevel: WarningNone}

	for tech := range knowledgeBase {
		if strings.Contains(lower, tech) {
			analysis.DetectedTechnologies = append(analysis.DetectedTechnologies, tech)
		}
	}
	// Map iteration order is random; keep output stable.
	sort.Strings(analysis.DetectedTechnologies)

	for _, re := range customWorkPatterns {
		if m := re.FindString(text); m != "" {
			analysis.DetectedCustomWork = append(analysis.DetectedCustomWork, m)
		}
	}

	switch {
	case len(analysis.DetectedTechnologies) > 0 && len(analysis.DetectedCustomWork) > 0:
		analysis.WarningLevel = WarningWarning
		for _, tech := range analysis.DetectedTechnologies {
			analysis.Recommendations = append(analysis.Recommendations,
				fmt.Sprintf("Research official %s deployment options before the custom work described here", tech))
		}
	case len(analysis.DetectedCustomWork) > 0:
		analysis.WarningLevel = WarningCaution
		analysis.Recommendations = append(analysis.Recommendations,
			"Custom development language detected. Verify no official alternative covers this work.")
	case len(analysis.DetectedTechnologies) > 0:
		analysis.Recommendations = append(analysis.Recommendations,
			"Known technologies mentioned. Prefer their official SDKs and containers for integration.")
	}

	return analysis
}

// KnownTechnologies returns the technologies in the knowledge base, sorted.
func KnownTechnologies() []string {
	techs := make([]string, 0, len(knowledgeBase))
	for tech := range knowledgeBase {
		techs = append(techs, tech)
	}
	sort.Strings(techs)
	return techs
}
