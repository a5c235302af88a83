// Package review computes structural pull request metrics: size
// classification, file-level risk, issue linkage and process-level findings.
// It is purely computational; fetching lives in the github package.
package review

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"vibecheck/internal/github"
)

// SizeClass buckets a pull request by total line changes and file count.
type SizeClass struct {
	Size             string  `json:"size"`
	Complexity       string  `json:"complexity"`
	TotalChanges     int     `json:"total_changes"`
	Additions        int     `json:"additions"`
	Deletions        int     `json:"deletions"`
	ChangedFiles     int     `json:"changed_files"`
	Commits          int     `json:"commits"`
	ChangesPerCommit float64 `json:"changes_per_commit"`
}

// ClassifySize buckets a PR from XS to XL. Both the line limit and the file
// limit must hold for a bucket; exceeding either pushes the PR up.
func ClassifySize(pr *github.PullRequest) SizeClass {
	total := pr.Additions + pr.Deletions

	var size, complexity string
	switch {
	case total <= 50 && pr.ChangedFiles <= 3:
		size, complexity = "XS", "Very Low"
	case total <= 200 && pr.ChangedFiles <= 10:
		size, complexity = "S", "Low"
	case total <= 500 && pr.ChangedFiles <= 20:
		size, complexity = "M", "Medium"
	case total <= 1000 && pr.ChangedFiles <= 40:
		size, complexity = "L", "High"
	default:
		size, complexity = "XL", "Very High"
	}

	commits := pr.Commits
	if commits < 1 {
		commits = 1
	}

	return SizeClass{
		Size:             size,
		Complexity:       complexity,
		TotalChanges:     total,
		Additions:        pr.Additions,
		Deletions:        pr.Deletions,
		ChangedFiles:     pr.ChangedFiles,
		Commits:          pr.Commits,
		ChangesPerCommit: float64(total) / float64(commits),
	}
}

// riskSubstrings flag files whose path suggests credentials or deployment
// configuration.
var riskSubstrings = []string{"config", "secret", "key", "password", "token", "env"}

// LargeFile is a single file with more than 100 changed lines.
type LargeFile struct {
	Filename  string `json:"filename"`
	Changes   int    `json:"changes"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// FileAnalysis summarizes the files touched by a PR.
type FileAnalysis struct {
	FileTypes  map[string]int `json:"file_types"`
	RiskFiles  []string       `json:"risk_files"`
	LargeFiles []LargeFile    `json:"large_files"`
	TotalFiles int            `json:"total_files"`
}

// AnalyzeFiles builds the per-file summary: extension histogram, files whose
// path hints at sensitive content, and unusually large diffs.
func AnalyzeFiles(files []github.ChangedFile) FileAnalysis {
	analysis := FileAnalysis{
		FileTypes:  make(map[string]int),
		TotalFiles: len(files),
	}

	for _, f := range files {
		if i := strings.LastIndex(f.Filename, "."); i >= 0 && i < len(f.Filename)-1 {
			ext := strings.ToLower(f.Filename[i+1:])
			analysis.FileTypes[ext]++
		}

		lower := strings.ToLower(f.Filename)
		for _, risk := range riskSubstrings {
			if strings.Contains(lower, risk) {
				analysis.RiskFiles = append(analysis.RiskFiles, f.Filename)
				break
			}
		}

		if f.Changes > 100 {
			analysis.LargeFiles = append(analysis.LargeFiles, LargeFile{
				Filename:  f.Filename,
				Changes:   f.Changes,
				Additions: f.Additions,
				Deletions: f.Deletions,
			})
		}
	}

	return analysis
}

// Issue linking phrases recognized in PR titles and bodies.
var (
	linkKeywordPattern = regexp.MustCompile(`(?i)(?:fixes|resolves|closes|addresses)\s+(?:issue\s+)?#(\d+)`)
	bareRefPattern     = regexp.MustCompile(`#(\d+)`)
	linkingWordPattern = regexp.MustCompile(`(?i)\b(?:fixes|resolves|closes|addresses)\b`)
)

// IssueLinkage reports whether a PR references the issues it addresses.
type IssueLinkage struct {
	HasIssueLinks        bool     `json:"has_issue_links"`
	LinkedIssues         []string `json:"linked_issues"`
	LinkingKeywordsFound bool     `json:"linking_keywords_found"`
}

// CheckIssueLinkage scans title and body for issue references.
func CheckIssueLinkage(title, body string) IssueLinkage {
	content := title + " " + body

	seen := make(map[string]bool)
	var linked []string
	for _, re := range []*regexp.Regexp{linkKeywordPattern, bareRefPattern} {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				linked = append(linked, m[1])
			}
		}
	}
	// Issue numbers are digit strings; order them numerically.
	sort.Slice(linked, func(i, j int) bool {
		a, _ := strconv.Atoi(linked[i])
		b, _ := strconv.Atoi(linked[j])
		return a < b
	})

	return IssueLinkage{
		HasIssueLinks:        len(linked) > 0,
		LinkedIssues:         linked,
		LinkingKeywordsFound: linkingWordPattern.MatchString(content),
	}
}

// StructuralPattern is one process-level finding about a PR.
type StructuralPattern struct {
	Pattern     string `json:"pattern"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// StructuralFindings collects the structural patterns found in a PR.
type StructuralFindings struct {
	PatternsFound   int                 `json:"patterns_found"`
	Patterns        []StructuralPattern `json:"patterns"`
	HighestSeverity string              `json:"highest_severity"`
}

var severityRank = map[string]int{"none": 0, "low": 1, "medium": 2, "high": 3}

// DetectStructural flags process-level problems visible from PR metadata
// alone: oversized diffs, noisy commit history, missing description and
// sensitive file changes.
func DetectStructural(pr *github.PullRequest, files FileAnalysis) StructuralFindings {
	var patterns []StructuralPattern

	if pr.ChangedFiles > 20 {
		patterns = append(patterns, StructuralPattern{
			Pattern:     "Large PR",
			Severity:    "medium",
			Description: fmt.Sprintf("PR changes %d files. Consider splitting into smaller PRs.", pr.ChangedFiles),
		})
	}

	if pr.Commits > 10 {
		patterns = append(patterns, StructuralPattern{
			Pattern:     "Too Many Commits",
			Severity:    "low",
			Description: fmt.Sprintf("PR has %d commits. Consider squashing related commits.", pr.Commits),
		})
	}

	if len(strings.TrimSpace(pr.Body)) < 10 {
		patterns = append(patterns, StructuralPattern{
			Pattern:     "Missing Description",
			Severity:    "medium",
			Description: "PR lacks a meaningful description. Add context about the changes.",
		})
	}

	if len(files.RiskFiles) > 0 {
		patterns = append(patterns, StructuralPattern{
			Pattern:     "Sensitive Files",
			Severity:    "high",
			Description: fmt.Sprintf("PR modifies sensitive files: %s", strings.Join(files.RiskFiles, ", ")),
		})
	}

	highest := "none"
	for _, p := range patterns {
		if severityRank[p.Severity] > severityRank[highest] {
			highest = p.Severity
		}
	}

	return StructuralFindings{
		PatternsFound:   len(patterns),
		Patterns:        patterns,
		HighestSeverity: highest,
	}
}

// Recommendation is one actionable suggestion attached to a PR review.
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// Recommend turns the computed metrics into review suggestions. A clean PR
// gets a single positive note.
func Recommend(size SizeClass, linkage IssueLinkage, findings StructuralFindings) []Recommendation {
	var recs []Recommendation

	if size.Size == "L" || size.Size == "XL" {
		recs = append(recs, Recommendation{
			Type:     "size",
			Priority: "medium",
			Message:  fmt.Sprintf("Large PR (%s). Consider splitting into smaller, focused changes.", size.Size),
		})
	}

	if !linkage.HasIssueLinks {
		recs = append(recs, Recommendation{
			Type:     "process",
			Priority: "medium",
			Message:  "PR should reference related issues using 'Fixes #123' format.",
		})
	}

	if findings.HighestSeverity == "high" {
		recs = append(recs, Recommendation{
			Type:     "risk",
			Priority: "high",
			Message:  "High-risk patterns detected. Review carefully before merging.",
		})
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Type:     "positive",
			Priority: "info",
			Message:  "PR looks good from basic analysis perspective.",
		})
	}

	return recs
}

// Report is the full structural review of one pull request.
type Report struct {
	Size            SizeClass          `json:"size_classification"`
	Files           FileAnalysis       `json:"files"`
	IssueLinkage    IssueLinkage       `json:"issue_linkage"`
	Findings        StructuralFindings `json:"patterns_detected"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// Analyze runs the full structural review over a fetched pull request.
func Analyze(pr *github.PullRequest) *Report {
	size := ClassifySize(pr)
	files := AnalyzeFiles(pr.Files)
	linkage := CheckIssueLinkage(pr.Title, pr.Body)
	findings := DetectStructural(pr, files)

	return &Report{
		Size:            size,
		Files:           files,
		IssueLinkage:    linkage,
		Findings:        findings,
		Recommendations: Recommend(size, linkage, findings),
	}
}
