// Package report renders analysis results as markdown coaching reports and,
// for terminal use, as styled output.
package report

import (
	"fmt"
	"sort"
	"strings"

	"vibecheck/internal/education"
	"vibecheck/internal/github"
	"vibecheck/internal/pattern"
	"vibecheck/internal/review"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// BuildTextReport produces a markdown coaching report for a free-text
// analysis: one section per detected pattern with its educational content,
// and a short all-clear when nothing was detected.
func BuildTextReport(results []pattern.DetectionResult, responses []education.Response) string {
	var b strings.Builder

	detected := pattern.Detected(results)
	b.WriteString("# Engineering Pattern Analysis\n\n")

	if len(detected) == 0 {
		b.WriteString("No anti-patterns detected. The analyzed text shows no signs of ")
		b.WriteString("infrastructure-first planning, symptom patching, complexity escalation ")
		b.WriteString("or documentation neglect.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Detected **%d** pattern(s) across %d evaluated.\n\n", len(detected), len(results))

	respByID := make(map[string]education.Response, len(responses))
	for _, r := range responses {
		respByID[r.PatternID] = r
	}

	for _, res := range detected {
		resp, hasEdu := respByID[res.PatternID]

		title := res.PatternID
		if hasEdu {
			title = resp.PatternName
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		fmt.Fprintf(&b, "Confidence: **%.0f%%** (threshold %.0f%%)\n\n", res.Confidence*100, res.Threshold*100)

		if len(res.Evidence) > 0 {
			b.WriteString("Evidence:\n\n")
			for _, ev := range res.Evidence {
				fmt.Fprintf(&b, "- %s: `%s`\n", ev.Indicator, ev.Match)
			}
			b.WriteString("\n")
		}
		if len(res.Counter) > 0 {
			b.WriteString("Counter-evidence:\n\n")
			for _, ev := range res.Counter {
				fmt.Fprintf(&b, "- %s: `%s`\n", ev.Indicator, ev.Match)
			}
			b.WriteString("\n")
		}

		if hasEdu {
			writeEducation(&b, resp)
		}
	}

	return b.String()
}

func writeEducation(b *strings.Builder, resp education.Response) {
	if resp.WhyProblematic != "" {
		b.WriteString("**Why this matters:** ")
		b.WriteString(resp.WhyProblematic)
		b.WriteString("\n\n")
	}
	if len(resp.RemediationSteps) > 0 {
		b.WriteString("**Remediation:**\n\n")
		for i, step := range resp.RemediationSteps {
			fmt.Fprintf(b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}
	if len(resp.PreventionChecklist) > 0 {
		b.WriteString("**Prevention checklist:**\n\n")
		for _, item := range resp.PreventionChecklist {
			fmt.Fprintf(b, "- [ ] %s\n", item)
		}
		b.WriteString("\n")
	}
	if resp.CaseStudy != nil {
		fmt.Fprintf(b, "**Case study: %s** (%s)\n\n%s\n\n", resp.CaseStudy.Title, resp.CaseStudy.Impact, resp.CaseStudy.Summary)
	}
}

// BuildPRReport produces a markdown review report for a pull request.
func BuildPRReport(pr *github.PullRequest, rep *review.Report, results []pattern.DetectionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# PR Review: %s\n\n", pr.Title)
	fmt.Fprintf(&b, "PR #%d by %s (%s)\n\n", pr.Number, pr.Author, pr.State)

	fmt.Fprintf(&b, "## Size: %s (%s complexity)\n\n", rep.Size.Size, rep.Size.Complexity)
	fmt.Fprintf(&b, "- %d additions, %d deletions across %d files\n", rep.Size.Additions, rep.Size.Deletions, rep.Size.ChangedFiles)
	fmt.Fprintf(&b, "- %d commits, %.1f changes per commit\n\n", rep.Size.Commits, rep.Size.ChangesPerCommit)

	if len(rep.Files.FileTypes) > 0 {
		b.WriteString("File types: ")
		exts := make([]string, 0, len(rep.Files.FileTypes))
		for ext := range rep.Files.FileTypes {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		parts := make([]string, len(exts))
		for i, ext := range exts {
			parts[i] = fmt.Sprintf("%s (%d)", ext, rep.Files.FileTypes[ext])
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n\n")
	}

	if rep.Findings.PatternsFound > 0 {
		b.WriteString("## Structural findings\n\n")
		for _, p := range rep.Findings.Patterns {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", p.Pattern, p.Severity, p.Description)
		}
		b.WriteString("\n")
	}

	if detected := pattern.Detected(results); len(detected) > 0 {
		b.WriteString("## Content patterns\n\n")
		for _, res := range detected {
			fmt.Fprintf(&b, "- **%s** at %.0f%% confidence\n", res.PatternID, res.Confidence*100)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendations\n\n")
	for _, rec := range rep.Recommendations {
		fmt.Fprintf(&b, "- [%s] %s\n", rec.Priority, rec.Message)
	}

	return b.String()
}

// Render converts a markdown report into styled terminal output. Rendering
// problems fall back to the raw markdown rather than failing the command.
func Render(markdown string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

// Banner renders the one-line status header shown before CLI reports.
func Banner(detectedCount int) string {
	if detectedCount == 0 {
		return okStyle.Render("✓ no anti-patterns detected")
	}
	return warnStyle.Render(fmt.Sprintf("⚠ %d anti-pattern(s) detected", detectedCount))
}

// Title renders a styled section title for CLI output.
func Title(text string) string {
	return headerStyle.Render(text)
}
