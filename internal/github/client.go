// Package github wraps the GitHub REST API for issue and pull request
// analysis. It exposes flat, fully-populated structs so the analysis layers
// never touch the API client's pointer-heavy types.
package github

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"

	"vibecheck/internal/logging"

	gh "github.com/google/go-github/v68/github"
)

// repoPattern matches "owner/repo" with the character set GitHub allows.
var repoPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*/[A-Za-z0-9_.-]+$`)

// ParseRepo splits and validates an "owner/repo" string.
func ParseRepo(repo string) (owner, name string, err error) {
	if !repoPattern.MatchString(repo) {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo format", repo)
	}
	for i, r := range repo {
		if r == '/' {
			return repo[:i], repo[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("invalid repository %q: expected owner/repo format", repo)
}

// ResolveToken picks the GitHub token to use: an explicit token wins, then
// the GITHUB_TOKEN environment variable, then the OS credential store. An
// empty result means unauthenticated access (public repos, low rate limit).
func ResolveToken(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("GITHUB_TOKEN"); env != "" {
		return env
	}
	if token, err := NewCredentialManager().Token(); err == nil {
		return token
	}
	return ""
}

// Issue is a fetched GitHub issue, flattened for analysis.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"`
	Author    string    `json:"author"`
	Labels    []string  `json:"labels"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// ChangedFile is one file touched by a pull request.
type ChangedFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
}

// PullRequest is a fetched GitHub pull request with its file list.
type PullRequest struct {
	Number       int           `json:"number"`
	Title        string        `json:"title"`
	Body         string        `json:"body"`
	State        string        `json:"state"`
	Author       string        `json:"author"`
	URL          string        `json:"url"`
	Additions    int           `json:"additions"`
	Deletions    int           `json:"deletions"`
	ChangedFiles int           `json:"changed_files"`
	Commits      int           `json:"commits"`
	CreatedAt    time.Time     `json:"created_at"`
	Files        []ChangedFile `json:"files"`
}

// Client fetches issues and pull requests.
type Client struct {
	gh     *gh.Client
	logger *logging.AppLogger
}

// NewClient builds a client. An empty token means unauthenticated access.
func NewClient(token string, logger *logging.AppLogger) *Client {
	if logger == nil {
		logger = logging.GetDefault()
	}

	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{gh: client, logger: logger}
}

// FetchIssue retrieves a single issue.
func (c *Client) FetchIssue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	if number <= 0 {
		return nil, fmt.Errorf("invalid issue number %d", number)
	}

	start := time.Now()
	issue, _, err := c.gh.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue %s/%s#%d: %w", owner, repo, number, err)
	}
	c.logger.LogPerformance("fetch_issue", start)

	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	return &Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		Author:    issue.GetUser().GetLogin(),
		Labels:    labels,
		URL:       issue.GetHTMLURL(),
		CreatedAt: issue.GetCreatedAt().Time,
	}, nil
}

// FetchPullRequest retrieves a pull request along with its changed files.
// File listing paginates; very large PRs are capped at 300 files, which is
// more than enough for size classification.
func (c *Client) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	if number <= 0 {
		return nil, fmt.Errorf("invalid pull request number %d", number)
	}

	start := time.Now()
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	result := &PullRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		State:        pr.GetState(),
		Author:       pr.GetUser().GetLogin(),
		URL:          pr.GetHTMLURL(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
		Commits:      pr.GetCommits(),
		CreatedAt:    pr.GetCreatedAt().Time,
	}

	const maxFiles = 300
	opts := &gh.ListOptions{PerPage: 100}
	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list files for %s/%s#%d: %w", owner, repo, number, err)
		}
		for _, f := range files {
			result.Files = append(result.Files, ChangedFile{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Changes:   f.GetChanges(),
			})
		}
		if resp.NextPage == 0 || len(result.Files) >= maxFiles {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.LogPerformance("fetch_pull_request", start)
	return result, nil
}
