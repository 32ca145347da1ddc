// Package report publishes verified conjectures as GitHub pull requests: a
// markdown report file committed on a fresh branch, then a PR against main.
// The engine has no dependency on this package succeeding; a failed
// publication is logged and analysis moves on.
package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"conjecturer/internal/logging"
)

// DefaultBaseURL is the GitHub REST v3 endpoint.
const DefaultBaseURL = "https://api.github.com"

// Client opens conjecture PRs against a single repository.
type Client struct {
	baseURL    string
	token      string
	owner      string
	repo       string
	httpClient *http.Client
}

// Publication describes one verified conjecture to publish.
type Publication struct {
	SequenceID  string // e.g. "A000045"
	Kind        string // formula family
	FormulaText string // plain rendering
	LaTeX       string // LaTeX rendering
	Description string
	TermCount   int // how many terms the formula was verified against
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (tests point this at a local server).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds a reporting client. repository is "owner/name".
func NewClient(token, repository string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is not set")
	}
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository format %q, expected owner/repo", repository)
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		owner:      owner,
		repo:       repo,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreatePullRequest commits a report for the finding on a new branch and
// opens a pull request. It returns the PR URL.
func (c *Client) CreatePullRequest(ctx context.Context, pub Publication) (string, error) {
	branch := "feature/conjecture-" + pub.SequenceID
	path := fmt.Sprintf("data/reports/%s.md", pub.SequenceID)
	body := renderMarkdown(pub)

	sha, err := c.mainSHA(ctx)
	if err != nil {
		return "", fmt.Errorf("get main branch SHA: %w", err)
	}

	// Branch creation failing is fine when the branch already exists; the
	// file commit below is what matters.
	if err := c.createBranch(ctx, branch, sha); err != nil {
		logging.Report("could not create branch %s (may already exist): %v", branch, err)
	}

	if err := c.createFile(ctx, branch, path, pub, body); err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}

	url, err := c.openPR(ctx, branch, pub, body)
	if err != nil {
		return "", fmt.Errorf("create pull request: %w", err)
	}
	logging.Report("created pull request for %s: %s", pub.SequenceID, url)
	return url, nil
}

func renderMarkdown(pub Publication) string {
	return fmt.Sprintf(`# New Conjecture Found for OEIS Sequence: %s

A new potential formula has been discovered for sequence [%s](https://oeis.org/%s).

## Conjecture Details

- **Type:** %s
- **Formula:** `+"`%s`"+`
- **Formula (LaTeX):** `+"`$%s$`"+`

## Verification

This formula has been computationally verified against all %d available terms of the sequence.

---
*This report was generated automatically by the conjecturer factory.*
`, pub.SequenceID, pub.SequenceID, pub.SequenceID, pub.Kind, pub.FormulaText, pub.LaTeX, pub.TermCount)
}

func (c *Client) mainSHA(ctx context.Context) (string, error) {
	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	u := fmt.Sprintf("%s/repos/%s/%s/git/ref/heads/main", c.baseURL, c.owner, c.repo)
	if err := c.do(ctx, "GET", u, nil, &ref); err != nil {
		return "", err
	}
	return ref.Object.SHA, nil
}

func (c *Client) createBranch(ctx context.Context, branch, sha string) error {
	payload := map[string]string{
		"ref": "refs/heads/" + branch,
		"sha": sha,
	}
	u := fmt.Sprintf("%s/repos/%s/%s/git/refs", c.baseURL, c.owner, c.repo)
	return c.do(ctx, "POST", u, payload, nil)
}

func (c *Client) createFile(ctx context.Context, branch, path string, pub Publication, content string) error {
	payload := map[string]string{
		"message": fmt.Sprintf("feat: Add conjecture report for %s", pub.SequenceID),
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"branch":  branch,
	}
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, path)
	return c.do(ctx, "PUT", u, payload, nil)
}

func (c *Client) openPR(ctx context.Context, branch string, pub Publication, body string) (string, error) {
	payload := map[string]interface{}{
		"title": fmt.Sprintf("Conjecture Found: %s formula for %s",
			titleCase(pub.Kind), pub.SequenceID),
		"head":                  branch,
		"base":                  "main",
		"body":                  body,
		"maintainer_can_modify": true,
	}
	var created struct {
		HTMLURL string `json:"html_url"`
	}
	u := fmt.Sprintf("%s/repos/%s/%s/pulls", c.baseURL, c.owner, c.repo)
	if err := c.do(ctx, "POST", u, payload, &created); err != nil {
		return "", err
	}
	return created.HTMLURL, nil
}

// titleCase turns a kind like "rational_function" into "Rational function".
func titleCase(kind string) string {
	s := strings.ReplaceAll(kind, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// do performs one authenticated API call, encoding payload as JSON and
// decoding the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, url string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
