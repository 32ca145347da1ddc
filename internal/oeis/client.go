// Package oeis is a thin client for the On-Line Encyclopedia of Integer
// Sequences: candidate search via the JSON API and full-term fetching via
// b-files. It supplies sequences to the engine and nothing else; fetch
// failures mean "cannot test", never a formula failure.
package oeis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"conjecturer/internal/logging"
	"conjecturer/internal/sequence"
)

// DefaultBaseURL is the public OEIS endpoint.
const DefaultBaseURL = "https://oeis.org"

// defaultUserAgent mimics a browser; the OEIS front end rejects anonymous
// clients on the search endpoint.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var idPattern = regexp.MustCompile(`^A\d{6,}$`)

// Client talks to the OEIS.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the OEIS endpoint (tests point this at a local server).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds an OEIS client with sane timeouts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse is the subset of the OEIS JSON search payload we consume.
type searchResponse struct {
	Results []struct {
		Number int `json:"number"`
	} `json:"results"`
}

// Search queries the OEIS JSON API and returns matching sequence IDs as
// zero-padded A-numbers (e.g. "A000045"). A query like "keyword:unkn" finds
// sequences with no known formula.
func (c *Client) Search(ctx context.Context, query string, count int) ([]string, error) {
	logging.Fetch("searching OEIS with query=%q count=%d", query, count)

	params := url.Values{
		"q":     {query},
		"fmt":   {"json"},
		"n":     {strconv.Itoa(count)},
		"start": {"0"},
	}
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search OEIS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search OEIS: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(sr.Results))
	for _, r := range sr.Results {
		ids = append(ids, fmt.Sprintf("A%06d", r.Number))
	}
	logging.Fetch("OEIS search returned %d candidate IDs", len(ids))
	return ids, nil
}

// FetchBFile fetches and parses the b-file for an OEIS ID, returning the full
// known term list with arbitrary precision.
func (c *Client) FetchBFile(ctx context.Context, id string) (sequence.Sequence, error) {
	if !idPattern.MatchString(id) {
		return sequence.Sequence{}, fmt.Errorf("invalid OEIS ID %q", id)
	}

	u := fmt.Sprintf("%s/%s/b%s.txt", c.baseURL, id, id[1:])
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return sequence.Sequence{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.FetchWarn("failed to fetch b-file for %s: %v", id, err)
		return sequence.Sequence{}, fmt.Errorf("fetch b-file %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return sequence.Sequence{}, fmt.Errorf("fetch b-file %s: HTTP %d", id, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return sequence.Sequence{}, fmt.Errorf("read b-file %s: %w", id, err)
	}

	seq, err := sequence.ParseBFile(string(body))
	if err != nil {
		logging.FetchWarn("b-file for %s was empty or unparseable", id)
		return sequence.Sequence{}, fmt.Errorf("parse b-file %s: %w", id, err)
	}
	logging.Fetch("fetched %d terms for %s", seq.Len(), id)
	return seq, nil
}
