package report

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("", "owner/repo")
	assert.Error(t, err)

	_, err = NewClient("tok", "not-a-repo")
	assert.Error(t, err)

	_, err = NewClient("tok", "/repo")
	assert.Error(t, err)

	c, err := NewClient("tok", "owner/repo")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

// fakeGitHub records the calls the publication flow makes.
type fakeGitHub struct {
	refCalls      int
	branchCreated map[string]string
	fileCommits   map[string]string // path -> decoded content
	prTitle       string
	prHead        string
	prBase        string
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		branchCreated: make(map[string]string),
		fileCommits:   make(map[string]string),
	}
}

func (f *fakeGitHub) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))

		switch {
		case r.Method == "GET" && strings.HasSuffix(r.URL.Path, "/git/ref/heads/main"):
			f.refCalls++
			json.NewEncoder(w).Encode(map[string]any{
				"object": map[string]any{"sha": "abc123"},
			})

		case r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/git/refs"):
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			f.branchCreated[payload["ref"]] = payload["sha"]
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("{}"))

		case r.Method == "PUT" && strings.Contains(r.URL.Path, "/contents/"):
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			decoded, err := base64.StdEncoding.DecodeString(payload["content"])
			require.NoError(t, err)
			path := strings.SplitN(r.URL.Path, "/contents/", 2)[1]
			f.fileCommits[path] = string(decoded)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("{}"))

		case r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/pulls"):
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			f.prTitle, _ = payload["title"].(string)
			f.prHead, _ = payload["head"].(string)
			f.prBase, _ = payload["base"].(string)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"html_url": "https://github.com/owner/repo/pull/7",
			})

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestCreatePullRequest(t *testing.T) {
	fake := newFakeGitHub()
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c, err := NewClient("test-token", "owner/repo", WithBaseURL(srv.URL))
	require.NoError(t, err)

	url, err := c.CreatePullRequest(context.Background(), Publication{
		SequenceID:  "A000290",
		Kind:        "polynomial",
		FormulaText: "a(n) = n^2",
		LaTeX:       "n^2",
		Description: "Polynomial of degree 2",
		TermCount:   10,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://github.com/owner/repo/pull/7", url)

	assert.Equal(t, 1, fake.refCalls)
	assert.Equal(t, "abc123", fake.branchCreated["refs/heads/feature/conjecture-A000290"])

	report, ok := fake.fileCommits["data/reports/A000290.md"]
	require.True(t, ok)
	assert.Contains(t, report, "A000290")
	assert.Contains(t, report, "a(n) = n^2")
	assert.Contains(t, report, "verified against all 10 available terms")

	assert.Equal(t, "Conjecture Found: Polynomial formula for A000290", fake.prTitle)
	assert.Equal(t, "feature/conjecture-A000290", fake.prHead)
	assert.Equal(t, "main", fake.prBase)
}

func TestCreatePullRequest_BranchExistsIsTolerated(t *testing.T) {
	fake := newFakeGitHub()
	base := fake.handler(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/git/refs") {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"Reference already exists"}`))
			return
		}
		base.ServeHTTP(w, r)
	}))
	defer srv.Close()

	c, err := NewClient("test-token", "owner/repo", WithBaseURL(srv.URL))
	require.NoError(t, err)

	url, err := c.CreatePullRequest(context.Background(), Publication{
		SequenceID:  "A000045",
		Kind:        "linear_recurrence",
		FormulaText: "a(n) = a(n-1) + a(n-2)",
		TermCount:   40,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Equal(t, "Conjecture Found: Linear recurrence formula for A000045", fake.prTitle)
}

func TestCreatePullRequest_FileCommitFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" && strings.HasSuffix(r.URL.Path, "/git/ref/heads/main") {
			json.NewEncoder(w).Encode(map[string]any{"object": map[string]any{"sha": "abc123"}})
			return
		}
		if r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/git/refs") {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("{}"))
			return
		}
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Resource not accessible"}`))
	}))
	defer srv.Close()

	c, err := NewClient("test-token", "owner/repo", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.CreatePullRequest(context.Background(), Publication{SequenceID: "A000005"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create report file")
	assert.Contains(t, err.Error(), "403")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Rational function", titleCase("rational_function"))
	assert.Equal(t, "Polynomial", titleCase("polynomial"))
	assert.Equal(t, "", titleCase(""))
}
