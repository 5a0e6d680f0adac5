// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscout/internal/httputil"
	"github.com/pdiddy/paperscout/pkg/types"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     string
	}{
		{"three keywords", []string{"Agent", "serve", "system"}, "all:Agent+AND+all:serve+AND+all:system"},
		{"single keyword", []string{"transformer"}, "all:transformer"},
		{"multi-word keyword", []string{"large language model", "serving"}, "all:large+language+model+AND+all:serving"},
		{"blank keywords dropped", []string{"  ", "agent", ""}, "all:agent"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.keywords))
		})
	}
}

func TestQueryURL(t *testing.T) {
	got := QueryURL("http://export.arxiv.org/api/query", "all:a+AND+all:b", 10)
	want := "http://export.arxiv.org/api/query?search_query=all:a+AND+all:b&start=0&max_results=10&sortBy=submittedDate&sortOrder=descending"
	assert.Equal(t, want, got)
}

func TestPDFURL(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"http://arxiv.org/abs/1234.5678", "http://arxiv.org/pdf/1234.5678.pdf"},
		{"http://arxiv.org/abs/2401.01234v2", "http://arxiv.org/pdf/2401.01234v2.pdf"},
		{"http://arxiv.org/abs/hep-th/9901001v1", "http://arxiv.org/pdf/hep-th/9901001v1.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, PDFURL(tt.id))
		})
	}
}

func atomFeed(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title type="html">ArXiv Query</title>
` + strings.Join(entries, "\n") + `
</feed>`
}

func atomEntry(id, title, summary string) string {
	return fmt.Sprintf(`  <entry>
    <id>%s</id>
    <title>%s</title>
    <summary>%s</summary>
    <author><name>A. Author</name></author>
  </entry>`, id, title, summary)
}

func newTestSearcher(ts *httptest.Server) *Searcher {
	return New(ts.Client(), types.SearchConfig{BaseURL: ts.URL}, types.HTTPConfig{UserAgent: "paperscout/test"})
}

func TestSearch_ParsesEntries(t *testing.T) {
	feed := atomFeed(
		atomEntry("http://arxiv.org/abs/2401.00001v1", "\n  Serving Agents\n  at Scale  ", "\n  We build a serving system.\n"),
		atomEntry("http://arxiv.org/abs/2401.00002v1", "Agent Runtimes", "A runtime for agents."),
		atomEntry("http://arxiv.org/abs/2401.00003v2", "Systems for LLM Agents", "Survey."),
	)

	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"start":       r.URL.Query().Get("start"),
			"max_results": r.URL.Query().Get("max_results"),
			"sortBy":      r.URL.Query().Get("sortBy"),
			"sortOrder":   r.URL.Query().Get("sortOrder"),
		}
		assert.Equal(t, "paperscout/test", r.Header.Get("User-Agent"))
		assert.Contains(t, r.URL.RawQuery, "search_query=all:Agent+AND+all:serve+AND+all:system")
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, feed)
	}))
	defer ts.Close()

	records, err := newTestSearcher(ts).Search(context.Background(), []string{"Agent", "serve", "system"}, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "0", gotQuery["start"])
	assert.Equal(t, "10", gotQuery["max_results"])
	assert.Equal(t, "submittedDate", gotQuery["sortBy"])
	assert.Equal(t, "descending", gotQuery["sortOrder"])

	assert.Equal(t, "Serving Agents\n  at Scale", records[0].Title)
	assert.Equal(t, "We build a serving system.", records[0].Abstract)
	assert.Equal(t, "http://arxiv.org/pdf/2401.00001v1.pdf", records[0].URL)

	for i, r := range records {
		assert.NotEmpty(t, r.Title, "record %d title", i)
		assert.NotEmpty(t, r.Abstract, "record %d abstract", i)
		assert.True(t, strings.HasSuffix(r.URL, ".pdf"), "record %d url %q", i, r.URL)
		assert.Nil(t, r.Score, "record %d should be unscored", i)
	}
}

func TestSearch_EmptyFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, atomFeed())
	}))
	defer ts.Close()

	records, err := newTestSearcher(ts).Search(context.Background(), []string{"nothing"}, 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearch_DefaultMaxResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("max_results"))
		fmt.Fprint(w, atomFeed())
	}))
	defer ts.Close()

	_, err := newTestSearcher(ts).Search(context.Background(), []string{"x"}, 0)
	require.NoError(t, err)
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errMsg  string
		isHTTP  bool
	}{
		{"http error", http.StatusServiceUnavailable, "down", "arXiv API request", true},
		{"malformed xml", http.StatusOK, "<feed><entry>", "parsing arXiv response", false},
		{"missing title", http.StatusOK, atomFeed(`<entry><id>http://arxiv.org/abs/1</id><summary>s</summary></entry>`), "missing <title>", false},
		{"missing summary", http.StatusOK, atomFeed(`<entry><id>http://arxiv.org/abs/1</id><title>t</title></entry>`), "missing <summary>", false},
		{"missing id", http.StatusOK, atomFeed(`<entry><title>t</title><summary>s</summary></entry>`), "missing <id>", false},
		{"api error entry", http.StatusOK, atomFeed(atomEntry("http://arxiv.org/api/errors#incorrect_id_format", "Error", "incorrect id format")), "arXiv API error: incorrect id format", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			records, err := newTestSearcher(ts).Search(context.Background(), []string{"agent"}, 5)
			require.Error(t, err)
			assert.Nil(t, records)
			assert.Contains(t, err.Error(), tt.errMsg)

			var se *httputil.StatusError
			assert.Equal(t, tt.isHTTP, errors.As(err, &se))
		})
	}
}

func TestSearch_NoKeywords(t *testing.T) {
	s := &Searcher{Client: http.DefaultClient, BaseURL: "http://127.0.0.1:1"}
	_, err := s.Search(context.Background(), []string{" "}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no keywords")
}

func TestNew_Defaults(t *testing.T) {
	s := New(http.DefaultClient, types.SearchConfig{}, types.HTTPConfig{Timeout: time.Second, UserAgent: "ua"})
	assert.Equal(t, DefaultBaseURL, s.BaseURL)
	assert.Equal(t, "ua", s.UserAgent)
}
