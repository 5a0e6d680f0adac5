// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the arXiv API for papers matching a keyword query
// and returns them as unscored paper records in API order (newest first).
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperscout/pkg/types"
)

// DefaultBaseURL is the arXiv query endpoint.
const DefaultBaseURL = "http://export.arxiv.org/api/query"

const defaultMaxResults = 50

// Searcher issues one arXiv query per call.
type Searcher struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// New returns a Searcher for the configured endpoint.
func New(client *http.Client, cfg types.SearchConfig, httpCfg types.HTTPConfig) *Searcher {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Searcher{
		Client:    client,
		BaseURL:   base,
		UserAgent: httpCfg.UserAgent,
	}
}

// Search ANDs keywords into one query, fetches up to maxResults entries
// sorted by submission date (descending), and returns one record per entry
// with Score unset. Any transport, status, or parse failure is returned and
// no partial results are kept.
func (s *Searcher) Search(ctx context.Context, keywords []string, maxResults int) ([]types.PaperRecord, error) {
	q := BuildQuery(keywords)
	if q == "" {
		return nil, eris.New("search: no keywords given")
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	url := QueryURL(s.BaseURL, q, maxResults)
	zap.L().Info("search: querying arXiv",
		zap.String("query", q),
		zap.Int("max_results", maxResults),
	)

	return fetchFeed(ctx, s.Client, url, s.UserAgent)
}

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.PaperRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-5s  %s\n", "#", "Title", "Score", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range records {
		score := "-"
		if r.Scored() {
			score = fmt.Sprintf("%d", *r.Score)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-5s  %s\n", i, truncate(oneLine(r.Title), 60), score, r.URL)
	}

	fmt.Fprintf(w, "\n%d results\n", len(records))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.PaperRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(records)
}

// FormatYAML writes records as a YAML sequence to w.
func FormatYAML(records []types.PaperRecord, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(records)
}

// oneLine collapses the line breaks arXiv leaves inside long titles.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
