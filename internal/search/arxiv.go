// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pdiddy/paperscout/internal/httputil"
	"github.com/pdiddy/paperscout/pkg/types"
)

const (
	absSegment = "/abs/"
	pdfSegment = "/pdf/"
	apiErrors  = "/api/errors"
)

// BuildQuery constructs the search_query parameter: one all: clause per
// keyword joined with +AND+. Words inside a keyword are joined with +.
func BuildQuery(keywords []string) string {
	var parts []string
	for _, kw := range keywords {
		terms := strings.Fields(kw)
		if len(terms) == 0 {
			continue
		}
		parts = append(parts, "all:"+strings.Join(terms, "+"))
	}
	return strings.Join(parts, "+AND+")
}

// QueryURL assembles the full request URL. The query is already in arXiv's
// + syntax and is not escaped again.
func QueryURL(base, query string, maxResults int) string {
	return fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		base, query, maxResults)
}

// PDFURL derives the PDF location from an entry id by swapping the /abs/
// path segment for /pdf/ and appending .pdf
// (e.g. "http://arxiv.org/abs/1234.5678" → "http://arxiv.org/pdf/1234.5678.pdf").
func PDFURL(id string) string {
	return strings.Replace(id, absSegment, pdfSegment, 1) + ".pdf"
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}

func fetchFeed(ctx context.Context, client *http.Client, url, userAgent string) ([]types.PaperRecord, error) {
	resp, err := httputil.Get(ctx, client, url, userAgent, "application/atom+xml")
	if err != nil {
		return nil, eris.Wrap(err, "search: arXiv API request")
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, eris.Wrap(err, "search: parsing arXiv response")
	}

	records := make([]types.PaperRecord, 0, len(feed.Entries))
	for i, entry := range feed.Entries {
		r, err := entry.record()
		if err != nil {
			return nil, eris.Wrapf(err, "search: entry %d", i)
		}
		records = append(records, r)
	}
	return records, nil
}

// record converts an entry, failing when any required element is missing.
// arXiv reports query errors as a single entry whose id points at /api/errors.
func (e arxivEntry) record() (types.PaperRecord, error) {
	id := strings.TrimSpace(e.ID)
	title := strings.TrimSpace(e.Title)
	summary := strings.TrimSpace(e.Summary)

	switch {
	case id == "":
		return types.PaperRecord{}, eris.New("missing <id>")
	case strings.Contains(id, apiErrors):
		return types.PaperRecord{}, eris.Errorf("arXiv API error: %s", summary)
	case title == "":
		return types.PaperRecord{}, eris.Errorf("missing <title> for %s", id)
	case summary == "":
		return types.PaperRecord{}, eris.Errorf("missing <summary> for %s", id)
	}

	return types.PaperRecord{
		Title:    title,
		Abstract: summary,
		URL:      PDFURL(id),
	}, nil
}
