// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperscout pipeline:
// the paper record passed between search, score, and download, and the
// configuration structs each stage is constructed from.
package types

// PaperRecord is one candidate paper as it moves through the pipeline.
// The searcher fills Title, Abstract, and URL; the scorer sets Score; the
// downloader reads Score to decide whether to fetch URL.
type PaperRecord struct {
	// Title is the paper title with surrounding whitespace removed.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper summary as returned by the search API.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the PDF location derived from the entry identifier.
	URL string `json:"url" yaml:"url"`

	// Score is the relevance score in [0, 100]. Nil until the paper has
	// been scored, and left nil when the model reply could not be parsed.
	Score *int `json:"score,omitempty" yaml:"score,omitempty"`
}

// Scored reports whether the record carries a relevance score.
func (p PaperRecord) Scored() bool {
	return p.Score != nil
}

// SetScore records a relevance score on the paper.
func (p *PaperRecord) SetScore(v int) {
	p.Score = &v
}

// IntPtr returns a pointer to v. Handy for building records in tests and
// fixtures.
func IntPtr(v int) *int {
	return &v
}
