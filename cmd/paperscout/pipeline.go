// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/paperscout/internal/download"
	"github.com/pdiddy/paperscout/internal/httputil"
	"github.com/pdiddy/paperscout/internal/ledger"
	"github.com/pdiddy/paperscout/internal/score"
	"github.com/pdiddy/paperscout/internal/search"
	"github.com/pdiddy/paperscout/pkg/types"
)

// addQueryFlags registers the flags shared by the pipeline commands. Only
// the names listed are added.
func addQueryFlags(cmd *cobra.Command, names ...string) {
	f := cmd.Flags()
	for _, name := range names {
		switch name {
		case "query-file":
			f.String("query-file", "", "YAML query file (keywords, topic, max_results, threshold)")
		case "keyword":
			f.StringSliceP("keyword", "k", nil, "search keyword; repeat or comma-separate for AND")
		case "max-results":
			f.Int("max-results", 0, "maximum number of papers to fetch (default from config)")
		case "topic":
			f.String("topic", "", "topic description the abstracts are scored against")
		case "threshold":
			f.Int("threshold", 0, "minimum score to download, inclusive (default from config)")
		case "records":
			f.String("records", "", "records file (default from config: download.records_path)")
		case "dest":
			f.String("dest", "", "directory for downloaded PDFs (default from config: download.dest_dir)")
		}
	}
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// applyQuery layers the query file and then explicit flags over c.
func applyQuery(cmd *cobra.Command, c *types.PipelineConfig) error {
	if path, _ := cmd.Flags().GetString("query-file"); path != "" {
		qf, err := search.ReadQueryFile(path)
		if err != nil {
			return err
		}
		if len(qf.Keywords) > 0 {
			c.Search.Keywords = qf.Keywords
		}
		if qf.Topic != "" {
			c.Scoring.Topic = qf.Topic
		}
		if qf.MaxResults > 0 {
			c.Search.MaxResults = qf.MaxResults
		}
		if qf.Threshold != nil {
			c.Download.Threshold = *qf.Threshold
		}
	}

	f := cmd.Flags()
	if changed(cmd, "keyword") {
		c.Search.Keywords, _ = f.GetStringSlice("keyword")
	}
	if changed(cmd, "max-results") {
		c.Search.MaxResults, _ = f.GetInt("max-results")
	}
	if changed(cmd, "topic") {
		c.Scoring.Topic, _ = f.GetString("topic")
	}
	if changed(cmd, "threshold") {
		c.Download.Threshold, _ = f.GetInt("threshold")
	}
	if changed(cmd, "records") {
		c.Download.RecordsPath, _ = f.GetString("records")
	}
	if changed(cmd, "dest") {
		c.Download.DestDir, _ = f.GetString("dest")
	}
	return nil
}

// commandConfig returns a copy of the loaded config with the command's
// query file and flags applied.
func commandConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	if cfg == nil {
		return types.PipelineConfig{}, eris.New("configuration not loaded")
	}
	c := *cfg
	c.Search.Keywords = append([]string(nil), cfg.Search.Keywords...)
	if err := applyQuery(cmd, &c); err != nil {
		return c, err
	}
	return c, nil
}

func searchPapers(ctx context.Context, c types.PipelineConfig, client *http.Client, w io.Writer) ([]types.PaperRecord, error) {
	fmt.Fprintf(w, "searching: %s (max %d)\n", strings.Join(c.Search.Keywords, " AND "), c.Search.MaxResults)
	s := search.New(client, c.Search, c.HTTP)
	recs, err := s.Search(ctx, c.Search.Keywords, c.Search.MaxResults)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "found:    %d papers\n", len(recs))
	return recs, nil
}

func scorePapers(ctx context.Context, c types.PipelineConfig, client *http.Client, recs []types.PaperRecord, w io.Writer) (score.Summary, error) {
	backend, err := score.NewBackend(c.Scoring, client)
	if err != nil {
		return score.Summary{}, err
	}
	return score.New(backend, c.Scoring).ScoreAll(ctx, recs, c.Scoring.Topic, w)
}

func newHTTPClient(c types.PipelineConfig) *http.Client {
	return httputil.NewClient(c.HTTP)
}

// recorder writes one command invocation to the run ledger. A nil recorder
// records nothing.
type recorder struct {
	l  *ledger.Ledger
	id string
}

// startRecorder opens the ledger and starts a run when the ledger is enabled.
func startRecorder(ctx context.Context, c types.PipelineConfig, command string) (*recorder, error) {
	if !c.Ledger.Enabled {
		return nil, nil
	}
	l, err := ledger.Open(c.Ledger.Path)
	if err != nil {
		return nil, err
	}
	id, err := l.StartRun(ctx, ledger.RunInfo{
		Command:   command,
		Topic:     c.Scoring.Topic,
		Keywords:  c.Search.Keywords,
		Threshold: c.Download.Threshold,
	})
	if err != nil {
		l.Close()
		return nil, err
	}
	zap.L().Debug("ledger: run started", zap.String("run_id", id), zap.String("command", command))
	return &recorder{l: l, id: id}, nil
}

// finish stores the papers seen by the run and closes the ledger. Ledger
// failures are logged, never returned, so they cannot mask runErr.
func (r *recorder) finish(recs []types.PaperRecord, outcomes []score.Outcome, pdfs []string, destDir string, runErr error) {
	if r == nil {
		return
	}
	defer r.l.Close()

	// The pipeline context may already be cancelled; the ledger write is
	// short and local.
	ctx := context.Background()

	if err := r.l.RecordPapers(ctx, r.id, ledgerEntries(recs, outcomes, pdfs, destDir)); err != nil {
		zap.L().Warn("ledger: recording papers failed", zap.String("run_id", r.id), zap.Error(err))
	}
	if err := r.l.FinishRun(ctx, r.id, runErr); err != nil {
		zap.L().Warn("ledger: finishing run failed", zap.String("run_id", r.id), zap.Error(err))
	}
}

// ledgerEntries pairs each record with its scoring outcome (when scored in
// this run) and its downloaded file (when one was written).
func ledgerEntries(recs []types.PaperRecord, outcomes []score.Outcome, pdfs []string, destDir string) []ledger.Entry {
	written := make(map[string]bool, len(pdfs))
	for _, p := range pdfs {
		written[p] = true
	}

	entries := make([]ledger.Entry, len(recs))
	for i, rec := range recs {
		e := ledger.Entry{Position: i, Record: rec}
		if i < len(outcomes) {
			if u, ok := outcomes[i].(score.Unscored); ok {
				e.UnscoredReason = u.Reason
			}
		}
		if p := filepath.Join(destDir, download.FileName(i)); written[p] {
			e.PDFPath = p
		}
		entries[i] = e
	}
	return entries
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
