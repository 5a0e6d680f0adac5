// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List past runs or search papers seen in past runs",
	Long: `History reads the run ledger (enable it with ledger.enabled). Without a
query it lists recent runs. With a query it lists papers from any run whose
title or abstract contains every word of the query.`,
	Args: cobra.ArbitraryArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		return eris.New("configuration not loaded")
	}
	if !fileExists(cfg.Ledger.Path) {
		return eris.Errorf("no run ledger at %s (set ledger.enabled: true to record runs)", cfg.Ledger.Path)
	}

	l, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer l.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if len(args) == 0 {
		runs, err := l.Runs(ctx, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, runs)
		}
		formatRuns(out, runs)
		return nil
	}

	hits, err := l.Search(ctx, strings.Join(args, " "), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, hits)
	}
	formatHits(out, hits)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatRuns(w io.Writer, runs []ledger.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-20s  %-8s  %-6s  %-30s  %s\n", "Started", "Command", "Papers", "Topic", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range runs {
		status := "ok"
		switch {
		case r.Error != "":
			status = "failed: " + truncate(r.Error, 40)
		case r.FinishedAt.IsZero():
			status = "unfinished"
		}
		fmt.Fprintf(w, "%-20s  %-8s  %-6d  %-30s  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Command, r.Papers, truncate(r.Topic, 30), status)
	}
}

func formatHits(w io.Writer, hits []ledger.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-20s  %-5s  %-50s  %s\n", "Run", "Score", "Title", "PDF")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, h := range hits {
		score := "-"
		if h.Score != nil {
			score = fmt.Sprintf("%d", *h.Score)
		}
		fmt.Fprintf(w, "%-20s  %-5s  %-50s  %s\n",
			h.StartedAt.Local().Format("2006-01-02 15:04:05"), score, truncate(h.Title, 50), h.PDFPath)
	}
	fmt.Fprintf(w, "\n%d results\n", len(hits))
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of rows")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}
