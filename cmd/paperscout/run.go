// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/config"
	"github.com/pdiddy/paperscout/internal/download"
	"github.com/pdiddy/paperscout/internal/records"
	"github.com/pdiddy/paperscout/internal/score"
	"github.com/pdiddy/paperscout/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search, score, and download in one pass",
	Long: `Run executes the whole pipeline: search arXiv, score every result against
the topic, save the records file, then download the PDFs that meet the
threshold. The stages run in order and the first failure stops the run.`,
	Example: `  paperscout run -k Agent -k serve -k system --topic "Serving system for agent applications."
  paperscout run --query-file query.yaml --threshold 70`,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	c, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(c, true); err != nil {
		return err
	}

	ctx := cmd.Context()
	rec, err := startRecorder(ctx, c, "run")
	if err != nil {
		return err
	}

	var (
		recs     []types.PaperRecord
		outcomes []score.Outcome
		pdfs     []string
	)
	err = func() error {
		out := cmd.OutOrStdout()
		client := newHTTPClient(c)

		var err error
		recs, err = searchPapers(ctx, c, client, out)
		if err != nil {
			return err
		}

		summary, err := scorePapers(ctx, c, client, recs, out)
		outcomes = summary.Outcomes
		if err != nil {
			return err
		}
		if err := records.Save(c.Download.RecordsPath, recs); err != nil {
			return err
		}

		d := download.New(client, c.Download, c.HTTP)
		dl, err := d.DownloadFile(ctx, c.Download.RecordsPath, out)
		pdfs = dl.Paths
		return err
	}()

	rec.finish(recs, outcomes, pdfs, c.Download.DestDir, err)
	return err
}

func init() {
	addQueryFlags(runCmd, "query-file", "keyword", "max-results", "topic", "threshold", "records", "dest")
	rootCmd.AddCommand(runCmd)
}
