// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/config"
	"github.com/pdiddy/paperscout/internal/records"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a records file against a topic",
	Long: `Score asks the configured language model how relevant each abstract in the
records file is to the topic, then writes the scores back to the same file.
Replies without a usable number leave that paper unscored; a failed model
call stops the command without rewriting the file.`,
	Example: `  paperscout score --records result_score.json --topic "Serving system for agent applications."`,
	RunE:    runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	c, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(c, true); err != nil {
		return err
	}

	recs, err := records.Load(c.Download.RecordsPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rec, err := startRecorder(ctx, c, "score")
	if err != nil {
		return err
	}

	summary, err := scorePapers(ctx, c, newHTTPClient(c), recs, cmd.OutOrStdout())
	if err == nil {
		err = records.Save(c.Download.RecordsPath, recs)
	}
	rec.finish(recs, summary.Outcomes, nil, c.Download.DestDir, err)
	return err
}

func init() {
	addQueryFlags(scoreCmd, "query-file", "records", "topic")
	rootCmd.AddCommand(scoreCmd)
}
