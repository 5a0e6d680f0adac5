// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/config"
	"github.com/pdiddy/paperscout/internal/download"
	"github.com/pdiddy/paperscout/internal/records"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download PDFs of papers scoring at or above a threshold",
	Long: `Download reads the records file and fetches the PDF of every paper whose
score is at or above the threshold into <dest>/<index>.pdf, where index is
the paper's position in the file. Existing files are replaced. Papers
without a score are skipped.`,
	Example: `  paperscout download --records result_score.json --dest papers --threshold 50`,
	RunE:    runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	c, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(c, false); err != nil {
		return err
	}

	recs, err := records.Load(c.Download.RecordsPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rec, err := startRecorder(ctx, c, "download")
	if err != nil {
		return err
	}

	d := download.New(newHTTPClient(c), c.Download, c.HTTP)
	summary, err := d.Download(ctx, recs, cmd.OutOrStdout())
	rec.finish(recs, nil, summary.Paths, c.Download.DestDir, err)
	return err
}

func init() {
	addQueryFlags(downloadCmd, "query-file", "records", "dest", "threshold")
	rootCmd.AddCommand(downloadCmd)
}
