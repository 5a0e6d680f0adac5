// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/config"
	"github.com/pdiddy/paperscout/internal/records"
	"github.com/pdiddy/paperscout/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search arXiv for papers matching keywords",
	Long: `Search ANDs the given keywords into a single arXiv query and prints the
matching papers, newest first. Use --out to save them as an unscored
records file for the score stage.`,
	Example: `  paperscout search -k Agent -k serve -k system --max-results 10
  paperscout search --query-file query.yaml --format yaml`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	c, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(c, false); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	recs, err := searchPapers(cmd.Context(), c, newHTTPClient(c), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("out"); path != "" {
		if err := records.Save(path, recs); err != nil {
			return err
		}
	}

	format, _ := cmd.Flags().GetString("format")
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		format = "json"
	}
	switch format {
	case "json":
		return search.FormatJSON(recs, out)
	case "yaml":
		return search.FormatYAML(recs, out)
	case "table", "":
		search.FormatTable(recs, out)
		return nil
	default:
		return eris.Errorf("unknown format %q (table, json, yaml)", format)
	}
}

func init() {
	addQueryFlags(searchCmd, "query-file", "keyword", "max-results")
	searchCmd.Flags().String("out", "", "also save the results as a records file")
	searchCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	searchCmd.Flags().Bool("json", false, "output results as JSON (same as --format json)")

	rootCmd.AddCommand(searchCmd)
}
