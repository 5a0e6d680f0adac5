// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperscout CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paperscout/internal/config"
	"github.com/pdiddy/paperscout/internal/secrets"
	"github.com/pdiddy/paperscout/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// v holds configuration merged from defaults, file, env, and root flags.
	v = viper.New()

	// cfg is loaded once per invocation before any subcommand runs.
	cfg *types.PipelineConfig
)

var rootCmd = &cobra.Command{
	Use:   "paperscout",
	Short: "Find, score, and download arXiv papers for a research topic",
	Long: `paperscout searches arXiv for papers matching a set of keywords, asks a
language model how relevant each abstract is to a topic, saves the scored
records, and downloads the PDFs of papers scoring at or above a threshold.

Each stage is a subcommand (search, score, download); run chains them.
Settings come from paperscout.yaml, PAPERSCOUT_* environment variables, a
query file, and flags, in increasing order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Root().PersistentFlags().GetString("config")
		c, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		if err := config.InitLogger(c.Log); err != nil {
			return err
		}
		if used := v.ConfigFileUsed(); used != "" {
			zap.L().Debug("using config file", zap.String("path", used))
		}

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		if names := s.Names(); len(names) > 0 {
			sort.Strings(names)
			zap.L().Debug("loaded secrets", zap.Strings("keys", names))
		}
		c.Scoring.APIKey = s.APIKey(c.Scoring.Provider, c.Scoring.APIKey)

		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./paperscout.yaml or ~/.config/paperscout/paperscout.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console or json)")

	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log.format", pf.Lookup("log-format"))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
