// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads pipeline configuration with viper and sets up the
// zap logger.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/paperscout/pkg/types"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. PAPERSCOUT_SCORING_API_KEY.
	EnvPrefix = "PAPERSCOUT"

	// FileName is the config file base name looked up in . and ~/.config/paperscout/.
	FileName = "paperscout"
)

// SetDefaults registers every key with its default so env overrides and
// Unmarshal see the full tree.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", 60*time.Second)
	v.SetDefault("http.user_agent", "paperscout/0.1")
	v.SetDefault("search.base_url", "http://export.arxiv.org/api/query")
	v.SetDefault("search.max_results", 50)
	v.SetDefault("search.keywords", []string{})
	v.SetDefault("scoring.provider", string(types.ProviderOpenAI))
	v.SetDefault("scoring.model", "gpt-3.5-turbo")
	v.SetDefault("scoring.base_url", "")
	v.SetDefault("scoring.api_key", "")
	v.SetDefault("scoring.topic", "")
	v.SetDefault("scoring.system_prompt", "")
	v.SetDefault("scoring.max_tokens", 16)
	v.SetDefault("download.records_path", "result_score.json")
	v.SetDefault("download.dest_dir", "papers")
	v.SetDefault("download.threshold", 50)
	v.SetDefault("ledger.enabled", false)
	v.SetDefault("ledger.path", "paperscout.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configuration into a PipelineConfig. cfgFile names an explicit
// file; when empty, paperscout.yaml is looked up in the working directory and
// ~/.config/paperscout/ and its absence is not an error. Flags bound to v
// before the call take precedence over file and env values.
func Load(v *viper.Viper, cfgFile string) (*types.PipelineConfig, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Validate reports every problem in cfg at once. requireScoring adds the
// checks that only matter when an inference call will be made.
func Validate(cfg types.PipelineConfig, requireScoring bool) error {
	var result *multierror.Error

	if cfg.Search.MaxResults <= 0 {
		result = multierror.Append(result, eris.Errorf("search.max_results must be positive, got %d", cfg.Search.MaxResults))
	}
	if cfg.Download.Threshold < 0 || cfg.Download.Threshold > 100 {
		result = multierror.Append(result, eris.Errorf("download.threshold must be in [0, 100], got %d", cfg.Download.Threshold))
	}
	if cfg.Download.RecordsPath == "" {
		result = multierror.Append(result, eris.New("download.records_path must be set"))
	}

	if requireScoring {
		switch cfg.Scoring.Provider {
		case types.ProviderOpenAI, types.ProviderAnthropic:
		default:
			result = multierror.Append(result, eris.Errorf("scoring.provider %q is not one of openai, anthropic", cfg.Scoring.Provider))
		}
		if cfg.Scoring.Model == "" {
			result = multierror.Append(result, eris.New("scoring.model must be set"))
		}
		if cfg.Scoring.APIKey == "" {
			result = multierror.Append(result, eris.Errorf(
				"scoring.api_key is required (set it in config, %s_SCORING_API_KEY, or .secrets/%s-api-key)",
				EnvPrefix, cfg.Scoring.Provider))
		}
		if strings.TrimSpace(cfg.Scoring.Topic) == "" {
			result = multierror.Append(result, eris.New("scoring.topic must be set"))
		}
	}

	return result.ErrorOrNil()
}

// InitLogger builds a zap logger from cfg and installs it as the global.
func InitLogger(cfg types.LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
