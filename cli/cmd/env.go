package cmd

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/biocompute-objects/bcoskema/cli/config"
	"github.com/biocompute-objects/bcoskema/i18n"
	"github.com/biocompute-objects/bcoskema/log"
)

// env is the per-invocation setup shared by every command: the merged
// configuration and a logger writing to the app's error stream.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newEnv(c *cli.Context) (*env, error) {
	cfg, err := config.LoadOptional(c.String(ConfigFlag.Name))
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	if v := c.String(LogLevelFlag.Name); v != "" {
		cfg.LogLevel = v
	}
	if v := c.String(LangFlag.Name); v != "" {
		cfg.Language = v
	}
	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	logger, err := log.New(c.App.ErrWriter, level)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	if cfg.Language != "" {
		i18n.SetLanguage(cfg.Language)
	}
	logger.Debug("configuration loaded",
		zap.String("language", cfg.Language),
		zap.Bool("strict_formats", cfg.StrictFormats),
		zap.Int("workers", cfg.Workers))
	return &env{cfg: cfg, logger: logger}, nil
}
