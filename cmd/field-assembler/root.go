package main

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"field-assembler/engine"
	"field-assembler/internal/config"
	"field-assembler/internal/logging"
)

var errRulesRequired = errors.New("--rules is required")

// options holds the flags shared by every command.
type options struct {
	rulesPath  string
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "field-assembler",
		Short:        "Enrich documents from declarative assembly rules",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.rulesPath, "rules", "r", "", "rules file (YAML)")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "engine configuration file (TOML)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the configuration)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: text or json (overrides the configuration)")

	root.AddCommand(
		newEnrichCmd(opts),
		newPlanCmd(opts),
		newValidateCmd(opts),
	)

	return root
}

// loadConfig reads the configuration file, or returns the defaults when none
// was given.
func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}

	return config.NewConfig(o.configPath)
}

// logger builds the logger writing to w. Flags win over the configuration.
func (o *options) logger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, format := cfg.LogLevel, cfg.LogFormat
	if o.logLevel != "" {
		level = o.logLevel
	}

	if o.logFormat != "" {
		format = o.logFormat
	}

	if err := logging.ValidateLevel(level); err != nil {
		return nil, err
	}

	handler, err := logging.Setup(format, level, w)
	if err != nil {
		return nil, err
	}

	return slog.New(handler), nil
}

// newEngine builds an engine from the rules and configuration flags.
func (o *options) newEngine(cmd *cobra.Command, extra ...engine.Option) (*engine.Engine, error) {
	if o.rulesPath == "" {
		return nil, errRulesRequired
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := o.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	opts := append([]engine.Option{
		engine.WithLogger(logger),
		engine.WithRulesFile(o.rulesPath),
		engine.WithConfig(cfg),
	}, extra...)

	return engine.New(opts...)
}
