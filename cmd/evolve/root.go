package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: slog.Default()}

	rootCmd := &cobra.Command{
		Use:   "evolve",
		Short: "Run genetic algorithms on example problems",
		Long: `evolve runs a generational genetic algorithm over a chosen problem,
optionally recording run history, an event log and Prometheus metrics.

Settings come from flags, EVOLVE_* environment variables and an optional
config file, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "json", "Log format (json, text)")
	flags.String("config", "", "Config file (yaml, json or toml)")
	flags.String("store", "memory", "Run history backend (memory, sqlite)")
	flags.String("db", "evolve.db", "SQLite database path for --store sqlite")

	rootCmd.AddCommand(
		newMaxOnesCmd(a),
		newCuttingStockCmd(a),
		newRunsCmd(a),
		newEventsCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// setup layers configuration sources and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()} {
		if err := a.v.BindPFlags(fs); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}
	}
	a.v.SetEnvPrefix("EVOLVE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	logger, err := newLogger(cmd.ErrOrStderr(), a.v.GetString("log-level"), a.v.GetString("log-format"))
	if err != nil {
		return err
	}
	a.logger = logger
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer, levelName, format string) (*slog.Logger, error) {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %s", levelName)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "json", "":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, errors.New("log format must be json or text")
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "evolve %s (built %s)\n", Version, BuildTime)
		},
	}
}
