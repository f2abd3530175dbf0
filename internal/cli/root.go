// Package cli implements the memogen command.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/on-the-ground/memogen/internal/config"
	"github.com/on-the-ground/memogen/internal/logging"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	lookupEnv func(string) (string, bool)

	configPath string
	logLevel   string
	logFormat  string
	debug      bool

	cfg    *config.Config
	logger *zap.Logger
	runID  string
}

// NewRootCmd creates the root command of the memogen CLI.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithEnv(os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit environment
// lookup, for tests.
func NewRootCmdWithEnv(lookupEnv func(string) (string, bool)) *cobra.Command {
	a := &app{lookupEnv: lookupEnv}

	cmd := &cobra.Command{
		Use:   "memogen",
		Short: "Generate memoized versions of Go functions",
		Long: `memogen expands functions marked //memogen:memoize into a cache, a
caching wrapper with the original signature, and the original body renamed.

Source files carry a build constraint such as //go:build memogen; the
generated file carries its negation and is compiled in their place.`,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				logging.Sync(a.logger)
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "configuration file (default "+config.DefaultFile+" when present)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: console or json")
	pf.BoolVar(&a.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newGenerateCmd(a), newCheckCmd(a))
	return cmd
}

const rootCmdExample = `  # Generate fib_memo.go next to fib.go
  memogen generate fib.go

  # Generate every source of a package, four files at a time
  memogen generate -j 4 ./pkg/*.go

  # Print the generated file instead of writing it
  memogen generate --stdout fib.go

  # Fail when a generated file is older than its source
  memogen check fib.go`

// setup resolves the configuration (defaults, file, environment, flags) and
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, path, err := a.loadConfig()
	if err != nil {
		return err
	}
	cfg.ApplyEnv(a.lookupEnv)
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if a.debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger, a.runID = logging.WithRunID(logger)
	a.logger.Debug("configuration resolved",
		zap.String("command", cmd.Name()),
		zap.String("config", path),
		zap.String("container", cfg.Container),
		zap.String("output_suffix", cfg.OutputSuffix))
	return nil
}

// loadConfig reads the file named by --config, or the default file when it
// exists. It returns the path actually read, or "" for the defaults.
func (a *app) loadConfig() (*config.Config, string, error) {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		return cfg, a.configPath, err
	}
	cfg, err := config.Load(config.DefaultFile)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("loading %s: %w", config.DefaultFile, err)
	}
	return cfg, config.DefaultFile, nil
}
