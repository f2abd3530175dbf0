package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/on-the-ground/memogen/rewrite"
	"github.com/on-the-ground/memogen/transform"
)

// ErrOutputWithManyFiles is returned when --output is combined with more
// than one input file.
var ErrOutputWithManyFiles = errors.New("--output needs exactly one input file")

type generateOptions struct {
	output    string
	stdout    bool
	container string
	jobs      int
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [flags] file.go...",
		Short: "Write the memoized twin of each source file",
		Long: `generate expands every //memogen:memoize function of each file and writes
the result next to it, named after the configured output suffix.

A file with a function that cannot be memoized is reported and not written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single input only)")
	f.BoolVar(&opts.stdout, "stdout", false, "print generated files instead of writing them")
	f.StringVar(&opts.container, "container", "", "container for directives that name none (overrides the configuration)")
	f.IntVarP(&opts.jobs, "jobs", "j", 0, "files processed concurrently (default GOMAXPROCS)")
	return cmd
}

func (a *app) generate(cmd *cobra.Command, opts generateOptions, files []string) error {
	if opts.output != "" && len(files) != 1 {
		return ErrOutputWithManyFiles
	}
	container := a.cfg.Container
	if opts.container != "" {
		container = opts.container
	}
	if _, err := transform.ParseContainer(container, a.cfg.Containers); err != nil {
		return fmt.Errorf("--container: %w", err)
	}

	sources := make([][]byte, len(files))
	err := forEachFile(cmd.Context(), opts.jobs, files, func(_ context.Context, i int, file string) error {
		res, err := a.generateFile(file, container, opts)
		if err != nil {
			return err
		}
		if opts.stdout && len(res.Functions) > 0 {
			sources[i] = res.Source
		}
		return nil
	})

	for _, src := range sources {
		if src != nil {
			if _, werr := cmd.OutOrStdout().Write(src); werr != nil {
				err = multierr.Append(err, werr)
			}
		}
	}
	return err
}

func (a *app) generateFile(file, container string, opts generateOptions) (*rewrite.Result, error) {
	logger := a.logger.With(zap.String("file", file))

	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	res, err := rewrite.File(file, src, rewrite.Options{
		Container: container,
		Aliases:   a.cfg.Containers,
		Logger:    a.logger,
	})
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		logger.Error("file not generated", zap.Int("rejected", len(res.Diagnostics)))
		return nil, err
	}
	if len(res.Functions) == 0 {
		logger.Info("no memoized functions, nothing to generate")
		return res, nil
	}
	if opts.stdout {
		return res, nil
	}

	out := opts.output
	if out == "" {
		out = rewrite.OutputPath(file, a.cfg.OutputSuffix)
	}
	if err := os.WriteFile(out, res.Source, 0o644); err != nil {
		return nil, err
	}
	logger.Info("generated", zap.String("output", out), zap.Int("functions", len(res.Functions)))
	return res, nil
}
