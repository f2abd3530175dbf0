package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/on-the-ground/memogen/rewrite"
)

var (
	// ErrMissingOutput is returned for a source without a generated file.
	ErrMissingOutput = errors.New("generated file is missing")
	// ErrNoChecksum is returned for a generated file without a checksum header.
	ErrNoChecksum = errors.New("generated file has no checksum")
	// ErrStale is returned when a source changed after generation.
	ErrStale = errors.New("generated file is stale")
)

func newCheckCmd(a *app) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "check [flags] file.go...",
		Short: "Fail when a generated file is missing or out of date",
		Long: `check compares the checksum recorded in each generated file with the
checksum of its source. Run it in CI to catch sources edited without
running memogen generate.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return forEachFile(cmd.Context(), jobs, args, func(_ context.Context, _ int, file string) error {
				return a.checkFile(file)
			})
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files checked concurrently (default GOMAXPROCS)")
	return cmd
}

func (a *app) checkFile(file string) error {
	out := rewrite.OutputPath(file, a.cfg.OutputSuffix)

	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	generated, err := os.ReadFile(out)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w: %s", file, ErrMissingOutput, out)
	}
	if err != nil {
		return err
	}

	recorded, ok := rewrite.ReadChecksum(generated)
	if !ok {
		return fmt.Errorf("%s: %w", out, ErrNoChecksum)
	}
	if current := rewrite.Checksum(src); recorded != current {
		a.logger.Warn("stale generated file",
			zap.String("file", file),
			zap.String("output", out),
			zap.String("recorded", recorded),
			zap.String("current", current))
		return fmt.Errorf("%s: %w: regenerate %s", file, ErrStale, out)
	}
	a.logger.Debug("generated file up to date", zap.String("file", file), zap.String("output", out))
	return nil
}
