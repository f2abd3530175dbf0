package cli

import (
	"context"
	"runtime"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// forEachFile runs fn for every file, at most jobs at a time. Files are
// independent: a failing file does not stop the others. The errors of all
// files are combined in input order.
func forEachFile(ctx context.Context, jobs int, files []string, fn func(ctx context.Context, i int, file string) error) error {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			errs[i] = fn(ctx, i, file)
			return nil
		})
	}
	return multierr.Append(g.Wait(), multierr.Combine(errs...))
}
