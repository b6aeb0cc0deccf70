package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FileResult pairs an input path with its compilation.
type FileResult struct {
	Path   string
	Result *Result
}

// CompileFiles compiles every path as an independent compilation, at most
// jobs at a time (jobs <= 0 means GOMAXPROCS). Results keep the input order.
// The first failure cancels the files that have not started yet.
func CompileFiles(ctx context.Context, paths []string, opts Options, jobs int) ([]FileResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		results[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Compile(gctx, path, opts)
			if err != nil {
				return err
			}
			results[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
