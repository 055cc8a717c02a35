package bundler

import (
	"context"
	"runtime"
	"sync"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/timeax/fortiplugin-bundle-adapter/transform"
)

// RewriteOutputs rewrites every emitted chunk in place. Files are processed
// with bounded parallelism; each rewrite is file-local so no state is shared.
// All files are attempted; the first error observed is returned.
func RewriteOutputs(ctx context.Context, fs afs.Service, cfg transform.Config, paths []string) error {
	sem := make(chan struct{}, runtime.GOMAXPROCS(0)*2)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var firstErr error

	for _, p := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(url string) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := transform.RewriteFile(ctx, fs, url, cfg); err != nil {
				Logger().Error("chunk rewrite failed",
					zap.String("url", url),
					zap.Error(err))
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			Logger().Debug("chunk rewritten", zap.String("url", url))
		}(p)
	}

	wg.Wait()
	return firstErr
}
