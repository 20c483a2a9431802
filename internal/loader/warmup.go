package loader

import (
	"context"
	"sync"

	concpool "github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"github.com/dragonbaba/rpgeditor/internal/observability"
)

// WarmReport summarises one warm-up batch. Failures are per-path; a bad file
// never aborts the rest of the batch.
type WarmReport struct {
	Loaded int
	Failed map[string]error
}

// Warm preloads the given paths through the cache using a bounded worker
// group, rate-limiting disk reads so editor startup does not saturate the
// disk. The loader's store must be a *filecache.Synced when Warm is used;
// the unlocked cache cannot take concurrent mutation.
func (l *Loader) Warm(ctx context.Context, paths []string) WarmReport {
	report := WarmReport{Loaded: 0, Failed: make(map[string]error)}
	if len(paths) == 0 {
		return report
	}

	limiter := rate.NewLimiter(rate.Limit(l.warmRate), l.warmBurst)
	workers := concpool.New().WithMaxGoroutines(l.warmWorkers)
	var mu sync.Mutex

	for _, path := range paths {
		path := path
		workers.Go(func() {
			if err := limiter.Wait(ctx); err != nil {
				mu.Lock()
				report.Failed[path] = err
				mu.Unlock()
				return
			}
			if _, err := l.Load(ctx, path); err != nil {
				observability.Log().Error("warmup load failed",
					observability.String("path", path),
					observability.Err(err))
				mu.Lock()
				report.Failed[path] = err
				mu.Unlock()
				return
			}
			mu.Lock()
			report.Loaded++
			mu.Unlock()
		})
	}
	workers.Wait()

	observability.Log().Info("warmup complete",
		observability.Int("loaded", report.Loaded),
		observability.Int("failed", len(report.Failed)))
	return report
}
