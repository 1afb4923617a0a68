package probe

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iprd/radiodir/pkg/catalog"
)

// Run validates every URL under a bounded worker pool and returns the results
// keyed by URL. Each probe is independently time-bounded, so one hanging
// endpoint cannot block the rest. When budget is non-zero the whole pass is
// additionally wall-clock bounded: in-flight probes are cut off and report as
// timeouts, queued ones never start and stay absent from the result map
// (downstream treats absence as "unchanged since the previous run").
func Run(ctx context.Context, p *Prober, urls []string, limit int, budget time.Duration, logger *slog.Logger) map[string]catalog.Result {
	if limit <= 0 {
		limit = 1
	}
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	// One slot per URL; no shared mutable state between probes.
	slots := make([]*catalog.Result, len(urls))

	g := &errgroup.Group{}
	g.SetLimit(limit)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil // budget exhausted before this probe started
			}
			r := p.Check(ctx, url)
			slots[i] = &r
			observe(r)
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]catalog.Result, len(urls))
	skipped := 0
	for _, r := range slots {
		if r == nil {
			skipped++
			continue
		}
		results[r.URL] = *r
	}
	if skipped > 0 {
		logger.Warn("validation budget exhausted", "unprobed", skipped, "budget", budget)
	}
	return results
}
