// Package checker implements the validation-only refresh: re-probe every
// stream of an existing catalog and rewrite the catalog, summary and
// validation artifacts without touching the source playlists.
package checker

import (
	"context"
	"log/slog"
	"time"

	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"

	"github.com/iprd/radiodir/pkg/catalog"
	"github.com/iprd/radiodir/pkg/probe"
)

var module = "checker"

type Checker struct {
	services.Service
	cfg    *Config
	logger *slog.Logger
	prober *probe.Prober
}

// New creates and returns a new Checker service.
func New(cfg Config, logger slog.Logger) (*Checker, error) {
	c := &Checker{
		cfg:    &cfg,
		logger: logger.With("module", module),
		prober: probe.New(probe.Config{
			Timeout:   cfg.ProbeTimeout,
			UserAgent: cfg.UserAgent,
			Retries:   cfg.ProbeRetries,
		}),
	}

	c.Service = services.NewBasicService(nil, c.running, nil)

	return c, nil
}

func (c *Checker) running(ctx context.Context) error {
	catalogPath := catalog.CatalogPath(c.cfg.OutputDir)
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		// Nothing to refresh without a catalog; that is a fatal condition,
		// unlike individual probe failures.
		return errors.Wrap(err, "loading catalog")
	}

	urls := cat.StreamURLs()
	c.logger.Info("validating streams", "count", len(urls), "concurrency", c.cfg.Concurrency)
	results := probe.Run(ctx, c.prober, urls, c.cfg.Concurrency, c.cfg.ValidationBudget, c.logger)

	cat.Updated = catalog.Timestamp(time.Now())
	cat.Apply(results)

	summary := catalog.BuildSummary(cat, cat.Updated)
	report := catalog.BuildReport(results, nil)

	if err := catalog.SaveJSON(catalogPath, cat); err != nil {
		return errors.Wrap(err, "writing catalog")
	}
	if err := catalog.SaveJSON(catalog.SummaryPath(c.cfg.OutputDir), summary); err != nil {
		return errors.Wrap(err, "writing summary")
	}
	if err := catalog.SaveJSON(catalog.ReportPath(c.cfg.OutputDir), report); err != nil {
		return errors.Wrap(err, "writing validation results")
	}

	c.logger.Info("validation refreshed", "stations", summary.TotalStations, "validation", report.Summary)
	return nil
}
