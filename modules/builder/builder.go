// Package builder implements the full rebuild: parse every source playlist,
// aggregate stations, probe every stream, and regenerate the catalog,
// summary and validation artifacts. It runs as a one-shot service; only a
// fatal I/O problem (unreadable source tree, failed output write) makes it
// fail.
package builder

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"

	"github.com/iprd/radiodir/pkg/catalog"
	"github.com/iprd/radiodir/pkg/playlist"
	"github.com/iprd/radiodir/pkg/probe"
)

var module = "builder"

type Builder struct {
	services.Service
	cfg    *Config
	logger *slog.Logger
	prober *probe.Prober
}

// New creates and returns a new Builder service.
func New(cfg Config, logger slog.Logger) (*Builder, error) {
	b := &Builder{
		cfg:    &cfg,
		logger: logger.With("module", module),
		prober: probe.New(probe.Config{
			Timeout:   cfg.ProbeTimeout,
			UserAgent: cfg.UserAgent,
			Retries:   cfg.ProbeRetries,
		}),
	}

	b.Service = services.NewBasicService(nil, b.running, nil)

	return b, nil
}

func (b *Builder) running(ctx context.Context) error {
	files, err := playlist.Discover(b.cfg.StreamsDir)
	if err != nil {
		return errors.Wrap(err, "reading source tree")
	}

	var (
		entries  []playlist.Entry
		warnings []string
	)
	for _, file := range files {
		ents, warns, err := playlist.ParseFile(file)
		for _, w := range warns {
			b.logger.Warn("entry skipped", "file", file, "reason", w.Reason, "line", w.Line)
			warnings = append(warnings, w.String())
		}
		if err != nil {
			// A single unparseable file never aborts the run.
			b.logger.Warn("playlist skipped", "file", file, "err", err)
			warnings = append(warnings, err.Error())
			continue
		}
		b.logger.Info("processed playlist", "file", file, "stations", len(ents))
		entries = append(entries, ents...)
	}

	cat, aggWarnings := catalog.Aggregate(entries)
	for _, w := range aggWarnings {
		b.logger.Warn("aggregation", "warning", w)
	}
	warnings = append(warnings, aggWarnings...)

	// Carry validation history over from the previous catalog so a rebuild
	// does not reset reliability scores.
	catalogPath := catalog.CatalogPath(b.cfg.OutputDir)
	prev, err := catalog.Load(catalogPath)
	switch {
	case err == nil:
		cat.CarryOver(prev)
	case os.IsNotExist(err):
		b.logger.Info("no previous catalog, starting fresh", "path", catalogPath)
	default:
		b.logger.Warn("previous catalog unreadable, starting fresh", "path", catalogPath, "err", err)
	}

	urls := cat.StreamURLs()
	b.logger.Info("validating streams", "count", len(urls), "concurrency", b.cfg.Concurrency)
	results := probe.Run(ctx, b.prober, urls, b.cfg.Concurrency, b.cfg.ValidationBudget, b.logger)

	cat.Updated = catalog.Timestamp(time.Now())
	cat.Apply(results)

	summary := catalog.BuildSummary(cat, cat.Updated)
	report := catalog.BuildReport(results, warnings)

	if err := catalog.SaveJSON(catalogPath, cat); err != nil {
		return errors.Wrap(err, "writing catalog")
	}
	if err := catalog.SaveJSON(catalog.SummaryPath(b.cfg.OutputDir), summary); err != nil {
		return errors.Wrap(err, "writing summary")
	}
	if err := catalog.SaveJSON(catalog.ReportPath(b.cfg.OutputDir), report); err != nil {
		return errors.Wrap(err, "writing validation results")
	}

	b.logger.Info("catalog rebuilt",
		"stations", summary.TotalStations,
		"countries", summary.TotalCountries,
		"genres", summary.GenreStats.TotalUniqueGenres,
		"validation", report.Summary,
	)
	return nil
}
