// Package sitedata projects the catalog into the consumer-facing playlist
// files: one global all_stations.m3u and one by_country/<cc>.m3u per country.
// It only reads the catalog; re-running it never changes validation state.
package sitedata

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"

	"github.com/iprd/radiodir/pkg/catalog"
	"github.com/iprd/radiodir/pkg/playlist"
)

const (
	allStationsFile = "all_stations.m3u"
	byCountryDir    = "by_country"
)

var module = "sitedata"

// AwaitFunc lets the app delay generation until a sibling rebuild service has
// terminated, when both run in the same invocation.
type AwaitFunc func(ctx context.Context) error

type Generator struct {
	services.Service
	cfg    *Config
	logger *slog.Logger
	await  AwaitFunc
}

// New creates and returns a new Generator service. await may be nil.
func New(cfg Config, logger slog.Logger, await AwaitFunc) (*Generator, error) {
	g := &Generator{
		cfg:    &cfg,
		logger: logger.With("module", module),
		await:  await,
	}

	g.Service = services.NewBasicService(nil, g.running, nil)

	return g, nil
}

func (g *Generator) running(ctx context.Context) error {
	if g.await != nil {
		if err := g.await(ctx); err != nil {
			return errors.Wrap(err, "waiting for catalog rebuild")
		}
	}

	cat, err := catalog.Load(catalog.CatalogPath(g.cfg.OutputDir))
	if err != nil {
		return errors.Wrap(err, "loading catalog")
	}

	byCountry := groupByCountry(cat)

	for _, cc := range countryCodes(byCountry) {
		path := filepath.Join(g.cfg.OutputDir, byCountryDir, strings.ToLower(cc)+".m3u")
		if err := writePlaylist(path, byCountry[cc]); err != nil {
			return errors.Wrap(err, "writing country playlist")
		}
		g.logger.Info("generated country playlist", "country", cc, "stations", len(byCountry[cc]))
	}

	// The global file concatenates every country's stations in country-code
	// order, each preserving catalog order.
	var all []*catalog.Station
	for _, cc := range countryCodes(byCountry) {
		all = append(all, byCountry[cc]...)
	}
	if err := writePlaylist(filepath.Join(g.cfg.OutputDir, allStationsFile), all); err != nil {
		return errors.Wrap(err, "writing unified playlist")
	}

	g.logger.Info("site data generated", "stations", len(all), "countries", len(byCountry))
	return nil
}

func groupByCountry(cat *catalog.Catalog) map[string][]*catalog.Station {
	byCountry := make(map[string][]*catalog.Station)
	for _, st := range cat.Stations {
		byCountry[st.Country] = append(byCountry[st.Country], st)
	}
	return byCountry
}

func countryCodes(byCountry map[string][]*catalog.Station) []string {
	codes := make([]string, 0, len(byCountry))
	for cc := range byCountry {
		codes = append(codes, cc)
	}
	sort.Strings(codes)
	return codes
}

func writePlaylist(path string, stations []*catalog.Station) error {
	items := make([]playlist.Item, 0, len(stations))
	for _, st := range stations {
		items = append(items, playlist.Item{
			Name:   st.Name,
			Logo:   st.Logo,
			Genres: st.Genres,
			URLs:   orderedURLs(st),
		})
	}

	var buf bytes.Buffer
	if err := playlist.Write(&buf, items); err != nil {
		return err
	}
	return catalog.WriteFileAtomic(path, buf.Bytes())
}

// orderedURLs returns a station's stream URLs by descending reliability, then
// descending bitrate, then original position, so consumers try the best
// endpoint first and ties break deterministically.
func orderedURLs(st *catalog.Station) []string {
	idx := make([]int, len(st.Streams))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := st.Streams[idx[a]], st.Streams[idx[b]]
		if sa.Reliability != sb.Reliability {
			return sa.Reliability > sb.Reliability
		}
		if sa.Bitrate != sb.Bitrate {
			return sa.Bitrate > sb.Bitrate
		}
		return idx[a] < idx[b]
	})

	urls := make([]string, len(idx))
	for i, j := range idx {
		urls[i] = st.Streams[j].URL
	}
	return urls
}
