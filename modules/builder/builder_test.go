package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iprd/radiodir/pkg/catalog"
)

func discardLogger() slog.Logger {
	return *slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTestPlaylist(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuilderEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dead" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
	}))
	defer srv.Close()

	streams := t.TempDir()
	output := t.TempDir()

	writeTestPlaylist(t, streams, "fr.m3u", fmt.Sprintf(`#EXTM3U
#EXTINF:-1 tvg-logo="https://logo.example/one.png" group-title="News",Station One
%s/one
#EXTINF:-1 tvg-logo="" group-title="Pop",Station Two
%s/dead
#EXTINF:-1 tvg-logo="" group-title="Pop",Entry Without URL
#EXTINF:-1 tvg-logo="" group-title="Rock",Station Three
%s/three
`, srv.URL, srv.URL, srv.URL))

	b, err := New(Config{
		StreamsDir:   streams,
		OutputDir:    output,
		Concurrency:  2,
		ProbeTimeout: 2 * time.Second,
	}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	if err := b.running(context.Background()); err != nil {
		t.Fatal(err)
	}

	cat, err := catalog.Load(catalog.CatalogPath(output))
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Stations) != 3 {
		t.Fatalf("got %d stations, want 3", len(cat.Stations))
	}
	if cat.Updated == "" {
		t.Error("catalog updated timestamp not set")
	}

	byName := make(map[string]*catalog.Station)
	for _, st := range cat.Stations {
		byName[st.Name] = st
	}

	one := byName["Station One"]
	if one == nil {
		t.Fatal("Station One missing")
	}
	if r := one.Streams[0].Reliability; r != 0.6 {
		t.Errorf("working stream reliability = %v, want prior nudged up", r)
	}
	if one.LastChecked == "" {
		t.Error("lastChecked not set after validation")
	}

	two := byName["Station Two"]
	if two == nil {
		t.Fatal("Station Two missing")
	}
	if r := two.Streams[0].Reliability; r != 0.4 {
		t.Errorf("dead stream reliability = %v, want prior nudged down", r)
	}

	// The skipped entry surfaces in the validation report, not as a failure.
	data, err := os.ReadFile(catalog.ReportPath(output))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "entry has no stream URL") {
		t.Error("parse warning missing from validation results")
	}

	if _, err := os.Stat(catalog.SummaryPath(output)); err != nil {
		t.Errorf("summary not written: %v", err)
	}
}

func TestBuilderCarriesReliabilityAcrossRebuilds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
	}))
	defer srv.Close()

	streams := t.TempDir()
	output := t.TempDir()
	writeTestPlaylist(t, streams, "fr.m3u", fmt.Sprintf("#EXTM3U\n#EXTINF:-1,Station\n%s/s\n", srv.URL))

	cfg := Config{StreamsDir: streams, OutputDir: output, Concurrency: 1, ProbeTimeout: 2 * time.Second}
	b, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	if err := b.running(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := b.running(context.Background()); err != nil {
		t.Fatal(err)
	}

	cat, err := catalog.Load(catalog.CatalogPath(output))
	if err != nil {
		t.Fatal(err)
	}
	// Two successful passes: 0.5 -> 0.6 -> 0.68.
	if r := cat.Stations[0].Streams[0].Reliability; r != 0.68 {
		t.Errorf("reliability = %v, want history carried into the second run", r)
	}
}

func TestBuilderSkipsUnparseableFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
	}))
	defer srv.Close()

	streams := t.TempDir()
	output := t.TempDir()
	writeTestPlaylist(t, streams, "de.m3u", "<html>definitely not a playlist</html>\n")
	writeTestPlaylist(t, streams, "fr.m3u", fmt.Sprintf("#EXTM3U\n#EXTINF:-1,Station\n%s/s\n", srv.URL))

	b, err := New(Config{StreamsDir: streams, OutputDir: output, Concurrency: 1, ProbeTimeout: 2 * time.Second}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := b.running(context.Background()); err != nil {
		t.Fatalf("a bad file aborted the run: %v", err)
	}

	cat, err := catalog.Load(catalog.CatalogPath(output))
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Stations) != 1 {
		t.Errorf("got %d stations, want the one from the valid file", len(cat.Stations))
	}
}

func TestBuilderMissingStreamsDirFails(t *testing.T) {
	b, err := New(Config{
		StreamsDir:   filepath.Join(t.TempDir(), "absent"),
		OutputDir:    t.TempDir(),
		Concurrency:  1,
		ProbeTimeout: time.Second,
	}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := b.running(context.Background()); err == nil {
		t.Fatal("expected an error for a missing source tree")
	}
}
