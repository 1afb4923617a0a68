package catalog

import (
	"strings"
	"testing"

	"github.com/iprd/radiodir/pkg/playlist"
)

func entry(name, url, country string, genres ...string) playlist.Entry {
	return playlist.Entry{
		Name:    name,
		URL:     url,
		Country: country,
		Genres:  genres,
		Source:  "streams/" + strings.ToLower(country) + ".m3u",
	}
}

func TestAggregateMergesByNameAndCountry(t *testing.T) {
	entries := []playlist.Entry{
		entry("France Info", "http://a.example/info-128k.mp3", "FR", "News"),
		entry("france  info", "http://b.example/info-aac", "FR", "Talk", "news"),
		entry("France Info", "http://c.example/info", "DE", "News"),
	}

	cat, warnings := Aggregate(entries)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(cat.Stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(cat.Stations))
	}

	fr := cat.Stations[0]
	if fr.Name != "France Info" || fr.Country != "FR" {
		t.Errorf("station = %q/%q", fr.Name, fr.Country)
	}
	if len(fr.Streams) != 2 {
		t.Errorf("got %d streams, want 2", len(fr.Streams))
	}
	// Union keeps first-seen spelling and order, folding case.
	want := []string{"News", "Talk"}
	if len(fr.Genres) != len(want) {
		t.Fatalf("genres = %v, want %v", fr.Genres, want)
	}
	for i := range want {
		if fr.Genres[i] != want[i] {
			t.Errorf("genres[%d] = %q, want %q", i, fr.Genres[i], want[i])
		}
	}
	if fr.CountryName != "France" {
		t.Errorf("CountryName = %q", fr.CountryName)
	}

	// Same name in another country is a separate station.
	if cat.Stations[1].Country != "DE" {
		t.Errorf("second station country = %q", cat.Stations[1].Country)
	}
}

func TestAggregateNoDuplicateURLsWithinStation(t *testing.T) {
	entries := []playlist.Entry{
		entry("FIP", "http://a.example/fip", "FR", "Eclectic"),
		entry("FIP", "http://a.example/fip", "FR", "Jazz"),
		entry("FIP", "http://b.example/fip-hifi", "FR"),
	}

	cat, warnings := Aggregate(entries)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(cat.Stations) != 1 {
		t.Fatalf("got %d stations", len(cat.Stations))
	}

	st := cat.Stations[0]
	seen := make(map[string]bool)
	for _, s := range st.Streams {
		if seen[s.URL] {
			t.Errorf("duplicate URL %s within station", s.URL)
		}
		seen[s.URL] = true
	}
	if len(st.Streams) != 2 {
		t.Errorf("got %d streams, want 2", len(st.Streams))
	}
	// The repeated entry still contributes its genres.
	if !contains(st.Genres, "Jazz") {
		t.Errorf("genres = %v, want Jazz included", st.Genres)
	}
}

func TestAggregateCrossStationURLWarns(t *testing.T) {
	entries := []playlist.Entry{
		entry("Station A", "http://shared.example/stream", "FR"),
		entry("Station B", "http://shared.example/stream", "FR"),
	}

	cat, warnings := Aggregate(entries)
	if len(cat.Stations) != 2 {
		t.Fatalf("got %d stations", len(cat.Stations))
	}
	// Kept on both sides.
	for _, st := range cat.Stations {
		if len(st.Streams) != 1 {
			t.Errorf("station %s has %d streams", st.Name, len(st.Streams))
		}
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "already listed by another station") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestAggregateDropsIncompleteEntries(t *testing.T) {
	entries := []playlist.Entry{
		{Name: "No Country", URL: "http://a.example/x", Source: "streams/xx.m3u"},
		entry("Kept", "http://a.example/kept", "FR"),
	}

	cat, warnings := Aggregate(entries)
	if len(cat.Stations) != 1 || cat.Stations[0].Name != "Kept" {
		t.Fatalf("stations = %+v", cat.Stations)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "missing required fields") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestAggregateTagsAreFirstThreeGenres(t *testing.T) {
	entries := []playlist.Entry{
		entry("Many Genres", "http://a.example/x", "FR", "Pop", "Rock", "Indie", "Electro"),
	}
	cat, _ := Aggregate(entries)
	st := cat.Stations[0]
	if len(st.Tags) != 3 || st.Tags[0] != "Pop" || st.Tags[2] != "Indie" {
		t.Errorf("tags = %v", st.Tags)
	}
}

func TestAggregateDisambiguatesIDCollisions(t *testing.T) {
	// "Radio-1" and "Radio 1" are distinct identities but slug identically;
	// with the same primary URL their derived IDs would collide.
	entries := []playlist.Entry{
		entry("Radio-1", "http://shared.example/one", "FR"),
		entry("Radio 1", "http://shared.example/one", "FR"),
	}

	cat, warnings := Aggregate(entries)
	if len(cat.Stations) != 2 {
		t.Fatalf("got %d stations", len(cat.Stations))
	}
	if cat.Stations[0].ID == cat.Stations[1].ID {
		t.Errorf("IDs collide: %q", cat.Stations[0].ID)
	}
	if cat.Stations[1].ID != cat.Stations[0].ID+"-2" {
		t.Errorf("second ID = %q, want deterministic suffix", cat.Stations[1].ID)
	}

	var collisionWarned bool
	for _, w := range warnings {
		if strings.Contains(w, "already taken") {
			collisionWarned = true
		}
	}
	if !collisionWarned {
		t.Errorf("no collision warning in %v", warnings)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	entries := []playlist.Entry{
		entry("France Info", "http://a.example/info-128k.mp3", "FR", "News"),
		entry("Radio Eins", "http://b.example/eins", "DE", "Pop"),
	}

	a, _ := Aggregate(entries)
	b, _ := Aggregate(entries)

	if len(a.Stations) != len(b.Stations) {
		t.Fatal("station counts differ between runs")
	}
	for i := range a.Stations {
		if a.Stations[i].ID != b.Stations[i].ID {
			t.Errorf("station %d ID changed: %s vs %s", i, a.Stations[i].ID, b.Stations[i].ID)
		}
	}
}

func TestStationID(t *testing.T) {
	id := StationID("FR", "France Info!", "http://a.example/info")
	if !strings.HasPrefix(id, "fr-france-info-") {
		t.Errorf("id = %q, want slug prefix", id)
	}
	if id != StationID("FR", "France Info!", "http://a.example/info") {
		t.Error("id is not stable for identical input")
	}
	if id == StationID("FR", "France Info!", "http://b.example/info") {
		t.Error("id did not change with the primary URL")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
