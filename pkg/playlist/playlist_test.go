package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantEntries int
		wantWarns   int
		wantErr     bool
	}{
		{
			name: "two complete entries",
			input: `#EXTM3U
#EXTINF:-1 tvg-logo="https://a.example/logo.png" group-title="News;Talk",Radio One
http://stream.example/one.mp3
#EXTINF:-1 tvg-logo="" group-title="Jazz",Radio Two
https://stream.example/two.aac
`,
			wantEntries: 2,
		},
		{
			name: "attributes are optional",
			input: `#EXTM3U
#EXTINF:-1,Bare Station
http://stream.example/bare
`,
			wantEntries: 1,
		},
		{
			name: "entry without URL is skipped with a warning",
			input: `#EXTM3U
#EXTINF:-1 tvg-logo="x" group-title="News",No URL Station
#EXTINF:-1 tvg-logo="y" group-title="News",Good Station
http://stream.example/good
`,
			wantEntries: 1,
			wantWarns:   1,
		},
		{
			name: "missing display name is skipped with a warning",
			input: `#EXTM3U
#EXTINF:-1 tvg-logo="x" group-title="News"
http://stream.example/orphan
`,
			wantEntries: 0,
			wantWarns:   2, // malformed EXTINF, then URL without EXTINF
		},
		{
			name: "trailing EXTINF at EOF warns",
			input: `#EXTM3U
#EXTINF:-1,Dangling
`,
			wantEntries: 0,
			wantWarns:   1,
		},
		{
			name:        "empty file is fine",
			input:       "",
			wantEntries: 0,
		},
		{
			name:    "unrecognizable content fails the file",
			input:   "<html><body>not a playlist</body></html>\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, warns, err := Parse(strings.NewReader(tt.input), "test.m3u")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(entries) != tt.wantEntries {
				t.Errorf("got %d entries, want %d", len(entries), tt.wantEntries)
			}
			if len(warns) != tt.wantWarns {
				t.Errorf("got %d warnings (%v), want %d", len(warns), warns, tt.wantWarns)
			}
		})
	}
}

func TestParseEntryFields(t *testing.T) {
	input := `#EXTM3U
#EXTINF:-1 tvg-logo="https://a.example/logo.png" group-title="News; Talk ;",France Info
http://stream.example/franceinfo-128k.mp3
`
	entries, warns, err := Parse(strings.NewReader(input), "fr.m3u")
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	e := entries[0]
	if e.Name != "France Info" {
		t.Errorf("Name = %q", e.Name)
	}
	if e.Logo != "https://a.example/logo.png" {
		t.Errorf("Logo = %q", e.Logo)
	}
	if e.URL != "http://stream.example/franceinfo-128k.mp3" {
		t.Errorf("URL = %q", e.URL)
	}
	if len(e.Genres) != 2 || e.Genres[0] != "News" || e.Genres[1] != "Talk" {
		t.Errorf("Genres = %v", e.Genres)
	}
}

func TestParseToleratesOneBadEntryAmongMany(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")
	for i := 0; i < 50; i++ {
		sb.WriteString("#EXTINF:-1 tvg-logo=\"\" group-title=\"Pop\",Station ")
		sb.WriteString(strings.Repeat("x", i+1))
		sb.WriteString("\nhttp://stream.example/s")
		sb.WriteString(strings.Repeat("x", i+1))
		sb.WriteString("\n")
	}
	// One malformed unit in the middle of valid ones.
	sb.WriteString("#EXTINF:-1 tvg-logo=\"\" group-title=\"Pop\",Broken Station\n")
	sb.WriteString("#EXTINF:-1 tvg-logo=\"\" group-title=\"Pop\",Final Station\n")
	sb.WriteString("http://stream.example/final\n")

	entries, warns, err := Parse(strings.NewReader(sb.String()), "test.m3u")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 51 {
		t.Errorf("got %d entries, want 51", len(entries))
	}
	if len(warns) != 1 {
		t.Errorf("got %d warnings, want 1: %v", len(warns), warns)
	}
}

func TestCountryAndGroup(t *testing.T) {
	tests := []struct {
		path        string
		wantCountry string
		wantGroup   string
	}{
		{"streams/fr.m3u", "FR", ""},
		{"streams/fr_radiofrance.m3u", "FR", "radiofrance"},
		{"de.m3u", "DE", ""},
		{"us_npr_member.m3u", "US", "npr_member"},
	}
	for _, tt := range tests {
		country, group := CountryAndGroup(tt.path)
		if country != tt.wantCountry || group != tt.wantGroup {
			t.Errorf("CountryAndGroup(%q) = (%q, %q), want (%q, %q)",
				tt.path, country, group, tt.wantCountry, tt.wantGroup)
		}
	}
}

func TestParseFileAppendsGroupToGenres(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fr_radiofrance.m3u")
	content := `#EXTM3U
#EXTINF:-1 tvg-logo="" group-title="News",France Inter
http://stream.example/inter
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, _, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	e := entries[0]
	if e.Country != "FR" {
		t.Errorf("Country = %q", e.Country)
	}
	if e.Group != "radiofrance" {
		t.Errorf("Group = %q", e.Group)
	}
	if len(e.Genres) != 2 || e.Genres[1] != "radiofrance" {
		t.Errorf("Genres = %v, want group appended", e.Genres)
	}
	if e.Source != path {
		t.Errorf("Source = %q", e.Source)
	}
}

func TestRoundTrip(t *testing.T) {
	items := []Item{
		{
			Name:   "Radio Swiss Jazz",
			Logo:   "https://logo.example/rsj.png",
			Genres: []string{"Jazz", "Swiss"},
			URLs:   []string{"http://stream.example/rsj-aac", "http://stream.example/rsj-mp3"},
		},
		{
			Name:   "FIP",
			Genres: []string{"Eclectic"},
			URLs:   []string{"https://stream.example/fip"},
		},
	}

	var sb strings.Builder
	if err := Write(&sb, items); err != nil {
		t.Fatal(err)
	}

	entries, warns, err := Parse(strings.NewReader(sb.String()), "out.m3u")
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 (one per URL)", len(entries))
	}

	if entries[0].Name != "Radio Swiss Jazz" || entries[1].Name != "Radio Swiss Jazz" {
		t.Errorf("names = %q, %q", entries[0].Name, entries[1].Name)
	}
	if entries[0].URL != items[0].URLs[0] || entries[1].URL != items[0].URLs[1] {
		t.Errorf("URL order not preserved: %q, %q", entries[0].URL, entries[1].URL)
	}
	if len(entries[0].Genres) != 2 || entries[0].Genres[0] != "Jazz" {
		t.Errorf("genres = %v", entries[0].Genres)
	}
	if entries[2].Name != "FIP" || entries[2].URL != items[1].URLs[0] {
		t.Errorf("entry = %+v", entries[2])
	}
}

func TestDiscoverSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"fr.m3u", "de.m3u", "us_npr.m3u", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("#EXTM3U\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files: %v", len(files), files)
	}
	for i, want := range []string{"de.m3u", "fr.m3u", "us_npr.m3u"} {
		if filepath.Base(files[i]) != want {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want)
		}
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
