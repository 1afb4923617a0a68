// Package catalog holds the station data model and the operations that build,
// merge and persist the directory catalog: aggregation of parsed playlist
// entries, validation-result merging, summary statistics and atomic JSON
// persistence.
package catalog

import "time"

// Version identifies the catalog document schema.
const Version = "1.0"

// Stream is one physical URL belonging to a station. Order within a station
// encodes preference. Reliability is a smoothed success ratio in [0,1]
// maintained across validation runs.
type Stream struct {
	URL         string  `json:"url"`
	Format      string  `json:"format"`
	Bitrate     int     `json:"bitrate"`
	Reliability float64 `json:"reliability"`
	CheckedAt   string  `json:"checkedAt,omitempty"`
}

// Station is the canonical unit of the catalog.
type Station struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Country     string   `json:"country"` // ISO 3166-1 alpha-2, upper case
	CountryName string   `json:"countryName,omitempty"`
	Language    string   `json:"language,omitempty"`
	Genres      []string `json:"genres"`
	Website     string   `json:"website,omitempty"`
	Streams     []Stream `json:"streams"`
	Tags        []string `json:"tags,omitempty"`
	LastChecked string   `json:"lastChecked,omitempty"`
	Logo        string   `json:"logo,omitempty"`
	Source      string   `json:"source"`
}

// Catalog is the persisted top-level document. Station order is first-seen
// across playlist files and stable across rebuilds given unchanged input.
type Catalog struct {
	Version  string     `json:"version"`
	Updated  string     `json:"updated"`
	Stations []*Station `json:"stations"`
}

// StreamURLs returns every stream URL in catalog order.
func (c *Catalog) StreamURLs() []string {
	var urls []string
	for _, st := range c.Stations {
		for _, s := range st.Streams {
			urls = append(urls, s.URL)
		}
	}
	return urls
}

// Result is the outcome of probing one stream URL during a validation pass.
// It is transient per run; only its reliability contribution and check
// timestamp are folded back into the catalog.
type Result struct {
	URL       string  `json:"url"`
	Working   bool    `json:"working"`
	Status    int     `json:"status"` // HTTP status, or 0 for transport-level failure
	Latency   float64 `json:"latency,omitempty"`
	Bitrate   int     `json:"bitrate,omitempty"` // measured (icy-br), when the server reports one
	Error     string  `json:"error,omitempty"`
	CheckedAt string  `json:"checkedAt,omitempty"`
}

// Report is the audit artifact written after each validation pass.
type Report struct {
	Summary  string   `json:"summary"`
	Warnings []string `json:"warnings,omitempty"`
	Details  []Result `json:"details"`
}

// CountryCount is one per-country station count in the summary.
type CountryCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// CountryFile records how many stations one source playlist contributed.
type CountryFile struct {
	Code  string `json:"code"`
	File  string `json:"file"`
	Count int    `json:"count"`
}

// GenreCount is one genre frequency entry.
type GenreCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GenreStats aggregates genre frequencies across the catalog.
type GenreStats struct {
	TotalUniqueGenres int          `json:"total_unique_genres"`
	TopGenres         []GenreCount `json:"top_genres"`
}

// Summary is the derived, fully recomputable statistics document.
type Summary struct {
	TotalStations  int            `json:"total_stations"`
	TotalCountries int            `json:"total_countries"`
	Countries      []CountryCount `json:"countries"`
	CountryFiles   []CountryFile  `json:"country_files,omitempty"`
	GenreStats     GenreStats     `json:"genre_stats"`
	Updated        string         `json:"updated"`
}

// Timestamp renders t in the fixed UTC format used throughout the catalog.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
