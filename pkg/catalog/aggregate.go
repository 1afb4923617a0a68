package catalog

import (
	"fmt"
	"strings"

	"github.com/iprd/radiodir/pkg/playlist"
)

// defaultReliability is the prior for a stream that has never been probed.
const defaultReliability = 0.5

// Aggregate merges parsed entries from all playlist files into the catalog's
// station list. Entries sharing normalized(name)+country collapse into one
// station (stream lists concatenated, exact-URL dedup with first-seen
// metadata winning); genres are unioned case-insensitively preserving
// first-seen order. The same URL appearing under two different stations is
// kept on both but reported as a cross-reference warning. Station IDs are
// unique catalog-wide; a collision gets a numeric suffix and a warning. All
// decisions are deterministic in input order, so unchanged sources aggregate
// to an identical catalog.
func Aggregate(entries []playlist.Entry) (*Catalog, []string) {
	cat := &Catalog{Version: Version}

	var warnings []string
	byKey := make(map[string]*Station)
	urlOwner := make(map[string]string) // stream URL -> identity key of first owner
	urlsSeen := make(map[string]map[string]bool)
	usedIDs := make(map[string]bool)

	for _, e := range entries {
		if e.Name == "" || e.URL == "" || e.Country == "" {
			warnings = append(warnings, fmt.Sprintf("%s: entry dropped, missing required fields (name=%q url=%q)", e.Source, e.Name, e.URL))
			continue
		}

		key := identityKey(e.Name, e.Country)

		st, ok := byKey[key]
		if !ok {
			// Distinct identities can still collide on ID when their names
			// differ only in non-alphanumerics and they share a primary URL.
			id := StationID(e.Country, e.Name, e.URL)
			if usedIDs[id] {
				base := id
				for n := 2; usedIDs[id]; n++ {
					id = fmt.Sprintf("%s-%d", base, n)
				}
				warnings = append(warnings, fmt.Sprintf("%s: station ID %s already taken, using %s", e.Source, base, id))
			}
			usedIDs[id] = true

			st = &Station{
				ID:          id,
				Name:        e.Name,
				Country:     e.Country,
				CountryName: CountryName(e.Country),
				Language:    CountryLanguage(e.Country),
				Logo:        e.Logo,
				Website:     websiteFromLogo(e.Logo),
				Source:      e.Source,
			}
			byKey[key] = st
			urlsSeen[key] = make(map[string]bool)
			cat.Stations = append(cat.Stations, st)
		}

		st.Genres = unionGenres(st.Genres, e.Genres)

		if urlsSeen[key][e.URL] {
			// Same URL repeated for the same station: first-seen wins, the
			// later occurrence updates nothing.
			continue
		}
		if owner, dup := urlOwner[e.URL]; dup && owner != key {
			warnings = append(warnings, fmt.Sprintf("%s: URL %s already listed by another station, kept on both", e.Source, e.URL))
		} else if !dup {
			urlOwner[e.URL] = key
		}
		urlsSeen[key][e.URL] = true

		format, defBitrate := InferFormat(e.URL)
		bitrate := InferBitrate(e.URL)
		if bitrate == 0 {
			bitrate = defBitrate
		}
		st.Streams = append(st.Streams, Stream{
			URL:         e.URL,
			Format:      format,
			Bitrate:     bitrate,
			Reliability: defaultReliability,
		})
	}

	for _, st := range cat.Stations {
		if len(st.Genres) > 3 {
			st.Tags = st.Genres[:3]
		} else {
			st.Tags = st.Genres
		}
	}

	return cat, warnings
}

// identityKey normalizes a station name (case and whitespace) and scopes it
// by country.
func identityKey(name, country string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(name), " "))
	return norm + "|" + strings.ToUpper(country)
}

// unionGenres appends the genres from next that have not been seen yet,
// comparing case-insensitively and preserving first-seen order and spelling.
func unionGenres(have, next []string) []string {
	for _, g := range next {
		if !containsFold(have, g) {
			have = append(have, g)
		}
	}
	return have
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
