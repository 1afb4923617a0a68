package catalog

import (
	"sort"
	"strings"
)

// topGenreLimit caps the genre frequency table in the summary.
const topGenreLimit = 50

// BuildSummary recomputes the statistics document from the catalog. Per-file
// counts are derived from station provenance. All orderings are fully
// deterministic (count descending, then code/name ascending) so an unchanged
// catalog summarizes to byte-identical output.
func BuildSummary(c *Catalog, updated string) *Summary {
	countryCounts := make(map[string]int)
	fileCounts := make(map[string]int)
	fileCountry := make(map[string]string)
	genreCounts := make(map[string]int)

	for _, st := range c.Stations {
		countryCounts[st.Country]++
		fileCounts[st.Source]++
		fileCountry[st.Source] = st.Country
		for _, g := range st.Genres {
			genreCounts[strings.ToLower(g)]++
		}
	}

	countries := make([]CountryCount, 0, len(countryCounts))
	for code, n := range countryCounts {
		countries = append(countries, CountryCount{Code: code, Count: n})
	}
	sort.Slice(countries, func(i, j int) bool {
		if countries[i].Count != countries[j].Count {
			return countries[i].Count > countries[j].Count
		}
		return countries[i].Code < countries[j].Code
	})

	files := make([]CountryFile, 0, len(fileCounts))
	for f, n := range fileCounts {
		files = append(files, CountryFile{Code: fileCountry[f], File: f, Count: n})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].File < files[j].File })

	genres := make([]GenreCount, 0, len(genreCounts))
	for g, n := range genreCounts {
		genres = append(genres, GenreCount{Name: g, Count: n})
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Count != genres[j].Count {
			return genres[i].Count > genres[j].Count
		}
		return genres[i].Name < genres[j].Name
	})
	top := genres
	if len(top) > topGenreLimit {
		top = top[:topGenreLimit]
	}

	return &Summary{
		TotalStations:  len(c.Stations),
		TotalCountries: len(countryCounts),
		Countries:      countries,
		CountryFiles:   files,
		GenreStats: GenreStats{
			TotalUniqueGenres: len(genreCounts),
			TopGenres:         top,
		},
		Updated: updated,
	}
}
