package catalog

import (
	"fmt"
	"math"
	"sort"
)

// reliabilityAlpha is the exponential-moving-average weight of the newest
// validation outcome: new = old*(1-alpha) + outcome*alpha. A single flaky
// failure therefore dents the score rather than discarding it.
const reliabilityAlpha = 0.2

// CarryOver copies reliability state from a previous catalog into c, matched
// by stream URL, so incremental rebuilds do not lose validation history.
// Descriptive fields always come from the fresh aggregation; a previously
// measured bitrate is kept when the fresh one is only a guess.
func (c *Catalog) CarryOver(prev *Catalog) {
	if prev == nil {
		return
	}
	old := make(map[string]Stream)
	for _, st := range prev.Stations {
		for _, s := range st.Streams {
			if _, ok := old[s.URL]; !ok {
				old[s.URL] = s
			}
		}
	}
	for _, st := range c.Stations {
		for i := range st.Streams {
			p, ok := old[st.Streams[i].URL]
			if !ok {
				continue
			}
			st.Streams[i].Reliability = p.Reliability
			st.Streams[i].CheckedAt = p.CheckedAt
			if p.Bitrate > 0 && st.Streams[i].Bitrate == 0 {
				st.Streams[i].Bitrate = p.Bitrate
			}
		}
		refreshLastChecked(st)
	}
}

// Apply folds one validation pass into the catalog. A stream whose URL has no
// result in this run keeps its previous reliability and check timestamp, so a
// partial or budget-truncated pass never counts as failure. Station
// lastChecked becomes the max of its endpoints' check timestamps.
func (c *Catalog) Apply(results map[string]Result) {
	for _, st := range c.Stations {
		for i := range st.Streams {
			r, ok := results[st.Streams[i].URL]
			if !ok {
				continue
			}
			outcome := 0.0
			if r.Working {
				outcome = 1.0
			}
			old := st.Streams[i].Reliability
			st.Streams[i].Reliability = round4(old*(1-reliabilityAlpha) + outcome*reliabilityAlpha)
			st.Streams[i].CheckedAt = r.CheckedAt
			if r.Bitrate > 0 {
				st.Streams[i].Bitrate = r.Bitrate
			}
		}
		refreshLastChecked(st)
	}
}

func refreshLastChecked(st *Station) {
	last := st.LastChecked
	for _, s := range st.Streams {
		// Timestamps share a fixed UTC layout, so string comparison orders
		// them chronologically.
		if s.CheckedAt > last {
			last = s.CheckedAt
		}
	}
	st.LastChecked = last
}

func round4(v float64) float64 {
	v = math.Round(v*10000) / 10000
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BuildReport assembles the audit artifact for one validation pass: a
// one-line health summary, the run-level warnings, and per-URL details sorted
// by URL for stable output.
func BuildReport(results map[string]Result, warnings []string) *Report {
	details := make([]Result, 0, len(results))
	working := 0
	for _, r := range results {
		if r.Working {
			working++
		}
		details = append(details, r)
	}
	sort.Slice(details, func(i, j int) bool { return details[i].URL < details[j].URL })

	return &Report{
		Summary:  fmt.Sprintf("%d/%d streams working (%d failed)", working, len(details), len(details)-working),
		Warnings: warnings,
		Details:  details,
	}
}
