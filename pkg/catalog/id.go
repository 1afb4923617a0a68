package catalog

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// StationID derives the stable identifier for a station: a URL-friendly slug
// of country code and name, plus a short hash of the primary stream URL so
// same-named stations stay distinct. The ID does not change across rebuilds
// as long as name, country and primary URL are unchanged.
func StationID(country, name, primaryURL string) string {
	base := strings.ToLower(country + "-" + name)
	base = nonAlnum.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	sum := md5.Sum([]byte(primaryURL))
	return base + "-" + hex.EncodeToString(sum[:])[:8]
}
