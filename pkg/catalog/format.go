package catalog

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// audioFormats maps file extensions to a format label and a default bitrate
// used when the URL carries no explicit bitrate hint.
var audioFormats = map[string]struct {
	format  string
	bitrate int
}{
	"mp3":  {"MP3", 128},
	"aac":  {"AAC", 128},
	"ogg":  {"OGG", 128},
	"flac": {"FLAC", 960},
	"m4a":  {"AAC", 128},
	"opus": {"OPUS", 96},
	"wav":  {"WAV", 1411},
}

// formatIdentifiers lists substrings that betray a codec when the URL has no
// usable extension. Order matters: first match wins.
var formatIdentifiers = []struct {
	format string
	ids    []string
}{
	{"mp3", []string{"mp3", "mpeg"}},
	{"aac", []string{"aac", "aacp", "he-aac"}},
	{"ogg", []string{"ogg", "vorbis"}},
	{"flac", []string{"flac"}},
	{"opus", []string{"opus"}},
	{"wav", []string{"wav", "pcm"}},
}

var bitratePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[-_/](\d+)k[-_/.]`),
	regexp.MustCompile(`[-_/](\d+)kbps[-_/.]`),
	regexp.MustCompile(`[-_/](\d+)kb[-_/.]`),
	regexp.MustCompile(`[-_/.](\d+)[-_/.]`),
}

// InferFormat guesses the audio format and a default bitrate from a stream
// URL: extension first, then known identifier substrings, then format-ish
// query parameters. Returns ("Unknown", 0) when nothing matches.
func InferFormat(rawURL string) (string, int) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "Unknown", 0
	}
	pathLower := strings.ToLower(parsed.Path)
	urlLower := strings.ToLower(rawURL)

	if dot := strings.LastIndex(pathLower, "."); dot >= 0 {
		if f, ok := audioFormats[pathLower[dot+1:]]; ok {
			return f.format, f.bitrate
		}
	}

	for _, fi := range formatIdentifiers {
		for _, id := range fi.ids {
			if strings.Contains(urlLower, id) {
				f := audioFormats[fi.format]
				return f.format, f.bitrate
			}
		}
	}

	if parsed.RawQuery != "" {
		for name, values := range parsed.Query() {
			switch strings.ToLower(name) {
			case "format", "fmt", "type":
				for _, v := range values {
					v = strings.ToLower(v)
					for _, fi := range formatIdentifiers {
						for _, id := range fi.ids {
							if v == id {
								f := audioFormats[fi.format]
								return f.format, f.bitrate
							}
						}
					}
				}
			}
		}
	}

	return "Unknown", 0
}

// InferBitrate extracts a bitrate hint (kbps) embedded in the URL, e.g.
// "-128k-" or "_96kbps.". Values outside the plausible 32-1411 range are
// rejected. Icecast mounts with no hint default to 128. Returns 0 when
// nothing usable is found.
func InferBitrate(rawURL string) int {
	urlLower := strings.ToLower(rawURL)

	for _, p := range bitratePatterns {
		if m := p.FindStringSubmatch(urlLower); len(m) == 2 {
			if br, err := strconv.Atoi(m[1]); err == nil && br >= 32 && br <= 1411 {
				return br
			}
		}
	}

	if strings.Contains(urlLower, "icecast") {
		return 128
	}
	return 0
}

// websiteFromLogo derives a best-effort station website from the logo URL's
// origin.
func websiteFromLogo(logo string) string {
	if !strings.HasPrefix(logo, "http") {
		return ""
	}
	parsed, err := url.Parse(logo)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
