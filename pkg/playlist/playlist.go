// Package playlist reads and writes the extended M3U convention used by the
// station directory: repeating pairs of an #EXTINF metadata line carrying
// tvg-logo and group-title attributes plus a display name, followed by a
// stream URL line. Files are named <country>.m3u or <country>_<group>.m3u.
package playlist

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	reLogo  = regexp.MustCompile(`tvg-logo="([^"]*)"`)
	reGroup = regexp.MustCompile(`group-title="([^"]*)"`)
)

// Entry is one parsed station entry: a metadata line plus its URL line.
type Entry struct {
	Name    string
	URL     string
	Logo    string
	Genres  []string
	Country string // upper-case country code from the file name
	Group   string // optional group from the file name
	Source  string // originating playlist file (provenance)
}

// Warning records a skipped entry inside an otherwise valid file.
type Warning struct {
	Source string
	Line   int
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d: %s", w.Source, w.Line, w.Reason)
}

// Parse reads an extended M3U playlist from r. Malformed entries are skipped
// and reported as warnings; a stream of bytes that is not recognizable as an
// extended playlist at all is a file-level error. Invalid UTF-8 sequences are
// replaced, never fatal.
func Parse(r io.Reader, source string) ([]Entry, []Warning, error) {
	var (
		entries  []Entry
		warnings []Warning
	)

	scanner := bufio.NewScanner(r)
	// Some playlists carry very long EXTINF lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		pending     *Entry
		pendingLine int
		sawHeader   bool
		sawExtinf   bool
		sawContent  bool
		lineNo      int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.ToValidUTF8(scanner.Text(), "�"))

		switch {
		case line == "" || strings.HasPrefix(line, "//"):
			continue
		case strings.HasPrefix(line, "#EXTM3U"):
			sawHeader = true
			continue
		case strings.HasPrefix(line, "#EXTINF:"):
			sawExtinf = true
			if pending != nil {
				warnings = append(warnings, Warning{source, pendingLine, "entry has no stream URL"})
			}
			e, err := parseExtinf(line)
			if err != nil {
				warnings = append(warnings, Warning{source, lineNo, err.Error()})
				pending = nil
				continue
			}
			pending = &e
			pendingLine = lineNo
		case strings.HasPrefix(line, "#"):
			// Unknown directive, ignore.
			continue
		case strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://"):
			sawContent = true
			if pending == nil {
				warnings = append(warnings, Warning{source, lineNo, "stream URL without a preceding #EXTINF line"})
				continue
			}
			pending.URL = line
			pending.Source = source
			entries = append(entries, *pending)
			pending = nil
		default:
			sawContent = true
			if pending != nil {
				warnings = append(warnings, Warning{source, lineNo, "expected stream URL, got " + truncate(line)})
				pending = nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, fmt.Errorf("read %s: %w", source, err)
	}
	if pending != nil {
		warnings = append(warnings, Warning{source, pendingLine, "entry has no stream URL"})
	}
	if !sawHeader && !sawExtinf && sawContent {
		return nil, warnings, fmt.Errorf("%s: not an extended M3U playlist", source)
	}

	return entries, warnings, nil
}

func truncate(line string) string {
	if len(line) > 40 {
		line = line[:40] + "..."
	}
	return fmt.Sprintf("%q", line)
}

// parseExtinf extracts logo, genres and display name from an #EXTINF line.
// Both attributes are optional; the display name follows the comma after the
// last attribute. The group-title value is a semicolon-separated genre path.
func parseExtinf(line string) (Entry, error) {
	var e Entry

	if m := reLogo.FindStringSubmatch(line); len(m) == 2 {
		e.Logo = strings.TrimSpace(m[1])
	}
	if m := reGroup.FindStringSubmatch(line); len(m) == 2 {
		e.Genres = splitGenres(m[1])
	}

	// The display name sits after the comma that follows the last quoted
	// attribute, or after the first comma when the line has no attributes.
	rest := line
	if i := strings.LastIndex(line, `"`); i >= 0 {
		rest = line[i+1:]
	}
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return Entry{}, fmt.Errorf("malformed #EXTINF line: no display name")
	}
	e.Name = strings.TrimSpace(rest[comma+1:])
	if e.Name == "" {
		return Entry{}, fmt.Errorf("malformed #EXTINF line: empty display name")
	}

	return e, nil
}

func splitGenres(group string) []string {
	var genres []string
	for _, g := range strings.Split(group, ";") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// ParseFile parses one playlist file, deriving country and group from its
// name. The group, when present, is appended to each entry's genre list.
func ParseFile(path string) ([]Entry, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	entries, warnings, err := Parse(f, path)
	if err != nil {
		return nil, warnings, err
	}

	country, group := CountryAndGroup(path)
	for i := range entries {
		entries[i].Country = country
		entries[i].Group = group
		if group != "" && !containsFold(entries[i].Genres, group) {
			entries[i].Genres = append(entries[i].Genres, group)
		}
	}
	return entries, warnings, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// CountryAndGroup derives the country code and optional group from a playlist
// file name: fr.m3u -> ("FR", ""), fr_radiofrance.m3u -> ("FR", "radiofrance").
func CountryAndGroup(path string) (country, group string) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.Index(base, "_"); i >= 0 {
		return strings.ToUpper(base[:i]), base[i+1:]
	}
	return strings.ToUpper(base), ""
}

// Discover returns every .m3u file under dir, sorted by path so that
// downstream processing order is deterministic.
func Discover(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".m3u") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
