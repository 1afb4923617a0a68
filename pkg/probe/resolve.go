package probe

import (
	"io"
	"strings"
)

// Some directory entries point at a tiny .pls/.m3u indirection file rather
// than the stream itself. A probe that lands on one follows the first
// referenced URL once, so the result reflects the actual stream.

func isPlaylistResponse(contentType, body string) bool {
	if strings.Contains(contentType, "audio/x-scpls") ||
		strings.Contains(contentType, "application/pls+xml") ||
		strings.Contains(contentType, "audio/mpegurl") ||
		strings.Contains(contentType, "audio/x-mpegurl") ||
		strings.Contains(contentType, "application/vnd.apple.mpegurl") {
		return true
	}
	return strings.Contains(body, "[playlist]") || strings.Contains(body, "#EXTM3U")
}

// firstStreamURL extracts the first stream URL from a PLS or M3U body, or
// returns empty when none is found.
func firstStreamURL(body string) string {
	if strings.Contains(body, "[playlist]") {
		return firstPLSEntry(body)
	}
	return firstM3UEntry(body)
}

func firstPLSEntry(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "File") && strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			if url := strings.TrimSpace(parts[1]); url != "" {
				return url
			}
		}
	}
	return ""
}

func firstM3UEntry(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			return line
		}
	}
	return ""
}

func readBody(r io.Reader, limit int64) string {
	data, _ := io.ReadAll(io.LimitReader(r, limit))
	return string(data)
}
