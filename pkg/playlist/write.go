package playlist

import (
	"fmt"
	"io"
	"strings"
)

// Item is one station to emit: a metadata line shared by one or more stream
// URLs. Writing an Item and re-parsing the output yields one Entry per URL
// with the same name, logo and genres.
type Item struct {
	Name   string
	Logo   string
	Genres []string
	URLs   []string
}

// Write emits items in the extended M3U format accepted by Parse.
func Write(w io.Writer, items []Item) error {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")
	for _, it := range items {
		line := fmt.Sprintf("#EXTINF:-1 tvg-logo=\"%s\" group-title=\"%s\",%s\n",
			it.Logo, strings.Join(it.Genres, ";"), it.Name)
		for _, u := range it.URLs {
			sb.WriteString(line)
			sb.WriteString(u)
			sb.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
