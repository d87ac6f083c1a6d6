package output

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
)

// M3UConverter implements interfaces.PlaylistConverter
type M3UConverter struct {
	path      string
	urlsLimit int
	logger    interfaces.Logger
}

// NewM3UConverter creates a converter writing to path, at most urlsLimit endpoints per channel
func NewM3UConverter(path string, urlsLimit int, deps interfaces.Dependencies) *M3UConverter {
	return &M3UConverter{path: path, urlsLimit: urlsLimit, logger: deps.Log()}
}

// Convert writes an extended playlist with one group per category
func (c *M3UConverter) Convert(ctx context.Context, template domain.Template, catalog domain.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries := 0
	err := writeAtomic(c.path, func(out *bufio.Writer) error {
		out.WriteString("#EXTM3U\n")
		for _, key := range template.Keys() {
			candidates, _ := catalog.Get(key)
			for _, candidate := range limited(candidates, c.urlsLimit) {
				fmt.Fprintf(out, "#EXTINF:-1 tvg-name=\"%s\" group-title=\"%s\",%s\n%s\n",
					attr(key.Name), attr(key.Category), key.Name, candidate.URL)
				entries++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("Playlist written", map[string]interface{}{
		"path":    c.path,
		"entries": entries,
	})
	return nil
}

func attr(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}
