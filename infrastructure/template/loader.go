// ABOUTME: Channel template loader for the text layout file
// ABOUTME: "Category,#genre#" opens a category; "name" or "name,url" lines declare channels

package template

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"channel-catalog/core/domain"
)

const genreMarker = "#genre#"

// FileLoader reads the template from a file on every Load
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for path
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load reads and parses the template file
func (l *FileLoader) Load(ctx context.Context) (domain.Template, error) {
	if err := ctx.Err(); err != nil {
		return domain.Template{}, err
	}

	f, err := os.Open(l.path)
	if err != nil {
		return domain.Template{}, fmt.Errorf("failed to open template: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a template. Channels before the first category line, blank
// lines and "#" comments are skipped. A channel repeated within one category
// is merged into its first occurrence; seed URLs keep file order. A repeated
// category header reopens the earlier category instead of adding another.
func Parse(r io.Reader) (domain.Template, error) {
	var tmpl domain.Template
	current := -1
	categories := make(map[string]int)
	var channels []map[string]int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\uFEFF"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, value, hasValue := strings.Cut(line, ",")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		if hasValue && value == genreMarker {
			pos, seen := categories[name]
			if !seen {
				tmpl.Categories = append(tmpl.Categories, domain.TemplateCategory{Name: name})
				channels = append(channels, make(map[string]int))
				pos = len(tmpl.Categories) - 1
				categories[name] = pos
			}
			current = pos
			continue
		}
		if current < 0 || name == "" {
			continue
		}

		category := &tmpl.Categories[current]
		index := channels[current]
		pos, seen := index[name]
		if !seen {
			category.Channels = append(category.Channels, domain.TemplateChannel{Name: name})
			pos = len(category.Channels) - 1
			index[name] = pos
		}
		if hasValue && value != "" {
			channel := &category.Channels[pos]
			channel.Seeds = append(channel.Seeds, domain.CandidateURL{URL: value, SourceID: domain.TemplateSourceID})
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.Template{}, fmt.Errorf("failed to read template: %w", err)
	}

	return tmpl, nil
}
