// ABOUTME: Parsers for published channel lists in "name,url" text and #EXTINF playlist form
// ABOUTME: Shared by the subscription and feed sources

package sources

import (
	"bufio"
	"io"
	"net/url"
	"strings"

	"channel-catalog/core/domain"
)

const genreMarker = "#genre#"

// ParseList reads a channel list and tags every candidate with sourceID.
// Playlists are recognised by their #EXTINF lines; anything else is read
// as "name,url" lines.
func ParseList(r io.Reader, sourceID string) (domain.SourceResult, error) {
	result := domain.SourceResult{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	pendingName := ""
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\uFEFF"))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#EXTINF") {
			pendingName = extinfName(line)
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		if pendingName != "" {
			if IsStreamURL(line) {
				result.Add(pendingName, line, sourceID)
			}
			pendingName = ""
			continue
		}

		name, link, ok := strings.Cut(line, ",")
		if !ok || strings.TrimSpace(link) == genreMarker {
			continue
		}
		link = strings.TrimSpace(link)
		if IsStreamURL(link) {
			result.Add(strings.TrimSpace(name), link, sourceID)
		}
	}

	return result, scanner.Err()
}

// extinfName prefers the display name after the last comma and falls back to tvg-name
func extinfName(line string) string {
	if i := strings.LastIndex(line, ","); i >= 0 {
		if name := strings.TrimSpace(line[i+1:]); name != "" {
			return name
		}
	}
	const attr = `tvg-name="`
	if i := strings.Index(line, attr); i >= 0 {
		rest := line[i+len(attr):]
		if j := strings.Index(rest, `"`); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
	}
	return ""
}

// IsStreamURL reports whether s is an absolute URL with a scheme and host
func IsStreamURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
