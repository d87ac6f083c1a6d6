// ABOUTME: Duration rendering for progress messages and run summaries
// ABOUTME: Clock form for ETAs, a short word form for log lines

package duration

import (
	"fmt"
	"strings"
	"time"
)

// FormatClock renders a duration as HH:MM:SS, or MM:SS below one hour.
// Negative durations render as 00:00.
func FormatClock(d time.Duration) string {
	total := wholeSeconds(d)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// HumanReadable renders a duration as e.g. "1 hour 5 minutes". Anything
// under a minute is given in seconds; leftover seconds are dropped otherwise.
func HumanReadable(d time.Duration) string {
	total := wholeSeconds(d)
	if total < 60 {
		return plural(total, "second")
	}

	var parts []string
	if h := total / 3600; h > 0 {
		parts = append(parts, plural(h, "hour"))
	}
	if m := total / 60 % 60; m > 0 {
		parts = append(parts, plural(m, "minute"))
	}
	return strings.Join(parts, " ")
}

func wholeSeconds(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d.Round(time.Second) / time.Second)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
