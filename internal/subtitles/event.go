package subtitles

import (
	"sort"
	"strings"
	"time"
)

// Event is one timed subtitle unit: a start and end offset from stream start
// and one or more lines of body text.
type Event struct {
	Start time.Duration
	End   time.Duration
	Lines []string
}

// Text joins the event body into a single newline-separated string.
func (e Event) Text() string {
	return strings.Join(e.Lines, "\n")
}

// Empty reports whether the event carries no visible text.
func (e Event) Empty() bool {
	for _, line := range e.Lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}

// SortByStart orders events ascending by start time, preserving the relative
// order of events that share a start. Output writers rely on this invariant
// even when upstream stages produce events out of order.
func SortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start < events[j].Start
	})
}
