package subtitles

import (
	"fmt"
	"regexp"
	"strings"
)

var vttTagPattern = regexp.MustCompile(`</?[^>]+>`)

// ConvertVTT parses WebVTT content into plain events. NOTE and STYLE blocks,
// cue identifiers, cue settings, and inline markup are dropped.
func ConvertVTT(content string) ([]Event, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.TrimPrefix(normalized, "\uFEFF")
	if !strings.HasPrefix(strings.TrimLeft(normalized, " \t\n"), "WEBVTT") {
		return nil, fmt.Errorf("vtt convert: missing WEBVTT header")
	}

	var events []Event
	blocks := strings.Split(normalized, "\n\n")
	for _, block := range blocks {
		lines := nonEmptyLines(block)
		if len(lines) == 0 {
			continue
		}
		first := strings.TrimSpace(lines[0])
		if strings.HasPrefix(first, "WEBVTT") || strings.HasPrefix(first, "NOTE") ||
			strings.HasPrefix(first, "STYLE") || strings.HasPrefix(first, "REGION") {
			continue
		}
		// An optional cue identifier precedes the timing line.
		timingIdx := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timingIdx = i
				break
			}
		}
		if timingIdx < 0 || timingIdx > 1 {
			continue
		}
		start, end, ok := parseTimingLine(lines[timingIdx])
		if !ok {
			continue
		}
		body := make([]string, 0, len(lines)-timingIdx-1)
		for _, line := range lines[timingIdx+1:] {
			line = vttTagPattern.ReplaceAllString(line, "")
			if line = strings.TrimSpace(line); line != "" {
				body = append(body, line)
			}
		}
		if len(body) == 0 {
			continue
		}
		events = append(events, Event{Start: start, End: end, Lines: body})
	}
	SortByStart(events)
	return events, nil
}

func nonEmptyLines(block string) []string {
	raw := strings.Split(block, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
