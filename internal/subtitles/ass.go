package subtitles

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConvertASS parses Advanced SubStation Alpha content into plain events.
// Style and positioning information is dropped; override tags are stripped
// from dialogue text. Comment lines and non-dialogue events are ignored.
func ConvertASS(content string) ([]Event, error) {
	var (
		events      []Event
		inEvents    bool
		startField  = -1
		endField    = -1
		textField   = -1
		fieldCount  = 0
		sawDialogue bool
	)

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			inEvents = strings.EqualFold(trimmed, "[events]")
			continue
		}
		if !inEvents || trimmed == "" {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "format":
			fields := strings.Split(value, ",")
			fieldCount = len(fields)
			for i, field := range fields {
				switch strings.ToLower(strings.TrimSpace(field)) {
				case "start":
					startField = i
				case "end":
					endField = i
				case "text":
					textField = i
				}
			}
		case "dialogue":
			sawDialogue = true
			if startField < 0 || endField < 0 || textField < 0 {
				// No Format line seen; assume the standard v4+ layout.
				startField, endField, textField, fieldCount = 1, 2, 9, 10
			}
			parts := strings.SplitN(value, ",", fieldCount)
			if len(parts) <= textField || len(parts) <= startField || len(parts) <= endField {
				continue
			}
			start, err := parseASSTimestamp(parts[startField])
			if err != nil {
				continue
			}
			end, err := parseASSTimestamp(parts[endField])
			if err != nil {
				continue
			}
			text := cleanASSText(parts[textField])
			if text == "" {
				continue
			}
			events = append(events, Event{Start: start, End: end, Lines: strings.Split(text, "\n")})
		}
	}

	if !sawDialogue && len(events) == 0 && !strings.Contains(strings.ToLower(content), "[events]") {
		return nil, fmt.Errorf("ass convert: no [Events] section found")
	}
	SortByStart(events)
	return events, nil
}

// parseASSTimestamp parses H:MM:SS.cc (centisecond) timestamps.
func parseASSTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("ass timestamp %q: expected H:MM:SS.cc", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	secPart, csPart, _ := strings.Cut(parts[2], ".")
	seconds, err := strconv.Atoi(secPart)
	if err != nil {
		return 0, err
	}
	cs := 0
	if csPart != "" {
		for len(csPart) < 2 {
			csPart += "0"
		}
		cs, err = strconv.Atoi(csPart[:2])
		if err != nil {
			return 0, err
		}
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(cs)*10*time.Millisecond, nil
}

// cleanASSText strips override tags and converts ASS line breaks.
func cleanASSText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	depth := 0
	for _, r := range text {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	cleaned = strings.ReplaceAll(cleaned, "\\N", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\\h", " ")
	lines := strings.Split(cleaned, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
