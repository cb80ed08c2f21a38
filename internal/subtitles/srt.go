package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FormatTimestamp renders a duration in SRT form: HH:MM:SS,mmm.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	seconds := ms / 1000
	ms -= seconds * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}

// ParseTimestamp accepts SRT timestamps with comma or period millisecond
// separators.
func ParseTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	main, msPart, _ := strings.Cut(value, ",")
	parts := strings.Split(main, ":")
	// WebVTT permits MM:SS timestamps; SRT always carries hours.
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}
	if len(parts) != 3 {
		return 0, fmt.Errorf("timestamp %q: expected HH:MM:SS", value)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: hours: %w", value, err)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: minutes: %w", value, err)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: seconds: %w", value, err)
	}
	ms := 0
	if msPart = strings.TrimSpace(msPart); msPart != "" {
		// Tolerate fewer than three digits.
		for len(msPart) < 3 {
			msPart += "0"
		}
		ms, err = strconv.Atoi(msPart[:3])
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: milliseconds: %w", value, err)
		}
	}
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(ms)*time.Millisecond
	return total, nil
}

// Parse reads SRT content into events. Cue indexes are discarded; ordering
// follows file order. Malformed blocks are skipped rather than failing the
// whole file, matching how downstream players treat stray content.
func Parse(r io.Reader) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var events []Event
	var block []string
	flush := func() {
		if len(block) == 0 {
			return
		}
		if event, ok := parseBlock(block); ok {
			events = append(events, event)
		}
		block = block[:0]
	}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	flush()
	return events, nil
}

// ParseFile reads an SRT file into events.
func ParseFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open srt: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseBlock(lines []string) (Event, bool) {
	// Optional leading sequence number.
	idx := 0
	if isSequenceLine(lines[idx]) {
		idx++
	}
	if idx >= len(lines) {
		return Event{}, false
	}
	start, end, ok := parseTimingLine(lines[idx])
	if !ok {
		return Event{}, false
	}
	idx++
	body := append([]string(nil), lines[idx:]...)
	return Event{Start: start, End: end, Lines: body}, true
}

func parseTimingLine(line string) (time.Duration, time.Duration, bool) {
	left, right, found := strings.Cut(line, "-->")
	if !found {
		return 0, 0, false
	}
	start, err := ParseTimestamp(left)
	if err != nil {
		return 0, 0, false
	}
	// VTT-style cue settings after the end timestamp are ignored.
	rightFields := strings.Fields(strings.TrimSpace(right))
	if len(rightFields) == 0 {
		return 0, 0, false
	}
	end, err := ParseTimestamp(rightFields[0])
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

func isSequenceLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsTimingLine reports whether a line is an SRT time-range line. Correction
// passes use this to avoid touching structural lines.
func IsTimingLine(line string) bool {
	_, _, ok := parseTimingLine(line)
	return ok
}

// IsSequenceLine reports whether a line is a bare cue index.
func IsSequenceLine(line string) bool {
	return isSequenceLine(line)
}

// Write renders events as SRT, numbering cues from 1 in slice order. Callers
// are expected to have sorted events by start time first.
func Write(w io.Writer, events []Event) error {
	bw := bufio.NewWriter(w)
	for i, event := range events {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n", i+1, FormatTimestamp(event.Start), FormatTimestamp(event.End)); err != nil {
			return err
		}
		for _, line := range event.Lines {
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteFile sorts events by start time and writes them to path atomically:
// content lands in a temp file first so an interrupted write never leaves a
// half-formed subtitle file at the destination.
func WriteFile(path string, events []Event) error {
	ordered := append([]Event(nil), events...)
	SortByStart(ordered)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".srt-*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	if err := Write(tmp, ordered); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write srt: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize srt: %w", err)
	}
	return nil
}
