package subtitles

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:03,500
Hello there.

2
00:00:04,250 --> 00:00:06,000
Two lines
of text.
`

func TestParseRoundTrip(t *testing.T) {
	events, err := Parse(strings.NewReader(sampleSRT))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Start != time.Second {
		t.Fatalf("start = %v", events[0].Start)
	}
	if events[0].End != 3500*time.Millisecond {
		t.Fatalf("end = %v", events[0].End)
	}
	if events[1].Text() != "Two lines\nof text." {
		t.Fatalf("text = %q", events[1].Text())
	}

	var sb strings.Builder
	if err := Write(&sb, events); err != nil {
		t.Fatalf("write: %v", err)
	}
	reparsed, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(reparsed) != len(events) {
		t.Fatalf("round trip lost events: %d != %d", len(reparsed), len(events))
	}
	for i := range events {
		if reparsed[i].Start != events[i].Start || reparsed[i].End != events[i].End {
			t.Fatalf("event %d timing changed", i)
		}
	}
}

func TestParseTimestampVariants(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"00:00:01,000", time.Second},
		{"00:00:01.000", time.Second},
		{"01:02:03,456", time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond},
		{"00:05.500", 5500 * time.Millisecond},
		{"00:00:02,5", 2500 * time.Millisecond},
	}
	for _, tc := range tests {
		got, err := ParseTimestamp(tc.input)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
	if _, err := ParseTimestamp("garbage"); err == nil {
		t.Error("expected error for garbage timestamp")
	}
}

func TestFormatTimestamp(t *testing.T) {
	d := time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond
	if got := FormatTimestamp(d); got != "01:02:03,456" {
		t.Fatalf("FormatTimestamp = %q", got)
	}
	if got := FormatTimestamp(-time.Second); got != "00:00:00,000" {
		t.Fatalf("negative clamps: %q", got)
	}
}

func TestWriteFileOrdersByStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	events := []Event{
		{Start: 10 * time.Second, End: 11 * time.Second, Lines: []string{"second"}},
		{Start: 2 * time.Second, End: 3 * time.Second, Lines: []string{"first"}},
	}
	if err := WriteFile(path, events); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if len(got) != 2 || got[0].Text() != "first" || got[1].Text() != "second" {
		t.Fatalf("events not ordered by start: %+v", got)
	}
}

func TestParseEmptyInput(t *testing.T) {
	events, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestStructuralLinePredicates(t *testing.T) {
	if !IsSequenceLine("42") || IsSequenceLine("42a") || IsSequenceLine("") {
		t.Fatal("sequence line detection wrong")
	}
	if !IsTimingLine("00:00:01,000 --> 00:00:02,000") {
		t.Fatal("timing line not detected")
	}
	if IsTimingLine("I said --> go") {
		t.Fatal("prose misdetected as timing line")
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
