package subtitles

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{"srt", sampleSRT, FormatSRT},
		{"ass", "[Script Info]\nTitle: x\n\n[Events]\n", FormatASS},
		{"ass lowercase", "[script info]\n", FormatASS},
		{"vtt", "WEBVTT\n\n00:01.000 --> 00:04.000\nHi\n", FormatVTT},
		{"vtt with bom", "\uFEFFWEBVTT\n", FormatVTT},
		{"empty", "", FormatUnknown},
		{"prose", "just some text\nwithout structure\n", FormatUnknown},
	}
	for _, tc := range tests {
		if got := DetectContent(tc.content); got != tc.want {
			t.Errorf("%s: DetectContent = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub.srt")
	if err := os.WriteFile(path, []byte(sampleSRT), 0o644); err != nil {
		t.Fatal(err)
	}
	format, err := DetectFile(path)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if format != FormatSRT {
		t.Fatalf("format = %v", format)
	}

	empty := filepath.Join(dir, "empty.srt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	format, err = DetectFile(empty)
	if err != nil {
		t.Fatalf("detect empty: %v", err)
	}
	if format != FormatUnknown {
		t.Fatalf("empty format = %v", format)
	}
}
