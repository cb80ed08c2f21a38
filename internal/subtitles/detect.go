package subtitles

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Format identifies the textual subtitle dialect of a payload.
type Format int

const (
	FormatUnknown Format = iota
	FormatSRT
	FormatASS
	FormatVTT
)

func (f Format) String() string {
	switch f {
	case FormatSRT:
		return "srt"
	case FormatASS:
		return "ass"
	case FormatVTT:
		return "vtt"
	default:
		return "unknown"
	}
}

// DetectContent sniffs the dialect from file content. ASS is identified by
// its section headers, VTT by its mandatory leading header line, SRT by a
// cue timing line with comma milliseconds.
func DetectContent(content string) Format {
	trimmed := strings.TrimLeft(content, "\uFEFF \t\r\n")

	if strings.HasPrefix(trimmed, "WEBVTT") {
		return FormatVTT
	}
	lowered := strings.ToLower(trimmed)
	if strings.HasPrefix(lowered, "[script info]") ||
		strings.Contains(lowered, "\n[script info]") ||
		strings.Contains(lowered, "\n[v4+ styles]") ||
		strings.Contains(lowered, "\n[events]") {
		return FormatASS
	}
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimRight(line, "\r")
		if IsTimingLine(line) {
			return FormatSRT
		}
	}
	return FormatUnknown
}

// DetectFile sniffs the dialect of a file on disk, reading at most the first
// 64 KiB, which is ample for every header this needs to see.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("open for detection: %w", err)
	}
	defer f.Close()

	buf := make([]byte, 64*1024)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("read for detection: %w", err)
	}
	return DetectContent(string(buf[:n])), nil
}
