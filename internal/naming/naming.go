// Package naming renders output subtitle filenames from a configurable
// pattern. Patterns use {basename}, {lang}, {forced}, and {cc} tokens; flag
// tokens expand to ".forced" and ".cc" when set and to nothing otherwise.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/tracks"
)

// DefaultPattern matches the common player convention of
// movie.eng.forced.srt alongside the container.
const DefaultPattern = "{basename}.{lang}{forced}{cc}.srt"

// Pattern is a validated filename template.
type Pattern struct {
	raw string
}

// NewPattern validates and returns a pattern. The template must contain the
// {basename} token so distinct containers can never collide.
func NewPattern(raw string) (Pattern, error) {
	if raw == "" {
		raw = DefaultPattern
	}
	if !strings.Contains(raw, "{basename}") {
		return Pattern{}, services.Wrap(services.ErrValidation, "naming", "new_pattern",
			fmt.Sprintf("pattern %q must contain {basename}", raw), nil)
	}
	return Pattern{raw: raw}, nil
}

// String returns the raw template.
func (p Pattern) String() string {
	if p.raw == "" {
		return DefaultPattern
	}
	return p.raw
}

// Render expands the pattern for one container and track. The result is a
// bare filename; callers join it to the output directory.
func (p Pattern) Render(containerPath string, track tracks.Track) string {
	base := strings.TrimSuffix(filepath.Base(containerPath), filepath.Ext(containerPath))
	lang := track.Language
	if lang == "" {
		lang = "und"
	}
	forced := ""
	if track.Forced {
		forced = ".forced"
	}
	cc := ""
	if track.ClosedCap {
		cc = ".cc"
	}
	out := p.String()
	out = strings.ReplaceAll(out, "{basename}", base)
	out = strings.ReplaceAll(out, "{lang}", lang)
	out = strings.ReplaceAll(out, "{forced}", forced)
	out = strings.ReplaceAll(out, "{cc}", cc)
	return out
}

// RenderUnique renders the pattern and, when the plain name is already taken
// according to exists, appends the track's display id before the extension.
func (p Pattern) RenderUnique(containerPath string, track tracks.Track, exists func(string) bool) string {
	name := p.Render(containerPath, track)
	if exists == nil || !exists(name) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s.track%d%s", stem, track.DisplayID, ext)
}
