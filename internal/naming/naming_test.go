package naming

import (
	"testing"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/tracks"
)

func TestRenderExpandsTokens(t *testing.T) {
	pattern, err := NewPattern("{basename}.{lang}{forced}{cc}.srt")
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}

	track := tracks.Track{Language: "eng", Forced: true, ClosedCap: true}
	got := pattern.Render("/media/Movie (2019).mkv", track)
	if got != "Movie (2019).eng.forced.cc.srt" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderOmitsUnsetFlags(t *testing.T) {
	pattern, err := NewPattern("")
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}

	got := pattern.Render("/media/show.s01e02.mkv", tracks.Track{Language: "fra"})
	if got != "show.s01e02.fra.srt" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderUnknownLanguage(t *testing.T) {
	pattern, _ := NewPattern("")
	got := pattern.Render("/media/clip.mkv", tracks.Track{})
	if got != "clip.und.srt" {
		t.Fatalf("Render = %q", got)
	}
}

func TestNewPatternRequiresBasename(t *testing.T) {
	if _, err := NewPattern("{lang}.srt"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRenderUniqueAppendsTrackID(t *testing.T) {
	pattern, _ := NewPattern("")
	track := tracks.Track{DisplayID: 3, Language: "eng"}

	taken := map[string]bool{"clip.eng.srt": true}
	got := pattern.RenderUnique("/media/clip.mkv", track, func(name string) bool {
		return taken[name]
	})
	if got != "clip.eng.track3.srt" {
		t.Fatalf("RenderUnique = %q", got)
	}

	got = pattern.RenderUnique("/media/clip.mkv", track, func(string) bool { return false })
	if got != "clip.eng.srt" {
		t.Fatalf("RenderUnique without collision = %q", got)
	}
}
