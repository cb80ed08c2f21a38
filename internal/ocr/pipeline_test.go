package ocr

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/pgs"
)

type fakeRecognizer struct {
	texts []string
	calls int
	err   error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls
	f.calls++
	if idx < len(f.texts) {
		return f.texts[idx], nil
	}
	return "", nil
}

func testFrame(startTicks, endTicks uint32, width, height int) pgs.Frame {
	return pgs.Frame{
		Image:      image.NewRGBA(image.Rect(0, 0, width, height)),
		StartTicks: startTicks,
		EndTicks:   endTicks,
	}
}

func TestProcessFramesBuildsOrderedEvents(t *testing.T) {
	rec := &fakeRecognizer{texts: []string{"Hello there", "- General Kenobi\n- You are bold"}}
	p := New(rec)

	frames := []pgs.Frame{
		testFrame(90_000, 180_000, 120, 40),
		testFrame(270_000, 360_000, 120, 40),
	}
	events, stats, err := p.processFrames(context.Background(), frames, "eng")
	if err != nil {
		t.Fatalf("processFrames: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Start != time.Second || events[0].End != 2*time.Second {
		t.Fatalf("first event timing %v-%v", events[0].Start, events[0].End)
	}
	if got := events[0].Text(); got != "Hello there" {
		t.Fatalf("first event text %q", got)
	}
	if len(events[1].Lines) != 2 {
		t.Fatalf("second event lines %v", events[1].Lines)
	}
	if stats.RecognizedFrames != 2 || stats.TotalFrames != 2 {
		t.Fatalf("stats %+v", stats)
	}
}

func TestProcessFramesSkipsEmptyAndDegenerate(t *testing.T) {
	rec := &fakeRecognizer{texts: []string{"", "Visible line"}}
	p := New(rec)

	frames := []pgs.Frame{
		testFrame(0, 90_000, 120, 40),      // recognizer returns empty text
		{StartTicks: 90_000},               // no bitmap at all
		testFrame(180_000, 270_000, 80, 30), // recognized
	}
	events, stats, err := p.processFrames(context.Background(), frames, "eng")
	if err != nil {
		t.Fatalf("processFrames: %v", err)
	}
	if len(events) != 1 || events[0].Text() != "Visible line" {
		t.Fatalf("events %v", events)
	}
	if stats.EmptyFrames != 1 || stats.DegenerateFrames != 1 || stats.RecognizedFrames != 1 {
		t.Fatalf("stats %+v", stats)
	}
	if rec.calls != 2 {
		t.Fatalf("recognizer called %d times, want 2", rec.calls)
	}
}

func TestProcessFramesReleasesImages(t *testing.T) {
	rec := &fakeRecognizer{texts: []string{"one", "two"}}
	p := New(rec)

	frames := []pgs.Frame{
		testFrame(0, 90_000, 120, 40),
		testFrame(90_000, 180_000, 120, 40),
	}
	if _, _, err := p.processFrames(context.Background(), frames, "eng"); err != nil {
		t.Fatalf("processFrames: %v", err)
	}
	for i, frame := range frames {
		if frame.Image != nil {
			t.Fatalf("frame %d image not released", i)
		}
	}
}

func TestProcessFramesReportsProgress(t *testing.T) {
	rec := &fakeRecognizer{texts: []string{"a", "b", "c"}}
	var updates []Progress
	p := New(rec, WithProgress(func(u Progress) { updates = append(updates, u) }))

	frames := []pgs.Frame{
		testFrame(0, 90_000, 120, 40),
		testFrame(90_000, 180_000, 120, 40),
		testFrame(180_000, 270_000, 120, 40),
	}
	if _, _, err := p.processFrames(context.Background(), frames, "eng"); err != nil {
		t.Fatalf("processFrames: %v", err)
	}
	if len(updates) != 3 {
		t.Fatalf("got %d progress updates, want 3", len(updates))
	}
	last := updates[len(updates)-1]
	if last.Processed != 3 || last.Total != 3 || last.Recognized != 3 {
		t.Fatalf("final progress %+v", last)
	}
}

func TestProcessFramesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &fakeRecognizer{texts: []string{"a", "b"}}
	calls := 0
	p := New(rec, WithProgress(func(Progress) {
		calls++
		if calls == 1 {
			cancel()
		}
	}))

	frames := []pgs.Frame{
		testFrame(0, 90_000, 120, 40),
		testFrame(90_000, 180_000, 120, 40),
	}
	_, _, err := p.processFrames(ctx, frames, "eng")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if rec.calls != 1 {
		t.Fatalf("recognizer called %d times after cancellation, want 1", rec.calls)
	}
}

func TestProcessFramesPropagatesRecognizerError(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("binary vanished")}
	p := New(rec)

	frames := []pgs.Frame{testFrame(0, 90_000, 120, 40)}
	if _, _, err := p.processFrames(context.Background(), frames, "eng"); err == nil {
		t.Fatal("expected recognizer error to propagate")
	}
}

func TestRunRejectsUnparseableStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.sup")
	if err := os.WriteFile(path, []byte("not a subtitle stream"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(&fakeRecognizer{})
	if _, _, err := p.Run(context.Background(), path, "eng"); err == nil {
		t.Fatal("expected parse error")
	}
}
