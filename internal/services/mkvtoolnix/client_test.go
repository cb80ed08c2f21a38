package mkvtoolnix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/tracks"
)

const sampleIdentification = `{
  "container": {"type": "Matroska"},
  "tracks": [
    {"id": 0, "type": "video", "codec": "HEVC", "properties": {"number": 1, "codec_id": "V_MPEGH/ISO/HEVC"}},
    {"id": 1, "type": "audio", "codec": "AC-3", "properties": {"number": 2, "codec_id": "A_AC3"}},
    {
      "id": 2, "type": "subtitles", "codec": "SubRip/SRT",
      "properties": {
        "number": 3, "codec_id": "S_TEXT/UTF8", "language": "eng",
        "track_name": "English (SDH)", "forced_track": false,
        "tag_bps": "213", "tag_number_of_frames": "1450",
        "tag_duration": "01:30:00.000000000"
      }
    },
    {
      "id": 3, "type": "subtitles", "codec": "HDMV PGS",
      "properties": {
        "number": 4, "codec_id": "S_HDMV/PGS", "language": "fre",
        "forced_track": true
      }
    }
  ]
}`

type fakeExecutor struct {
	result   services.Result
	err      error
	lastCmd  services.Command
	onInvoke func(cmd services.Command)
}

func (f *fakeExecutor) Run(_ context.Context, cmd services.Command) (services.Result, error) {
	f.lastCmd = cmd
	if f.onInvoke != nil {
		f.onInvoke(cmd)
	}
	return f.result, f.err
}

func TestProbeParsesSubtitleTracks(t *testing.T) {
	exec := &fakeExecutor{result: services.Result{Stdout: []byte(sampleIdentification)}}
	client, err := New("mkvmerge", "mkvextract", WithExecutor(exec))
	if err != nil {
		t.Fatal(err)
	}

	probed, err := client.Probe(context.Background(), "/media/movie.mkv")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if len(probed) != 2 {
		t.Fatalf("expected 2 subtitle tracks, got %d", len(probed))
	}

	srt := probed[0]
	if srt.DisplayID != 3 || srt.ExtractID != 2 {
		t.Fatalf("ids: display=%d extract=%d", srt.DisplayID, srt.ExtractID)
	}
	if srt.Family != tracks.FamilyTextSrt {
		t.Fatalf("family = %v", srt.Family)
	}
	if srt.Language != "eng" {
		t.Fatalf("language = %q", srt.Language)
	}
	if !srt.ClosedCap {
		t.Fatal("SDH name should flag closed captions")
	}
	if srt.BitRate != 213 || srt.FrameCount != 1450 {
		t.Fatalf("hints: bps=%d frames=%d", srt.BitRate, srt.FrameCount)
	}
	if srt.Duration != 90*time.Minute {
		t.Fatalf("duration = %v", srt.Duration)
	}

	pgs := probed[1]
	if pgs.Family != tracks.FamilyImagePgs || !pgs.Forced {
		t.Fatalf("pgs track: %+v", pgs)
	}
	if pgs.Language != "fra" {
		t.Fatalf("fre should normalize to fra, got %q", pgs.Language)
	}
}

func TestProbeNonZeroExit(t *testing.T) {
	exec := &fakeExecutor{result: services.Result{ExitCode: 2, Stderr: []byte("unsupported file")}}
	client, err := New("mkvmerge", "mkvextract", WithExecutor(exec))
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Probe(context.Background(), "/media/bad.mkv")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestExtractTrackSuccessRequiresOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sub.srt")

	exec := &fakeExecutor{}
	client, err := New("mkvmerge", "mkvextract", WithExecutor(exec))
	if err != nil {
		t.Fatal(err)
	}

	// Zero exit but no output file: must fail.
	err = client.ExtractTrack(context.Background(), "/media/movie.mkv", 2, out)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected failure without output file, got %v", err)
	}

	// Zero exit and output present: success.
	exec.onInvoke = func(cmd services.Command) {
		_ = os.WriteFile(out, []byte("1\n00:00:01,000 --> 00:00:02,000\nHi\n"), 0o644)
	}
	if err := client.ExtractTrack(context.Background(), "/media/movie.mkv", 2, out); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got := exec.lastCmd.Args[2]; got != "2:"+out {
		t.Fatalf("selector = %q", got)
	}
}

func TestExtractTrackTimeoutScalesWithSize(t *testing.T) {
	policy := TimeoutPolicy{Base: time.Minute, PerGiB: time.Minute, Max: 10 * time.Minute}

	if got := policy.Compute(0); got != time.Minute {
		t.Fatalf("zero size timeout = %v", got)
	}
	if got := policy.Compute(2 << 30); got != 3*time.Minute {
		t.Fatalf("2GiB timeout = %v", got)
	}
	if got := policy.Compute(1 << 40); got != 10*time.Minute {
		t.Fatalf("ceiling not applied: %v", got)
	}
}

func TestClassifyRunError(t *testing.T) {
	if err := classifyRunError(services.Wrap(services.ErrTimeout, "x", "y", "", nil), "extract", "mkvextract"); !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("timeout classification: %v", err)
	}
	if err := classifyRunError(context.Canceled, "extract", "mkvextract"); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancellation should pass through: %v", err)
	}
}
