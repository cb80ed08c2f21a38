package tracks

import (
	"testing"
	"time"
)

func TestClassifyCodec(t *testing.T) {
	tests := []struct {
		tag  string
		want CodecFamily
	}{
		{"S_TEXT/UTF8", FamilyTextSrt},
		{"SubRip/SRT", FamilyTextSrt},
		{"S_TEXT/ASS", FamilyTextAss},
		{"S_TEXT/SSA", FamilyTextAss},
		{"S_TEXT/WEBVTT", FamilyTextWebVtt},
		{"S_TEXT/USF", FamilyTextGeneric},
		{"S_HDMV/PGS", FamilyImagePgs},
		{"HDMV PGS", FamilyImagePgs},
		{"S_VOBSUB", FamilyImageVobSub},
		{"S_DVBSUB", FamilyImageDvb},
		{"", FamilyUnknown},
		{"A_AC3", FamilyUnknown},
	}
	for _, tc := range tests {
		if got := ClassifyCodec(tc.tag); got != tc.want {
			t.Errorf("ClassifyCodec(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}

func TestIsText(t *testing.T) {
	for _, family := range []CodecFamily{FamilyTextSrt, FamilyTextAss, FamilyTextWebVtt, FamilyTextGeneric} {
		if !family.IsText() {
			t.Errorf("%v should be text", family)
		}
	}
	for _, family := range []CodecFamily{FamilyImagePgs, FamilyImageVobSub, FamilyImageDvb, FamilyUnknown} {
		if family.IsText() {
			t.Errorf("%v should not be text", family)
		}
	}
}

// The threshold values below are policy choices, not structural requirements;
// the assertions exercise behavior relative to the configured thresholds.
func TestHeuristicClassifier(t *testing.T) {
	classifier := HeuristicClassifier{
		MaxForcedBitRate:         1000,
		MaxForcedFramesPerMinute: 2,
	}

	tests := []struct {
		name  string
		track Track
		want  Kind
	}{
		{"container flag wins", Track{Forced: true, BitRate: 50000}, KindForced},
		{"low bitrate", Track{BitRate: 800}, KindForced},
		{"high bitrate", Track{BitRate: 40000}, KindFull},
		{"sparse frames", Track{FrameCount: 30, Duration: 90 * time.Minute}, KindForced},
		{"dense frames", Track{FrameCount: 900, Duration: 90 * time.Minute}, KindFull},
		{"no hints", Track{}, KindFull},
	}
	for _, tc := range tests {
		if got := classifier.Classify(tc.track); got != tc.want {
			t.Errorf("%s: Classify = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDefaultClassifierDisabledChecks(t *testing.T) {
	classifier := HeuristicClassifier{}
	if got := classifier.Classify(Track{BitRate: 1}); got != KindFull {
		t.Fatalf("disabled thresholds should never classify forced, got %v", got)
	}
}
