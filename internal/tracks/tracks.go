// Package tracks defines the subtitle track descriptor produced by container
// probing and the closed codec family classification that drives pipeline
// dispatch. Classification happens exactly once, at probe time; nothing
// downstream re-inspects raw codec tags.
package tracks

import (
	"strings"
	"time"
)

// CodecFamily is the closed classification of subtitle codecs.
type CodecFamily int

const (
	FamilyUnknown CodecFamily = iota
	FamilyTextSrt
	FamilyTextAss
	FamilyTextWebVtt
	FamilyTextGeneric
	FamilyImagePgs
	FamilyImageVobSub
	FamilyImageDvb
)

func (f CodecFamily) String() string {
	switch f {
	case FamilyTextSrt:
		return "text/srt"
	case FamilyTextAss:
		return "text/ass"
	case FamilyTextWebVtt:
		return "text/webvtt"
	case FamilyTextGeneric:
		return "text/generic"
	case FamilyImagePgs:
		return "image/pgs"
	case FamilyImageVobSub:
		return "image/vobsub"
	case FamilyImageDvb:
		return "image/dvb"
	default:
		return "unknown"
	}
}

// IsText reports whether the family extracts through the direct text path.
func (f CodecFamily) IsText() bool {
	switch f {
	case FamilyTextSrt, FamilyTextAss, FamilyTextWebVtt, FamilyTextGeneric:
		return true
	default:
		return false
	}
}

// Track describes one candidate subtitle stream from a container probe.
// DisplayID is the container-reported track number shown to users;
// ExtractID is the identifier extraction commands require. The two may
// differ and both travel through the pipeline. Immutable once probed.
type Track struct {
	DisplayID int
	ExtractID int
	CodecTag  string
	Family    CodecFamily
	Language  string
	Forced    bool
	ClosedCap bool
	Name      string

	// Quality hints used only by heuristic classification.
	BitRate    int64
	FrameCount int64
	Duration   time.Duration
}

// ClassifyCodec maps a raw container codec tag onto a codec family. Matching
// follows Matroska codec IDs with tolerance for the spellings other tools
// emit.
func ClassifyCodec(tag string) CodecFamily {
	normalized := strings.ToUpper(strings.TrimSpace(tag))
	switch {
	case normalized == "":
		return FamilyUnknown
	case strings.Contains(normalized, "S_TEXT/UTF8"), strings.Contains(normalized, "SUBRIP"), strings.Contains(normalized, "SRT"):
		return FamilyTextSrt
	case strings.Contains(normalized, "S_TEXT/ASS"), strings.Contains(normalized, "S_TEXT/SSA"), strings.Contains(normalized, "SUBSTATION"):
		return FamilyTextAss
	case strings.Contains(normalized, "WEBVTT"):
		return FamilyTextWebVtt
	case strings.HasPrefix(normalized, "S_TEXT"):
		return FamilyTextGeneric
	case strings.Contains(normalized, "PGS"), strings.Contains(normalized, "S_HDMV/PGS"):
		return FamilyImagePgs
	case strings.Contains(normalized, "VOBSUB"), strings.Contains(normalized, "S_VOBSUB"):
		return FamilyImageVobSub
	case strings.Contains(normalized, "DVBSUB"), strings.Contains(normalized, "S_DVBSUB"):
		return FamilyImageDvb
	default:
		return FamilyUnknown
	}
}
