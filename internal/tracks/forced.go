package tracks

import "time"

// Kind is the outcome of forced/full heuristic classification.
type Kind int

const (
	KindFull Kind = iota
	KindForced
)

func (k Kind) String() string {
	if k == KindForced {
		return "forced"
	}
	return "full"
}

// Classifier decides whether a track is a forced (partial) track or a full
// dialogue track. The thresholds involved are empirical policy, so the
// classifier is injectable rather than baked into the coordinator.
type Classifier interface {
	Classify(track Track) Kind
}

// HeuristicClassifier flags tracks as forced when the container says so, or
// when quality hints indicate sparse content relative to the thresholds.
type HeuristicClassifier struct {
	// MaxForcedBitRate marks tracks at or below this bitrate as forced
	// candidates. Zero disables the bitrate check.
	MaxForcedBitRate int64
	// MaxForcedFramesPerMinute marks tracks whose frame density falls at or
	// below this rate as forced candidates. Zero disables the check.
	MaxForcedFramesPerMinute float64
}

// DefaultClassifier carries empirically chosen thresholds. The exact values
// are policy, not format requirements.
func DefaultClassifier() HeuristicClassifier {
	return HeuristicClassifier{
		MaxForcedBitRate:         1800,
		MaxForcedFramesPerMinute: 1.5,
	}
}

func (c HeuristicClassifier) Classify(track Track) Kind {
	if track.Forced {
		return KindForced
	}
	if c.MaxForcedBitRate > 0 && track.BitRate > 0 && track.BitRate <= c.MaxForcedBitRate {
		return KindForced
	}
	if c.MaxForcedFramesPerMinute > 0 && track.FrameCount > 0 && track.Duration > time.Minute {
		perMinute := float64(track.FrameCount) / track.Duration.Minutes()
		if perMinute <= c.MaxForcedFramesPerMinute {
			return KindForced
		}
	}
	return KindFull
}
