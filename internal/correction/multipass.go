package correction

import (
	"context"
	"fmt"
	"time"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
)

// Mode selects the multi-pass strategy.
type Mode string

const (
	// ModeFast runs a single pass with no convergence check.
	ModeFast Mode = "fast"
	// ModeStandard runs up to three passes and stops early once a pass
	// makes no substitutions.
	ModeStandard Mode = "standard"
	// ModeThorough runs five passes unconditionally.
	ModeThorough Mode = "thorough"
)

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFast, ModeStandard, ModeThorough:
		return Mode(s), nil
	case "":
		return ModeStandard, nil
	default:
		return "", services.Wrap(services.ErrValidation, "correction", "parse_mode",
			fmt.Sprintf("unknown correction mode %q", s), nil)
	}
}

// maxPasses reports the pass ceiling and whether early convergence applies.
func (m Mode) maxPasses() (int, bool) {
	switch m {
	case ModeFast:
		return 1, false
	case ModeThorough:
		return 5, false
	default:
		return 3, true
	}
}

// PassStats records one completed pass.
type PassStats struct {
	Pass          int
	Substitutions int
	Elapsed       time.Duration
}

// RunResult is the outcome of a multi-pass correction run. ByCategory
// aggregates substitution counts across all completed passes.
type RunResult struct {
	Text            string
	Passes          []PassStats
	PassesCompleted int
	Substitutions   int
	ByCategory      map[string]int
	Converged       bool
	Warning         string
}

// Run drives the engine over SRT content for the given mode. Output depends
// only on the input text and the ruleset; pass timings are reported but never
// influence control flow. A panic inside a pass is recovered and the best
// text produced so far is returned with a warning.
func (e *Engine) Run(ctx context.Context, content string, mode Mode) (RunResult, error) {
	passes, converge := mode.maxPasses()
	res := RunResult{Text: content}
	for pass := 1; pass <= passes; pass++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		passRes, err := e.runPass(pass, res.Text)
		if err != nil {
			res.Warning = err.Error()
			return res, nil
		}
		res.Passes = append(res.Passes, passRes.stats)
		res.PassesCompleted = pass
		res.Substitutions += passRes.stats.Substitutions
		res.Text = passRes.text
		for category, count := range passRes.byCategory {
			if res.ByCategory == nil {
				res.ByCategory = make(map[string]int)
			}
			res.ByCategory[category] += count
		}
		if converge && passRes.stats.Substitutions == 0 {
			res.Converged = true
			break
		}
	}
	return res, nil
}

type passResult struct {
	text       string
	stats      PassStats
	byCategory map[string]int
}

func (e *Engine) runPass(pass int, content string) (out passResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("correction pass %d failed: %v", pass, r)
		}
	}()
	start := time.Now()
	applied := e.CorrectSRT(content)
	out = passResult{
		text:       applied.Text,
		byCategory: applied.ByCategory,
		stats: PassStats{
			Pass:          pass,
			Substitutions: applied.Substitutions,
			Elapsed:       time.Since(start),
		},
	}
	return out, nil
}
