package correction

import (
	"strings"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/subtitles"
)

// Engine applies an ordered ruleset to subtitle text. An Engine holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine over the given ruleset. A nil or empty ruleset
// falls back to DefaultRules.
func NewEngine(rules []Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Engine{rules: rules}
}

// Result reports the outcome of a single correction pass.
type Result struct {
	Text          string
	Substitutions int
	ByCategory    map[string]int
}

// ruleFixpointLimit bounds how often one rule reapplies to a single line.
// Every default rule either removes its own match or shortens the line, so
// the bound exists only to keep a pathological custom rule from spinning.
const ruleFixpointLimit = 16

// Apply runs every rule in order over one line of dialogue text and reports
// how many substitutions actually changed the line. A replacement can expose
// a fresh match the left-to-right scan already passed (a capital produced
// from a zero, a delimiter shared by adjacent tokens), so each rule runs to
// a fixpoint before the next one starts.
func (e *Engine) Apply(line string) (string, int, map[string]int) {
	byCategory := make(map[string]int)
	total := 0
	for _, rule := range e.rules {
		for i := 0; i < ruleFixpointLimit; i++ {
			matches := rule.Pattern.FindAllStringIndex(line, -1)
			if len(matches) == 0 {
				break
			}
			replaced := rule.Pattern.ReplaceAllString(line, rule.Replacement)
			if replaced == line {
				break
			}
			line = replaced
			total += len(matches)
			byCategory[rule.Category] += len(matches)
		}
	}
	return line, total, byCategory
}

// CorrectSRT applies the ruleset to the dialogue lines of SRT content.
// Sequence numbers and timing lines pass through untouched so correction can
// never corrupt cue structure.
func (e *Engine) CorrectSRT(content string) Result {
	lines := strings.Split(content, "\n")
	res := Result{ByCategory: make(map[string]int)}
	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if subtitles.IsSequenceLine(trimmed) || subtitles.IsTimingLine(trimmed) {
			continue
		}
		corrected, n, byCat := e.Apply(trimmed)
		if n == 0 {
			continue
		}
		lines[i] = corrected
		res.Substitutions += n
		for cat, c := range byCat {
			res.ByCategory[cat] += c
		}
	}
	res.Text = strings.Join(lines, "\n")
	return res
}
