package correction

import "regexp"

// Rule is one ordered pattern substitution. Rules run in slice order and the
// order is load-bearing: malformed-apostrophe repair must land before
// contraction repair, punctuation spacing before character de-confusion, and
// de-confusion before spacing cleanup.
type Rule struct {
	Category    string
	Pattern     *regexp.Regexp
	Replacement string
}

// Rule categories reported in per-pass statistics.
const (
	CategoryApostrophe  = "apostrophe"
	CategoryContraction = "contraction"
	CategoryConfusion   = "char_confusion"
	CategorySpacing     = "spacing"
	CategoryPunctuation = "punctuation"
)

// DefaultRules is the ordered OCR correction ruleset. The set is fixed and
// deterministic so identical input always yields identical output.
var DefaultRules = []Rule{
	// Apostrophe and quote repair comes first; later rules assume ASCII
	// apostrophes.
	{CategoryApostrophe, regexp.MustCompile("[´‘’`]"), "'"},
	{CategoryApostrophe, regexp.MustCompile("[“”]"), "\""},
	{CategoryApostrophe, regexp.MustCompile(",,"), "\""},

	// Contraction repair: OCR splits "didn't" into "didn' t" or "didn 't".
	{CategoryContraction, regexp.MustCompile(`(\w)'\s+(s|t|re|ve|ll|d|m)\b`), "$1'$2"},
	{CategoryContraction, regexp.MustCompile(`(\w)\s+'(s|t|re|ve|ll|d|m)\b`), "$1'$2"},
	{CategoryContraction, regexp.MustCompile(`\bcan 't\b`), "can't"},

	// Punctuation normalization runs before de-confusion: the space inserted
	// after a comma can expose a lone letter the confusion rules must see.
	{CategoryPunctuation, regexp.MustCompile("…"), "..."},
	{CategoryPunctuation, regexp.MustCompile(`\s+([,.!?;:])`), "$1"},
	{CategoryPunctuation, regexp.MustCompile(`([,;:])([A-Za-z])`), "$1 $2"},

	// Character confusion: pipe read as lowercase l, lone lowercase l as I,
	// zero inside capital runs as O. The lone-l boundaries are zero-width so
	// adjacent occurrences all match in one application; an isolated pipe
	// becomes l here and I on the next rule.
	{CategoryConfusion, regexp.MustCompile(`\|`), "l"},
	{CategoryConfusion, regexp.MustCompile(`\bl\b`), "I"},
	{CategoryConfusion, regexp.MustCompile(`(^|[\s"'(])l([bcdfghjkmnpqrstvwxz])`), "${1}I${2}"},
	{CategoryConfusion, regexp.MustCompile(`([A-Z])0`), "${1}O"},
	{CategoryConfusion, regexp.MustCompile(`0([A-Z])`), "O${1}"},

	// Spacing cleanup runs last so earlier repairs cannot reintroduce runs.
	{CategorySpacing, regexp.MustCompile(`[ \t]{2,}`), " "},
	{CategorySpacing, regexp.MustCompile(`[ \t]+$`), ""},
	{CategorySpacing, regexp.MustCompile(`^[ \t]+`), ""},
}
