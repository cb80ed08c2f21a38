// Package language provides unified language code normalization and mapping.
//
// Container tracks carry ISO 639-1 or 639-2 codes in either spelling
// ("fre"/"fra"), while tesseract selects training data by its own 3-letter
// code. All conversions are consolidated here so the probe, OCR, and naming
// layers agree on one closed table.
package language

import "strings"

type entry struct {
	code2     string // ISO 639-1 (2-letter)
	code3     string // ISO 639-2 primary (3-letter)
	alt3      string // ISO 639-2 alternate (e.g. "fre" vs "fra")
	tesseract string // tesseract training-data code
	display   string // Human-readable name
}

var languages = []entry{
	{"en", "eng", "", "eng", "English"},
	{"es", "spa", "", "spa", "Spanish"},
	{"fr", "fra", "fre", "fra", "French"},
	{"de", "deu", "ger", "deu", "German"},
	{"it", "ita", "", "ita", "Italian"},
	{"pt", "por", "", "por", "Portuguese"},
	{"ja", "jpn", "", "jpn", "Japanese"},
	{"ko", "kor", "", "kor", "Korean"},
	{"zh", "zho", "chi", "chi_sim", "Chinese"},
	{"ru", "rus", "", "rus", "Russian"},
	{"ar", "ara", "", "ara", "Arabic"},
	{"hi", "hin", "", "hin", "Hindi"},
	{"nl", "nld", "dut", "nld", "Dutch"},
	{"pl", "pol", "", "pol", "Polish"},
	{"sv", "swe", "", "swe", "Swedish"},
	{"da", "dan", "", "dan", "Danish"},
	{"no", "nor", "", "nor", "Norwegian"},
	{"fi", "fin", "", "fin", "Finnish"},
	{"cs", "ces", "cze", "ces", "Czech"},
	{"el", "ell", "gre", "ell", "Greek"},
	{"tr", "tur", "", "tur", "Turkish"},
	{"he", "heb", "", "heb", "Hebrew"},
	{"hu", "hun", "", "hun", "Hungarian"},
	{"ro", "ron", "rum", "ron", "Romanian"},
	{"uk", "ukr", "", "ukr", "Ukrainian"},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	return nil
}

// ToISO2 converts any recognized language code to ISO 639-1 (2-letter).
// Unknown 2-letter codes pass through; other unknown input yields "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// ToISO3 converts any recognized language code to ISO 639-2 (3-letter).
// Unknown 3-letter codes pass through; other unknown input yields "und".
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "und"
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if len(code) == 3 {
		return code
	}
	return "und"
}

// TesseractCode maps a language code to the tesseract training-data code.
// Unrecognized 3-letter codes pass through unchanged since tesseract packs
// exist for languages outside this table; anything else falls back to "eng".
func TesseractCode(code string) string {
	if e := lookup(code); e != nil {
		return e.tesseract
	}
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) == 3 {
		return code
	}
	return "eng"
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code when unrecognized.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
