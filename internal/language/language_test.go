package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"eng", "en"},
		{"fra", "fr"},
		{"fre", "fr"},
		{"ger", "de"},
		{"chi", "zh"},
		{"", ""},
		{"xx", "xx"},
		{"xyz", ""},
	}
	for _, tc := range tests {
		if got := ToISO2(tc.input); got != tc.expected {
			t.Errorf("ToISO2(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestToISO3(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "eng"},
		{"fre", "fra"},
		{"de", "deu"},
		{"", "und"},
		{"qqq", "qqq"},
		{"q", "und"},
	}
	for _, tc := range tests {
		if got := ToISO3(tc.input); got != tc.expected {
			t.Errorf("ToISO3(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestTesseractCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "eng"},
		{"eng", "eng"},
		{"zh", "chi_sim"},
		{"chi", "chi_sim"},
		{"fre", "fra"},
		{"vie", "vie"},
		{"", "eng"},
		{"x", "eng"},
	}
	for _, tc := range tests {
		if got := TesseractCode(tc.input); got != tc.expected {
			t.Errorf("TesseractCode(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("eng"); got != "English" {
		t.Fatalf("DisplayName(eng) = %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Fatalf("DisplayName('') = %q", got)
	}
	if got := DisplayName("tlh"); got != "TLH" {
		t.Fatalf("DisplayName(tlh) = %q", got)
	}
}
