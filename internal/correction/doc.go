// Package correction repairs recurring OCR recognition errors in subtitle
// text. A fixed, ordered ruleset is applied in one or more passes depending
// on the configured mode; cue sequence numbers and timing lines are never
// touched.
package correction
