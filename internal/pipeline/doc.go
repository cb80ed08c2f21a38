// Package pipeline coordinates subtitle extraction end to end: codec-family
// dispatch, text-dialect normalization, image-track recognition, correction,
// and intermediate-artifact cleanup. Progress is surfaced through a
// caller-supplied event sink rather than any presentation concern.
package pipeline
