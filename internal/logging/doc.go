// Package logging wires log/slog with a compact console handler for terminal
// use, an optional JSON handler, mirrored file output, and helpers that carry
// run and stage identifiers from context into structured fields.
package logging
