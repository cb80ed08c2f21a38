// Package pgs decodes HDMV Presentation Graphic Stream (.sup) subtitle
// containers into timed bitmap frames. The stream is a sequence of segments
// (presentation composition, window definition, palette, object, end), each
// prefixed with a "PG" magic and a 90 kHz presentation timestamp. Display
// sets with composition objects open a subtitle frame; the following empty
// display set closes it.
//
// The decode is pure: no subprocesses, no network. Structural damage (bad
// magic, truncated segments, dangling palette references) surfaces as
// ErrMalformedContainer-classified errors, while a structurally valid stream
// with zero display sets decodes to an empty frame sequence.
package pgs
