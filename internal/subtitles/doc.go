// Package subtitles holds the subtitle event model and the SRT read/write
// path, plus format sniffing and converters that normalize ASS and WebVTT
// payloads into plain SRT. Extraction tools occasionally emit those dialects
// even when an .srt output was requested, so the pipeline treats conversion
// as a required normalization step rather than an error.
package subtitles
