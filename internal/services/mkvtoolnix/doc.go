// Package mkvtoolnix shells out to mkvmerge and mkvextract for container
// probing and track extraction. Extraction timeouts scale with container
// size under a hard ceiling, and success requires both a zero exit code and
// the output file existing on disk.
package mkvtoolnix
