package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrToolNotFound       = errors.New("external tool not found")
	ErrExternalTool       = errors.New("external tool error")
	ErrMalformedContainer = errors.New("malformed subtitle container")
	ErrUnsupportedCodec   = errors.New("unsupported subtitle codec")
	ErrValidation         = errors.New("validation error")
	ErrConfiguration      = errors.New("configuration error")
	ErrTimeout            = errors.New("timeout")
	ErrTransient          = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatalForTrack reports whether an error should abort the current track's
// extraction. Per-frame and cleanup failures never carry these markers.
func IsFatalForTrack(err error) bool {
	switch {
	case errors.Is(err, ErrToolNotFound),
		errors.Is(err, ErrMalformedContainer),
		errors.Is(err, ErrUnsupportedCodec),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrExternalTool):
		return true
	default:
		return false
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
