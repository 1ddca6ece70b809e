package scan

import (
	"runtime"
	"strings"

	apperrors "licensetree/pkg/errors"
)

// LineEnding selects the newline style license text is normalized to.
type LineEnding string

const (
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
	LineEndingCR   LineEnding = "cr"
)

// DefaultLineEnding returns the host OS convention.
func DefaultLineEnding() LineEnding {
	if runtime.GOOS == "windows" {
		return LineEndingCRLF
	}
	return LineEndingLF
}

// ParseLineEnding validates a user-supplied style name.
func ParseLineEnding(s string) (LineEnding, error) {
	switch LineEnding(s) {
	case LineEndingLF, LineEndingCRLF, LineEndingCR:
		return LineEnding(s), nil
	case "":
		return DefaultLineEnding(), nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidLineEnding, "unknown line ending style: %q (want lf, crlf, or cr)", s)
}

// Sequence returns the newline byte sequence for the style.
func (e LineEnding) Sequence() string {
	switch e {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Normalize rewrites all newline sequences in s to the style.
func (e LineEnding) Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if seq := e.Sequence(); seq != "\n" {
		s = strings.ReplaceAll(s, "\n", seq)
	}
	return s
}
