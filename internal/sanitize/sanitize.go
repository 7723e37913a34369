// Package sanitize cleans untrusted text before it is stored or rendered.
//
// Task descriptions arrive from the terminal form, HTTP bodies and MCP tool
// arguments, and are later drawn on a terminal. Terminal escape sequences and
// control characters are removed so a description cannot move the cursor,
// recolor the screen or break the card and scatter layouts.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

// escapeSequence matches ANSI CSI and OSC sequences, plus two-byte ESC codes.
var escapeSequence = regexp.MustCompile(`\x1b(?:\[[0-9;?]*[ -/]*[@-~]|\][^\x07\x1b]*(?:\x07|\x1b\\)|[@-Z\\-_])`)

// Text returns s with escape sequences and control characters removed.
//
// Rules applied:
//   - ANSI escape sequences are dropped
//   - Tabs, newlines and other whitespace become a single space
//   - Remaining control and format characters are dropped
//   - Leading/trailing whitespace is trimmed
//
// Examples:
//
//	"Write\treport\n"           -> "Write report"
//	"\x1b[31mred\x1b[0m alert" -> "red alert"
//	"\x00\x07"                  -> ""
func Text(s string) string {
	if s == "" {
		return ""
	}

	s = escapeSequence.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsControl(r), unicode.In(r, unicode.Cf), r == unicode.ReplacementChar:
			// dropped
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
