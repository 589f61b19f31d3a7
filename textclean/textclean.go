// Package textclean normalizes raw text produced by document extraction.
//
// Every extraction adapter runs its output through Clean before scoring, so
// confidence values computed from text length stay comparable across adapters.
package textclean

import (
	"strings"
	"unicode"
)

// Clean normalizes extracted text: strips non-printable control characters
// (newline and tab survive), converts CRLF/CR to LF, collapses runs of spaces
// and tabs to a single space, collapses three or more consecutive newlines to
// two, and trims both ends. Total function: always returns a string, and
// Clean(Clean(x)) == Clean(x).
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	// Line endings first so control stripping sees only \n.
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var sb strings.Builder
	sb.Grow(len(raw))

	// spaceRun/newlineRun track pending whitespace so runs collapse without
	// a second pass over the string.
	spaceRun := false
	newlines := 0
	wrote := false

	flushWhitespace := func() {
		if newlines > 0 {
			if wrote {
				if newlines > 2 {
					newlines = 2
				}
				for i := 0; i < newlines; i++ {
					sb.WriteByte('\n')
				}
			}
			newlines = 0
			spaceRun = false
			return
		}
		if spaceRun && wrote {
			sb.WriteByte(' ')
		}
		spaceRun = false
	}

	for _, r := range raw {
		switch {
		case r == '\n':
			// A newline absorbs any pending space run.
			newlines++
			spaceRun = false
		case r == ' ' || r == '\t' || unicode.IsSpace(r):
			if newlines == 0 {
				spaceRun = true
			}
		case r < 0x20 || r == 0x7f:
			// Remaining control characters are dropped outright.
		default:
			flushWhitespace()
			sb.WriteRune(r)
			wrote = true
		}
	}
	// Trailing whitespace is discarded (trim).

	return sb.String()
}
