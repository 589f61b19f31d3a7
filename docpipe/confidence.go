package docpipe

import (
	"strings"
	"unicode"
)

// confidenceSpan is the cleaned-text length at which length-derived
// confidence saturates at 1.0.
const confidenceSpan = 4000

// textConfidence scores extracted text in [0,1]: a saturating function of
// length, shrunk by the ratio of printable characters so long-but-garbled
// output does not outrank shorter clean text. Adapters may further shape the
// value with their own signals (page counts, OCR noise).
func textConfidence(text string) float64 {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	c := float64(n) / confidenceSpan
	if c > 1 {
		c = 1
	}
	return c * printableRatio(text)
}

// printableRatio returns the ratio of printable characters in text.
// Excludes PUA U+E000-U+F8FF, control chars < U+0020 (except \n\r\t), U+FFFD.
func printableRatio(text string) float64 {
	if len(text) == 0 {
		return 1.0
	}
	total := 0
	printable := 0
	for _, r := range text {
		total++
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(printable) / float64(total)
}

func isGarbageRune(r rune) bool {
	// Private Use Area
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	// Replacement character
	if r == 0xFFFD {
		return true
	}
	// Control chars except whitespace
	if r < 0x0020 && r != '\n' && r != '\r' && r != '\t' {
		return true
	}
	return false
}

// wordlikeRatio returns the ratio of word-like tokens (length 2-15) to total
// tokens. OCR output dense with single characters or glyph soup scores low.
func wordlikeRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	wordlike := 0
	for _, f := range fields {
		n := len([]rune(f))
		if n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float64(wordlike) / float64(len(fields))
}
