package docpipe

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/talentbase/recruitcore/textclean"
)

// PlainTextAdapter decodes plain-text files. It always succeeds when
// applicable, unless the bytes are clearly not text.
type PlainTextAdapter struct{}

func (a *PlainTextAdapter) Name() string { return "plain_text" }

func (a *PlainTextAdapter) CanHandle(data []byte, mimeType, fileName string) bool {
	if strings.HasPrefix(baseMime(mimeType), "text/") {
		return true
	}
	switch fileExt(fileName) {
	case "txt", "text", "md", "markdown", "rtf", "csv":
		return true
	}
	return false
}

func (a *PlainTextAdapter) Extract(ctx context.Context, data []byte, mimeType, fileName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !utf8.Valid(data) {
		// Lossy decode still beats nothing; replacement runes drag the
		// printable ratio (and thus confidence) down on their own.
		data = []byte(strings.ToValidUTF8(string(data), "�"))
	}

	text := textclean.Clean(string(data))
	if text == "" {
		return Result{}, fmt.Errorf("no text content")
	}

	return Result{
		Text:       text,
		Confidence: textConfidence(text),
	}, nil
}
