package docpipe

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/talentbase/recruitcore/textclean"
)

// maxXMLDepth guards against XML bombs (billion laughs style nesting) in
// attacker-supplied archives.
const maxXMLDepth = 256

const (
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeODT  = "application/vnd.oasis.opendocument.text"
)

// WordProcessorAdapter extracts text from word-processor XML-zip formats:
// .docx (word/document.xml) and .odt (content.xml).
type WordProcessorAdapter struct{}

func (a *WordProcessorAdapter) Name() string { return "word_processor" }

func (a *WordProcessorAdapter) CanHandle(data []byte, mimeType, fileName string) bool {
	switch baseMime(mimeType) {
	case mimeDocx, mimeODT:
		return true
	}
	switch fileExt(fileName) {
	case "docx", "odt":
		return true
	}
	return false
}

func (a *WordProcessorAdapter) Extract(ctx context.Context, data []byte, mimeType, fileName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open zip: %w", err)
	}

	// docx and odt differ only in the document entry name.
	entry, kind := findDocumentEntry(zr)
	if entry == nil {
		return Result{}, fmt.Errorf("no word-processor document entry in archive")
	}

	rc, err := entry.Open()
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", entry.Name, err)
	}
	defer rc.Close()

	paragraphs, err := collectParagraphs(xml.NewDecoder(rc))
	if err != nil {
		return Result{}, err
	}
	if len(paragraphs) == 0 {
		return Result{}, fmt.Errorf("no text content in document")
	}

	text := textclean.Clean(strings.Join(paragraphs, "\n"))

	return Result{
		Text:       text,
		Confidence: textConfidence(text),
		Metadata: map[string]string{
			"format":     kind,
			"paragraphs": fmt.Sprintf("%d", len(paragraphs)),
		},
	}, nil
}

func findDocumentEntry(zr *zip.Reader) (*zip.File, string) {
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return f, "docx"
		}
	}
	for _, f := range zr.File {
		if f.Name == "content.xml" {
			return f, "odt"
		}
	}
	return nil, ""
}

// collectParagraphs walks the document XML token stream and gathers the text
// of each paragraph or heading element. Works for both WordprocessingML
// (<w:p>) and OpenDocument (<text:p>, <text:h>): the local element name is
// "p" or "h" in both vocabularies.
func collectParagraphs(decoder *xml.Decoder) ([]string, error) {
	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	depth := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return nil, fmt.Errorf("xml nesting depth exceeds %d", maxXMLDepth)
			}
			if t.Name.Local == "p" || t.Name.Local == "h" {
				inParagraph = true
				current.Reset()
			}

		case xml.CharData:
			if inParagraph {
				current.Write(t)
			}

		case xml.EndElement:
			depth--
			if (t.Name.Local == "p" || t.Name.Local == "h") && inParagraph {
				inParagraph = false
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
			}
		}
	}
	return paragraphs, nil
}
