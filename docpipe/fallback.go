package docpipe

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/talentbase/recruitcore/textclean"
)

// fallbackPenalty discounts fallback results so a format-specific adapter
// with comparable output always wins the tie.
const fallbackPenalty = 0.8

// UniversalFallbackAdapter is the last resort: applicable to any file. HTML
// content goes through sanitize-and-convert; zip archives get their XML char
// data scavenged; anything else is salvaged as printable byte runs.
type UniversalFallbackAdapter struct{}

func (a *UniversalFallbackAdapter) Name() string { return "universal_fallback" }

func (a *UniversalFallbackAdapter) CanHandle(data []byte, mimeType, fileName string) bool {
	return true
}

func (a *UniversalFallbackAdapter) Extract(ctx context.Context, data []byte, mimeType, fileName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var text, branch string
	switch {
	case looksLikeHTML(data, mimeType, fileName):
		text, branch = htmlToText(data), "html"
	case hasZipMagic(data):
		text, branch = zipToText(data), "zip"
	default:
		text, branch = salvagePrintable(data), "binary"
	}

	text = textclean.Clean(text)
	if text == "" {
		return Result{}, fmt.Errorf("no salvageable text (%s branch)", branch)
	}

	return Result{
		Text:       text,
		Confidence: textConfidence(text) * fallbackPenalty,
		Metadata:   map[string]string{"branch": branch},
	}, nil
}

func looksLikeHTML(data []byte, mimeType, fileName string) bool {
	switch baseMime(mimeType) {
	case "text/html", "application/xhtml+xml":
		return true
	}
	switch fileExt(fileName) {
	case "html", "htm":
		return true
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	return bytes.Contains(lower, []byte("<html")) || bytes.Contains(lower, []byte("<!doctype html"))
}

// htmlToText renders HTML as markdown-ish plain text: hidden elements are
// dropped, the remainder sanitized, then converted.
func htmlToText(data []byte) string {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return salvagePrintable(data)
	}
	pruneHidden(doc)

	var rendered bytes.Buffer
	if err := html.Render(&rendered, doc); err != nil {
		return collectHTMLText(doc)
	}

	sanitized := bluemonday.UGCPolicy().Sanitize(rendered.String())

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	md, err := conv.ConvertString(sanitized)
	if err != nil || strings.TrimSpace(md) == "" {
		return collectHTMLText(doc)
	}
	return md
}

// Hidden-element filtering: CSS-hidden text is an injection vector (SEO spam,
// keyword stuffing in résumés) and must not reach the attribute extractor.
var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
	regexp.MustCompile(`(?i)font-size\s*:\s*0[^1-9]`),
	regexp.MustCompile(`(?i)opacity\s*:\s*0[^.]`),
	regexp.MustCompile(`(?i)position\s*:\s*absolute[^;]*-\d{4,}`),
}

func hasHiddenStyle(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "style" {
			for _, pat := range hiddenStylePatterns {
				if pat.MatchString(a.Val) {
					return true
				}
			}
		}
	}
	return false
}

// pruneHidden removes script/style/hidden subtrees in place.
func pruneHidden(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		drop := hasHiddenStyle(c)
		if c.Type == html.ElementNode {
			switch c.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				drop = true
			}
		}
		if drop {
			n.RemoveChild(c)
			continue
		}
		pruneHidden(c)
	}
}

// collectHTMLText extracts visible text from a node subtree, one block per
// line.
func collectHTMLText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if sb.Len() > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
			if hasHiddenStyle(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// zipToText scavenges character data from every XML entry of an unknown zip
// container (covers odd office-format cousins the dedicated adapter rejects).
func zipToText(data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		paragraphs, err := collectParagraphs(xml.NewDecoder(rc))
		rc.Close()
		if err != nil {
			continue
		}
		for _, p := range paragraphs {
			sb.WriteString(p)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// salvagePrintable recovers runs of printable ASCII from arbitrary bytes,
// the way the strings(1) utility does. Minimum run length 4 keeps binary
// noise out.
func salvagePrintable(data []byte) string {
	const minRun = 4
	var sb strings.Builder
	var run []byte
	flush := func() {
		if len(run) >= minRun {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.Write(run)
		}
		run = run[:0]
	}
	for _, b := range data {
		if b >= 0x20 && b < 0x7f || b == '\t' {
			run = append(run, b)
		} else {
			flush()
		}
	}
	flush()
	return sb.String()
}
