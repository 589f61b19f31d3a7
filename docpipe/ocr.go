package docpipe

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/talentbase/recruitcore/textclean"
)

// Runner executes external commands, so tests can stub tesseract/pdftoppm.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		slog.Debug("exec failed",
			"cmd", name,
			"duration_ms", dur.Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10))
	}
	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// OpticalCharacterAdapter runs optical recognition over scanned page-based
// documents. Feature-flagged and materially slower than every other adapter
// (hundreds of milliseconds to seconds per page), so the pipeline only adds
// it when configuration enables it, and every external call honours ctx.
type OpticalCharacterAdapter struct {
	Runner    Runner
	OCRBinary string
	PDFBinary string
	Logger    *slog.Logger
}

func (a *OpticalCharacterAdapter) Name() string { return "optical_character" }

// CanHandle restricts OCR to page-based formats: PDFs and page images.
func (a *OpticalCharacterAdapter) CanHandle(data []byte, mimeType, fileName string) bool {
	if baseMime(mimeType) == "application/pdf" || hasPDFMagic(data) {
		return true
	}
	switch baseMime(mimeType) {
	case "image/png", "image/jpeg", "image/tiff":
		return true
	}
	switch fileExt(fileName) {
	case "pdf", "png", "jpg", "jpeg", "tif", "tiff":
		return true
	}
	return false
}

func (a *OpticalCharacterAdapter) Extract(ctx context.Context, data []byte, mimeType, fileName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	dir, err := os.MkdirTemp("", "recruitcore-ocr-")
	if err != nil {
		return Result{}, fmt.Errorf("ocr tempdir: %w", err)
	}
	defer os.RemoveAll(dir)

	var pageImages []string
	if hasPDFMagic(data) || fileExt(fileName) == "pdf" {
		pageImages, err = a.renderPDFPages(ctx, dir, data)
		if err != nil {
			return Result{}, err
		}
	} else {
		img := filepath.Join(dir, "page.img")
		if err := os.WriteFile(img, data, 0o600); err != nil {
			return Result{}, fmt.Errorf("ocr write image: %w", err)
		}
		pageImages = []string{img}
	}

	var pages []string
	for _, img := range pageImages {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		stdout, stderr, err := a.Runner.Run(ctx, a.OCRBinary, img, "stdout")
		if err != nil {
			return Result{}, fmt.Errorf("ocr %s: %w (%s)", filepath.Base(img), err, truncate(string(stderr), 256))
		}
		if page := strings.TrimSpace(string(stdout)); page != "" {
			pages = append(pages, page)
		}
	}

	if len(pages) == 0 {
		return Result{}, fmt.Errorf("optical recognition produced no text")
	}

	text := textclean.Clean(strings.Join(pages, "\n\n"))

	// OCR output earns trust only when it reads like words. The wordlike
	// ratio shrinks confidence for glyph soup from low-quality scans.
	confidence := textConfidence(text) * wordlikeRatio(text)

	return Result{
		Text:       text,
		Confidence: confidence,
		Metadata: map[string]string{
			"method": "ocr",
			"pages":  strconv.Itoa(len(pageImages)),
		},
	}, nil
}

// renderPDFPages rasterizes every PDF page to PNG for recognition.
func (a *OpticalCharacterAdapter) renderPDFPages(ctx context.Context, dir string, data []byte) ([]string, error) {
	src := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return nil, fmt.Errorf("ocr write pdf: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	if _, stderr, err := a.Runner.Run(ctx, a.PDFBinary, "-png", "-r", "300", src, prefix); err != nil {
		return nil, fmt.Errorf("pdf rasterize: %w (%s)", err, truncate(string(stderr), 256))
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(pages) == 0 {
		return nil, fmt.Errorf("pdf rasterize produced no pages")
	}
	sort.Strings(pages)
	return pages, nil
}
