package docpipe

import (
	"log/slog"
	"time"

	"github.com/talentbase/recruitcore/idgen"
)

// Config configures the extraction pipeline. Feature flags live here, not in
// process environment, so tests can vary them without touching global state.
type Config struct {
	// EnableOpticalRecognition adds the OCR adapter to the chain. Off by
	// default: optical recognition is materially slower than every other
	// adapter.
	EnableOpticalRecognition bool `json:"enable_optical_recognition" yaml:"enable_optical_recognition"`

	// EscalationThreshold is the text length (in characters) below which a
	// structured-document result is considered insufficient and the chain
	// keeps going (default 400).
	EscalationThreshold int `json:"escalation_threshold" yaml:"escalation_threshold"`

	// ExtractionTimeout bounds a whole pipeline run. On expiry the pipeline
	// returns the best result obtained so far instead of failing. Zero means
	// no bound beyond the caller's context.
	ExtractionTimeout time.Duration `json:"extraction_timeout" yaml:"extraction_timeout"`

	// MaxFileSize is the upload size accepted at the boundary (default 100 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// OCRBinary and PDFToImageBinary name the external commands used by the
	// OCR adapter (defaults: tesseract, pdftoppm).
	OCRBinary        string `json:"ocr_binary" yaml:"ocr_binary"`
	PDFToImageBinary string `json:"pdf_to_image_binary" yaml:"pdf_to_image_binary"`

	// Runner executes external commands for the OCR adapter. Tests stub it.
	Runner Runner `json:"-" yaml:"-"`

	// Logger for per-adapter debug/warn messages.
	Logger *slog.Logger `json:"-" yaml:"-"`

	// NewID generates attempt and outcome IDs.
	NewID idgen.Generator `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.EscalationThreshold <= 0 {
		c.EscalationThreshold = 400
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.OCRBinary == "" {
		c.OCRBinary = "tesseract"
	}
	if c.PDFToImageBinary == "" {
		c.PDFToImageBinary = "pdftoppm"
	}
	if c.Runner == nil {
		c.Runner = execRunner{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.NewID == nil {
		c.NewID = idgen.Default
	}
}
