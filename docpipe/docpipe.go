package docpipe

import (
	"context"
	"log/slog"
	"time"

	"github.com/talentbase/recruitcore/idgen"
)

// Short-circuit thresholds: a result this trustworthy stops the chain early,
// which keeps expensive OCR attempts off the hot path.
const (
	shortCircuitConfidence = 0.7
	shortCircuitLength     = 500
)

// Pipeline runs the adapter chain over an uploaded file. Stateless between
// calls: concurrent extractions are fully independent.
type Pipeline struct {
	cfg      Config
	adapters []Adapter
	logger   *slog.Logger
	newAttID idgen.Generator
	newExtID idgen.Generator
}

// New creates a Pipeline with the adapter chain implied by cfg, in priority
// order: structured document, word processor, optical recognition (when
// enabled), plain text, universal fallback.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	p := &Pipeline{
		cfg:      cfg,
		logger:   cfg.Logger,
		newAttID: idgen.Prefixed("att_", cfg.NewID),
		newExtID: idgen.Prefixed("ext_", cfg.NewID),
	}
	p.adapters = append(p.adapters, &StructuredDocumentAdapter{})
	p.adapters = append(p.adapters, &WordProcessorAdapter{})
	if cfg.EnableOpticalRecognition {
		p.adapters = append(p.adapters, &OpticalCharacterAdapter{
			Runner:    cfg.Runner,
			OCRBinary: cfg.OCRBinary,
			PDFBinary: cfg.PDFToImageBinary,
			Logger:    cfg.Logger,
		})
	}
	p.adapters = append(p.adapters, &PlainTextAdapter{})
	p.adapters = append(p.adapters, &UniversalFallbackAdapter{})
	return p
}

// AdapterNames returns the chain in priority order, for diagnostics.
func (p *Pipeline) AdapterNames() []string {
	names := make([]string, len(p.adapters))
	for i, a := range p.adapters {
		names[i] = a.Name()
	}
	return names
}

// Extract runs the chain and selects the best result.
//
// Adapter failures are recovered and recorded; only the case where no adapter
// produced any text at all returns an error (*ExtractionFailedError). When
// the configured timeout expires mid-chain, the best result obtained so far
// is returned rather than an error.
func (p *Pipeline) Extract(ctx context.Context, data []byte, mimeType, fileName string) (*Outcome, error) {
	if err := p.validate(data); err != nil {
		return nil, err
	}

	if p.cfg.ExtractionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ExtractionTimeout)
		defer cancel()
	}

	outcome := &Outcome{ID: p.newExtID()}

	for _, a := range p.adapters {
		if ctx.Err() != nil {
			p.logger.Warn("extraction timeout, keeping best result so far",
				"file", fileName, "attempts", len(outcome.Attempts))
			break
		}
		if !a.CanHandle(data, mimeType, fileName) {
			continue
		}

		start := time.Now()
		res, err := a.Extract(ctx, data, mimeType, fileName)
		elapsed := time.Since(start)

		if err != nil {
			aerr := &AdapterError{Adapter: a.Name(), Err: err}
			outcome.Failures = append(outcome.Failures, Failure{
				AdapterName: a.Name(),
				Error:       err.Error(),
			})
			p.logger.Warn("adapter failed, continuing chain",
				"adapter", a.Name(), "file", fileName, "error", aerr.Err)
			continue
		}

		res.ID = p.newAttID()
		res.AdapterName = a.Name()
		res.DurationMs = elapsed.Milliseconds()
		if res.Metadata == nil {
			res.Metadata = map[string]string{}
		}

		insufficient := len(res.Text) < p.cfg.EscalationThreshold
		if insufficient {
			// A short result is a data-quality signal, not an error: record
			// it, but escalate to broader adapters.
			res.Metadata["insufficient"] = "true"
		}
		outcome.Attempts = append(outcome.Attempts, res)

		p.logger.Debug("adapter attempt",
			"adapter", a.Name(), "file", fileName,
			"chars", len(res.Text), "confidence", res.Confidence,
			"duration_ms", res.DurationMs, "insufficient", insufficient)

		if !insufficient && res.Confidence > shortCircuitConfidence && len(res.Text) > shortCircuitLength {
			break
		}
	}

	if len(outcome.Attempts) == 0 {
		return nil, &ExtractionFailedError{Failures: outcome.Failures}
	}

	outcome.Best = selectBest(outcome.Attempts)
	return outcome, nil
}

// validate enforces the upload boundary before any adapter runs.
func (p *Pipeline) validate(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if int64(len(data)) > p.cfg.MaxFileSize {
		return &FileTooLargeError{Size: int64(len(data)), Max: p.cfg.MaxFileSize}
	}
	return nil
}

// selectBest picks the attempt with highest confidence; ties break to longer
// text, then to lower duration.
func selectBest(attempts []Result) *Result {
	best := &attempts[0]
	for i := 1; i < len(attempts); i++ {
		c := &attempts[i]
		switch {
		case c.Confidence > best.Confidence:
			best = c
		case c.Confidence < best.Confidence:
		case len(c.Text) > len(best.Text):
			best = c
		case len(c.Text) < len(best.Text):
		case c.DurationMs < best.DurationMs:
			best = c
		}
	}
	return best
}
