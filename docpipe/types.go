// Package docpipe turns uploaded résumé files of unknown, possibly malformed
// format into clean text.
//
// A fixed, priority-ordered chain of extraction adapters each tests its own
// applicability and attempts extraction, self-assessing a confidence score.
// The pipeline records every attempt and failure and selects the most
// trustworthy result.
package docpipe

// Result is one adapter's extraction attempt. Immutable once produced.
type Result struct {
	// ID identifies the attempt for diagnostics ("att_" prefix).
	ID string `json:"id"`

	// AdapterName names the adapter that produced the text.
	AdapterName string `json:"adapter_name"`

	// Text is the cleaned extracted text.
	Text string `json:"text"`

	// Confidence is the adapter's self-assessed trust in the text, in [0,1].
	// Monotonic in text length, shaped by adapter-specific quality signals.
	Confidence float64 `json:"confidence"`

	// DurationMs is the wall time of the attempt.
	DurationMs int64 `json:"duration_ms"`

	// Metadata carries adapter-specific diagnostics (page counts, quality
	// ratios, branch taken).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Failure records one adapter's recovered error.
type Failure struct {
	AdapterName string `json:"adapter_name"`
	Error       string `json:"error"`
}

// Outcome is the pipeline's final decision: the best attempt plus the full
// attempt and failure lists, so diagnostic tooling can inspect every
// adapter's performance. Best is non-nil whenever at least one adapter
// succeeded.
type Outcome struct {
	// ID identifies the extraction run ("ext_" prefix).
	ID string `json:"id"`

	Best     *Result   `json:"best,omitempty"`
	Attempts []Result  `json:"attempts"`
	Failures []Failure `json:"failures,omitempty"`
}
