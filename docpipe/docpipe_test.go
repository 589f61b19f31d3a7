package docpipe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// stubAdapter stands in for a real extraction strategy in pipeline tests.
type stubAdapter struct {
	name  string
	res   Result
	err   error
	delay time.Duration
	calls int
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) CanHandle(data []byte, mimeType, fileName string) bool { return true }

func (s *stubAdapter) Extract(ctx context.Context, data []byte, mimeType, fileName string) (Result, error) {
	s.calls++
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return Result{}, s.err
	}
	return s.res, nil
}

func quietPipeline(t *testing.T, cfg Config, adapters ...Adapter) *Pipeline {
	t.Helper()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(cfg)
	if len(adapters) > 0 {
		p.adapters = adapters
	}
	return p
}

func TestAdapterNames(t *testing.T) {
	p := quietPipeline(t, Config{})
	want := []string{"structured_document", "word_processor", "plain_text", "universal_fallback"}
	got := p.AdapterNames()
	if len(got) != len(want) {
		t.Fatalf("chain = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chain[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAdapterNames_OCREnabled(t *testing.T) {
	p := quietPipeline(t, Config{EnableOpticalRecognition: true, Runner: &stubRunner{}})
	names := p.AdapterNames()
	if len(names) != 5 {
		t.Fatalf("chain = %v, want 5 adapters", names)
	}
	// OCR sits after the format-specific adapters and before plain text.
	if names[2] != "optical_character" {
		t.Errorf("chain[2] = %q, want optical_character", names[2])
	}
}

func TestExtract_Escalation(t *testing.T) {
	// WHAT: A short first result does not stop the chain; later adapters run
	// and the short attempt is marked insufficient.
	// WHY: A 150-char extraction from a 3-page résumé means the primary
	// adapter only got fragments; broader strategies may recover more.
	short := &stubAdapter{name: "a", res: Result{Text: strings.Repeat("x ", 75), Confidence: 0.9}}
	long := &stubAdapter{name: "b", res: Result{Text: strings.Repeat("word ", 200), Confidence: 0.6}}
	p := quietPipeline(t, Config{}, short, long)

	out, err := p.Extract(context.Background(), []byte("data"), "", "cv.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if long.calls != 1 {
		t.Fatal("chain stopped at the insufficient result")
	}
	if len(out.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(out.Attempts))
	}
	if out.Attempts[0].Metadata["insufficient"] != "true" {
		t.Error("short attempt not marked insufficient")
	}
	if _, ok := out.Attempts[1].Metadata["insufficient"]; ok {
		t.Error("long attempt wrongly marked insufficient")
	}
}

func TestExtract_ShortCircuit(t *testing.T) {
	// WHAT: A long, high-confidence result stops the chain immediately.
	// WHY: Running the remaining adapters buys nothing once a trustworthy
	// extraction exists; it only burns time on large uploads.
	first := &stubAdapter{name: "a", res: Result{Text: strings.Repeat("word ", 200), Confidence: 0.9}}
	second := &stubAdapter{name: "b", res: Result{Text: "unreached", Confidence: 1.0}}
	p := quietPipeline(t, Config{}, first, second)

	out, err := p.Extract(context.Background(), []byte("data"), "", "cv.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if second.calls != 0 {
		t.Error("chain continued past a short-circuit result")
	}
	if len(out.Attempts) != 1 || out.Best.AdapterName != "a" {
		t.Errorf("outcome = %+v", out)
	}
}

func TestExtract_FailureThenSuccess(t *testing.T) {
	failing := &stubAdapter{name: "a", err: errors.New("corrupt header")}
	working := &stubAdapter{name: "b", res: Result{Text: strings.Repeat("word ", 200), Confidence: 0.8}}
	p := quietPipeline(t, Config{}, failing, working)

	out, err := p.Extract(context.Background(), []byte("data"), "", "cv.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Failures) != 1 || out.Failures[0].AdapterName != "a" {
		t.Errorf("failures = %+v", out.Failures)
	}
	if out.Best == nil || out.Best.AdapterName != "b" {
		t.Errorf("best = %+v", out.Best)
	}
}

func TestExtract_TotalFailure(t *testing.T) {
	// WHAT: When every adapter fails, the caller gets one terminal error
	// carrying the per-adapter failure list.
	// WHY: "Could not extract text" with no detail is undebuggable; support
	// needs to see which strategy failed how.
	a := &stubAdapter{name: "a", err: errors.New("bad zip")}
	b := &stubAdapter{name: "b", err: errors.New("bad xml")}
	p := quietPipeline(t, Config{}, a, b)

	_, err := p.Extract(context.Background(), []byte("data"), "", "cv.docx")
	var efe *ExtractionFailedError
	if !errors.As(err, &efe) {
		t.Fatalf("err = %v, want *ExtractionFailedError", err)
	}
	if len(efe.Failures) != 2 {
		t.Fatalf("failures = %+v, want 2", efe.Failures)
	}
	msg := efe.Error()
	if !strings.Contains(msg, "bad zip") || !strings.Contains(msg, "bad xml") {
		t.Errorf("error message drops adapter detail: %q", msg)
	}
}

func TestExtract_TimeoutKeepsBest(t *testing.T) {
	// WHAT: Timeout mid-chain returns the best result so far, not an error.
	// WHY: A partial extraction from a slow file is still worth indexing;
	// discarding it would make large files permanently unprocessable.
	slow := &stubAdapter{name: "a", delay: 60 * time.Millisecond,
		res: Result{Text: strings.Repeat("x ", 75), Confidence: 0.5}}
	after := &stubAdapter{name: "b", res: Result{Text: "unreached", Confidence: 1.0}}
	p := quietPipeline(t, Config{ExtractionTimeout: 20 * time.Millisecond}, slow, after)

	out, err := p.Extract(context.Background(), []byte("data"), "", "cv.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if after.calls != 0 {
		t.Error("adapter ran after the deadline expired")
	}
	if out.Best == nil || out.Best.AdapterName != "a" {
		t.Errorf("best = %+v, want the pre-deadline attempt", out.Best)
	}
}

func TestExtract_ValidatesEmpty(t *testing.T) {
	p := quietPipeline(t, Config{})
	_, err := p.Extract(context.Background(), nil, "", "cv.pdf")
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("err = %v, want ErrEmptyFile", err)
	}
}

func TestExtract_ValidatesSize(t *testing.T) {
	p := quietPipeline(t, Config{MaxFileSize: 8})
	_, err := p.Extract(context.Background(), []byte("123456789"), "", "cv.pdf")
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("err = %v, want *FileTooLargeError", err)
	}
	if tooLarge.Size != 9 || tooLarge.Max != 8 {
		t.Errorf("error = %+v", tooLarge)
	}
}

func TestExtract_IDs(t *testing.T) {
	a := &stubAdapter{name: "a", res: Result{Text: strings.Repeat("word ", 200), Confidence: 0.9}}
	p := quietPipeline(t, Config{}, a)

	out, err := p.Extract(context.Background(), []byte("data"), "", "cv.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.ID, "ext_") {
		t.Errorf("outcome ID = %q, want ext_ prefix", out.ID)
	}
	if !strings.HasPrefix(out.Best.ID, "att_") {
		t.Errorf("attempt ID = %q, want att_ prefix", out.Best.ID)
	}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name     string
		attempts []Result
		want     string // AdapterName of expected winner
	}{
		{"highest confidence", []Result{
			{AdapterName: "a", Confidence: 0.4},
			{AdapterName: "b", Confidence: 0.9},
			{AdapterName: "c", Confidence: 0.6},
		}, "b"},
		{"confidence tie breaks to longer text", []Result{
			{AdapterName: "a", Confidence: 0.5, Text: "short"},
			{AdapterName: "b", Confidence: 0.5, Text: "considerably longer text"},
		}, "b"},
		{"full tie breaks to faster", []Result{
			{AdapterName: "a", Confidence: 0.5, Text: "same", DurationMs: 80},
			{AdapterName: "b", Confidence: 0.5, Text: "same", DurationMs: 12},
		}, "b"},
		{"stable when fully equal", []Result{
			{AdapterName: "a", Confidence: 0.5, Text: "same", DurationMs: 10},
			{AdapterName: "b", Confidence: 0.5, Text: "same", DurationMs: 10},
		}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectBest(tt.attempts); got.AdapterName != tt.want {
				t.Errorf("selectBest = %q, want %q", got.AdapterName, tt.want)
			}
		})
	}
}

func TestFileExt(t *testing.T) {
	tests := []struct{ in, want string }{
		{"cv.PDF", "pdf"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"dir/file.Docx", "docx"},
	}
	for _, tt := range tests {
		if got := fileExt(tt.in); got != tt.want {
			t.Errorf("fileExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBaseMime(t *testing.T) {
	tests := []struct{ in, want string }{
		{"text/plain; charset=utf-8", "text/plain"},
		{"Application/PDF", "application/pdf"},
		{"  text/html ", "text/html"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := baseMime(tt.in); got != tt.want {
			t.Errorf("baseMime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
