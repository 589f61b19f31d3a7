package candidate

import (
	"log/slog"
	"regexp"
	"strings"
)

// LowYieldAdvisory is appended to Notes when the source text is too short to
// trust the derived fields.
const LowYieldAdvisory = "Low text yield from document; manual review recommended."

const (
	// headerRegion bounds the part of the document treated as the contact
	// header for phone and title fallback scanning.
	headerRegion = 500

	notesLimit     = 200
	confidenceSpan = 8000
)

// Config configures the attribute extractor.
type Config struct {
	// MinTextYield is the text length below which field confidence is hard
	// capped at 0.3 (default 300).
	MinTextYield int

	// Logger for debug messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MinTextYield <= 0 {
		c.MinTextYield = 300
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Extractor mines structured candidate fields out of cleaned résumé text.
// Every field is best-effort and independently defaults to empty rather than
// failing the whole extraction.
type Extractor struct {
	cfg Config
}

// New creates an Extractor with the given configuration.
func New(cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{cfg: cfg}
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{7,}\d`)
	yearRe  = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	contactWordRe = regexp.MustCompile(`(?i)\b(phone|email|mobile|tel)\b`)
)

// Extract derives candidate attributes from cleaned text. It never fails:
// malformed input yields a record with empty fields and low confidence.
func (e *Extractor) Extract(text string) Attributes {
	var a Attributes

	lines := contentLines(text)

	a.Email = emailRe.FindString(text)
	a.Phone = findPhone(text)

	if len(lines) > 0 {
		a.FirstName, a.LastName = splitName(lines[0])
	}

	a.CurrentTitle, a.CurrentEmployer = findCurrentRole(lines)
	a.Skills = detectSkills(strings.ToLower(text))
	a.Experience = scanExperience(lines)

	if a.CurrentTitle == "" {
		if role, ok := MostRecentRole(a.Experience); ok {
			a.CurrentTitle = role.Title
			a.CurrentEmployer = role.Employer
		}
	}

	a.Notes = buildNotes(lines)
	a.Confidence = e.confidence(&a, len(text))

	if len(text) < e.cfg.MinTextYield {
		if a.Notes != "" {
			a.Notes += " "
		}
		a.Notes += LowYieldAdvisory
	}

	e.cfg.Logger.Debug("attributes extracted",
		"chars", len(text),
		"skills", a.Skills.Count(),
		"experience_entries", len(a.Experience),
		"confidence", a.Confidence)

	return a
}

// confidence starts from a text-length base and adds fixed bonuses per
// populated field. Short input hard-caps the result at 0.3 regardless of how
// many fields matched.
func (e *Extractor) confidence(a *Attributes, textLen int) float64 {
	score := float64(textLen) / confidenceSpan
	if score > 1 {
		score = 1
	}
	if a.FirstName != "" && a.LastName != "" {
		score += 0.1
	}
	if a.Email != "" {
		score += 0.1
	}
	if a.Phone != "" {
		score += 0.05
	}
	if len(a.Experience) > 0 {
		score += 0.1
	}
	score += 0.05 * float64(a.Skills.Count())
	if score > 1 {
		score = 1
	}
	if textLen < e.cfg.MinTextYield && score > 0.3 {
		score = 0.3
	}
	return score
}

// contentLines splits text into trimmed, non-empty lines.
func contentLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// findPhone returns the first loose phone match carrying at least 9 digits.
// Matches inside the contact header win over matches deeper in the document.
func findPhone(text string) string {
	header := text
	if len(header) > headerRegion {
		header = header[:headerRegion]
	}
	if m := firstPhone(header); m != "" {
		return m
	}
	return firstPhone(text)
}

func firstPhone(text string) string {
	for _, m := range phoneRe.FindAllString(text, -1) {
		if digitCount(m) >= 9 {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// splitName treats the first line as the candidate's name: first token is the
// first name, the rest the last name.
func splitName(line string) (first, last string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ""
	}
	first = fields[0]
	if len(fields) > 1 {
		last = strings.Join(fields[1:], " ")
	}
	return first, last
}

// buildNotes concatenates the first few content lines, skipping anything that
// looks like contact details or dated entries, truncated to notesLimit runes.
func buildNotes(lines []string) string {
	var parts []string
	for _, l := range lines {
		if len(parts) >= 3 {
			break
		}
		if strings.ContainsRune(l, '@') || yearRe.MatchString(l) || contactWordRe.MatchString(l) {
			continue
		}
		parts = append(parts, l)
	}
	notes := strings.Join(parts, " ")
	runes := []rune(notes)
	if len(runes) > notesLimit {
		notes = string(runes[:notesLimit]) + "..."
	}
	return notes
}
