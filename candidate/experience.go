package candidate

import (
	"regexp"
	"strings"
)

var (
	experienceHeadingRe = regexp.MustCompile(`(?i)^(work|employment|professional|career)?\s*(experience|history)\s*:?$`)

	roleKeywordRe = regexp.MustCompile(`(?i)\b(manager|director|officer|head|adviser|advisor|consultant|lead|executive|coordinator|assistant|analyst|associate|specialist|secretary|strategist|researcher)\b`)

	companySuffixRe = regexp.MustCompile(`(?i)\b(ltd|limited|inc|llp|plc|group|agency|associates|partners|consulting|communications|company)\b\.?`)

	// Entry shapes: "Title — Employer (2019–2023)" and
	// "Title at Employer, 2019–present". Anything else is skipped; the scan
	// is intentionally lossy.
	entryDashRe = regexp.MustCompile(`^(.+?)\s+[—–-]\s+(.+?)\s*\((\d{4})\s*[—–-]\s*((?i:present)|\d{4})\)$`)
	entryAtRe   = regexp.MustCompile(`(?i)^(.+?)\s+at\s+(.+?),\s*(\d{4})\s*[—–-]\s*(present|\d{4})$`)

	atEmployerRe = regexp.MustCompile(`(?i)^at\s+(.+)$`)

	headerTitleAtRe      = regexp.MustCompile(`(?i)^(.+?)\s+at\s+(.+)$`)
	headerTitleCommaRe   = regexp.MustCompile(`^(.+?),\s*(.+)$`)
	headerEmployerDashRe = regexp.MustCompile(`^(.+?)\s+[—–]\s+(.+)$`)
)

// headingBlacklist rejects section headers and generic nouns that would
// otherwise pass the title/employer shape heuristics.
var headingBlacklist = map[string]bool{
	"government":     true,
	"education":      true,
	"references":     true,
	"skills":         true,
	"interests":      true,
	"qualifications": true,
	"summary":        true,
	"profile":        true,
	"contact":        true,
	"awards":         true,
	"hobbies":        true,
	"languages":      true,
	"volunteering":   true,
	"publications":   true,
}

func blacklisted(line string) bool {
	return headingBlacklist[strings.ToLower(strings.TrimRight(strings.TrimSpace(line), ":"))]
}

// findCurrentRole scans for an experience section heading and mines the lines
// under it for a title/employer pair. Without a heading it falls back to
// same-line patterns in the document header.
func findCurrentRole(lines []string) (title, employer string) {
	if idx := findExperienceHeading(lines); idx >= 0 {
		return roleFromSection(lines[idx+1:])
	}
	return roleFromHeader(lines)
}

func findExperienceHeading(lines []string) int {
	for i, l := range lines {
		if experienceHeadingRe.MatchString(l) {
			return i
		}
	}
	return -1
}

// roleFromSection examines up to eight lines under an experience heading.
// A dated entry line settles both fields at once; otherwise the first
// title-like line is paired with the next employer-like line.
func roleFromSection(lines []string) (title, employer string) {
	limit := 8
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, l := range lines[:limit] {
		if blacklisted(l) {
			continue
		}
		if m := entryDashRe.FindStringSubmatch(l); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
		if m := entryAtRe.FindStringSubmatch(l); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
		if title == "" {
			if looksLikeTitle(l) {
				title = stripDates(l)
			}
			continue
		}
		if emp, ok := employerFromLine(l); ok {
			return title, emp
		}
	}
	return title, employer
}

// roleFromHeader looks for "Title at Employer", "Title, Employer", and
// "Employer — Title" shapes in the first lines of the document, skipping the
// name line.
func roleFromHeader(lines []string) (title, employer string) {
	limit := 6
	if len(lines) < limit {
		limit = len(lines)
	}
	for i := 1; i < limit; i++ {
		l := lines[i]
		if blacklisted(l) || strings.ContainsRune(l, '@') {
			continue
		}
		if m := headerTitleAtRe.FindStringSubmatch(l); m != nil {
			t, e := strings.TrimSpace(m[1]), stripDates(m[2])
			if !blacklisted(t) && !blacklisted(e) && looksLikeTitle(t) {
				return t, e
			}
		}
		if m := headerEmployerDashRe.FindStringSubmatch(l); m != nil {
			// Employer first in the dash form.
			e, t := stripDates(m[1]), strings.TrimSpace(m[2])
			if !blacklisted(t) && !blacklisted(e) && looksLikeTitle(t) {
				return t, e
			}
		}
		if m := headerTitleCommaRe.FindStringSubmatch(l); m != nil {
			t, e := strings.TrimSpace(m[1]), stripDates(m[2])
			if !blacklisted(t) && !blacklisted(e) && roleKeywordRe.MatchString(t) {
				return t, e
			}
		}
	}
	return "", ""
}

// looksLikeTitle accepts short capitalized phrases, favouring ones carrying a
// role keyword.
func looksLikeTitle(line string) bool {
	if len(line) > 80 || line == "" {
		return false
	}
	if blacklisted(line) {
		return false
	}
	if roleKeywordRe.MatchString(line) {
		return true
	}
	return capitalizedPhrase(line)
}

// capitalizedPhrase reports whether every significant word starts uppercase.
func capitalizedPhrase(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 6 {
		return false
	}
	for _, w := range words {
		switch strings.ToLower(w) {
		case "of", "and", "the", "for", "&", "at", "in":
			continue
		}
		r := rune(w[0])
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func employerFromLine(line string) (string, bool) {
	if blacklisted(line) {
		return "", false
	}
	if m := atEmployerRe.FindStringSubmatch(line); m != nil {
		return stripDates(m[1]), true
	}
	if companySuffixRe.MatchString(line) {
		return stripDates(line), true
	}
	return "", false
}

// stripDates drops a trailing parenthesised or bare date range.
var trailingDatesRe = regexp.MustCompile(`(?i)\s*[(,]?\s*\d{4}\s*[—–-]\s*(present|\d{4})\)?\s*$`)

func stripDates(s string) string {
	return strings.TrimSpace(trailingDatesRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

// scanExperience runs the dated-entry patterns over every line. Lines that
// match neither shape produce no entry.
func scanExperience(lines []string) []Experience {
	var entries []Experience
	for _, l := range lines {
		if m := entryDashRe.FindStringSubmatch(l); m != nil {
			entries = append(entries, Experience{
				Title:     strings.TrimSpace(m[1]),
				Employer:  strings.TrimSpace(m[2]),
				StartDate: m[3],
				EndDate:   normalizeEnd(m[4]),
			})
			continue
		}
		if m := entryAtRe.FindStringSubmatch(l); m != nil {
			entries = append(entries, Experience{
				Title:     strings.TrimSpace(m[1]),
				Employer:  strings.TrimSpace(m[2]),
				StartDate: m[3],
				EndDate:   normalizeEnd(m[4]),
			})
		}
	}
	return entries
}

// normalizeEnd maps "present" (any case) to an empty end date, which
// MostRecentRole treats as an ongoing role.
func normalizeEnd(s string) string {
	if strings.EqualFold(s, "present") {
		return ""
	}
	return s
}
