// Package candidate derives structured candidate records from extracted
// résumé text.
package candidate

import (
	"strconv"
	"strings"
)

// SkillSet flags the four fixed skill categories tracked by the CRM. The
// category set is closed: matching, scoring, and the taxonomy all use exactly
// these four.
type SkillSet struct {
	Communications bool `json:"communications"`
	Campaigns      bool `json:"campaigns"`
	Policy         bool `json:"policy"`
	PublicAffairs  bool `json:"public_affairs"`
}

// Count returns the number of set flags.
func (s SkillSet) Count() int {
	n := 0
	for _, b := range []bool{s.Communications, s.Campaigns, s.Policy, s.PublicAffairs} {
		if b {
			n++
		}
	}
	return n
}

// SkillRatings is the 0–5 variant of SkillSet used by the structured skill
// taxonomy. Values outside 0–5 are clamped by Normalize.
type SkillRatings struct {
	Communications int `json:"communications"`
	Campaigns      int `json:"campaigns"`
	Policy         int `json:"policy"`
	PublicAffairs  int `json:"public_affairs"`
}

// Normalize clamps every rating into the 0–5 range.
func (r SkillRatings) Normalize() SkillRatings {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 5 {
			return 5
		}
		return v
	}
	return SkillRatings{
		Communications: clamp(r.Communications),
		Campaigns:      clamp(r.Campaigns),
		Policy:         clamp(r.Policy),
		PublicAffairs:  clamp(r.PublicAffairs),
	}
}

// Set converts ratings to boolean flags: a category counts as held when its
// rating reaches min (ratings below 1 never count).
func (r SkillRatings) Set(min int) SkillSet {
	if min < 1 {
		min = 1
	}
	r = r.Normalize()
	return SkillSet{
		Communications: r.Communications >= min,
		Campaigns:      r.Campaigns >= min,
		Policy:         r.Policy >= min,
		PublicAffairs:  r.PublicAffairs >= min,
	}
}

// Experience is one employment entry mined from résumé text. Dates are kept
// as the raw matched strings (years, or "present"); they are not validated.
type Experience struct {
	Employer  string `json:"employer"`
	Title     string `json:"title"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// Attributes is the structured candidate record produced by one extraction.
// Records are never patched in place: a re-upload produces a new one.
type Attributes struct {
	FirstName       string       `json:"first_name"`
	LastName        string       `json:"last_name"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	CurrentTitle    string       `json:"current_title"`
	CurrentEmployer string       `json:"current_employer"`
	Skills          SkillSet     `json:"skills"`
	Experience      []Experience `json:"experience,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	Confidence      float64      `json:"confidence"`
}

// MostRecentRole picks the most recent entry: entries still running (no end
// date, or an end of "present") win, then later end dates, then later start
// dates. Dates are coerced to numbers best-effort; malformed dates coerce to
// zero, so their relative order is arbitrary.
func MostRecentRole(entries []Experience) (Experience, bool) {
	if len(entries) == 0 {
		return Experience{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if moreRecent(e, best) {
			best = e
		}
	}
	return best, true
}

func moreRecent(a, b Experience) bool {
	ao, bo := ongoing(a), ongoing(b)
	if ao != bo {
		return ao
	}
	ae, be := coerceYear(a.EndDate), coerceYear(b.EndDate)
	if ae != be {
		return ae > be
	}
	return coerceYear(a.StartDate) > coerceYear(b.StartDate)
}

func ongoing(e Experience) bool {
	return e.EndDate == "" || strings.EqualFold(e.EndDate, "present")
}

func coerceYear(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
