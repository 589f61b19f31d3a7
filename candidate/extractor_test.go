package candidate

import (
	"strings"
	"testing"
)

const sampleResume = `Jane Smith
Senior Public Affairs Manager at Westbrook Group
Phone: +44 20 7946 0958
Email: jane.smith@example.org

Profile
Experienced public affairs and policy professional with a background in
government relations, stakeholder engagement and media relations. Led
integrated campaigns and grassroots advocacy programmes.

Experience
Senior Public Affairs Manager — Westbrook Group (2019–present)
Policy Adviser — Holloway Associates Ltd (2015–2019)
Campaigns Officer at Citizens Voice, 2012–2015

Education
University of Manchester

References
Available on request
`

func padResume(t *testing.T) string {
	t.Helper()
	// Pad past the low-yield threshold without adding matchable lines.
	return sampleResume + "\n" + strings.Repeat("additional background detail ", 20)
}

func TestExtract_ContactFields(t *testing.T) {
	a := New(Config{}).Extract(padResume(t))

	if a.FirstName != "Jane" || a.LastName != "Smith" {
		t.Errorf("name = %q %q, want Jane Smith", a.FirstName, a.LastName)
	}
	if a.Email != "jane.smith@example.org" {
		t.Errorf("email = %q", a.Email)
	}
	if digits(a.Phone) < 9 {
		t.Errorf("phone = %q, want at least 9 digits", a.Phone)
	}
}

func TestExtract_PhonePrefersHeader(t *testing.T) {
	// WHAT: A phone number in the first 500 chars wins over a later one.
	// WHY: Referee phone numbers at the bottom of a résumé must not become
	// the candidate's contact number.
	text := "John Doe\nPhone: 020 7946 0111\n" +
		strings.Repeat("filler line of profile text\n", 40) +
		"Referee: 020 7946 0999\n"
	a := New(Config{}).Extract(text)
	if !strings.Contains(a.Phone, "0111") {
		t.Errorf("phone = %q, want the header number", a.Phone)
	}
}

func TestExtract_SingleTokenName(t *testing.T) {
	a := New(Config{}).Extract("Cher\nSinger at Large Ltd")
	if a.FirstName != "Cher" || a.LastName != "" {
		t.Errorf("got %q %q, want only first name", a.FirstName, a.LastName)
	}
}

func TestExtract_Skills(t *testing.T) {
	tests := []struct {
		name string
		text string
		want SkillSet
	}{
		{"public affairs only", "worked in public affairs and lobbying", SkillSet{PublicAffairs: true}},
		{"policy only", "drafted policy papers and legislative briefings", SkillSet{Policy: true}},
		{"campaigns", "ran grassroots advocacy campaigns", SkillSet{Campaigns: true}},
		{"communications", "led media relations and press office teams", SkillSet{Communications: true}},
		{"none", "ten years of accountancy", SkillSet{}},
		{"all four", "public affairs, policy, campaign strategy and communications work", SkillSet{Communications: true, Campaigns: true, Policy: true, PublicAffairs: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(Config{}).Extract(tt.text)
			if a.Skills != tt.want {
				t.Errorf("skills = %+v, want %+v", a.Skills, tt.want)
			}
		})
	}
}

func TestExtract_ExperienceEntries(t *testing.T) {
	a := New(Config{}).Extract(padResume(t))

	if len(a.Experience) != 3 {
		t.Fatalf("expected 3 experience entries, got %d: %+v", len(a.Experience), a.Experience)
	}

	first := a.Experience[0]
	if first.Title != "Senior Public Affairs Manager" || first.Employer != "Westbrook Group" {
		t.Errorf("entry 0 = %+v", first)
	}
	if first.StartDate != "2019" || first.EndDate != "" {
		t.Errorf("entry 0 dates = %q–%q, want 2019–ongoing", first.StartDate, first.EndDate)
	}

	last := a.Experience[2]
	if last.Employer != "Citizens Voice" || last.StartDate != "2012" || last.EndDate != "2015" {
		t.Errorf("entry 2 = %+v", last)
	}
}

func TestExtract_CurrentRoleFromExperienceSection(t *testing.T) {
	a := New(Config{}).Extract(padResume(t))
	if a.CurrentTitle != "Senior Public Affairs Manager" {
		t.Errorf("title = %q", a.CurrentTitle)
	}
	if a.CurrentEmployer != "Westbrook Group" {
		t.Errorf("employer = %q", a.CurrentEmployer)
	}
}

func TestExtract_CurrentRoleHeaderFallback(t *testing.T) {
	// No experience heading: the header "Title at Employer" line is used.
	text := "Sam Jones\nCommunications Director at Meridian Partners\nsam@example.com\n" +
		strings.Repeat("profile filler text line\n", 30)
	a := New(Config{}).Extract(text)
	if a.CurrentTitle != "Communications Director" {
		t.Errorf("title = %q", a.CurrentTitle)
	}
	if a.CurrentEmployer != "Meridian Partners" {
		t.Errorf("employer = %q", a.CurrentEmployer)
	}
}

func TestExtract_BlacklistedHeadings(t *testing.T) {
	// WHAT: Section headers like "Government" never become title/employer.
	// WHY: They are capitalized single words and would pass the shape
	// heuristics without the blacklist.
	text := "Pat Low\nGovernment\nEducation\nReferences\n" +
		strings.Repeat("neutral filler text\n", 30)
	a := New(Config{}).Extract(text)
	if a.CurrentTitle == "Government" || a.CurrentEmployer == "Government" {
		t.Errorf("blacklisted heading leaked into role: %q / %q", a.CurrentTitle, a.CurrentEmployer)
	}
}

func TestExtract_ConfidenceCap(t *testing.T) {
	// WHAT: Text under the yield threshold caps confidence at 0.3 even with
	// every field populated.
	// WHY: The cap is a hard override, not an average; short extractions are
	// likely corrupt regardless of what the heuristics found.
	short := "Jane Smith\njane@example.org\n+44 20 7946 0958\npublic affairs policy campaigns communications"
	if len(short) >= 300 {
		t.Fatalf("fixture must stay under 300 chars, is %d", len(short))
	}
	a := New(Config{}).Extract(short)
	if a.Confidence > 0.3 {
		t.Errorf("confidence = %v, want <= 0.3", a.Confidence)
	}
	if !strings.Contains(a.Notes, LowYieldAdvisory) {
		t.Errorf("notes missing advisory: %q", a.Notes)
	}
}

func TestExtract_ConfidenceBonuses(t *testing.T) {
	base := New(Config{}).Extract(strings.Repeat("neutral filler words here ", 20))
	withEmail := New(Config{}).Extract(strings.Repeat("neutral filler words here ", 20) + "\ncontact@example.com")
	if withEmail.Confidence <= base.Confidence {
		t.Errorf("email bonus missing: %v <= %v", withEmail.Confidence, base.Confidence)
	}
}

func TestExtract_NeverErrors(t *testing.T) {
	// WHAT: Hostile or degenerate inputs still produce a record.
	// WHY: Every field independently defaults rather than aborting.
	inputs := []string{
		"",
		"\x00\x01\x02",
		strings.Repeat("@", 5000),
		"(((((((((",
		strings.Repeat("\n", 1000),
	}
	for _, in := range inputs {
		a := New(Config{}).Extract(in)
		if a.Confidence < 0 || a.Confidence > 1 {
			t.Errorf("confidence out of bounds for %q: %v", in[:min(len(in), 10)], a.Confidence)
		}
	}
}

func TestExtract_Notes(t *testing.T) {
	a := New(Config{}).Extract(padResume(t))
	if a.Notes == "" {
		t.Fatal("expected notes")
	}
	if strings.Contains(a.Notes, "@") {
		t.Errorf("notes should exclude contact lines: %q", a.Notes)
	}
	if len([]rune(a.Notes)) > 210 {
		t.Errorf("notes too long: %d runes", len([]rune(a.Notes)))
	}
}

func TestMostRecentRole(t *testing.T) {
	ongoing := Experience{Title: "Head of Policy", Employer: "Now Ltd", StartDate: "2021"}
	older := Experience{Title: "Adviser", Employer: "Then Ltd", StartDate: "2015", EndDate: "2019"}
	newer := Experience{Title: "Manager", Employer: "Later Ltd", StartDate: "2019", EndDate: "2021"}

	tests := []struct {
		name    string
		entries []Experience
		want    string // title of expected winner
		ok      bool
	}{
		{"empty", nil, "", false},
		{"ongoing wins", []Experience{older, newer, ongoing}, "Head of Policy", true},
		{"later end wins", []Experience{older, newer}, "Manager", true},
		{"later start breaks end tie", []Experience{
			{Title: "A", StartDate: "2010", EndDate: "2020"},
			{Title: "B", StartDate: "2018", EndDate: "2020"},
		}, "B", true},
		{"present equals ongoing", []Experience{older, {Title: "C", StartDate: "2020", EndDate: "present"}}, "C", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MostRecentRole(tt.entries)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got.Title != tt.want {
				t.Errorf("got %q, want %q", got.Title, tt.want)
			}
		})
	}
}

func TestSkillRatings(t *testing.T) {
	r := SkillRatings{Communications: 7, Campaigns: -2, Policy: 3, PublicAffairs: 5}
	n := r.Normalize()
	if n.Communications != 5 || n.Campaigns != 0 {
		t.Errorf("normalize = %+v", n)
	}
	s := r.Set(3)
	want := SkillSet{Communications: true, Policy: true, PublicAffairs: true}
	if s != want {
		t.Errorf("set = %+v, want %+v", s, want)
	}
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
