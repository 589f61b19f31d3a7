// Package match ranks candidates against job requisitions.
//
// A score combines two weighted sub-scores: skill overlap (up to 0.7) and
// salary-range proximity (up to 0.3). Scores are recomputed on demand and
// never cached, since candidate and requisition data can change underneath.
package match

import (
	"fmt"

	"github.com/talentbase/recruitcore/candidate"
	"github.com/talentbase/recruitcore/salary"
)

const (
	skillWeight  = 0.7
	salaryWeight = 0.3
)

// SalaryRange is a candidate's or requisition's salary expectation. A zero
// Min means unknown; a zero Max with a known Min is backfilled via
// salary.DefaultMax before scoring.
type SalaryRange struct {
	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
}

// Candidate is the slice of a candidate record the scorer needs.
type Candidate struct {
	Skills candidate.SkillSet `json:"skills"`
	Salary SalaryRange        `json:"salary"`
}

// Requisition is the slice of a job posting the scorer needs. Skills marks
// the categories the job requires.
type Requisition struct {
	Skills candidate.SkillSet `json:"skills"`
	Salary SalaryRange        `json:"salary"`
}

// Score is one candidate/requisition evaluation. Total is always exactly
// Skill+Salary, with Skill in [0,0.7] and Salary in [0,0.3].
type Score struct {
	Total  float64 `json:"total"`
	Skill  float64 `json:"skill"`
	Salary float64 `json:"salary"`
}

// SkillOverlapScore returns the fraction of the job's required skills the
// candidate holds, in [0,1]. The overlap is directional: candidate skills the
// job does not require neither help nor hurt. Zero required skills score
// zero, never NaN.
func SkillOverlapScore(cand, required *candidate.SkillSet) float64 {
	if cand == nil || required == nil {
		return 0
	}
	total := required.Count()
	if total == 0 {
		return 0
	}
	matched := 0
	for _, pair := range skillPairs(*cand, *required) {
		if pair.have && pair.want {
			matched++
		}
	}
	return float64(matched) / float64(total)
}

// SalaryProximityScore returns the pre-weighted salary sub-score in [0,0.3]:
// the overlap of the two ranges divided by their total span, times 0.3.
// Unknown minimums on either side score zero; an unknown candidate maximum is
// derived with salary.DefaultMax rather than treated as zero or infinite.
func SalaryProximityScore(candMin, candMax, jobMin, jobMax int) float64 {
	if candMin <= 0 || jobMin <= 0 {
		return 0
	}
	if candMax <= 0 {
		candMax = salary.DefaultMax(candMin)
	}
	if jobMax <= 0 {
		jobMax = salary.DefaultMax(jobMin)
	}
	candLo, candHi := ordered(candMin, candMax)
	jobLo, jobHi := ordered(jobMin, jobMax)

	overlap := min(candHi, jobHi) - max(candLo, jobLo)
	if overlap <= 0 {
		return 0
	}
	totalSpan := max(candHi, jobHi) - min(candLo, jobLo)
	if totalSpan <= 0 {
		return 0
	}
	return float64(overlap) / float64(totalSpan) * salaryWeight
}

// Compute scores a candidate against a requisition. Nil inputs yield an
// all-zero score rather than an error: a missing side simply cannot match.
func Compute(cand *Candidate, job *Requisition) Score {
	if cand == nil || job == nil {
		return Score{}
	}
	s := Score{
		Skill:  SkillOverlapScore(&cand.Skills, &job.Skills) * skillWeight,
		Salary: SalaryProximityScore(cand.Salary.Min, cand.Salary.Max, job.Salary.Min, job.Salary.Max),
	}
	s.Total = s.Skill + s.Salary
	return s
}

// Reasons explains a match for UI collaborators: one line per overlapping
// skill category and a note on salary-range intersection.
func Reasons(cand *Candidate, job *Requisition) []string {
	if cand == nil || job == nil {
		return nil
	}
	var reasons []string
	for _, pair := range skillPairs(cand.Skills, job.Skills) {
		if pair.have && pair.want {
			reasons = append(reasons, fmt.Sprintf("Has required %s experience", pair.label))
		}
	}
	if sal := SalaryProximityScore(cand.Salary.Min, cand.Salary.Max, job.Salary.Min, job.Salary.Max); sal > 0 {
		reasons = append(reasons, salaryReason(cand.Salary))
	}
	return reasons
}

func salaryReason(cand SalaryRange) string {
	label, ok := salary.BandLabel(cand.Min)
	if !ok {
		return "Salary expectations overlap the advertised range"
	}
	return fmt.Sprintf("Salary expectations (from %s band) overlap the advertised range", label)
}

type skillPair struct {
	label string
	have  bool
	want  bool
}

func skillPairs(have, want candidate.SkillSet) []skillPair {
	return []skillPair{
		{"communications", have.Communications, want.Communications},
		{"campaigns", have.Campaigns, want.Campaigns},
		{"policy", have.Policy, want.Policy},
		{"public affairs", have.PublicAffairs, want.PublicAffairs},
	}
}

// SkillLabels returns the overlapping category names, for compact display.
func SkillLabels(have, want candidate.SkillSet) []string {
	var out []string
	for _, p := range skillPairs(have, want) {
		if p.have && p.want {
			out = append(out, p.label)
		}
	}
	return out
}

// Summary renders a score as a short human-readable line.
func (s Score) Summary() string {
	return fmt.Sprintf("total %.2f (skills %.2f, salary %.2f)", s.Total, s.Skill, s.Salary)
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
