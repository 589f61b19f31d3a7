package candidate

import "regexp"

// Skill detection is keyword-driven. Each category has one alternation matched
// against the lowercased document; categories are independent, so a résumé can
// match any subset.
var (
	communicationsRe = regexp.MustCompile(`communication|media relations|press (office|officer|release|secretary)|public relations|\bpr\b|journalis|corporate comms|internal comms|social media|content strateg`)

	campaignsRe = regexp.MustCompile(`campaign|advocacy|grassroot|canvass|mobilis|mobiliz|get out the vote|voter contact|field organis|field organiz|electoral`)

	policyRe = regexp.MustCompile(`\bpolicy\b|\bpolicies\b|legislat|regulat|parliamentary|select committee|white paper|green paper|policy briefing|think tank`)

	publicAffairsRe = regexp.MustCompile(`public affairs|government relations|government affairs|lobby|stakeholder engagement|political engagement|external affairs`)
)

// detectSkills flags each category present in the lowercased text.
func detectSkills(lower string) SkillSet {
	return SkillSet{
		Communications: communicationsRe.MatchString(lower),
		Campaigns:      campaignsRe.MatchString(lower),
		Policy:         policyRe.MatchString(lower),
		PublicAffairs:  publicAffairsRe.MatchString(lower),
	}
}
