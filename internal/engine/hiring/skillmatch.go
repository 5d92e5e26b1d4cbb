package hiring

import (
	"github.com/lgucareers/go_hire/internal/engine"
)

// Skill match classification bands.
const (
	MatchExact  = "exact"
	MatchHigh   = "high"
	MatchMedium = "medium"
	MatchToken  = "token"
	MatchNone   = "none"
)

// Band thresholds. The 30-point match floor is a fixed policy, not a
// per-job knob: the token fallback tops out at 30, so a token match only
// counts when every required token is present.
const (
	highBandFloor   = 80.0
	mediumBandFloor = 50.0
	tokenBandCeil   = 30.0
	matchFloor      = 30.0
)

// SkillMatchPair records how one required skill resolved against an
// applicant's skill list. Similarity is 0–100.
type SkillMatchPair struct {
	RequiredSkill         string  `json:"required_skill"`
	MatchedApplicantSkill string  `json:"matched_applicant_skill,omitempty"`
	Similarity            float64 `json:"similarity"`
	MatchType             string  `json:"match_type"`
}

// Matched reports whether the pair clears the fixed 30-point floor.
func (p SkillMatchPair) Matched() bool { return p.Similarity >= matchFloor }

// MatchSkill resolves one required skill against the applicant's free-text
// skill list and keeps the best-scoring candidate. Bands: 100 exact
// (short-circuit), >=80 high, >=50 medium; below that a token-overlap
// fallback scores (shared required tokens / required tokens) x 30.
func MatchSkill(required string, applicantSkills []string) SkillMatchPair {
	best := SkillMatchPair{RequiredSkill: required, MatchType: MatchNone}

	for _, skill := range applicantSkills {
		pair := matchOne(required, skill)
		if pair.Similarity > best.Similarity {
			best = pair
		}
		if best.MatchType == MatchExact {
			break // nothing can beat an exact hit
		}
	}
	return best
}

func matchOne(required, skill string) SkillMatchPair {
	pair := SkillMatchPair{RequiredSkill: required, MatchType: MatchNone}

	sim := engine.StringSimilarity(required, skill)
	switch {
	case sim == 100:
		pair.MatchedApplicantSkill = skill
		pair.Similarity = 100
		pair.MatchType = MatchExact
		return pair
	case sim >= highBandFloor:
		pair.MatchedApplicantSkill = skill
		pair.Similarity = sim
		pair.MatchType = MatchHigh
		return pair
	case sim >= mediumBandFloor:
		pair.MatchedApplicantSkill = skill
		pair.Similarity = sim
		pair.MatchType = MatchMedium
		return pair
	}

	// Token fallback: credit the required skill appearing inside a broader
	// applicant phrase ("network troubleshooting" in "computer network
	// troubleshooting and repair").
	reqTokens := engine.Tokenize(required)
	if len(reqTokens) == 0 {
		return pair
	}
	skillSet := engine.TokenSet(skill)
	shared := 0
	for _, tok := range reqTokens {
		if skillSet[tok] {
			shared++
		}
	}
	if shared == 0 {
		return pair
	}
	pair.MatchedApplicantSkill = skill
	pair.Similarity = float64(shared) / float64(len(reqTokens)) * tokenBandCeil
	pair.MatchType = MatchToken
	return pair
}

// MatchSkills resolves every required skill and reports the pairs plus the
// aggregate matched count.
func MatchSkills(required, applicantSkills []string) ([]SkillMatchPair, int) {
	pairs := make([]SkillMatchPair, 0, len(required))
	matched := 0
	for _, req := range required {
		pair := MatchSkill(req, applicantSkills)
		pairs = append(pairs, pair)
		if pair.Matched() {
			matched++
		}
	}
	return pairs, matched
}
