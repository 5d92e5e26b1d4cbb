package hiring

import (
	"context"
	"math"
	"time"

	"github.com/lgucareers/go_hire/internal/engine"
)

// Applicant is the profile snapshot the engine scores. The surrounding
// portal assembles it from the applicant's submitted forms; the engine
// never reads storage itself.
type Applicant struct {
	ID             string           `json:"id"`
	Education      []string         `json:"education,omitempty"`      // free-text degree names
	WorkExperience []WorkExperience `json:"work_experience,omitempty"`
	Skills         []string         `json:"skills,omitempty"`
	Eligibilities  []string         `json:"eligibilities,omitempty"` // free-text eligibility/license titles
	SubmittedAt    time.Time        `json:"submitted_at"`
}

// WorkExperience is one employment entry with its computed duration.
type WorkExperience struct {
	Position string  `json:"position,omitempty"`
	Years    float64 `json:"years"`
}

// Job carries the requirement side of a posting.
type Job struct {
	ID                 string   `json:"id"`
	DegreeRequirement  string   `json:"degree_requirement,omitempty"`
	Eligibilities      []string `json:"eligibilities,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	MinYearsExperience float64  `json:"min_years_experience,omitempty"`
	MaxYearsExperience float64  `json:"max_years_experience,omitempty"`
}

// ApplicantScoreRecord is one applicant's scored match against one job.
// Records are produced in full on every (re-)ranking pass and replaced as
// a set, never patched.
type ApplicantScoreRecord struct {
	ApplicantID               string    `json:"applicant_id"`
	JobID                     string    `json:"job_id"`
	EducationScore            float64   `json:"education_score"`
	ExperienceScore           float64   `json:"experience_score"`
	SkillsScore               float64   `json:"skills_score"`
	EligibilityScore          float64   `json:"eligibility_score"`
	CompositeScore            float64   `json:"composite_score"`
	Rank                      int       `json:"rank"`
	MatchedSkillsCount        int       `json:"matched_skills_count"`
	MatchedEligibilitiesCount int       `json:"matched_eligibilities_count"`
	SubmittedAt               time.Time `json:"submitted_at"`

	// SkillMatches carries the per-requirement detail for reporting; it does
	// not participate in ranking.
	SkillMatches []SkillMatchPair `json:"skill_matches,omitempty"`
}

// Education partial-credit tiers for non-exact canonical matches.
const (
	fieldGroupCredit = 60.0
	levelCredit      = 40.0
)

// ScoreApplicant computes component scores and the weighted composite for
// one applicant against one job. The result is a pure function of the
// inputs, the taxonomy snapshots, and the configured weights — re-scoring
// the same snapshot reproduces the same record.
func ScoreApplicant(ctx context.Context, a Applicant, job Job) ApplicantScoreRecord {
	engine.IncrScoreRequests()

	rec := ApplicantScoreRecord{
		ApplicantID: a.ID,
		JobID:       job.ID,
		SubmittedAt: a.SubmittedAt,
	}

	rec.EducationScore = educationScore(ctx, a.Education, job.DegreeRequirement)
	rec.ExperienceScore = experienceScore(totalYears(a.WorkExperience), job.MinYearsExperience, job.MaxYearsExperience)

	pairs, matchedSkills := MatchSkills(job.Skills, a.Skills)
	rec.SkillMatches = pairs
	rec.MatchedSkillsCount = matchedSkills
	rec.SkillsScore = ratioScore(matchedSkills, len(job.Skills))

	matchedElig := matchedEligibilities(ctx, a.Eligibilities, job.Eligibilities)
	rec.MatchedEligibilitiesCount = matchedElig
	rec.EligibilityScore = ratioScore(matchedElig, len(job.Eligibilities))

	rec.CompositeScore = composite(rec)
	return rec
}

// educationScore credits the applicant's best degree against the job's
// requirement: same canonical key scores 100 scaled by the tier confidence
// of the applicant-side resolution, same field group 60, same level 40.
// A job without a degree requirement is open to everyone.
func educationScore(ctx context.Context, degrees []string, requirement string) float64 {
	if requirement == "" {
		return 100
	}
	tax := DegreeTaxonomy()
	req := Resolve(ctx, requirement, tax)
	if !req.Matched() {
		// Requirement text outside the taxonomy: fall back to direct string
		// similarity so a typo in a posting doesn't zero out every applicant.
		best := 0.0
		for _, d := range degrees {
			if sim := engine.StringSimilarity(d, requirement); sim > best {
				best = sim
			}
		}
		if best >= highBandFloor {
			return best
		}
		return 0
	}
	reqEntity, _ := tax.ByKey(req.CanonicalKey)

	best := 0.0
	for _, d := range degrees {
		res := Resolve(ctx, d, tax)
		if !res.Matched() {
			continue
		}
		credit := 0.0
		switch {
		case res.CanonicalKey == req.CanonicalKey:
			credit = 100 * res.Confidence
		case sameFieldGroup(tax, res.CanonicalKey, reqEntity):
			credit = fieldGroupCredit
		case sameLevel(tax, res.CanonicalKey, reqEntity):
			credit = levelCredit
		}
		if credit > best {
			best = credit
		}
	}
	return best
}

func sameFieldGroup(tax *Taxonomy, key string, req *CanonicalEntity) bool {
	e, ok := tax.ByKey(key)
	return ok && req != nil && e.FieldGroup != "" && e.FieldGroup == req.FieldGroup
}

func sameLevel(tax *Taxonomy, key string, req *CanonicalEntity) bool {
	e, ok := tax.ByKey(key)
	return ok && req != nil && e.Level != "" && e.Level == req.Level
}

// experienceScore compares total years against the job's bounds: at or
// above the minimum is full credit, below is proportional. Exceeding the
// maximum is never penalized.
func experienceScore(years, minYears, maxYears float64) float64 {
	if minYears <= 0 {
		return 100
	}
	if years >= minYears {
		return 100
	}
	if years <= 0 {
		return 0
	}
	return years / minYears * 100
}

func totalYears(entries []WorkExperience) float64 {
	total := 0.0
	for _, e := range entries {
		if e.Years > 0 {
			total += e.Years
		}
	}
	return total
}

// matchedEligibilities counts required eligibilities the applicant holds,
// by canonical key when both sides resolve, by high string similarity
// otherwise.
func matchedEligibilities(ctx context.Context, held, required []string) int {
	tax := EligibilityTaxonomy()
	resolvedHeld := make([]NormalizationResult, len(held))
	for i, h := range held {
		resolvedHeld[i] = Resolve(ctx, h, tax)
	}

	matched := 0
	for _, req := range required {
		reqRes := Resolve(ctx, req, tax)
		for i, h := range held {
			if reqRes.Matched() && resolvedHeld[i].Matched() {
				if resolvedHeld[i].CanonicalKey == reqRes.CanonicalKey {
					matched++
					break
				}
				continue
			}
			if engine.StringSimilarity(h, req) >= highBandFloor {
				matched++
				break
			}
		}
	}
	return matched
}

// ratioScore maps matched/total onto 0–100; an empty requirement list is
// full credit.
func ratioScore(matched, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(matched) / float64(total) * 100
}

// composite combines the component scores with the configured weights,
// normalized so misconfigured weights still produce a 0–100 scale, and
// rounded to one decimal.
func composite(rec ApplicantScoreRecord) float64 {
	wEdu := engine.Cfg.EducationWeight
	wExp := engine.Cfg.ExperienceWeight
	wSkill := engine.Cfg.SkillsWeight
	wElig := engine.Cfg.EligibilityWeight

	sum := wEdu + wExp + wSkill + wElig
	if sum <= 0 {
		wEdu, wExp, wSkill, wElig = 0.30, 0.25, 0.25, 0.20
		sum = 1
	}

	raw := (rec.EducationScore*wEdu + rec.ExperienceScore*wExp +
		rec.SkillsScore*wSkill + rec.EligibilityScore*wElig) / sum
	return round1(raw)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
