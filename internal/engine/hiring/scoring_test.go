package hiring

import (
	"context"
	"testing"
	"time"

	"github.com/lgucareers/go_hire/internal/engine"
	"github.com/stretchr/testify/require"
)

const eligibilityDoc = `[
	{"key": "CSP", "canonical": "Career Service Professional", "aliases": ["csp", "career service professional"]},
	{"key": "CSSP", "canonical": "Career Service Sub-Professional", "aliases": ["cssp", "career service sub-professional"]},
	{"key": "RN", "canonical": "Registered Nurse License", "aliases": ["rn", "nursing license"]}
]`

func setupScoringTaxonomies(t *testing.T) {
	t.Helper()
	SetDegreeTaxonomy(buildDegreeTaxonomy(t))
	elig, err := BuildTaxonomy([]byte(eligibilityDoc), "eligibility")
	require.NoError(t, err)
	SetEligibilityTaxonomy(elig)
}

func TestEducationScore_CreditTiers(t *testing.T) {
	engine.Init(engine.Config{})
	setupScoringTaxonomies(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		degrees     []string
		requirement string
		want        float64
	}{
		{"no requirement is open", nil, "", 100},
		{"exact canonical key", []string{"BS Information Technology"}, "BSIT", 100},
		{"same field group", []string{"computer science"}, "BSIT", fieldGroupCredit},
		{"same level only", []string{"BS Accountancy"}, "BSIT", levelCredit},
		{"best degree wins", []string{"BS Accountancy", "bsit"}, "BSIT", 100},
		{"unresolvable degree", []string{"culinary certificate"}, "BSIT", 0},
		{"no degrees", nil, "BSIT", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := educationScore(ctx, tt.degrees, tt.requirement)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEducationScore_UnresolvedRequirementFallback(t *testing.T) {
	engine.Init(engine.Config{})
	setupScoringTaxonomies(t)
	ctx := context.Background()

	// Requirement text outside the taxonomy: only near-identical degree
	// strings earn credit.
	require.Equal(t, 100.0, educationScore(ctx, []string{"bs info tech"}, "bs info tech"))
	require.Equal(t, 0.0, educationScore(ctx, []string{"nursing"}, "bs info tech"))
}

func TestExperienceScore(t *testing.T) {
	tests := []struct {
		name                 string
		years, min, max, want float64
	}{
		{"no minimum is open", 0, 0, 0, 100},
		{"meets minimum", 3, 3, 0, 100},
		{"above minimum", 5, 3, 0, 100},
		{"proportional below minimum", 1.5, 3, 0, 50},
		{"zero years", 0, 3, 0, 0},
		{"exceeding max not penalized", 10, 3, 5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := experienceScore(tt.years, tt.min, tt.max)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTotalYears_IgnoresNonPositive(t *testing.T) {
	entries := []WorkExperience{
		{Position: "clerk", Years: 2},
		{Position: "bad row", Years: -1},
		{Position: "aide", Years: 1.5},
	}
	require.Equal(t, 3.5, totalYears(entries))
}

func TestMatchedEligibilities(t *testing.T) {
	engine.Init(engine.Config{})
	setupScoringTaxonomies(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		held     []string
		required []string
		want     int
	}{
		{"canonical key match", []string{"CSP"}, []string{"career service professional"}, 1},
		{"different canonical keys", []string{"CSSP"}, []string{"career service professional"}, 0},
		{"typo falls back to similarity", []string{"career service profesional"}, []string{"career service professional"}, 1},
		{"nothing held", nil, []string{"career service professional"}, 0},
		{"two of three", []string{"csp", "rn"}, []string{"career service professional", "nursing license", "drivers license"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, matchedEligibilities(ctx, tt.held, tt.required))
		})
	}
}

func TestRatioScore(t *testing.T) {
	require.Equal(t, 100.0, ratioScore(0, 0))
	require.Equal(t, 50.0, ratioScore(1, 2))
	require.Equal(t, 0.0, ratioScore(0, 4))
}

func TestComposite_WeightsAndFallback(t *testing.T) {
	rec := ApplicantScoreRecord{
		EducationScore:   80,
		ExperienceScore:  50,
		SkillsScore:      100,
		EligibilityScore: 0,
	}

	engine.Init(engine.Config{
		EducationWeight:   0.30,
		ExperienceWeight:  0.25,
		SkillsWeight:      0.25,
		EligibilityWeight: 0.20,
	})
	require.Equal(t, 61.5, composite(rec))

	// Zero weights fall back to the default split.
	engine.Init(engine.Config{})
	require.Equal(t, 61.5, composite(rec))

	// Unnormalized weights are rescaled, not trusted.
	engine.Init(engine.Config{
		EducationWeight:   3,
		ExperienceWeight:  2.5,
		SkillsWeight:      2.5,
		EligibilityWeight: 2,
	})
	require.Equal(t, 61.5, composite(rec))
}

func TestScoreApplicant_EndToEnd(t *testing.T) {
	engine.Init(engine.Config{
		EducationWeight:   0.30,
		ExperienceWeight:  0.25,
		SkillsWeight:      0.25,
		EligibilityWeight: 0.20,
	})
	setupScoringTaxonomies(t)
	ctx := context.Background()

	job := Job{
		ID:                 "job-1",
		DegreeRequirement:  "BSIT",
		Skills:             []string{"data entry", "filing"},
		Eligibilities:      []string{"career service professional"},
		MinYearsExperience: 2,
	}

	strong := Applicant{
		ID:             "app-1",
		Education:      []string{"BS Information Technology"},
		WorkExperience: []WorkExperience{{Position: "admin aide", Years: 3}},
		Skills:         []string{"Data Entry", "document filing"},
		Eligibilities:  []string{"CSP"},
		SubmittedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	rec := ScoreApplicant(ctx, strong, job)
	require.Equal(t, 100.0, rec.EducationScore)
	require.Equal(t, 100.0, rec.ExperienceScore)
	require.Equal(t, 100.0, rec.SkillsScore)
	require.Equal(t, 100.0, rec.EligibilityScore)
	require.Equal(t, 100.0, rec.CompositeScore)
	require.Equal(t, 2, rec.MatchedSkillsCount)
	require.Equal(t, 1, rec.MatchedEligibilitiesCount)
	require.Len(t, rec.SkillMatches, 2)
	require.Equal(t, strong.SubmittedAt, rec.SubmittedAt)

	weak := Applicant{
		ID:             "app-2",
		Education:      []string{"BS Accountancy"},
		WorkExperience: []WorkExperience{{Position: "cook", Years: 1}},
		Skills:         []string{"cooking"},
		SubmittedAt:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	rec = ScoreApplicant(ctx, weak, job)
	require.Equal(t, levelCredit, rec.EducationScore)
	require.Equal(t, 50.0, rec.ExperienceScore)
	require.Equal(t, 0.0, rec.SkillsScore)
	require.Equal(t, 0.0, rec.EligibilityScore)
	require.Equal(t, 24.5, rec.CompositeScore)
}

func TestScoreApplicant_Deterministic(t *testing.T) {
	engine.Init(engine.Config{})
	setupScoringTaxonomies(t)
	ctx := context.Background()

	a := Applicant{
		ID:             "app-1",
		Education:      []string{"bscs"},
		WorkExperience: []WorkExperience{{Years: 4}},
		Skills:         []string{"record keeping"},
		Eligibilities:  []string{"csp"},
	}
	job := Job{
		ID:                "job-9",
		DegreeRequirement: "computer science",
		Skills:            []string{"record keeping", "budgeting"},
		Eligibilities:     []string{"csp"},
	}

	first := ScoreApplicant(ctx, a, job)
	for range 5 {
		require.Equal(t, first, ScoreApplicant(ctx, a, job))
	}
}
