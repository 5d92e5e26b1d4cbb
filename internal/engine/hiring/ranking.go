package hiring

import (
	"sort"

	"github.com/lgucareers/go_hire/internal/engine"
)

// displayScoreStep is the decrement applied to a tied composite score so
// every applicant on a job displays a strictly distinct score.
const displayScoreStep = 0.01

// RankScores orders a job's score records by composite score descending and
// assigns dense 1-based ranks. Raw ties are broken deterministically by
// matched skills count, then matched eligibilities count, then submission
// time, then applicant id — so repeated runs over an unchanged snapshot
// reproduce the same ordering. After ordering, tied displayed scores are
// nudged down in displayScoreStep increments so no two records on the same
// job show an identical composite score.
//
// The input is ranked in place and returned. A ranking pass always covers
// a job's full applicant set; callers swap the new set in atomically
// rather than patching individual records.
func RankScores(records []ApplicantScoreRecord) []ApplicantScoreRecord {
	engine.IncrRankingRuns()

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.MatchedSkillsCount != b.MatchedSkillsCount {
			return a.MatchedSkillsCount > b.MatchedSkillsCount
		}
		if a.MatchedEligibilitiesCount != b.MatchedEligibilitiesCount {
			return a.MatchedEligibilitiesCount > b.MatchedEligibilitiesCount
		}
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return a.ApplicantID < b.ApplicantID
	})

	for i := range records {
		records[i].Rank = i + 1
		if i == 0 {
			continue
		}
		prev := records[i-1].CompositeScore
		if records[i].CompositeScore >= prev {
			next := prev - displayScoreStep
			if next < 0 {
				next = 0
			}
			records[i].CompositeScore = roundDisplay(next)
		}
	}
	return records
}

// roundDisplay keeps displayed scores at two decimals so the tie-break
// nudge doesn't accumulate float noise.
func roundDisplay(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
