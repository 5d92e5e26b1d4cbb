package hireserver

import (
	"context"
	"fmt"

	"github.com/lgucareers/go_hire/internal/engine/hiring"
	"github.com/lgucareers/go_hire/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// JobStatsInput is the input for job_stats. Either job_id (reads the stored
// score set) or scores (ad-hoc values) must be provided.
type JobStatsInput struct {
	JobID       string    `json:"job_id,omitempty"`
	Scores      []float64 `json:"scores,omitempty"`
	Buckets     int       `json:"buckets,omitempty"`      // histogram buckets, default 5
	ApplicantID string    `json:"applicant_id,omitempty"` // report this applicant's standing
}

// ApplicantStanding locates one applicant within the pool.
type ApplicantStanding struct {
	ApplicantID string          `json:"applicant_id"`
	Score       float64         `json:"score"`
	Percentile  float64         `json:"percentile"`
	Gap         hiring.ScoreGap `json:"gap_from_top"`
}

// JobStatsOutput is the output for job_stats.
type JobStatsOutput struct {
	JobID     string                   `json:"job_id,omitempty"`
	Summary   hiring.ScoreSummary      `json:"summary"`
	Histogram []hiring.HistogramBucket `json:"histogram,omitempty"`
	Standing  *ApplicantStanding       `json:"standing,omitempty"`
}

func registerJobStats(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_stats",
		Description: "Score distribution statistics for a job's applicant pool: min/max/mean/median/stddev, an equal-width histogram, and optionally one applicant's percentile and gap from the leader. Reads the stored score set by job_id, or accepts an ad-hoc scores array.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobStatsInput) (*mcp.CallToolResult, JobStatsOutput, error) {
		scores := input.Scores
		var records []hiring.ApplicantScoreRecord

		if input.JobID != "" {
			db := hiring.GetScoreDB()
			if db == nil {
				return nil, JobStatsOutput{}, fmt.Errorf("no score database is configured; pass scores directly")
			}
			var err error
			records, err = db.JobScores(ctx, input.JobID)
			if err != nil {
				return nil, JobStatsOutput{}, fmt.Errorf("load scores: %w", err)
			}
			scores = make([]float64, len(records))
			for i, r := range records {
				scores[i] = r.CompositeScore
			}
		}
		if len(scores) == 0 {
			return nil, JobStatsOutput{}, fmt.Errorf("job_id or scores is required")
		}

		out := JobStatsOutput{
			JobID:     input.JobID,
			Summary:   hiring.Summarize(scores),
			Histogram: hiring.Histogram(scores, toolutil.ClampLimit(input.Buckets, 5, 20)),
		}

		if input.ApplicantID != "" {
			found := false
			for _, r := range records {
				if r.ApplicantID == input.ApplicantID {
					out.Standing = &ApplicantStanding{
						ApplicantID: r.ApplicantID,
						Score:       r.CompositeScore,
						Percentile:  hiring.PercentileOf(scores, r.CompositeScore),
						Gap:         hiring.GapFromTop(scores, r.CompositeScore),
					}
					found = true
					break
				}
			}
			if !found {
				return nil, JobStatsOutput{}, fmt.Errorf("applicant %q has no stored score for job %q", input.ApplicantID, input.JobID)
			}
		}
		return nil, out, nil
	})
}
