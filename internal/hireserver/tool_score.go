package hireserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lgucareers/go_hire/internal/engine"
	"github.com/lgucareers/go_hire/internal/engine/hiring"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ScoreApplicantsInput is the input for score_applicants.
type ScoreApplicantsInput struct {
	Job        hiring.Job         `json:"job"`
	Applicants []hiring.Applicant `json:"applicants"`
	Persist    bool               `json:"persist,omitempty"`
}

// ScoreApplicantsOutput is the output for score_applicants.
type ScoreApplicantsOutput struct {
	JobID     string                        `json:"job_id"`
	Records   []hiring.ApplicantScoreRecord `json:"records"`
	Summary   hiring.ScoreSummary           `json:"summary"`
	Persisted bool                          `json:"persisted"`
}

func registerScoreApplicants(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_applicants",
		Description: "Score a batch of applicants against one job posting and rank them. Components: education (taxonomy-canonicalized), experience, skills, eligibility, combined by configured weights. Ranking is deterministic; tied displayed scores are nudged apart. Set persist=true to replace the job's stored score set.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ScoreApplicantsInput) (*mcp.CallToolResult, ScoreApplicantsOutput, error) {
		if input.Job.ID == "" {
			return nil, ScoreApplicantsOutput{}, fmt.Errorf("job.id is required")
		}
		if len(input.Applicants) == 0 {
			return nil, ScoreApplicantsOutput{}, fmt.Errorf("applicants are required")
		}

		records := make([]hiring.ApplicantScoreRecord, 0, len(input.Applicants))
		err := engine.TrackOperation(ctx, "score_applicants", func(ctx context.Context) error {
			for _, a := range input.Applicants {
				if a.ID == "" {
					return fmt.Errorf("every applicant needs an id")
				}
				records = append(records, hiring.ScoreApplicant(ctx, a, input.Job))
			}
			return nil
		})
		if err != nil {
			return nil, ScoreApplicantsOutput{}, err
		}
		records = hiring.RankScores(records)

		scores := make([]float64, len(records))
		for i, r := range records {
			scores[i] = r.CompositeScore
		}

		out := ScoreApplicantsOutput{
			JobID:   input.Job.ID,
			Records: records,
			Summary: hiring.Summarize(scores),
		}

		if input.Persist {
			db := hiring.GetScoreDB()
			if db == nil {
				return nil, ScoreApplicantsOutput{}, fmt.Errorf("persist requested but no score database is configured")
			}
			if err := db.ReplaceJobScores(ctx, input.Job.ID, records); err != nil {
				return nil, ScoreApplicantsOutput{}, fmt.Errorf("persist scores: %w", err)
			}
			out.Persisted = true
		}

		slog.Info("scored applicants",
			slog.String("job_id", input.Job.ID),
			slog.Int("applicants", len(records)),
			slog.Bool("persisted", out.Persisted))
		return nil, out, nil
	})
}
