package hiring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScoreDB persists ranked score sets per job in Postgres. It is optional:
// when the portal runs without a DATABASE_URL the engine still scores and
// ranks, it just hands the records back to the caller only.
type ScoreDB struct {
	pool *pgxpool.Pool
}

// Package-level singleton, set from main.go.
var scoreDB *ScoreDB

// SetScoreDB sets the package-level score DB instance.
func SetScoreDB(db *ScoreDB) { scoreDB = db }

// GetScoreDB returns the package-level score DB instance (may be nil).
func GetScoreDB() *ScoreDB { return scoreDB }

const scoreSchema = `CREATE TABLE IF NOT EXISTS job_scores (
	job_id                      TEXT NOT NULL,
	applicant_id                TEXT NOT NULL,
	education_score             DOUBLE PRECISION NOT NULL,
	experience_score            DOUBLE PRECISION NOT NULL,
	skills_score                DOUBLE PRECISION NOT NULL,
	eligibility_score           DOUBLE PRECISION NOT NULL,
	composite_score             DOUBLE PRECISION NOT NULL,
	rank                        INTEGER NOT NULL,
	matched_skills_count        INTEGER NOT NULL,
	matched_eligibilities_count INTEGER NOT NULL,
	submitted_at                TIMESTAMPTZ NOT NULL,
	ranked_at                   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (job_id, applicant_id)
)`

// ConnectScoreDB creates a pgx pool and ensures the schema exists.
func ConnectScoreDB(ctx context.Context, databaseURL string) (*ScoreDB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, scoreSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	slog.Info("score postgres connected", slog.String("addr", config.ConnConfig.Host))
	return &ScoreDB{pool: pool}, nil
}

// Close releases the pool.
func (db *ScoreDB) Close() {
	db.pool.Close()
}

// ReplaceJobScores swaps the job's entire score set in one transaction.
// A ranking pass is all-or-nothing: readers either see the previous
// complete set or the new complete set, never a half-updated mix.
func (db *ScoreDB) ReplaceJobScores(ctx context.Context, jobID string, records []ApplicantScoreRecord) error {
	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("replace scores: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM job_scores WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("replace scores: clear: %w", err)
	}

	rankedAt := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(
			`INSERT INTO job_scores (job_id, applicant_id, education_score, experience_score,
			   skills_score, eligibility_score, composite_score, rank,
			   matched_skills_count, matched_eligibilities_count, submitted_at, ranked_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			jobID, r.ApplicantID, r.EducationScore, r.ExperienceScore,
			r.SkillsScore, r.EligibilityScore, r.CompositeScore, r.Rank,
			r.MatchedSkillsCount, r.MatchedEligibilitiesCount, r.SubmittedAt, rankedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("replace scores: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("replace scores: commit: %w", err)
	}
	return nil
}

// JobScores reads a job's persisted score set back in rank order.
func (db *ScoreDB) JobScores(ctx context.Context, jobID string) ([]ApplicantScoreRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT job_id, applicant_id, education_score, experience_score,
		        skills_score, eligibility_score, composite_score, rank,
		        matched_skills_count, matched_eligibilities_count, submitted_at
		 FROM job_scores WHERE job_id = $1 ORDER BY rank`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("job scores: query: %w", err)
	}
	defer rows.Close()

	var records []ApplicantScoreRecord
	for rows.Next() {
		var r ApplicantScoreRecord
		if err := rows.Scan(&r.JobID, &r.ApplicantID, &r.EducationScore, &r.ExperienceScore,
			&r.SkillsScore, &r.EligibilityScore, &r.CompositeScore, &r.Rank,
			&r.MatchedSkillsCount, &r.MatchedEligibilitiesCount, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("job scores: scan: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
