package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	CanonicalizeRequests atomic.Int64
	DictionaryHits       atomic.Int64
	EmbedTierHits        atomic.Int64
	LLMTierHits          atomic.Int64
	NoMatches            atomic.Int64
	EmbedRequests        atomic.Int64
	EmbedErrors          atomic.Int64
	LLMCalls             atomic.Int64
	LLMErrors            atomic.Int64
	ScoreRequests        atomic.Int64
	RankingRuns          atomic.Int64
	Transitions          atomic.Int64
	TransitionRejections atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"canonicalize_requests": metrics.CanonicalizeRequests.Load(),
		"dictionary_hits":       metrics.DictionaryHits.Load(),
		"embed_tier_hits":       metrics.EmbedTierHits.Load(),
		"llm_tier_hits":         metrics.LLMTierHits.Load(),
		"no_matches":            metrics.NoMatches.Load(),
		"embed_requests":        metrics.EmbedRequests.Load(),
		"embed_errors":          metrics.EmbedErrors.Load(),
		"llm_calls":             metrics.LLMCalls.Load(),
		"llm_errors":            metrics.LLMErrors.Load(),
		"score_requests":        metrics.ScoreRequests.Load(),
		"ranking_runs":          metrics.RankingRuns.Load(),
		"transitions":           metrics.Transitions.Load(),
		"transition_rejections": metrics.TransitionRejections.Load(),
		"cache_hits":            hits,
		"cache_misses":          misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"canonicalize_requests", "dictionary_hits", "embed_tier_hits", "llm_tier_hits", "no_matches",
		"embed_requests", "embed_errors", "llm_calls", "llm_errors",
		"score_requests", "ranking_runs",
		"transitions", "transition_rejections",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the hiring sub-package.
func IncrCanonicalizeRequests() { metrics.CanonicalizeRequests.Add(1) }
func IncrDictionaryHits()       { metrics.DictionaryHits.Add(1) }
func IncrEmbedTierHits()        { metrics.EmbedTierHits.Add(1) }
func IncrLLMTierHits()          { metrics.LLMTierHits.Add(1) }
func IncrNoMatches()            { metrics.NoMatches.Add(1) }
func IncrScoreRequests()        { metrics.ScoreRequests.Add(1) }
func IncrRankingRuns()          { metrics.RankingRuns.Add(1) }
func IncrTransitions()          { metrics.Transitions.Add(1) }
func IncrTransitionRejections() { metrics.TransitionRejections.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
