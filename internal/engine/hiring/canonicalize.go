package hiring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lgucareers/go_hire/internal/engine"
)

// Canonicalization methods, in fallback order.
const (
	MethodDictionary = "dictionary"
	MethodEmbedding  = "embedding"
	MethodLLM        = "llm"
)

// NormalizationResult is the outcome of resolving one free-text attribute
// against a taxonomy. An empty CanonicalKey means no confident match.
// RawInput carries the applicant's original spelling for audit.
type NormalizationResult struct {
	CanonicalKey string  `json:"canonical_key,omitempty"`
	Method       string  `json:"method,omitempty"`
	Confidence   float64 `json:"confidence"`
	RawInput     string  `json:"raw_input"`
}

// Matched reports whether the result carries a confident canonical key.
func (r NormalizationResult) Matched() bool { return r.CanonicalKey != "" }

// resolver is one tier of the canonicalization chain. It returns ok=false
// to pass the input to the next tier. Tiers degrade, they don't error:
// an unreachable service is a miss, not a failure.
type resolver func(ctx context.Context, raw string, tax *Taxonomy) (NormalizationResult, bool)

// Resolve canonicalizes raw free text against the taxonomy through the
// tiered fallback chain: dictionary lookup, then embedding nearest
// neighbor, then LLM classification — first confident result wins.
// Tiers two and three only run when enabled and configured.
func Resolve(ctx context.Context, raw string, tax *Taxonomy) NormalizationResult {
	engine.IncrCanonicalizeRequests()

	miss := NormalizationResult{RawInput: raw, Confidence: 0}
	if tax == nil || strings.TrimSpace(raw) == "" {
		engine.IncrNoMatches()
		return miss
	}

	cacheKey := engine.CacheKey("canon", tax.Fingerprint(), engine.NormalizeText(raw))
	if cached, ok := engine.CacheLoadJSON[NormalizationResult](ctx, cacheKey); ok {
		return cached
	}

	for _, tier := range resolverChain() {
		if res, ok := tier(ctx, raw, tax); ok {
			engine.CacheStoreJSON(ctx, cacheKey, res)
			return res
		}
	}

	engine.IncrNoMatches()
	return miss
}

// resolverChain assembles the enabled tiers in fallback order.
func resolverChain() []resolver {
	chain := []resolver{resolveDictionary}
	if engine.Cfg.EmbeddingEnabled && engine.Cfg.EmbedClient != nil {
		chain = append(chain, resolveEmbedding)
	}
	if engine.Cfg.LLMEnabled && engine.Cfg.LLMClient != nil {
		chain = append(chain, resolveLLM)
	}
	return chain
}

// resolveDictionary is the authoritative tier: a normalized alias hit is
// free, deterministic, and skips everything below it.
func resolveDictionary(_ context.Context, raw string, tax *Taxonomy) (NormalizationResult, bool) {
	e, ok := tax.Lookup(raw)
	if !ok {
		return NormalizationResult{}, false
	}
	engine.IncrDictionaryHits()
	return NormalizationResult{
		CanonicalKey: e.Key,
		Method:       MethodDictionary,
		Confidence:   1.0,
		RawInput:     raw,
	}, true
}

// resolveEmbedding picks the canonical name nearest to raw by cosine
// similarity. Canonical-name vectors are static per taxonomy snapshot and
// cached; only the applicant-side text needs a fresh embedding per call.
func resolveEmbedding(ctx context.Context, raw string, tax *Taxonomy) (NormalizationResult, bool) {
	names, vectors, err := canonicalVectors(ctx, tax)
	if err != nil {
		slog.Warn("embedding tier degraded", slog.String("taxonomy", tax.Name()), slog.Any("error", err))
		return NormalizationResult{}, false
	}

	rawVecs, err := engine.Cfg.EmbedClient.Embed(ctx, []string{engine.NormalizeText(raw)})
	if err != nil {
		slog.Warn("embedding tier degraded", slog.String("input", engine.TruncateRunes(raw, 60, "...")), slog.Any("error", err))
		return NormalizationResult{}, false
	}

	bestIdx, bestSim := -1, 0.0
	for i, v := range vectors {
		if sim := engine.Cosine(rawVecs[0], v); sim > bestSim {
			bestIdx, bestSim = i, sim
		}
	}
	if bestIdx < 0 || bestSim < engine.Cfg.EmbedMinSimilarity {
		return NormalizationResult{}, false
	}

	e, ok := tax.Lookup(names[bestIdx])
	if !ok {
		return NormalizationResult{}, false
	}
	engine.IncrEmbedTierHits()
	return NormalizationResult{
		CanonicalKey: e.Key,
		Method:       MethodEmbedding,
		Confidence:   clamp01(bestSim),
		RawInput:     raw,
	}, true
}

// canonicalVectors embeds every canonical name in the taxonomy, cached by
// snapshot fingerprint.
func canonicalVectors(ctx context.Context, tax *Taxonomy) ([]string, [][]float64, error) {
	names := make([]string, 0, tax.Len())
	for _, e := range tax.Entities() {
		names = append(names, e.CanonicalName)
	}

	cacheKey := engine.CacheKey("canonvec", engine.Cfg.EmbedModel, tax.Fingerprint())
	if vecs, ok := engine.CacheLoadJSON[[][]float64](ctx, cacheKey); ok && len(vecs) == len(names) {
		return names, vecs, nil
	}

	vecs, err := engine.Cfg.EmbedClient.Embed(ctx, names)
	if err != nil {
		return nil, nil, err
	}
	engine.CacheStoreJSON(ctx, cacheKey, vecs)
	return names, vecs, nil
}

const classifyPrompt = `You are normalizing a free-text %s name from a job applicant's form
against a controlled list of canonical entries.

Applicant wrote: %q

Candidate canonical entries:
%s

Pick the single entry the applicant most plausibly meant, or UNKNOWN if
none of them fits.

Respond with valid JSON only (no markdown, no explanation outside the JSON):
{"canonical_key": "<key from the list above, or UNKNOWN>", "confidence": <0.0-1.0>, "reasoning": "<one short sentence>"}`

// llmClassification is the structured reply expected from the classifier.
type llmClassification struct {
	CanonicalKey string  `json:"canonical_key"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
}

// resolveLLM classifies raw against a token-overlap shortlist of the
// taxonomy. UNKNOWN and keys outside the taxonomy come back as a miss with
// the configured low default confidence, never as an error.
func resolveLLM(ctx context.Context, raw string, tax *Taxonomy) (NormalizationResult, bool) {
	shortlist := shortlistCandidates(raw, tax, engine.Cfg.LLMShortlistSize)
	if len(shortlist) == 0 {
		return NormalizationResult{}, false
	}

	var sb strings.Builder
	for i, e := range shortlist {
		fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, e.Key, e.CanonicalName)
	}

	prompt := fmt.Sprintf(classifyPrompt, tax.Name(), engine.TruncateRunes(raw, 200, ""), sb.String())
	reply, err := engine.CallLLMClassify(ctx, prompt)
	if err != nil {
		slog.Warn("llm tier degraded", slog.Any("error", err))
		return NormalizationResult{}, false
	}

	var cls llmClassification
	if err := json.Unmarshal([]byte(reply), &cls); err != nil {
		slog.Warn("llm tier unparseable reply", slog.String("reply", engine.TruncateRunes(reply, 120, "...")))
		return NormalizationResult{}, false
	}

	if cls.CanonicalKey == "" || strings.EqualFold(cls.CanonicalKey, "UNKNOWN") {
		return NormalizationResult{RawInput: raw, Confidence: engine.Cfg.LLMDefaultConfidence}, true
	}
	if _, known := tax.ByKey(cls.CanonicalKey); !known {
		// A hallucinated key is treated the same as UNKNOWN.
		return NormalizationResult{RawInput: raw, Confidence: engine.Cfg.LLMDefaultConfidence}, true
	}

	engine.IncrLLMTierHits()
	return NormalizationResult{
		CanonicalKey: cls.CanonicalKey,
		Method:       MethodLLM,
		Confidence:   clamp01(cls.Confidence),
		RawInput:     raw,
	}, true
}

// shortlistCandidates narrows the taxonomy to the top-n entities by token
// overlap with raw — a cheap pre-filter so the classifier prompt stays
// small. Falls back to the first n entities when nothing overlaps.
func shortlistCandidates(raw string, tax *Taxonomy, n int) []*CanonicalEntity {
	if n <= 0 {
		n = 20
	}
	entities := tax.Entities()

	type scored struct {
		e       *CanonicalEntity
		overlap float64
		pos     int
	}
	ranked := make([]scored, 0, len(entities))
	for i, e := range entities {
		best := engine.TokenOverlap(raw, e.CanonicalName)
		for _, a := range e.Aliases {
			if o := engine.TokenOverlap(raw, a); o > best {
				best = o
			}
		}
		ranked = append(ranked, scored{e: e, overlap: best, pos: i})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].overlap != ranked[j].overlap {
			return ranked[i].overlap > ranked[j].overlap
		}
		return ranked[i].pos < ranked[j].pos
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]*CanonicalEntity, len(ranked))
	for i, s := range ranked {
		out[i] = s.e
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
