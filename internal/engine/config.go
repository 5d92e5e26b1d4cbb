package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int

	EmbedAPIBase string
	EmbedAPIKey  string
	EmbedModel   string
	EmbedRPS     float64 // embedding requests per second, 0 = unlimited

	EmbeddingEnabled bool // embedding fallback tier for canonicalization
	LLMEnabled       bool // LLM classification tier for canonicalization

	// EmbedMinSimilarity is the cosine acceptance floor for the embedding tier.
	// The original pipeline accepted any positive similarity; the floor is
	// configurable here instead of hardcoded.
	EmbedMinSimilarity   float64
	LLMShortlistSize     int     // taxonomy candidates shown to the LLM classifier
	LLMDefaultConfidence float64 // confidence assigned to UNKNOWN / invalid-key replies

	// Composite score weights. Normalized at scoring time, so they only
	// need to be positive.
	EducationWeight   float64
	ExperienceWeight  float64
	SkillsWeight      float64
	EligibilityWeight float64

	DatabaseURL string

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
	LLMClient            *llm.Client  // nil = LLM tier disabled regardless of LLMEnabled
	EmbedClient          *EmbedClient // nil = embedding tier disabled regardless of EmbeddingEnabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (hiring, hireserver).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
