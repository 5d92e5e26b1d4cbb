// go_hire — municipal recruitment canonicalization & ranking MCP server.
//
// Exposes the hiring engine as MCP tools: taxonomy management, free-text
// canonicalization (dictionary → embedding → LLM), applicant scoring and
// deterministic ranking, score statistics, and the application status
// tracker. Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/lgucareers/go_hire/internal/engine"
	"github.com/lgucareers/go_hire/internal/engine/hiring"
	"github.com/lgucareers/go_hire/internal/hireserver"
	"github.com/lgucareers/go_hire/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	slog.Info("starting go_hire",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_hire",
		Version: version,
	}, nil)

	hireserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 9))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_hire",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:           env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.0),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 400),

		EmbedAPIBase: env.Str("EMBED_API_BASE", ""),
		EmbedAPIKey:  env.Str("EMBED_API_KEY", ""),
		EmbedModel:   env.Str("EMBED_MODEL", "text-embedding-3-small"),
		EmbedRPS:     env.Float("EMBED_RPS", 5),

		EmbeddingEnabled: envBool("EMBEDDING_ENABLED", true),
		LLMEnabled:       envBool("LLM_ENABLED", true),

		EmbedMinSimilarity:   env.Float("EMBED_MIN_SIMILARITY", 0.30),
		LLMShortlistSize:     env.Int("LLM_SHORTLIST_SIZE", 20),
		LLMDefaultConfidence: env.Float("LLM_DEFAULT_CONFIDENCE", 0.25),

		EducationWeight:   env.Float("WEIGHT_EDUCATION", 0.30),
		ExperienceWeight:  env.Float("WEIGHT_EXPERIENCE", 0.25),
		SkillsWeight:      env.Float("WEIGHT_SKILLS", 0.25),
		EligibilityWeight: env.Float("WEIGHT_ELIGIBILITY", 0.20),

		DatabaseURL: env.Str("DATABASE_URL", ""),

		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	} else {
		slog.Warn("LLM_API_KEY not set, LLM canonicalization tier disabled")
	}

	if c.EmbedAPIBase != "" {
		c.EmbedClient = engine.NewEmbedClient(c.EmbedAPIBase, c.EmbedAPIKey, c.EmbedModel, c.EmbedRPS)
	} else {
		slog.Warn("EMBED_API_BASE not set, embedding canonicalization tier disabled")
	}

	engine.Init(c)

	loadTaxonomies()

	// Job score store (PostgreSQL)
	if c.DatabaseURL != "" {
		sdb, err := hiring.ConnectScoreDB(context.Background(), c.DatabaseURL)
		if err != nil {
			slog.Warn("score DB init failed, scores will not be persisted", slog.Any("error", err))
		} else {
			hiring.SetScoreDB(sdb)
			slog.Info("score DB initialized")
		}
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}

// loadTaxonomies loads the canonical degree and eligibility taxonomies from
// the configured files. Missing files are tolerated at startup: taxonomies
// can also be loaded at runtime via the taxonomy_load tool.
func loadTaxonomies() {
	load := func(envName, defPath, name string, set func(*hiring.Taxonomy)) {
		path := env.Str(envName, defPath)
		tax, err := toolutil.LoadTaxonomyFile(path, name)
		if err != nil {
			slog.Warn("taxonomy not loaded", slog.String("name", name), slog.Any("error", err))
			return
		}
		set(tax)
		slog.Info("taxonomy loaded",
			slog.String("name", name),
			slog.Int("entries", tax.Len()),
			slog.Int("collisions", len(tax.Collisions())))
	}
	load("DEGREE_TAXONOMY_FILE", "taxonomies/degrees.json", "degree", hiring.SetDegreeTaxonomy)
	load("ELIGIBILITY_TAXONOMY_FILE", "taxonomies/eligibilities.json", "eligibility", hiring.SetEligibilityTaxonomy)
}

func envBool(name string, def bool) bool {
	v := env.Str(name, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
