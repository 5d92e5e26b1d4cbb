package hireserver

import (
	"context"
	"fmt"

	"github.com/lgucareers/go_hire/internal/engine/hiring"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CanonicalizeInput is the input for canonicalize.
type CanonicalizeInput struct {
	Value    string `json:"value"`
	Taxonomy string `json:"taxonomy,omitempty"` // degree (default) or eligibility
}

// CanonicalizeOutput is the output for canonicalize.
type CanonicalizeOutput struct {
	RawInput      string  `json:"raw_input"`
	CanonicalKey  string  `json:"canonical_key,omitempty"`
	CanonicalName string  `json:"canonical_name,omitempty"`
	Method        string  `json:"method,omitempty"` // dictionary, embedding, or llm
	Confidence    float64 `json:"confidence"`
	Matched       bool    `json:"matched"`
}

func registerCanonicalize(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "canonicalize",
		Description: "Resolve free-text input (a degree name or an eligibility title) to its canonical taxonomy entry. Tries the alias dictionary first, then embedding similarity, then LLM classification; reports which tier matched and its confidence.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CanonicalizeInput) (*mcp.CallToolResult, CanonicalizeOutput, error) {
		if input.Value == "" {
			return nil, CanonicalizeOutput{}, fmt.Errorf("value is required")
		}
		name := input.Taxonomy
		if name == "" {
			name = "degree"
		}
		tax, err := taxonomyByName(name)
		if err != nil {
			return nil, CanonicalizeOutput{}, err
		}

		res := hiring.Resolve(ctx, input.Value, tax)
		out := CanonicalizeOutput{
			RawInput:     input.Value,
			CanonicalKey: res.CanonicalKey,
			Method:       res.Method,
			Confidence:   res.Confidence,
			Matched:      res.Matched(),
		}
		if entity, ok := tax.ByKey(res.CanonicalKey); ok {
			out.CanonicalName = entity.CanonicalName
		}
		return nil, out, nil
	})
}
