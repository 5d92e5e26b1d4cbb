package hireserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lgucareers/go_hire/internal/engine/hiring"
	"github.com/lgucareers/go_hire/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TaxonomyLoadInput is the input for taxonomy_load.
type TaxonomyLoadInput struct {
	Path string `json:"path"`
	Name string `json:"name"` // degree or eligibility
}

// TaxonomyLoadOutput is the output for taxonomy_load.
type TaxonomyLoadOutput struct {
	Name        string `json:"name"`
	Entries     int    `json:"entries"`
	Fingerprint string `json:"fingerprint"`
	Collisions  int    `json:"collisions"`
	Message     string `json:"message"`
}

// TaxonomyDiagnosticsInput is the input for taxonomy_diagnostics.
type TaxonomyDiagnosticsInput struct {
	Name string `json:"name"` // degree or eligibility
}

// TaxonomyDiagnosticsOutput is the output for taxonomy_diagnostics.
type TaxonomyDiagnosticsOutput struct {
	Name        string                  `json:"name"`
	Entries     int                     `json:"entries"`
	Fingerprint string                  `json:"fingerprint"`
	Collisions  []hiring.AliasCollision `json:"collisions,omitempty"`
}

// taxonomyByName maps a tool-facing taxonomy name to the loaded snapshot.
func taxonomyByName(name string) (*hiring.Taxonomy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "degree":
		if t := hiring.DegreeTaxonomy(); t != nil {
			return t, nil
		}
	case "eligibility":
		if t := hiring.EligibilityTaxonomy(); t != nil {
			return t, nil
		}
	default:
		return nil, fmt.Errorf("unknown taxonomy %q (valid: degree, eligibility)", name)
	}
	return nil, fmt.Errorf("taxonomy %q is not loaded", name)
}

func registerTaxonomyLoad(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "taxonomy_load",
		Description: "Load (or replace) a canonical taxonomy from a JSON file. Name selects the slot: degree or eligibility. Replacing a taxonomy invalidates cached canonicalization results via its fingerprint.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TaxonomyLoadInput) (*mcp.CallToolResult, TaxonomyLoadOutput, error) {
		if input.Path == "" {
			return nil, TaxonomyLoadOutput{}, fmt.Errorf("path is required")
		}

		name := strings.ToLower(strings.TrimSpace(input.Name))
		tax, err := toolutil.LoadTaxonomyFile(input.Path, name)
		if err != nil {
			return nil, TaxonomyLoadOutput{}, err
		}

		switch name {
		case "degree":
			hiring.SetDegreeTaxonomy(tax)
		case "eligibility":
			hiring.SetEligibilityTaxonomy(tax)
		default:
			return nil, TaxonomyLoadOutput{}, fmt.Errorf("unknown taxonomy %q (valid: degree, eligibility)", input.Name)
		}

		collisions := tax.Collisions()
		slog.Info("taxonomy loaded",
			slog.String("name", name),
			slog.Int("entries", tax.Len()),
			slog.Int("collisions", len(collisions)))

		return nil, TaxonomyLoadOutput{
			Name:        name,
			Entries:     tax.Len(),
			Fingerprint: tax.Fingerprint(),
			Collisions:  len(collisions),
			Message:     fmt.Sprintf("Loaded %d %s entries from %s", tax.Len(), name, input.Path),
		}, nil
	})
}

func registerTaxonomyDiagnostics(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "taxonomy_diagnostics",
		Description: "Inspect a loaded taxonomy: entry count, version fingerprint, and alias collisions (aliases claimed by more than one canonical entity; the first writer wins at lookup time).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TaxonomyDiagnosticsInput) (*mcp.CallToolResult, TaxonomyDiagnosticsOutput, error) {
		tax, err := taxonomyByName(input.Name)
		if err != nil {
			return nil, TaxonomyDiagnosticsOutput{}, err
		}
		return nil, TaxonomyDiagnosticsOutput{
			Name:        tax.Name(),
			Entries:     tax.Len(),
			Fingerprint: tax.Fingerprint(),
			Collisions:  tax.Collisions(),
		}, nil
	})
}
