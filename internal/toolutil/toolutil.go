// Package toolutil provides shared helper functions for go_hire MCP tools.
package toolutil

import (
	"fmt"
	"os"

	"github.com/lgucareers/go_hire/internal/engine/hiring"
)

// ClampLimit normalises a result limit: non-positive → def, above max → max.
func ClampLimit(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// LoadTaxonomyFile reads a taxonomy JSON document from disk and builds it.
func LoadTaxonomyFile(path, name string) (*hiring.Taxonomy, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: read %s: %w", name, path, err)
	}
	tax, err := hiring.BuildTaxonomy(doc, name)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", name, err)
	}
	return tax, nil
}
