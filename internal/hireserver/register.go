// Package hireserver registers the recruitment engine's operations as MCP
// tools: taxonomy management, canonicalization, applicant scoring and
// ranking, score statistics, and the application status tracker.
package hireserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all recruitment tools on the given MCP server.
func RegisterTools(server *mcp.Server) {
	registerTaxonomyLoad(server)
	registerTaxonomyDiagnostics(server)
	registerCanonicalize(server)
	registerScoreApplicants(server)
	registerJobStats(server)
	registerApplicationAdd(server)
	registerApplicationList(server)
	registerApplicationTransition(server)
	registerApplicationHistory(server)
}
