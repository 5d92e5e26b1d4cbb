package hireserver

import (
	"context"
	"errors"

	"github.com/lgucareers/go_hire/internal/engine/hiring"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ApplicationHistoryInput is the input for application_history.
type ApplicationHistoryInput struct {
	ID int64 `json:"id"`
}

// ApplicationHistoryOutput is the output for application_history.
type ApplicationHistoryOutput struct {
	ID      int64                 `json:"id"`
	Entries []hiring.HistoryEntry `json:"entries"`
}

func registerApplicationAdd(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "application_add",
		Description: "Record a new application in its lifecycle's initial status (pending). Kind selects the rules: job (default) or training. The submission becomes the first entry of the append-only status history. Returns the assigned ID.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input hiring.ApplicationAddInput) (*mcp.CallToolResult, *hiring.ApplicationResult, error) {
		if input.ApplicantID == "" || input.JobID == "" {
			return nil, nil, errors.New("applicant_id and job_id are required")
		}
		result, err := hiring.AddApplication(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerApplicationList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "application_list",
		Description: "List tracked applications, optionally filtered by job_id and/or status. Returns applications sorted by most recently updated, plus the total matching count.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input hiring.ApplicationListInput) (*mcp.CallToolResult, *hiring.ApplicationListResult, error) {
		result, err := hiring.ListApplications(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerApplicationTransition(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "application_transition",
		Description: "Move an application to a new status. The change is validated against the record's lifecycle; an off-whitelist request is rejected with the allowed next states. An accepted change appends a history entry; requesting the current status is a no-op.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input hiring.ApplicationTransitionInput) (*mcp.CallToolResult, *hiring.ApplicationResult, error) {
		if input.ID <= 0 {
			return nil, nil, errors.New("id is required")
		}
		if input.Status == "" {
			return nil, nil, errors.New("status is required")
		}
		result, err := hiring.TransitionApplication(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerApplicationHistory(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "application_history",
		Description: "Full append-only status history of one application, oldest first. The first entry has an empty from; the current status is the to of the last entry.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ApplicationHistoryInput) (*mcp.CallToolResult, ApplicationHistoryOutput, error) {
		if input.ID <= 0 {
			return nil, ApplicationHistoryOutput{}, errors.New("id is required")
		}
		entries, err := hiring.ApplicationHistory(ctx, input.ID)
		if err != nil {
			return nil, ApplicationHistoryOutput{}, err
		}
		if entries == nil {
			entries = []hiring.HistoryEntry{}
		}
		return nil, ApplicationHistoryOutput{ID: input.ID, Entries: entries}, nil
	})
}
