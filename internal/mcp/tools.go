package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/covfix/covfix/internal/application"
	"github.com/covfix/covfix/internal/domain"
)

// handleRewrite implements the rewrite tool.
func (s *Server) handleRewrite(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RewriteInput,
) (*mcp.CallToolResult, ToolOutput, error) {
	opts := application.RewriteOptions{
		ConfigPath: coalesce(input.ConfigPath, s.config.ConfigPath),
		Database:   coalesce(input.Database, s.config.Database),
		From:       input.From,
		To:         input.To,
	}

	err := s.svc.Rewrite(ctx, opts)

	output := ToolOutput{
		Passed: err == nil,
	}

	if err != nil {
		output.Error = err.Error()
		output.Summary = "Failed to rewrite coverage database"
	} else {
		output.Summary = "Coverage database rewritten"
	}

	return nil, output, nil
}

// handleReport implements the report tool.
func (s *Server) handleReport(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ReportInput,
) (*mcp.CallToolResult, ToolOutput, error) {
	opts := application.ReportOptions{
		ConfigPath: coalesce(input.ConfigPath, s.config.ConfigPath),
		Database:   coalesce(input.Database, s.config.Database),
		Output:     application.OutputJSON,
		OS:         input.OS,
	}

	summary, err := s.svc.ReportSummary(ctx, opts)

	output := ToolOutput{
		Passed: err == nil,
		Files:  summary.Files,
	}

	if err != nil {
		output.Error = err.Error()
	}

	output.Summary = generateSummary(summary)

	return nil, output, nil
}

// handleExcludesResource returns the marker list for the current OS.
func (s *Server) handleExcludesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	markers := s.svc.Excludes(ctx, "")

	data, err := json.MarshalIndent(markers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal exclusion markers: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// generateSummary creates a human-readable summary from the report.
func generateSummary(summary domain.Summary) string {
	if len(summary.Files) == 0 {
		return "No files in coverage database"
	}
	return fmt.Sprintf("%.*f%% overall | %d/%d statements | %d files",
		summary.Precision, summary.Percent, summary.Covered, summary.Total, len(summary.Files))
}
