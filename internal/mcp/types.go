// Package mcp provides the Model Context Protocol server for covfix.
package mcp

import (
	"context"

	"github.com/covfix/covfix/internal/application"
	"github.com/covfix/covfix/internal/domain"
)

// Service defines the application operations needed by MCP.
// This interface allows for easy mocking in tests.
type Service interface {
	// Tools (actions that may have side effects)
	Rewrite(ctx context.Context, opts application.RewriteOptions) error
	ReportSummary(ctx context.Context, opts application.ReportOptions) (domain.Summary, error)

	// Resources (read-only queries)
	Excludes(ctx context.Context, osName string) []string
}

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string // Path to .covfix.yaml (default: ".covfix.yaml")
	Database   string // Path to the coverage database (default: ".coverage.out")
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() Config {
	return Config{
		ConfigPath: ".covfix.yaml",
		Database:   ".coverage.out",
	}
}

// RewriteInput defines the input parameters for the rewrite tool.
type RewriteInput struct {
	ConfigPath string `json:"configPath,omitempty" jsonschema:"description=Path to .covfix.yaml config file"`
	Database   string `json:"database,omitempty" jsonschema:"description=Path to the coverage database"`
	From       string `json:"from,omitempty" jsonschema:"description=Origin directory prefix to rewrite"`
	To         string `json:"to,omitempty" jsonschema:"description=Replacement directory prefix"`
}

// ReportInput defines the input parameters for the report tool.
type ReportInput struct {
	ConfigPath string `json:"configPath,omitempty" jsonschema:"description=Path to .covfix.yaml config file"`
	Database   string `json:"database,omitempty" jsonschema:"description=Path to the coverage database"`
	OS         string `json:"os,omitempty" jsonschema:"description=Operating system name for the exclusion set"`
}

// ToolOutput represents the common output structure for tools.
type ToolOutput struct {
	Passed  bool                  `json:"passed"`
	Summary string                `json:"summary,omitempty"`
	Files   []domain.FileCoverage `json:"files,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// coalesce returns value if non-empty, otherwise fallback.
func coalesce(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
