package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is set at build time.
var Version = "dev"

// Server wraps the application service with MCP protocol handling.
type Server struct {
	svc    Service
	config Config
}

// New creates a new MCP server wrapping the given service.
func New(svc Service, cfg Config) *Server {
	// Apply defaults
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = DefaultConfig().ConfigPath
	}
	if cfg.Database == "" {
		cfg.Database = DefaultConfig().Database
	}

	return &Server{
		svc:    svc,
		config: cfg,
	}
}

// Run starts the MCP server and blocks until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "covfix",
			Version: Version,
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
		},
	)

	s.registerTools(server)
	s.registerResources(server)

	// Run with STDIO transport
	transport := &mcp.StdioTransport{}
	if err := server.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}

	return nil
}

// registerTools adds all tool handlers to the server.
func (s *Server) registerTools(server *mcp.Server) {
	// Rewrite tool - fixes coverage database paths after install-dir runs
	mcp.AddTool(server, &mcp.Tool{
		Name:        "rewrite",
		Description: "Rewrite coverage database paths so file identifiers recorded under an install directory resolve against the visible source tree.",
	}, s.handleRewrite)

	// Report tool - summarizes an existing database
	mcp.AddTool(server, &mcp.Tool{
		Name:        "report",
		Description: "Summarize an existing coverage database with OS-conditional exclusions and omit lists applied.",
	}, s.handleReport)
}

// registerResources adds all resource handlers to the server.
func (s *Server) registerResources(server *mcp.Server) {
	// Excludes resource
	server.AddResource(&mcp.Resource{
		URI:         "covfix://excludes",
		Name:        "Exclusion Markers",
		Description: "The exclusion marker list assembled for the current operating system",
		MIMEType:    "application/json",
	}, s.handleExcludesResource)
}
