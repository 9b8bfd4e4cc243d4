// Package mcp exposes routing over the Model Context Protocol so agent
// clients can file notes and inspect the ledger without the HTTP API.
// Tools call the routing and history services directly
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"protokoll/internal/core/contextpack"
	"protokoll/internal/core/version"
	"protokoll/internal/platform/logger"
	histdom "protokoll/internal/services/history/domain"
	routdom "protokoll/internal/services/routing/domain"
)

// Config configures the MCP server
type Config struct {
	// Name is the implementation name announced to clients
	Name string
	// Version overrides the build version when set
	Version string
}

// Server serves routing tools over stdio
type Server struct {
	mcp    *mcp.Server
	router routdom.RouterPort
	query  histdom.QueryPort
	pack   *contextpack.Pack
	log    *logger.Logger
}

// NewServer builds the MCP server and registers its tools
func NewServer(cfg Config, router routdom.RouterPort, query histdom.QueryPort, pack *contextpack.Pack) *Server {
	if router == nil {
		panic("mcp.NewServer requires a non nil router port")
	}
	if query == nil {
		panic("mcp.NewServer requires a non nil history query port")
	}
	if pack == nil {
		panic("mcp.NewServer requires a non nil context pack")
	}
	if cfg.Name == "" {
		cfg.Name = "protokoll"
	}
	if cfg.Version == "" {
		cfg.Version = version.Info().Version
	}

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		router: router,
		query:  query,
		pack:   pack,
		log:    logger.Named("mcp"),
	}
	s.registerTools()
	return s
}

// Run serves on the stdio transport until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Msg("serving routing tools on stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
