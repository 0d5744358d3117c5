// Package mcp exposes the slide index over the Model Context Protocol, so
// an agent can index decks and search slides through stdio tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/deckhound/deckhound/internal/config"
	"github.com/deckhound/deckhound/internal/extract"
	"github.com/deckhound/deckhound/internal/extract/pptx"
	"github.com/deckhound/deckhound/internal/pipeline"
	"github.com/deckhound/deckhound/internal/searcher"
	"github.com/deckhound/deckhound/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "deckhound"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	store    storage.Storage
	pipeline *pipeline.Pipeline
	searcher *searcher.Searcher
	workers  int
}

// NewServer creates an MCP server over the configured index.
func NewServer(cfg config.Config, log *slog.Logger) (*Server, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var hires *storage.HiresStore
	if cfg.HiresDir != "" {
		hires, err = storage.NewHiresStore(cfg.HiresDir)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	newExtractor := func() extract.Extractor {
		return pptx.NewWithConfig(pptx.Config{
			ThumbHeight:   cfg.Extract.ThumbHeight,
			HiresHeight:   cfg.Extract.HiresHeight,
			NonTextShapes: cfg.Extract.NonTextShapes,
		})
	}

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		store:    store,
		pipeline: pipeline.New(store, hires, newExtractor, log),
		searcher: searcher.NewSearcher(store),
		workers:  cfg.Workers,
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(indexDecksTool(), s.handleIndexDecks)
	s.mcp.AddTool(searchSlidesTool(), s.handleSearchSlides)
	s.mcp.AddTool(findSimilarSlidesTool(), s.handleFindSimilarSlides)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
