package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"storygraph/internal/store"
	"storygraph/internal/unified"
)

type Server struct {
	system *unified.System
	store  store.Store
	mcp    *sdk.Server
}

// NewServer wires the tool handlers over the unified system. The store may
// be nil, in which case created events live in memory only.
func NewServer(system *unified.System, db store.Store, version string) *Server {
	s := &Server{
		system: system,
		store:  db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "storygraph",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
