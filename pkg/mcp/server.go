// Package mcp serves a tool to Model Context Protocol clients.
package mcp

import (
	"context"
	"encoding/json"
	"io"

	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/tools"
	tooltypes "github.com/jingkaihe/skillkit/pkg/types/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
)

// ServerName is the implementation name reported to MCP clients
const ServerName = "skillkit"

// NewServer creates an MCP server exposing tool. Tool failures become error
// results so that the client model sees them; they are never protocol errors.
func NewServer(tool tooltypes.Tool, version string) (*server.MCPServer, error) {
	def := tools.NewDefinition(tool)

	schema, err := json.Marshal(def.InputSchema)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal input schema for %s", def.Name)
	}

	s := server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false))
	s.AddTool(mcp.NewToolWithRawSchema(def.Name, def.Description, schema), handler(def))

	return s, nil
}

func handler(def tooltypes.Definition) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		arguments := request.Params.Arguments
		if arguments == nil {
			arguments = map[string]any{}
		}

		parameters, err := json.Marshal(arguments)
		if err != nil {
			return mcp.NewToolResultError(errors.Wrap(err, "invalid arguments").Error()), nil
		}

		result := def.Handler(ctx, string(parameters))
		if result.IsError() {
			logger.G(ctx).WithField("tool", def.Name).WithField("error", result.GetError()).Debug("tool call failed")
			return mcp.NewToolResultError(result.GetError()), nil
		}

		return mcp.NewToolResultText(result.GetResult()), nil
	}
}

// Serve serves s over the given streams until ctx is cancelled or in is
// closed.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errLogger, closer := logger.StdLogger(ctx)
	defer closer.Close()

	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(errLogger)

	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "mcp server stopped")
	}
	return nil
}
