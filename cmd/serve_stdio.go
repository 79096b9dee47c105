package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// runStdioServer serves MCP over in/out until the input stream closes or
// ctx is canceled. Both are clean shutdowns. Nothing besides protocol
// frames may be written to out, so there is no startup or shutdown logging
// on this path.
func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stdio server stopped with error: %w", err)
	}
	return nil
}
