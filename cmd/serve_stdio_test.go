package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

func stdioTestServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("bridge-test", "0.0.0")
}

func TestRunStdioServerStopsOnClosedInput(t *testing.T) {
	var out bytes.Buffer

	err := runStdioServer(context.Background(), stdioTestServer(), strings.NewReader(""), &out)

	assert.NoError(t, err, "end of input is a clean shutdown")
}

func TestRunStdioServerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in, _ := io.Pipe()
	var out bytes.Buffer

	done := make(chan error, 1)
	go func() {
		done <- runStdioServer(ctx, stdioTestServer(), in, &out)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean shutdown")
	case <-time.After(2 * time.Second):
		t.Fatal("stdio server did not stop after context cancellation")
	}
}

func TestRunStdioServerAnswersRequests(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test-client","version":"0.0.0"}}}` + "\n")
	var out bytes.Buffer

	err := runStdioServer(context.Background(), stdioTestServer(), in, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), `"jsonrpc"`)
	assert.Contains(t, out.String(), "bridge-test")
}
