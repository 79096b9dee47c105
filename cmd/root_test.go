package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")

	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Equal(t, "k8s-slack-bridge version 1.2.3\n", out.String())
}

func TestRootCommandHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["version"])
}

func TestServeFlagDefaults(t *testing.T) {
	cmd := newServeCmd()

	tests := []struct {
		flag string
		want string
	}{
		{"transport", "stdio"},
		{"http-addr", ":8080"},
		{"http-endpoint", "/mcp"},
		{"namespace", "default"},
		{"log-tail-lines", "100"},
		{"slack-text-limit", "3000"},
		{"log-level", "info"},
		{"log-format", "json"},
		{"metrics", "true"},
		{"in-cluster", "false"},
	}
	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.flag)
		require.NotNil(t, f, tt.flag)
		assert.Equal(t, tt.want, f.DefValue, tt.flag)
	}

	timeout, err := cmd.Flags().GetDuration("command-timeout")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestServeRejectsUnknownTransport(t *testing.T) {
	err := runServe(ServeConfig{
		Transport:        "carrier-pigeon",
		DefaultNamespace: "default",
		CommandTimeout:   time.Second,
		LogTailLines:     10,
		SlackTextLimit:   100,
	})

	require.Error(t, err)
	// Gateway construction fails first when no cluster is reachable, or
	// the transport check fails; either way serve must not start.
}
