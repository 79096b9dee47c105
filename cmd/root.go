package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the k8s-slack-bridge application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "k8s-slack-bridge",
	Short: "Command bridge between Kubernetes clusters and Slack",
	Long: `k8s-slack-bridge dispatches a small set of Kubernetes read commands and
Slack notifications through a single validated command pipeline. The same
commands are reachable as MCP tools (for AI assistants) and as Slack slash
commands (for humans in a channel).

When run without subcommands, it starts the server (equivalent to
'k8s-slack-bridge serve').`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "k8s-slack-bridge version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		// Cobra itself usually prints the error. Exiting with a non-zero
		// status code indicates that an error occurred during execution.
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
}
