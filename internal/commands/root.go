package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexuscheck-dev/nexuscheck/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "nexuscheck",
		Short:   "Economic nexus analysis for sales transaction exports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newDetectCommand())
	rootCmd.AddCommand(newStatesCommand())
	rootCmd.AddCommand(newStateInfoCommand())

	return rootCmd
}
