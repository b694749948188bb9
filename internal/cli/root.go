// Package cli is the studyplanner command line: the HTTP server and a few maintenance commands
// working directly on the configured database.
package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information, set at build time using ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// NewRootCmd builds the studyplanner command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studyplanner",
		Short: "Study plans on a year calendar",
		Long: `Study planner keeps study plans made of dated tasks, tracks progress through task logs
and shows everything on a year calendar.

Configuration is read from PLANNER_* environment variables and an optional .env file.`,
		SilenceUsage: true,
	}

	root.AddCommand(ServeCmd())
	root.AddCommand(SeedCmd())
	root.AddCommand(ImportCmd())
	root.AddCommand(CalendarCmd())
	root.AddCommand(DigestCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "studyplanner version %s\n", Version)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
		},
	}
}
