package cli

import (
	"github.com/spf13/cobra"

	"github.com/jimmy-wims/course-log/internal/version"
)

// NewRootCmd returns the course-log command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "course-log",
		Short:   "Course activity log report",
		Version: version.String(),
		Long: `course-log serves the activity log report of a course: filtered,
paginated log entries with their context, user and description, and
downloads of the same entries as CSV, Excel, JSON or HTML.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(ExportCmd())
	rootCmd.AddCommand(SeedDemoCmd())
	rootCmd.AddCommand(VersionCmd())

	return rootCmd
}

// VersionCmd returns the version command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version.PrintVersion(cmd.OutOrStdout())
		},
	}
}
