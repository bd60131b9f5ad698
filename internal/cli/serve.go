package cli

import (
	"github.com/spf13/cobra"

	"github.com/jimmy-wims/course-log/internal/bootstrap"
	"github.com/jimmy-wims/course-log/internal/config"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the report web server",
		Long: `Start the HTTP server: the report page at /course/report/log, the JSON
API under /api/courses/:id and the session handoff from the host platform.
The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Run(config.Load())
		},
	}
}
