package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/store"
)

// SeedDemoCmd returns the seed-demo command
func SeedDemoCmd() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "seed-demo",
		Short: "Create a demo course with users, groups, activities and log events",
		Long: `Create the demo course CS101 in the configured database: a teacher, three
students (one suspended), two groups, a quiz, an assignment, a file and a
day of log events. Running it twice leaves the first demo in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := time.Now().UTC()
			if day != "" {
				var err error
				if d, err = time.Parse(time.DateOnly, day); err != nil {
					return fmt.Errorf("invalid --day %q: %w", day, err)
				}
			}
			return runSeedDemo(cmd, config.Load(), d, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "day of the demo events (YYYY-MM-DD), today by default")
	return cmd
}

func runSeedDemo(cmd *cobra.Command, cfg *config.Config, day time.Time, out io.Writer) error {
	db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	demo, err := db.SeedDemo(cmd.Context(), day)
	if errors.Is(err, store.ErrDemoExists) {
		color.New(color.FgYellow).Fprintln(out, "! demo course already exists, nothing to do")
		return nil
	}
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprint(out, "✓ ")
	fmt.Fprintf(out, "demo course %d seeded for %s\n", demo.CourseID, demo.Day.Format(time.DateOnly))
	fmt.Fprintf(out, "  teacher:  %d\n", demo.TeacherID)
	fmt.Fprintf(out, "  students: %v\n", demo.Students)
	fmt.Fprintf(out, "  report:   %s/course/report/log?id=%d\n", cfg.BaseURL, demo.CourseID)
	return nil
}
