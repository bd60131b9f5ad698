package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jimmy-wims/course-log/internal/bootstrap"
	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/report"
	"github.com/jimmy-wims/course-log/internal/services"
)

type exportOptions struct {
	courseID  int64
	viewerID  int64
	format    string
	groupID   int64
	userID    int64
	date      string
	module    string
	component string
	reader    string
	lang      string
	output    string
	dir       string
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the log of a course to a file",
		Long: `Export the filtered log of a course exactly like the download links of
the report page. The viewer given with --as must be allowed to see the
course logs.

The file is named like a browser download (logs_<course>_<YYYYMMDD-HHMM>)
unless --output is set; --output - writes to standard output.`,
		Example: `  course-log export --course 2 --as 2 --format csv
  course-log export --course 2 --as 2 --format excel --date 2024-03-05 --modid 12
  course-log export --course 2 --as 2 --format json --output -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), config.Load(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), time.Now())
		},
	}

	f := cmd.Flags()
	f.Int64Var(&opts.courseID, "course", 0, "course ID (required)")
	f.Int64Var(&opts.viewerID, "as", 0, "user ID of the viewer the export is made for (required)")
	f.StringVar(&opts.format, "format", report.FormatCSV, "export format: "+strings.Join(report.Formats, ", "))
	f.Int64Var(&opts.groupID, "group", 0, "only users of this group")
	f.Int64Var(&opts.userID, "user", 0, "only this user, takes precedence over --group")
	f.StringVar(&opts.date, "date", "", "only this day (YYYY-MM-DD) in the report time zone")
	f.StringVar(&opts.module, "modid", "", "course module ID or site_errors")
	f.StringVar(&opts.component, "component", "", "only this component, e.g. mod_quiz")
	f.StringVar(&opts.reader, "logreader", "", "log reader, the first enabled one by default")
	f.StringVar(&opts.lang, "lang", "", "language of headers and descriptions")
	f.StringVarP(&opts.output, "output", "o", "", "output file, - for standard output")
	f.StringVar(&opts.dir, "dir", ".", "directory of the file when --output is not set")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func runExport(
	ctx context.Context,
	cfg *config.Config,
	opts exportOptions,
	stdout, stderr io.Writer,
	now time.Time,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rep, err := bootstrap.OpenReporting(ctx, cfg)
	if err != nil {
		return err
	}
	defer rep.Close(context.Background())

	req, err := exportRequest(opts, rep.Reports().Location())
	if err != nil {
		return err
	}

	job, err := rep.Reports().PrepareExport(ctx, req, opts.format, now)
	if err != nil {
		return fmt.Errorf("export course %d: %w", opts.courseID, err)
	}

	if opts.output == "-" {
		_, err := job.WriteTo(ctx, stdout)
		return err
	}

	path := opts.output
	if path == "" {
		path = filepath.Join(opts.dir, job.Filename())
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	rows, err := job.WriteTo(ctx, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		color.New(color.FgRed).Fprintf(stderr, "✗ export failed after %d rows\n", rows)
		return err
	}

	color.New(color.FgGreen).Fprint(stderr, "✓ ")
	fmt.Fprintf(stderr, "%d rows of %s written to %s\n", rows, job.Course().ShortName, path)
	return nil
}

// exportRequest turns the filter flags into a report request.
func exportRequest(opts exportOptions, loc *time.Location) (services.ReportRequest, error) {
	if opts.courseID <= 0 {
		return services.ReportRequest{}, fmt.Errorf("%w: course %d", report.ErrInvalidCriteria, opts.courseID)
	}
	if opts.groupID < 0 || opts.userID < 0 {
		return services.ReportRequest{}, fmt.Errorf("%w: negative group or user", report.ErrInvalidCriteria)
	}

	criteria := report.Criteria{
		CourseID:   opts.courseID,
		ReaderName: opts.reader,
		GroupID:    opts.groupID,
		UserID:     opts.userID,
	}
	var err error
	if criteria.Module, err = report.ParseModuleFilter(opts.module); err != nil {
		return services.ReportRequest{}, err
	}
	if criteria.Component, err = report.ParseComponentFilter(opts.component); err != nil {
		return services.ReportRequest{}, err
	}
	if criteria.Date, err = report.ParseDate(opts.date, loc); err != nil {
		return services.ReportRequest{}, err
	}

	return services.ReportRequest{
		Criteria: criteria,
		ViewerID: opts.viewerID,
		Lang:     opts.lang,
	}, nil
}
