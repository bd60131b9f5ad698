package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/lang"
	"github.com/jimmy-wims/course-log/internal/metrics"
	"github.com/jimmy-wims/course-log/internal/models"
	"github.com/jimmy-wims/course-log/internal/report"
	"github.com/jimmy-wims/course-log/internal/store"
)

const componentOptionsKey = "report:components"

// Activity names longer than maxActivityName runes are cut to
// truncatedActivityName runes followed by "...".
const (
	maxActivityName       = 55
	truncatedActivityName = 50
)

// ReportStore is the part of the store the report service reads.
type ReportStore interface {
	core.Directory
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	CourseContextID(ctx context.Context, courseID int64) (int64, error)
	ListCourseModules(ctx context.Context, courseID int64) ([]models.CourseModule, error)
	ListGroups(ctx context.Context, courseID int64) ([]models.Group, error)
	DistinctComponents(ctx context.Context, allowed []string) ([]string, error)
}

// ReportOptions are deployment settings of the report.
type ReportOptions struct {
	Location       *time.Location
	HostBaseURL    string
	PageSize       int
	ToursComponent string
	CacheTTL       time.Duration
}

// ReportRequest is one request for the course log.
type ReportRequest struct {
	Criteria report.Criteria
	ViewerID int64
	Page     int
	Lang     string
}

// ReportView is everything needed to display one page of the report.
type ReportView struct {
	Course     *models.Course
	Criteria   report.Criteria
	ReaderName string
	// NoReader is set when no log reader could serve the request; Page is
	// then empty.
	NoReader  bool
	Headers   []string
	Page      *report.Page[report.Row]
	Localizer lang.Localizer
}

// Option is one entry of a filter menu.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionGroup is a labelled group of options, e.g. the activities of one
// course section.
type OptionGroup struct {
	Label   string   `json:"label"`
	Options []Option `json:"options"`
}

// FilterOptions are the menus of the filter form.
type FilterOptions struct {
	Groups     []Option      `json:"groups"`
	Components []Option      `json:"components"`
	Activities []OptionGroup `json:"activities"`
	Readers    []Option      `json:"readers"`
	Formats    []Option      `json:"formats"`
}

// NavItem is the menu entry of the report in a course navigation.
type NavItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ReportService runs the course log report: permission checks, reader
// selection, filtering, enrichment, rendering and export.
type ReportService struct {
	store       ReportStore
	readers     *LogManager
	permissions core.PermissionChecker
	names       report.NameResolver
	components  core.Cache[[]string]
	bundle      *lang.Bundle
	formatters  *report.FormatterRegistry
	events      *EventLogger
	metrics     core.Recorder
	opts        ReportOptions
}

func NewReportService(
	s ReportStore,
	readers *LogManager,
	permissions core.PermissionChecker,
	names report.NameResolver,
	components core.Cache[[]string],
	bundle *lang.Bundle,
	events *EventLogger,
	m core.Recorder,
	opts ReportOptions,
) *ReportService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.PageSize <= 0 {
		opts.PageSize = report.DefaultPageSize
	}
	if opts.ToursComponent == "" {
		opts.ToursComponent = report.DefaultToursComponent
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if names == nil {
		names = s
	}
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &ReportService{
		store:       s,
		readers:     readers,
		permissions: permissions,
		names:       names,
		components:  components,
		bundle:      bundle,
		formatters:  report.NewFormatterRegistry(),
		events:      events,
		metrics:     m,
		opts:        opts,
	}
}

// Location is the time zone of dates in requests and displayed times.
func (s *ReportService) Location() *time.Location {
	return s.opts.Location
}

// Formatters exposes the registry so that callers can add event formatters.
func (s *ReportService) Formatters() *report.FormatterRegistry {
	return s.formatters
}

// Localizer returns the localizer of lang.
func (s *ReportService) Localizer(code string) lang.Localizer {
	return s.bundle.For(code)
}

// Course returns the course, or ErrCourseNotFound.
func (s *ReportService) Course(ctx context.Context, courseID int64) (*models.Course, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrCourseNotFound, courseID)
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Authorize loads the course and checks that the viewer may see every
// user's logs in it.
func (s *ReportService) Authorize(ctx context.Context, viewerID, courseID int64) (*models.Course, error) {
	course, err := s.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	ok, err := s.permissions.CanViewAllLogs(ctx, viewerID, course.ID)
	if err != nil {
		s.metrics.RecordGatewayError("permission")
		return nil, fmt.Errorf("check %s permission: %w", s.permissions.Name(), err)
	}
	if !ok {
		s.metrics.RecordPermissionDenied()
		return nil, report.ErrPermissionDenied
	}
	return course, nil
}

func (s *ReportService) newTable(
	ctx context.Context,
	reader core.LogReader,
	c report.Criteria,
	l lang.Localizer,
) (*report.Table, error) {
	sel, err := report.BuildSelection(ctx, c, s.store, report.FilterOptions{
		ToursComponent: s.opts.ToursComponent,
	})
	if err != nil {
		return nil, err
	}
	enricher := report.NewEnricher(s.store, report.EnricherConfig{
		Location:    s.opts.Location,
		HostBaseURL: s.opts.HostBaseURL,
		Localizer:   l,
		Formatters:  s.formatters,
		Names:       s.names,
		Metrics:     s.metrics,
	})
	return report.NewTable(reader, sel, c.Order, enricher, s.opts.PageSize), nil
}

// Render returns one page of the report. When no reader is available the
// view carries NoReader and an empty page instead of an error.
func (s *ReportService) Render(ctx context.Context, req ReportRequest) (*ReportView, error) {
	course, err := s.Authorize(ctx, req.ViewerID, req.Criteria.CourseID)
	if err != nil {
		return nil, err
	}

	l := s.bundle.For(req.Lang)
	view := &ReportView{
		Course:    course,
		Criteria:  req.Criteria,
		Headers:   report.Headers(l),
		Localizer: l,
	}

	reader, err := s.readers.Reader(req.Criteria.ReaderName)
	if errors.Is(err, ErrNoReaderAvailable) {
		log.Printf("[Report] course %d: %v", course.ID, err)
		view.NoReader = true
		view.Page = &report.Page[report.Row]{
			Rows:       []report.Row{},
			Pagination: report.CalculatePagination(0, 0, s.opts.PageSize),
		}
		return view, nil
	}
	view.ReaderName = reader.Name()
	view.Criteria.ReaderName = reader.Name()

	table, err := s.newTable(ctx, reader, view.Criteria, l)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	page, err := table.Render(ctx, req.Page)
	if err != nil {
		s.metrics.RecordGatewayError("log_reader")
		return nil, fmt.Errorf("render course %d logs: %w", course.ID, err)
	}
	s.metrics.RecordReportRendered(len(page.Rows), time.Since(start))
	view.Page = page

	s.logEvent(ctx, report.ActionReportViewed, req.ViewerID, course.ID, nil)
	return view, nil
}

// ExportJob is a prepared download. Headers can be sent before WriteTo
// streams the body.
type ExportJob struct {
	svc         *ReportService
	course      *models.Course
	viewerID    int64
	format      string
	title       string
	filename    string
	contentType string
	extension   string
	headers     []string
	table       *report.Table
}

// PrepareExport checks permissions and the format and binds the query.
func (s *ReportService) PrepareExport(
	ctx context.Context,
	req ReportRequest,
	format string,
	now time.Time,
) (*ExportJob, error) {
	course, err := s.Authorize(ctx, req.ViewerID, req.Criteria.CourseID)
	if err != nil {
		return nil, err
	}

	// probe the format before any query runs
	probe, err := report.NewExporter(format, io.Discard, "")
	if err != nil {
		return nil, err
	}

	reader, err := s.readers.Reader(req.Criteria.ReaderName)
	if err != nil {
		return nil, err
	}
	c := req.Criteria
	c.ReaderName = reader.Name()

	l := s.bundle.For(req.Lang)
	table, err := s.newTable(ctx, reader, c, l)
	if err != nil {
		return nil, err
	}

	filename := report.ExportFilename(course, now, s.opts.Location)
	return &ExportJob{
		svc:         s,
		course:      course,
		viewerID:    req.ViewerID,
		format:      format,
		title:       filename,
		filename:    filename + probe.Extension(),
		contentType: probe.ContentType(),
		extension:   probe.Extension(),
		headers:     report.Headers(l),
		table:       table,
	}, nil
}

// Filename is the sanitized download name including its extension.
func (j *ExportJob) Filename() string { return j.filename }

func (j *ExportJob) ContentType() string { return j.contentType }

func (j *ExportJob) Course() *models.Course { return j.course }

// WriteTo streams every row to w and returns the number of rows written.
func (j *ExportJob) WriteTo(ctx context.Context, w io.Writer) (int, error) {
	exp, err := report.NewExporter(j.format, w, j.title)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	n, err := j.table.Export(ctx, exp, j.headers)
	if err != nil {
		j.svc.metrics.RecordGatewayError("export")
		return n, fmt.Errorf("export course %d logs: %w", j.course.ID, err)
	}
	j.svc.metrics.RecordReportExported(j.extension[1:], n, time.Since(start))
	j.svc.logEvent(ctx, report.ActionReportDownloaded, j.viewerID, j.course.ID,
		map[string]string{"format": j.extension[1:]})
	return n, nil
}

// Options returns the filter menus of the course.
func (s *ReportService) Options(
	ctx context.Context,
	course *models.Course,
	langCode string,
) (*FilterOptions, error) {
	l := s.bundle.For(langCode)
	opts := &FilterOptions{}

	opts.Groups = []Option{{Value: "", Label: l.Get("allgroups")}}
	groups, err := s.store.ListGroups(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("groups of course %d: %w", course.ID, err)
	}
	for _, g := range groups {
		opts.Groups = append(opts.Groups, Option{Value: strconv.FormatInt(g.ID, 10), Label: g.Name})
	}

	components, err := s.componentOptions(ctx)
	if err != nil {
		return nil, err
	}
	opts.Components = []Option{{Value: "", Label: l.Get("allcomponent")}}
	for _, c := range components {
		opts.Components = append(opts.Components, Option{Value: c, Label: l.Get(c)})
	}

	activities, err := s.activities(ctx, course, l)
	if err != nil {
		return nil, err
	}
	opts.Activities = activities

	for _, name := range s.readers.Names() {
		label, ok := l.PluginName(name)
		if !ok {
			label = name
		}
		opts.Readers = append(opts.Readers, Option{Value: name, Label: label})
	}

	for _, f := range report.Formats {
		opts.Formats = append(opts.Formats, Option{Value: f, Label: l.Get("format_" + f)})
	}
	return opts, nil
}

// componentOptions lists the supported components present in the log
// store, shared across requests for the cache TTL.
func (s *ReportService) componentOptions(ctx context.Context) ([]string, error) {
	fetched := false
	components, err := s.components.GetWithFetch(ctx, componentOptionsKey, s.opts.CacheTTL,
		func(ctx context.Context, _ string) ([]string, error) {
			fetched = true
			return s.store.DistinctComponents(ctx, report.SupportedComponents())
		})
	s.metrics.RecordCacheLookup("components", !fetched)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("distinct_components")
		return nil, fmt.Errorf("component options: %w", err)
	}
	return components, nil
}

// activities groups the course modules by section. The first group holds
// "All activities" and, on the site course, site errors.
func (s *ReportService) activities(
	ctx context.Context,
	course *models.Course,
	l lang.Localizer,
) ([]OptionGroup, error) {
	cms, err := s.store.ListCourseModules(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("modules of course %d: %w", course.ID, err)
	}

	head := OptionGroup{Options: []Option{{Value: "", Label: l.Get("allactivities")}}}
	if course.IsSite() {
		head.Options = append(head.Options, Option{Value: report.SiteErrors, Label: l.Get("siteerrors")})
	}
	groups := []OptionGroup{head}

	section := -1
	for _, cm := range cms {
		if cm.Section != section {
			section = cm.Section
			groups = append(groups, OptionGroup{Label: sectionName(cm, l)})
		}
		last := &groups[len(groups)-1]
		last.Options = append(last.Options, Option{
			Value: strconv.FormatInt(cm.ID, 10),
			Label: activityLabel(cm),
		})
	}
	return groups, nil
}

func sectionName(cm models.CourseModule, l lang.Localizer) string {
	switch {
	case cm.SectionName != "":
		return cm.SectionName
	case cm.Section == 0:
		return l.Get("section0")
	}
	return l.Getf("section", cm.Section)
}

func activityLabel(cm models.CourseModule) string {
	name := cm.Name
	if utf8.RuneCountInString(name) > maxActivityName {
		name = string([]rune(name)[:truncatedActivityName]) + "..."
	}
	if !cm.Visible {
		name = "(" + name + ")"
	}
	return name
}

// Navigation returns the report entry of the course menu.
func (s *ReportService) Navigation(ctx context.Context, courseID int64, langCode string) (*NavItem, error) {
	course, err := s.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return &NavItem{
		Title: s.bundle.Get(langCode, "title"),
		URL:   ReportURL(course.ID),
	}, nil
}

// ReportURL is the path of the report page of a course.
func ReportURL(courseID int64) string {
	return "/course/report/log?id=" + strconv.FormatInt(courseID, 10)
}

func (s *ReportService) logEvent(
	ctx context.Context,
	action string,
	viewerID, courseID int64,
	other map[string]string,
) {
	if s.events == nil {
		return
	}
	contextID, err := s.store.CourseContextID(ctx, courseID)
	if err != nil {
		log.Printf("[Report] no context for course %d, %s event not logged: %v", courseID, action, err)
		return
	}
	s.events.Log(ctx, ReportEvent{
		Action:    action,
		UserID:    viewerID,
		CourseID:  courseID,
		ContextID: contextID,
		Other:     other,
	})
}
