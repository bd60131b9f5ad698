package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"github.com/jimmy-wims/course-log/internal/lang"
	"github.com/jimmy-wims/course-log/internal/middleware"
	"github.com/jimmy-wims/course-log/internal/report"
	"github.com/jimmy-wims/course-log/internal/services"
	"github.com/jimmy-wims/course-log/internal/templates"
	"github.com/jimmy-wims/course-log/internal/util"
)

// ReportHandler serves the course log page, its downloads and its JSON API.
type ReportHandler struct {
	reports    *services.ReportService
	exportGzip bool
	now        func() time.Time
}

// NewReportHandler creates a new report handler. With exportGzip set,
// downloads are compressed for clients that accept gzip.
func NewReportHandler(reports *services.ReportService, exportGzip bool) *ReportHandler {
	return &ReportHandler{
		reports:    reports,
		exportGzip: exportGzip,
		now:        time.Now,
	}
}

// parseRequest reads the filter parameters shared by the page and the API.
func (h *ReportHandler) parseRequest(c *gin.Context, courseID int64) (services.ReportRequest, error) {
	criteria := report.Criteria{
		CourseID:   courseID,
		ReaderName: strings.TrimSpace(c.Query("logreader")),
	}

	var err error
	if criteria.GroupID, err = optionalID(c.Query("group"), "group"); err != nil {
		return services.ReportRequest{}, err
	}
	if criteria.UserID, err = optionalID(c.Query("user"), "user"); err != nil {
		return services.ReportRequest{}, err
	}
	if criteria.Module, err = report.ParseModuleFilter(c.Query("modid")); err != nil {
		return services.ReportRequest{}, err
	}
	if criteria.Component, err = report.ParseComponentFilter(c.Query("component")); err != nil {
		return services.ReportRequest{}, err
	}
	if criteria.Date, err = report.ParseDate(c.Query("date"), h.reports.Location()); err != nil {
		return services.ReportRequest{}, err
	}

	// a malformed page shows the first one
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}

	return services.ReportRequest{
		Criteria: criteria,
		ViewerID: util.GetUserIDFromContext(c),
		Page:     page,
		Lang:     middleware.RequestLang(c),
	}, nil
}

func optionalID(raw, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, badParam(name, raw)
	}
	return id, nil
}

func badParam(name, raw string) error {
	return fmt.Errorf("%w: %s %q", report.ErrInvalidCriteria, name, raw)
}

func courseIDParam(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, badParam("course id", raw)
	}
	return id, nil
}

// ShowReport renders the course log page, or streams an export when the
// download parameter is set.
func (h *ReportHandler) ShowReport(c *gin.Context) {
	l := h.reports.Localizer(middleware.RequestLang(c))

	courseID, err := courseIDParam(c.Query("id"))
	if err != nil {
		h.renderError(c, l, err)
		return
	}
	req, err := h.parseRequest(c, courseID)
	if err != nil {
		h.renderError(c, l, err)
		return
	}

	if format := c.Query("download"); format != "" {
		h.export(c, l, req, format)
		return
	}

	view, err := h.reports.Render(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, l, err)
		return
	}

	options, err := h.reports.Options(c.Request.Context(), view.Course, l.Lang)
	if err != nil {
		// the table is still useful without the filter form
		log.Printf("[Report] filter options of course %d: %v", view.Course.ID, err)
		options = nil
	}

	templates.RenderTempl(c, http.StatusOK, templates.ReportPage(templates.ReportPageProps{
		BaseProps: templates.BaseProps{
			Title:     l.Getf("pagetitle", view.Course.ShortName),
			Heading:   view.Course.FullName,
			Localizer: l,
		},
		View:      view,
		Options:   options,
		Path:      c.Request.URL.Path,
		Query:     filterQuery(c.Request.URL.Query()),
		Group:     c.Query("group"),
		Date:      dateValue(view.Criteria.Date),
		Component: view.Criteria.Component.String(),
		Module:    view.Criteria.Module.String(),
		Reader:    view.ReaderName,
		User:      c.Query("user"),
	}))
}

// filterQuery keeps the filter of the request for pagination and
// download links.
func filterQuery(q url.Values) url.Values {
	q.Del("page")
	q.Del("download")
	return q
}

func dateValue(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

func (h *ReportHandler) export(c *gin.Context, l lang.Localizer, req services.ReportRequest, format string) {
	ctx := c.Request.Context()
	job, err := h.reports.PrepareExport(ctx, req, format, h.now())
	if err != nil {
		h.renderError(c, l, err)
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", job.ContentType())
	header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": job.Filename(),
	}))
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("Cache-Control", "no-store")

	var w io.Writer = c.Writer
	var gz *gzip.Writer
	if h.exportGzip && acceptsGzip(c.GetHeader("Accept-Encoding")) {
		header.Set("Content-Encoding", "gzip")
		header.Add("Vary", "Accept-Encoding")
		gz = gzip.NewWriter(c.Writer)
		w = gz
	}
	c.Status(http.StatusOK)

	rows, err := job.WriteTo(ctx, w)
	if err == nil && gz != nil {
		err = gz.Close()
	}
	if err != nil {
		log.Printf("[Report] export of course %d failed after %d rows: %v", job.Course().ID, rows, err)
		if !c.Writer.Written() {
			for _, k := range []string{"Content-Disposition", "Content-Encoding", "Vary"} {
				header.Del(k)
			}
			h.renderError(c, l, err)
			return
		}
		_ = c.Error(err)
		c.Abort()
	}
}

// acceptsGzip reports whether an Accept-Encoding header allows gzip.
func acceptsGzip(acceptEncoding string) bool {
	for _, part := range strings.Split(acceptEncoding, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "gzip") {
			continue
		}
		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")
		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	return false
}

// errorStatus maps report errors to an HTTP status and the language key of
// the message shown to the viewer.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrCourseNotFound):
		return http.StatusNotFound, "coursenotfound"
	case errors.Is(err, report.ErrPermissionDenied):
		return http.StatusForbidden, "nocapability"
	case errors.Is(err, services.ErrNoReaderAvailable):
		return http.StatusNotFound, "nologreaderenabled"
	case errors.Is(err, report.ErrInvalidCriteria), errors.Is(err, report.ErrUnsupportedFormat):
		return http.StatusBadRequest, "error"
	default:
		return http.StatusInternalServerError, "error"
	}
}

func (h *ReportHandler) renderError(c *gin.Context, l lang.Localizer, err error) {
	status, key := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[Report] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	if middleware.IsAPIRequest(c) {
		description := l.Get(key)
		if status == http.StatusBadRequest {
			description = err.Error()
		}
		c.AbortWithStatusJSON(status, gin.H{
			"error":             strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_"),
			"error_description": description,
		})
		return
	}

	title := l.Get("error")
	if status == http.StatusForbidden {
		title = l.Get("access")
	}
	templates.RenderTempl(c, status, templates.ErrorPage(templates.ErrorPageProps{
		BaseProps: templates.BaseProps{Title: title, Heading: l.Get("title"), Localizer: l},
		Status:    status,
		Error:     title,
		Message:   l.Get(key),
	}))
	c.Abort()
}
