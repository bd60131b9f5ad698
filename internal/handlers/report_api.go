package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jimmy-wims/course-log/internal/middleware"
	"github.com/jimmy-wims/course-log/internal/report"
	"github.com/jimmy-wims/course-log/internal/util"
)

// courseSummary is the course header of the JSON report.
type courseSummary struct {
	ID        int64  `json:"id"`
	ShortName string `json:"shortname"`
	FullName  string `json:"fullname"`
}

// logResponse is one page of the report as JSON.
type logResponse struct {
	Course     courseSummary     `json:"course"`
	Reader     string            `json:"logreader"`
	NoReader   bool              `json:"nologreader"`
	Headers    []string          `json:"headers"`
	Rows       []report.Row      `json:"rows"`
	Pagination report.Pagination `json:"pagination"`
}

// ListLogs godoc
//
//	@Summary		Course logs
//	@Description	One page of the course activity log, filtered like the report page
//	@Tags			Report
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		int												true	"Course ID"
//	@Param			group		query		int												false	"Group ID"
//	@Param			user		query		int												false	"User ID, takes precedence over group"
//	@Param			date		query		string											false	"Day (YYYY-MM-DD) in the report time zone"
//	@Param			modid		query		string											false	"Course module ID or 'site_errors'"
//	@Param			component	query		string											false	"core, mod_quiz, mod_assign or mod_resource"
//	@Param			logreader	query		string											false	"Log reader name"
//	@Param			page		query		int												false	"Page number, from 0"
//	@Param			lang		query		string											false	"Language code"
//	@Success		200			{object}	logResponse										"Report page"
//	@Failure		400			{object}	object{error=string,error_description=string}	"Invalid filter"
//	@Failure		401			{object}	object{error=string,error_description=string}	"Login required"
//	@Failure		403			{object}	object{error=string,error_description=string}	"Viewer cannot see the course logs"
//	@Failure		404			{object}	object{error=string,error_description=string}	"Course not found"
//	@Router			/api/courses/{id}/log [get]
func (h *ReportHandler) ListLogs(c *gin.Context) {
	l := h.reports.Localizer(middleware.RequestLang(c))

	courseID, err := courseIDParam(c.Param("id"))
	if err != nil {
		h.renderError(c, l, err)
		return
	}
	req, err := h.parseRequest(c, courseID)
	if err != nil {
		h.renderError(c, l, err)
		return
	}

	view, err := h.reports.Render(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, logResponse{
		Course: courseSummary{
			ID:        view.Course.ID,
			ShortName: view.Course.ShortName,
			FullName:  view.Course.FullName,
		},
		Reader:     view.ReaderName,
		NoReader:   view.NoReader,
		Headers:    view.Headers,
		Rows:       view.Page.Rows,
		Pagination: view.Page.Pagination,
	})
}

// GetOptions godoc
//
//	@Summary		Filter options
//	@Description	Menus of the report filter form: groups, components, activities by section, log readers and export formats
//	@Tags			Report
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int												true	"Course ID"
//	@Param			lang	query		string											false	"Language code"
//	@Success		200		{object}	services.FilterOptions							"Filter options"
//	@Failure		403		{object}	object{error=string,error_description=string}	"Viewer cannot see the course logs"
//	@Failure		404		{object}	object{error=string,error_description=string}	"Course not found"
//	@Router			/api/courses/{id}/log/options [get]
func (h *ReportHandler) GetOptions(c *gin.Context) {
	l := h.reports.Localizer(middleware.RequestLang(c))

	courseID, err := courseIDParam(c.Param("id"))
	if err != nil {
		h.renderError(c, l, err)
		return
	}
	course, err := h.reports.Authorize(c.Request.Context(), util.GetUserIDFromContext(c), courseID)
	if err != nil {
		h.renderError(c, l, err)
		return
	}

	options, err := h.reports.Options(c.Request.Context(), course, l.Lang)
	if err != nil {
		h.renderError(c, l, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

// GetNavigation godoc
//
//	@Summary		Course navigation entry
//	@Description	The menu entry linking a course to its log report
//	@Tags			Report
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int												true	"Course ID"
//	@Param			lang	query		string											false	"Language code"
//	@Success		200		{object}	services.NavItem								"Navigation entry"
//	@Failure		404		{object}	object{error=string,error_description=string}	"Course not found"
//	@Router			/api/courses/{id}/navigation [get]
func (h *ReportHandler) GetNavigation(c *gin.Context) {
	l := h.reports.Localizer(middleware.RequestLang(c))

	courseID, err := courseIDParam(c.Param("id"))
	if err != nil {
		h.renderError(c, l, err)
		return
	}
	item, err := h.reports.Navigation(c.Request.Context(), courseID, l.Lang)
	if err != nil {
		h.renderError(c, l, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
