package templates

import (
	"net/url"
	"strconv"

	"github.com/jimmy-wims/course-log/internal/lang"
	"github.com/jimmy-wims/course-log/internal/services"
)

// BaseProps contains common properties shared across all pages
type BaseProps struct {
	Title     string
	Heading   string
	Localizer lang.Localizer
}

// ===== Page Props Structures =====

// ErrorPageProps contains properties for the error page
type ErrorPageProps struct {
	BaseProps
	Status  int
	Error   string
	Message string
}

// ReportPageProps contains properties for the course log page
type ReportPageProps struct {
	BaseProps
	View    *services.ReportView
	Options *services.FilterOptions

	// Path is the page path; Query holds the current filter without page
	// and download, so that links keep the filter.
	Path  string
	Query url.Values

	// Selected filter values as submitted, for the form
	Group     string
	Date      string
	Component string
	Module    string
	Reader    string
	User      string
}

// PageURL returns the link to page n of the current filter.
func (p ReportPageProps) PageURL(n int) string {
	q := cloneValues(p.Query)
	if n > 0 {
		q.Set("page", strconv.Itoa(n))
	}
	return p.Path + "?" + q.Encode()
}

// DownloadURL returns the export link of the current filter.
func (p ReportPageProps) DownloadURL(format string) string {
	q := cloneValues(p.Query)
	q.Set("download", format)
	return p.Path + "?" + q.Encode()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
