package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/jimmy-wims/course-log/internal/report"
	"github.com/jimmy-wims/course-log/internal/services"
)

// ReportPage renders the filter form, the table of one page and the
// download links.
func ReportPage(props ReportPageProps) templ.Component {
	return Layout(props.BaseProps, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		l := props.Localizer

		if props.Options != nil && props.View != nil {
			filterForm(h, props)
		}

		view := props.View
		if view == nil || view.NoReader {
			h.raw(`<div class="notice">`)
			h.text(l.Get("nologreaderenabled"))
			h.raw("</div>")
			return h.err
		}
		if view.Page == nil || len(view.Page.Rows) == 0 {
			h.raw(`<div class="notice">`)
			h.text(l.Get("nologs"))
			h.raw("</div>")
			return h.err
		}

		pagination(h, props)
		logTable(h, view)
		pagination(h, props)
		downloadLinks(h, props)
		return h.err
	}))
}

func selectField(h *html, name, label, selected string, opts []services.Option) {
	h.rawf(`<label>%s <select name="%s">`, templ.EscapeString(label), templ.EscapeString(name))
	writeOptions(h, selected, opts)
	h.raw("</select></label>")
}

func writeOptions(h *html, selected string, opts []services.Option) {
	for _, o := range opts {
		h.rawf(`<option value="%s"`, templ.EscapeString(o.Value))
		if o.Value == selected {
			h.raw(" selected")
		}
		h.raw(">")
		h.text(o.Label)
		h.raw("</option>")
	}
}

func filterForm(h *html, props ReportPageProps) {
	l := props.Localizer
	opts := props.Options

	h.rawf(`<form class="filters" method="get" action="%s">`, templ.EscapeString(string(templ.URL(props.Path))))
	h.rawf(`<input type="hidden" name="id" value="%d">`, props.View.Course.ID)
	if props.User != "" {
		h.rawf(`<input type="hidden" name="user" value="%s">`, templ.EscapeString(props.User))
	}

	if len(opts.Readers) > 1 {
		selectField(h, "logreader", l.Get("logreader"), props.Reader, opts.Readers)
	}
	selectField(h, "group", l.Get("group"), props.Group, opts.Groups)

	h.raw(`<select name="modid">`)
	for _, g := range opts.Activities {
		if g.Label != "" {
			h.rawf(`<optgroup label="%s">`, templ.EscapeString(g.Label))
		}
		writeOptions(h, props.Module, g.Options)
		if g.Label != "" {
			h.raw("</optgroup>")
		}
	}
	h.raw("</select>")

	selectField(h, "component", l.Get("eventcomponent"), props.Component, opts.Components)
	h.rawf(`<input type="date" name="date" value="%s" aria-label="%s">`,
		templ.EscapeString(props.Date), templ.EscapeString(l.Get("alldays")))
	h.rawf(`<button type="submit">%s</button>`, templ.EscapeString(l.Get("gettheselogs")))
	h.raw("</form>")
}

func logTable(h *html, view *services.ReportView) {
	h.raw(`<table class="logs"><thead><tr>`)
	for i, header := range view.Headers {
		h.rawf(`<th class="%s">`, report.Columns[i])
		h.text(header)
		h.raw("</th>")
	}
	h.raw("</tr></thead><tbody>")
	for i := range view.Page.Rows {
		r := &view.Page.Rows[i]
		h.raw("<tr><td>")
		h.text(r.Time)
		h.raw("</td><td>")
		h.text(r.UserFullName)
		h.raw("</td><td>")
		h.text(r.Group)
		h.raw("</td><td>")
		if r.ContextURL != "" {
			h.link(r.ContextURL, "", r.Context)
		} else {
			h.text(r.Context)
		}
		h.raw("</td><td>")
		h.text(r.Component)
		h.raw("</td><td>")
		if r.EventURL != "" {
			h.popupLink(r.EventURL, r.EventName)
		} else {
			h.text(r.EventName)
		}
		h.raw("</td><td>")
		h.text(r.Description)
		h.raw("</td></tr>")
	}
	h.raw("</tbody></table>")
}

// pageWindow is the number of page links shown on each side of the
// current page.
const pageWindow = 4

func pagination(h *html, props ReportPageProps) {
	pg := props.View.Page.Pagination
	if pg.TotalPages <= 1 {
		return
	}
	l := props.Localizer

	h.raw(`<nav class="pages">`)
	if pg.HasPrev {
		h.link(props.PageURL(pg.PrevPage), "prev", l.Get("previous"))
	}
	gap := false
	for n := 0; n < pg.TotalPages; n++ {
		if n != 0 && n != pg.TotalPages-1 && (n < pg.CurrentPage-pageWindow || n > pg.CurrentPage+pageWindow) {
			if !gap {
				h.raw("<span>&hellip;</span>")
				gap = true
			}
			continue
		}
		gap = false
		label := strconv.Itoa(n + 1)
		if n == pg.CurrentPage {
			h.raw(`<span class="current">`)
			h.text(label)
			h.raw("</span>")
			continue
		}
		h.link(props.PageURL(n), "", label)
	}
	if pg.HasNext {
		h.link(props.PageURL(pg.NextPage), "next", l.Get("next"))
	}
	h.raw("</nav>")
}

func downloadLinks(h *html, props ReportPageProps) {
	l := props.Localizer
	h.raw(`<div class="download">`)
	h.text(l.Get("download"))
	h.raw("<ul>")
	for _, f := range report.Formats {
		h.raw("<li>")
		h.link(props.DownloadURL(f), "", l.Get("format_"+f))
		h.raw("</li>")
	}
	h.raw("</ul></div>")
}

// ErrorPage renders an error or access denied message.
func ErrorPage(props ErrorPageProps) templ.Component {
	return Layout(props.BaseProps, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div class="error"><strong>`)
		h.text(props.Error)
		h.raw("</strong>")
		if props.Message != "" {
			h.raw("<p>")
			h.text(props.Message)
			h.raw("</p>")
		}
		h.raw("</div>")
		return h.err
	}))
}
