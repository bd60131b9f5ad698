package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// html writes markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) rawf(format string, args ...any) {
	if h.err == nil {
		_, h.err = fmt.Fprintf(h.w, format, args...)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// link writes an anchor; href is sanitized the way templ sanitizes URL
// attributes.
func (h *html) link(href, class, label string) {
	h.rawf(`<a href="%s"`, templ.EscapeString(string(templ.URL(href))))
	if class != "" {
		h.rawf(` class="%s"`, templ.EscapeString(class))
	}
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

// popupLink writes an anchor that opens href in a new window and keeps the
// report in place.
func (h *html) popupLink(href, label string) {
	h.rawf(`<a href="%s" target="_blank" rel="noopener"`, templ.EscapeString(string(templ.URL(href))))
	h.raw(` class="popup">`)
	h.text(label)
	h.raw("</a>")
}

func (h *html) component(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

const pageStyle = `body{font-family:system-ui,sans-serif;margin:0;color:#1d2125}
header{background:#0f6cbf;color:#fff;padding:1rem 2rem}
main{padding:1rem 2rem}
table{border-collapse:collapse;width:100%}
th,td{border-bottom:1px solid #dee2e6;padding:.4rem;text-align:left;vertical-align:top}
.notice{background:#fff3cd;border:1px solid #ffe69c;padding:.75rem;margin:1rem 0}
.error{background:#f8d7da;border:1px solid #f1aeb5;padding:.75rem;margin:1rem 0}
form.filters{display:flex;flex-wrap:wrap;gap:.5rem;align-items:center;margin-bottom:1rem}
nav.pages a,nav.pages span{margin-right:.5rem}
`

// Layout wraps body in the page chrome.
func Layout(props BaseProps, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		lang := props.Localizer.Lang
		if lang == "" {
			lang = "en"
		}
		h.rawf(`<!DOCTYPE html><html lang="%s"><head><meta charset="utf-8">`, templ.EscapeString(lang))
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(props.Title)
		h.raw("</title><style>")
		h.raw(pageStyle)
		h.raw("</style></head><body><header><h1>")
		h.text(props.Heading)
		h.raw("</h1></header><main>")
		h.component(ctx, body)
		h.raw("</main></body></html>")
		return h.err
	})
}
