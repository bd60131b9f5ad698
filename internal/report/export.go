package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/a-h/templ"
	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatJSON  = "json"
	FormatHTML  = "html"
)

// Formats lists the export formats in menu order.
var Formats = []string{FormatCSV, FormatExcel, FormatJSON, FormatHTML}

// Exporter writes a report in one format. Begin is called once before any
// row and Close once after the last. Abort replaces Close when the export
// stops early and releases whatever Begin acquired.
type Exporter interface {
	ContentType() string
	Extension() string
	Begin(headers []string) error
	WriteRow(r *Row) error
	Close() error
	Abort()
}

// NewExporter returns the exporter of format writing to w. title names the
// sheet or page.
func NewExporter(format string, w io.Writer, title string) (Exporter, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return &csvExporter{w: w}, nil
	case FormatExcel, "xlsx":
		return &excelExporter{w: w, title: title}, nil
	case FormatJSON:
		return &jsonExporter{w: bufio.NewWriter(w)}, nil
	case FormatHTML:
		return &htmlExporter{w: bufio.NewWriter(w), title: title}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// csvExporter writes RFC 4180 CSV with a UTF-8 byte order mark so that
// spreadsheet programs detect the encoding.
type csvExporter struct {
	w  io.Writer
	cw *csv.Writer
}

func (e *csvExporter) ContentType() string { return "text/csv; charset=utf-8" }
func (e *csvExporter) Extension() string   { return ".csv" }

func (e *csvExporter) Begin(headers []string) error {
	if _, err := io.WriteString(e.w, "\ufeff"); err != nil {
		return err
	}
	e.cw = csv.NewWriter(e.w)
	return e.cw.Write(headers)
}

func (e *csvExporter) WriteRow(r *Row) error {
	return e.cw.Write(r.Cells())
}

func (e *csvExporter) Close() error {
	e.cw.Flush()
	return e.cw.Error()
}

func (e *csvExporter) Abort() {}

// excelExporter streams rows into one worksheet and writes the workbook on
// Close.
type excelExporter struct {
	w     io.Writer
	title string
	file  *excelize.File
	sw    *excelize.StreamWriter
	row   int
}

func (e *excelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (e *excelExporter) Extension() string { return ".xlsx" }

func (e *excelExporter) Begin(headers []string) error {
	e.file = excelize.NewFile()
	sheet := e.file.GetSheetName(0)
	if name := sheetName(e.title); name != "" {
		if err := e.file.SetSheetName(sheet, name); err != nil {
			return err
		}
		sheet = name
	}

	sw, err := e.file.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	e.sw = sw
	if err := sw.SetColWidth(1, len(headers), 24); err != nil {
		return err
	}

	bold, err := e.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	return e.setRow(toCells(headers), excelize.RowOpts{StyleID: bold})
}

func (e *excelExporter) WriteRow(r *Row) error {
	return e.setRow(toCells(r.Cells()))
}

func (e *excelExporter) setRow(values []any, opts ...excelize.RowOpts) error {
	e.row++
	cell, err := excelize.CoordinatesToCellName(1, e.row)
	if err != nil {
		return err
	}
	return e.sw.SetRow(cell, values, opts...)
}

func (e *excelExporter) Close() error {
	defer e.Abort()
	if err := e.sw.Flush(); err != nil {
		return err
	}
	return e.file.Write(e.w)
}

// Abort closes the workbook, which removes the temporary files of the
// stream writer.
func (e *excelExporter) Abort() {
	if e.file == nil {
		return
	}
	if err := e.file.Close(); err != nil {
		log.Printf("[Export] Failed to close workbook: %v", err)
	}
	e.file, e.sw = nil, nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// sheetName makes title a valid worksheet name: at most 31 characters and
// none of : \ / ? * [ ].
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}

// exportRecord fixes the key order of JSON rows.
type exportRecord struct {
	Time         string `json:"time"`
	UserFullName string `json:"fullnameuser"`
	Group        string `json:"group"`
	Context      string `json:"context"`
	Component    string `json:"component"`
	EventName    string `json:"eventname"`
	Description  string `json:"description"`
}

// jsonExporter writes an array of objects keyed by column.
type jsonExporter struct {
	w     *bufio.Writer
	wrote bool
}

func (e *jsonExporter) ContentType() string { return "application/json; charset=utf-8" }
func (e *jsonExporter) Extension() string   { return ".json" }

func (e *jsonExporter) Begin([]string) error {
	return e.w.WriteByte('[')
}

func (e *jsonExporter) WriteRow(r *Row) error {
	raw, err := json.Marshal(exportRecord{
		Time:         r.Time,
		UserFullName: r.UserFullName,
		Group:        r.Group,
		Context:      r.Context,
		Component:    r.Component,
		EventName:    r.EventName,
		Description:  r.Description,
	})
	if err != nil {
		return err
	}
	if e.wrote {
		if err := e.w.WriteByte(','); err != nil {
			return err
		}
	}
	e.wrote = true
	_, err = e.w.Write(raw)
	return err
}

func (e *jsonExporter) Close() error {
	if err := e.w.WriteByte(']'); err != nil {
		return err
	}
	return e.w.Flush()
}

func (e *jsonExporter) Abort() {}

// htmlExporter writes a standalone HTML document with one table.
type htmlExporter struct {
	w     *bufio.Writer
	title string
}

func (e *htmlExporter) ContentType() string { return "text/html; charset=utf-8" }
func (e *htmlExporter) Extension() string   { return ".html" }

func (e *htmlExporter) Begin(headers []string) error {
	title := templ.EscapeString(e.title)
	fmt.Fprintf(e.w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n<table border=\"1\">\n<thead><tr>", title)
	for _, h := range headers {
		fmt.Fprintf(e.w, "<th>%s</th>", templ.EscapeString(h))
	}
	_, err := e.w.WriteString("</tr></thead>\n<tbody>\n")
	return err
}

func (e *htmlExporter) WriteRow(r *Row) error {
	e.w.WriteString("<tr>")
	for _, c := range r.Cells() {
		fmt.Fprintf(e.w, "<td>%s</td>", templ.EscapeString(c))
	}
	_, err := e.w.WriteString("</tr>\n")
	return err
}

func (e *htmlExporter) Close() error {
	if _, err := e.w.WriteString("</tbody>\n</table>\n</body></html>\n"); err != nil {
		return err
	}
	return e.w.Flush()
}

func (e *htmlExporter) Abort() {}
