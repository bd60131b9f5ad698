package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jimmy-wims/course-log/internal/lang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLocalizer() lang.Localizer {
	return lang.MustLoad(lang.Fallback).For("en")
}

var sampleRows = []Row{
	{
		Time: "05/03/24, 09:00", UserFullName: "Ann Lee", Group: "Group A",
		Context: "Quiz: Week 1 quiz", Component: "Quiz", EventName: "Quiz attempt submitted",
		Description: "The user with id 'Ann Lee' has submitted the attempt.",
	},
	{
		Time: "05/03/24, 10:00", UserFullName: "Bo Kim", Group: "No group",
		Context: "Other", Component: "System", EventName: "<script>",
		Description: `Quotes "and", commas`,
	},
}

func writeAll(t *testing.T, format, title string) (*bytes.Buffer, Exporter) {
	t.Helper()
	var buf bytes.Buffer
	exp, err := NewExporter(format, &buf, title)
	require.NoError(t, err)
	require.NoError(t, exp.Begin(Headers(testLocalizer())))
	for i := range sampleRows {
		require.NoError(t, exp.WriteRow(&sampleRows[i]))
	}
	require.NoError(t, exp.Close())
	return &buf, exp
}

func TestNewExporter_Unsupported(t *testing.T) {
	_, err := NewExporter("pdf", &bytes.Buffer{}, "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	exp, err := NewExporter("XLSX", &bytes.Buffer{}, "")
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", exp.Extension())
}

func TestCSVExporter(t *testing.T) {
	buf, exp := writeAll(t, FormatCSV, "")
	assert.Equal(t, "text/csv; charset=utf-8", exp.ContentType())
	require.True(t, strings.HasPrefix(buf.String(), "\ufeff"))

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Headers(testLocalizer()), records[0])
	assert.Equal(t, sampleRows[1].Cells(), records[2])
}

func TestJSONExporter(t *testing.T) {
	buf, _ := writeAll(t, FormatJSON, "")

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Ann Lee", got[0]["fullnameuser"])
	assert.Equal(t, `Quotes "and", commas`, got[1]["description"])
	assert.NotContains(t, got[0], "eventurl")
}

func TestJSONExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	exp, err := NewExporter(FormatJSON, &buf, "")
	require.NoError(t, err)
	require.NoError(t, exp.Begin(nil))
	require.NoError(t, exp.Close())
	assert.Equal(t, "[]", buf.String())
}

func TestHTMLExporter(t *testing.T) {
	buf, _ := writeAll(t, FormatHTML, "CS101 <logs>")
	out := buf.String()

	assert.Contains(t, out, "<title>CS101 &lt;logs&gt;</title>")
	assert.Contains(t, out, "<th>Event context</th>")
	assert.Contains(t, out, "<td>&lt;script&gt;</td>")
	assert.NotContains(t, out, "<td><script>")
	assert.Equal(t, 2, strings.Count(out, "<tr><td>"))
}

func TestExcelExporter(t *testing.T) {
	buf, _ := writeAll(t, FormatExcel, "logs_CS101: [day]")

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	assert.Equal(t, "logs_CS101_ _day_", sheet)

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Time", rows[0][0])
	assert.Equal(t, "Ann Lee", rows[1][1])
	assert.Equal(t, sampleRows[1].Description, rows[2][6])
}

func TestExcelExporter_Abort(t *testing.T) {
	exp, err := NewExporter(FormatExcel, &bytes.Buffer{}, "CS101")
	require.NoError(t, err)
	require.NoError(t, exp.Begin([]string{"Time"}))

	x := exp.(*excelExporter)
	require.NotNil(t, x.file)
	x.Abort()
	assert.Nil(t, x.file)
	assert.NotPanics(t, x.Abort)
}

func TestExcelExporter_AbortBeforeBegin(t *testing.T) {
	exp, err := NewExporter(FormatExcel, &bytes.Buffer{}, "")
	require.NoError(t, err)
	assert.NotPanics(t, exp.Abort)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "", sheetName("  "))
	assert.Len(t, []rune(sheetName(strings.Repeat("é", 40))), 31)
}
