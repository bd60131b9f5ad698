package report

import "github.com/jimmy-wims/course-log/internal/lang"

// Column keys in display order. The table is not sortable by column.
const (
	ColumnTime         = "time"
	ColumnFullNameUser = "fullnameuser"
	ColumnGroup        = "group"
	ColumnContext      = "context"
	ColumnComponent    = "component"
	ColumnEventName    = "eventname"
	ColumnDescription  = "description"
)

// Columns lists the column keys in display order.
var Columns = []string{
	ColumnTime,
	ColumnFullNameUser,
	ColumnGroup,
	ColumnContext,
	ColumnComponent,
	ColumnEventName,
	ColumnDescription,
}

var columnHeaderKeys = map[string]string{
	ColumnTime:         "time",
	ColumnFullNameUser: "nameuser",
	ColumnGroup:        "group",
	ColumnContext:      "eventcontext",
	ColumnComponent:    "eventcomponent",
	ColumnEventName:    "eventname",
	ColumnDescription:  "description",
}

// Headers returns the localized column headers.
func Headers(l lang.Localizer) []string {
	headers := make([]string, len(Columns))
	for i, col := range Columns {
		headers[i] = l.Get(columnHeaderKeys[col])
	}
	return headers
}

// Row is one enriched event. URLs are empty when the row is exported.
type Row struct {
	EventID      int64  `json:"id"`
	TimeCreated  int64  `json:"timecreated"`
	Time         string `json:"time"`
	UserID       int64  `json:"userid"`
	UserFullName string `json:"fullnameuser"`
	Group        string `json:"group"`
	Context      string `json:"context"`
	ContextURL   string `json:"contexturl,omitempty"`
	Component    string `json:"component"`
	EventName    string `json:"eventname"`
	EventURL     string `json:"eventurl,omitempty"`
	Description  string `json:"description"`
}

// Cells returns the displayed values in column order.
func (r *Row) Cells() []string {
	return []string{
		r.Time,
		r.UserFullName,
		r.Group,
		r.Context,
		r.Component,
		r.EventName,
		r.Description,
	}
}
