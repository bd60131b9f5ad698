package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jimmy-wims/course-log/internal/models"
)

// SiteErrors is the module parameter value selecting site-wide errors.
const SiteErrors = "site_errors"

// DefaultOrder is the order used when none, or an unknown one, is requested.
const DefaultOrder = "timecreated DESC"

var allowedOrders = map[string]string{
	"timecreated desc": "timecreated DESC",
	"timecreated asc":  "timecreated ASC",
	"id desc":          "id DESC",
	"id asc":           "id ASC",
}

// NormalizeOrder returns a whitelisted order expression.
func NormalizeOrder(order string) string {
	key := strings.ToLower(strings.Join(strings.Fields(order), " "))
	if o, ok := allowedOrders[key]; ok {
		return o
	}
	return DefaultOrder
}

// ModuleFilter selects one course module, site errors, or nothing.
type ModuleFilter struct {
	ID         int64
	SiteErrors bool
}

// ParseModuleFilter accepts "", "0", a positive module id or "site_errors".
func ParseModuleFilter(raw string) (ModuleFilter, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "0":
		return ModuleFilter{}, nil
	case SiteErrors:
		return ModuleFilter{SiteErrors: true}, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return ModuleFilter{}, fmt.Errorf("%w: module %q", ErrInvalidCriteria, raw)
	}
	return ModuleFilter{ID: id}, nil
}

// String is the inverse of ParseModuleFilter.
func (m ModuleFilter) String() string {
	switch {
	case m.SiteErrors:
		return SiteErrors
	case m.ID > 0:
		return strconv.FormatInt(m.ID, 10)
	}
	return ""
}

// ComponentFilter restricts the report to one of the supported components.
type ComponentFilter int

const (
	ComponentAll ComponentFilter = iota
	ComponentCore
	ComponentQuiz
	ComponentAssign
	ComponentResource
)

// ComponentFilters lists the filters in display order.
var ComponentFilters = []ComponentFilter{
	ComponentAll, ComponentCore, ComponentQuiz, ComponentAssign, ComponentResource,
}

var componentNames = map[ComponentFilter]string{
	ComponentCore:     models.ComponentCore,
	ComponentQuiz:     models.ComponentQuiz,
	ComponentAssign:   models.ComponentAssign,
	ComponentResource: models.ComponentFile,
}

// Component returns the stored component name, or "" for ComponentAll.
func (c ComponentFilter) Component() string {
	return componentNames[c]
}

// String returns the request value of the filter.
func (c ComponentFilter) String() string {
	if c == ComponentAll {
		return ""
	}
	return c.Component()
}

// ParseComponentFilter accepts a component name ("mod_quiz"), its numeric
// code ("2") or "", "all" for every component.
func ParseComponentFilter(raw string) (ComponentFilter, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return ComponentAll, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n >= 0 && n < len(ComponentFilters) {
			return ComponentFilters[n], nil
		}
		return ComponentAll, fmt.Errorf("%w: component %q", ErrInvalidCriteria, raw)
	}
	for c, name := range componentNames {
		if name == raw {
			return c, nil
		}
	}
	return ComponentAll, fmt.Errorf("%w: component %q", ErrInvalidCriteria, raw)
}

// SupportedComponents returns the component names the filter can select.
func SupportedComponents() []string {
	out := make([]string, 0, len(componentNames))
	for _, c := range ComponentFilters[1:] {
		out = append(out, c.Component())
	}
	return out
}

// Criteria is the per-request filter of the report. It is never persisted.
type Criteria struct {
	CourseID   int64
	ReaderName string
	GroupID    int64
	// UserID restricts the report to one user; it takes precedence over GroupID.
	UserID    int64
	Module    ModuleFilter
	Component ComponentFilter
	// Date selects one day starting at Date; the zero value means every day.
	Date  time.Time
	Order string
}

// ParseDate parses a YYYY-MM-DD day in loc. An empty string is the zero time.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		// unix timestamp, as the host platform passes it
		if secs, perr := strconv.ParseInt(raw, 10, 64); perr == nil && secs > 0 {
			t := time.Unix(secs, 0).In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
		}
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidCriteria, raw)
	}
	return d, nil
}
