package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/lang"
	"github.com/jimmy-wims/course-log/internal/models"
)

// Time layouts of the time column.
const (
	LongTimeLayout    = "2 January 2006, 03:04 PM"
	CompactTimeLayout = "02/01/06, 15:04"
)

// Placeholder replaces a field whose record no longer exists.
const Placeholder = "-"

// NameResolver resolves user ids to display names in one call. Unknown ids
// are absent from the result.
type NameResolver interface {
	UserNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// EnricherConfig configures an Enricher. Zero values get defaults.
type EnricherConfig struct {
	Location    *time.Location
	HostBaseURL string
	Localizer   lang.Localizer
	Formatters  *FormatterRegistry
	// Names overrides the directory for user names, e.g. with a cache.
	Names   NameResolver
	Metrics core.Recorder
}

type contextLabel struct {
	name string
	url  string
}

type groupKey struct {
	courseID, userID int64
}

// Enricher turns events into display rows. It memoizes context labels,
// user names and group names, so one Enricher serves exactly one request
// and must not be shared between goroutines.
type Enricher struct {
	dir      core.Directory
	cfg      EnricherConfig
	names    map[int64]string
	looked   map[int64]struct{}
	contexts map[int64]contextLabel
	groups   map[groupKey]string
	views    map[int64]EventView
}

// NewEnricher returns an Enricher reading host records from dir.
func NewEnricher(dir core.Directory, cfg EnricherConfig) *Enricher {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if !cfg.Localizer.Valid() {
		cfg.Localizer = lang.MustLoad(lang.Fallback).For(lang.Fallback)
	}
	if cfg.Formatters == nil {
		cfg.Formatters = NewFormatterRegistry()
	}
	if cfg.Names == nil {
		cfg.Names = dir
	}
	cfg.HostBaseURL = strings.TrimRight(cfg.HostBaseURL, "/")
	return &Enricher{
		dir:      dir,
		cfg:      cfg,
		names:    make(map[int64]string),
		looked:   make(map[int64]struct{}),
		contexts: make(map[int64]contextLabel),
		groups:   make(map[groupKey]string),
		views:    make(map[int64]EventView),
	}
}

// Prefetch formats a batch of events and resolves every user they mention
// in one lookup. Views from a previous batch are dropped.
func (en *Enricher) Prefetch(ctx context.Context, events []models.LogEvent) error {
	clear(en.views)
	var ids []int64
	for i := range events {
		e := &events[i]
		view := en.cfg.Formatters.Format(e)
		en.views[e.ID] = view
		ids = append(ids, e.UserID)
		ids = append(ids, ParseDescription(view.Description).UserIDs()...)
	}
	return en.resolveNames(ctx, ids)
}

func (en *Enricher) resolveNames(ctx context.Context, ids []int64) error {
	var missing []int64
	for _, id := range ids {
		if _, done := en.looked[id]; done || id <= 0 {
			continue
		}
		en.looked[id] = struct{}{}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return nil
	}
	found, err := en.cfg.Names.UserNames(ctx, missing)
	if err != nil {
		en.gatewayError("user_names")
		return fmt.Errorf("resolve user names: %w", err)
	}
	for id, name := range found {
		en.names[id] = name
	}
	return nil
}

// Enrich produces the display row of e. When downloading, times use the
// compact layout and no links are produced.
func (en *Enricher) Enrich(ctx context.Context, e *models.LogEvent, downloading bool) (Row, error) {
	view, ok := en.views[e.ID]
	if !ok {
		view = en.cfg.Formatters.Format(e)
	}
	desc := ParseDescription(view.Description)
	if err := en.resolveNames(ctx, append([]int64{e.UserID}, desc.UserIDs()...)); err != nil {
		return Row{}, err
	}

	row := Row{
		EventID:     e.ID,
		TimeCreated: e.TimeCreated,
		Time:        en.formatTime(e.TimeCreated, downloading),
		UserID:      e.UserID,
		Component:   en.componentLabel(e.Component),
		EventName:   view.Name,
		Description: desc.Render(en.names),
	}

	if name, ok := en.names[e.UserID]; ok {
		row.UserFullName = name
	} else {
		row.UserFullName = Placeholder
		en.fallback(ColumnFullNameUser)
	}

	group, err := en.groupLabel(ctx, e.CourseID, e.UserID)
	if err != nil {
		return Row{}, err
	}
	row.Group = group

	label, err := en.contextLabel(ctx, e.ContextID)
	if err != nil {
		return Row{}, err
	}
	row.Context = label.name

	if !downloading {
		row.ContextURL = en.absolute(label.url)
		row.EventURL = en.absolute(view.URL)
	}
	return row, nil
}

func (en *Enricher) formatTime(unix int64, downloading bool) string {
	layout := LongTimeLayout
	if downloading {
		layout = CompactTimeLayout
	}
	return time.Unix(unix, 0).In(en.cfg.Location).Format(layout)
}

func (en *Enricher) absolute(path string) string {
	if path == "" {
		return ""
	}
	return en.cfg.HostBaseURL + path
}

// componentLabel: core and legacy show as the system, known plugins by
// their name, anything else raw.
func (en *Enricher) componentLabel(component string) string {
	if component == models.ComponentCore || component == models.ComponentLegacy {
		return en.cfg.Localizer.Get("coresystem")
	}
	if name, ok := en.cfg.Localizer.PluginName(component); ok {
		return name
	}
	return component
}

func (en *Enricher) groupLabel(ctx context.Context, courseID, userID int64) (string, error) {
	key := groupKey{courseID, userID}
	if label, ok := en.groups[key]; ok {
		return label, nil
	}
	names, err := en.dir.UserGroups(ctx, courseID, userID)
	if err != nil {
		en.gatewayError("user_groups")
		return "", fmt.Errorf("groups of user %d: %w", userID, err)
	}
	label := strings.Join(names, ", ")
	if label == "" {
		label = en.cfg.Localizer.Get("nogroup")
	}
	en.groups[key] = label
	return label, nil
}

func (en *Enricher) contextLabel(ctx context.Context, contextID int64) (contextLabel, error) {
	if label, ok := en.contexts[contextID]; ok {
		return label, nil
	}

	other := contextLabel{name: en.cfg.Localizer.Get("other")}
	if contextID == 0 {
		en.contexts[contextID] = other
		return other, nil
	}

	info, err := en.dir.Context(ctx, contextID)
	if errors.Is(err, core.ErrNotFound) {
		en.fallback(ColumnContext)
		en.contexts[contextID] = other
		return other, nil
	}
	if err != nil {
		en.gatewayError("context")
		return contextLabel{}, fmt.Errorf("context %d: %w", contextID, err)
	}

	label := en.describeContext(info)
	en.contexts[contextID] = label
	return label, nil
}

func (en *Enricher) describeContext(info *core.ContextInfo) contextLabel {
	l := en.cfg.Localizer
	switch info.Level {
	case models.ContextSystem:
		return contextLabel{name: l.Get("context_system")}
	case models.ContextCourse:
		return contextLabel{
			name: l.Get("context_course") + ": " + info.Name,
			url:  fmt.Sprintf("/course/view.php?id=%d", info.InstanceID),
		}
	case models.ContextModule:
		prefix, ok := l.PluginName(info.ModuleName)
		if !ok {
			prefix = l.Get("context_module")
		}
		return contextLabel{
			name: prefix + ": " + info.Name,
			url:  fmt.Sprintf("/mod/%s/view.php?id=%d", info.ModuleName, info.InstanceID),
		}
	case models.ContextUser:
		return contextLabel{
			name: l.Get("context_user") + ": " + info.Name,
			url:  fmt.Sprintf("/user/profile.php?id=%d", info.InstanceID),
		}
	case models.ContextCourseCategory:
		return contextLabel{
			name: fmt.Sprintf("%s: %d", l.Get("context_coursecat"), info.InstanceID),
			url:  fmt.Sprintf("/course/index.php?categoryid=%d", info.InstanceID),
		}
	case models.ContextBlock:
		return contextLabel{name: fmt.Sprintf("%s: %d", l.Get("context_block"), info.InstanceID)}
	}
	return contextLabel{name: l.Get("other")}
}

func (en *Enricher) fallback(field string) {
	if en.cfg.Metrics != nil {
		en.cfg.Metrics.RecordFieldFallback(field)
	}
}

func (en *Enricher) gatewayError(op string) {
	if en.cfg.Metrics != nil {
		en.cfg.Metrics.RecordGatewayError(op)
	}
}
