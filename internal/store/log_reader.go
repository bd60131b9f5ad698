package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/models"

	"gorm.io/gorm"
)

// StandardReaderName is the name under which the standard log store is
// registered with the log manager.
const StandardReaderName = "logstore_standard"

// Compile-time interface checks.
var (
	_ core.LogReader    = (*StandardLogReader)(nil)
	_ core.MetricsStore = (*Store)(nil)
)

// StandardLogReader reads the logstore_standard_log table.
type StandardLogReader struct {
	store *Store
	name  string
}

// NewStandardLogReader returns a reader over the store's log table. An
// empty name defaults to StandardReaderName.
func NewStandardLogReader(s *Store, name string) *StandardLogReader {
	if name == "" {
		name = StandardReaderName
	}
	return &StandardLogReader{store: s, name: name}
}

func (r *StandardLogReader) Name() string {
	return r.name
}

// applySelection adds the selection's conjunction to q. gorm only binds
// @name placeholders when a parameter map is passed, and appends stray
// variables otherwise, so a parameterless selection is passed alone.
func applySelection(q *gorm.DB, sel *core.Selection) (*gorm.DB, error) {
	if sel == nil || sel.Empty() {
		return q, nil
	}
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	if len(sel.Params) == 0 {
		return q.Where(sel.SQL()), nil
	}
	return q.Where(sel.SQL(), sel.Params), nil
}

func (r *StandardLogReader) Count(ctx context.Context, sel *core.Selection) (int64, error) {
	q, err := applySelection(r.store.withContext(ctx).Model(&models.LogEvent{}), sel)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Fetch returns events in order. The id column is added as a tie-breaker so
// that pages never overlap when several events share a timestamp.
func (r *StandardLogReader) Fetch(
	ctx context.Context,
	sel *core.Selection,
	order string,
	offset, limit int,
) ([]models.LogEvent, error) {
	q, err := applySelection(r.store.withContext(ctx).Model(&models.LogEvent{}), sel)
	if err != nil {
		return nil, err
	}
	if order != "" {
		q = q.Order(order)
		if !strings.HasPrefix(order, "id ") {
			if strings.HasSuffix(order, "ASC") {
				q = q.Order("id ASC")
			} else {
				q = q.Order("id DESC")
			}
		}
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var events []models.LogEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CreateLogEvents appends events to the log store in one batch.
func (s *Store) CreateLogEvents(ctx context.Context, events []models.LogEvent) error {
	if len(events) == 0 {
		return nil
	}
	return s.withContext(ctx).CreateInBatches(events, 100).Error
}

// DistinctComponents returns the components present in the log store,
// restricted to allowed (all components when allowed is empty), sorted.
func (s *Store) DistinctComponents(ctx context.Context, allowed []string) ([]string, error) {
	q := s.withContext(ctx).Model(&models.LogEvent{}).Distinct("component")
	if len(allowed) > 0 {
		q = q.Where("component IN ?", allowed)
	}
	var components []string
	if err := q.Order("component").Pluck("component", &components).Error; err != nil {
		return nil, err
	}
	return components, nil
}

// CountLogEvents returns the number of stored events.
func (s *Store) CountLogEvents(ctx context.Context) (int64, error) {
	var n int64
	err := s.withContext(ctx).Model(&models.LogEvent{}).Count(&n).Error
	return n, err
}

// CountLogEventsSince returns the number of events created at or after since.
func (s *Store) CountLogEventsSince(ctx context.Context, since int64) (int64, error) {
	var n int64
	err := s.withContext(ctx).Model(&models.LogEvent{}).
		Where("timecreated >= ?", since).
		Count(&n).Error
	return n, err
}
