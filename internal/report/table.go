package report

import (
	"context"
	"fmt"
	"sync"

	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/models"
)

// State is the lifecycle of a Table.
type State int

const (
	StateIdle State = iota
	StateQuery
	StateRendered
	StateExported
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQuery:
		return "query"
	case StateRendered:
		return "rendered"
	case StateExported:
		return "exported"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Table runs one report query and either renders one page or exports the
// whole result. It is single-use.
type Table struct {
	mu        sync.Mutex
	state     State
	outcome   State
	paginator *Paginator[models.LogEvent, Row]
}

// NewTable binds a reader, a selection and an enricher. pageSize <= 0 uses
// DefaultPageSize; order is normalized against the whitelist.
func NewTable(
	reader core.LogReader,
	sel *core.Selection,
	order string,
	enricher *Enricher,
	pageSize int,
) *Table {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	order = NormalizeOrder(order)

	t := &Table{}
	t.paginator = &Paginator[models.LogEvent, Row]{
		PageSize: pageSize,
		Count: func(ctx context.Context) (int64, error) {
			return reader.Count(ctx, sel)
		},
		FetchPage: func(ctx context.Context, offset, limit int) ([]models.LogEvent, error) {
			return reader.Fetch(ctx, sel, order, offset, limit)
		},
		Prefetch: enricher.Prefetch,
		MapRow: func(ctx context.Context, e *models.LogEvent) (Row, error) {
			return enricher.Enrich(ctx, e, t.outcome == StateExported)
		},
	}
	return t
}

// State returns the current state.
func (t *Table) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Outcome returns StateRendered or StateExported once a query started,
// StateIdle before.
func (t *Table) Outcome() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}

func (t *Table) begin(outcome State) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateIdle {
		return ErrTableDone
	}
	t.state = StateQuery
	t.outcome = outcome
	return nil
}

func (t *Table) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateDone
}

// Render returns page n of the interactive report.
func (t *Table) Render(ctx context.Context, n int) (*Page[Row], error) {
	if err := t.begin(StateRendered); err != nil {
		return nil, err
	}
	page, err := t.paginator.Page(ctx, n)
	t.finish()
	return page, err
}

// Export streams every row to exp, headers first, and closes it. It
// returns the number of rows written.
func (t *Table) Export(ctx context.Context, exp Exporter, headers []string) (int, error) {
	if err := t.begin(StateExported); err != nil {
		return 0, err
	}
	n, err := t.export(ctx, exp, headers)
	t.finish()
	return n, err
}

func (t *Table) export(ctx context.Context, exp Exporter, headers []string) (int, error) {
	if err := exp.Begin(headers); err != nil {
		exp.Abort()
		return 0, err
	}
	n, err := t.paginator.Each(ctx, func(r Row) error {
		return exp.WriteRow(&r)
	})
	if err != nil {
		exp.Abort()
		return n, err
	}
	return n, exp.Close()
}
