package report

import "context"

// DefaultPageSize is the number of rows per interactive page.
const DefaultPageSize = 15

// exportBatch is the number of events enriched per name lookup on export.
const exportBatch = 200

// Paginator maps a counted, ordered source of E into pages of R.
type Paginator[E, R any] struct {
	PageSize int
	Count    func(ctx context.Context) (int64, error)
	// FetchPage returns the events at [offset, offset+limit); limit 0 means all.
	FetchPage func(ctx context.Context, offset, limit int) ([]E, error)
	// Prefetch, when set, sees each batch before MapRow.
	Prefetch func(ctx context.Context, batch []E) error
	MapRow   func(ctx context.Context, e *E) (R, error)
}

// Page is one page of rows with its pagination.
type Page[R any] struct {
	Rows       []R        `json:"rows"`
	Pagination Pagination `json:"pagination"`
}

// Page returns page n (0-indexed, clamped to the last page).
func (p *Paginator[E, R]) Page(ctx context.Context, n int) (*Page[R], error) {
	total, err := p.Count(ctx)
	if err != nil {
		return nil, err
	}
	pg := CalculatePagination(total, n, p.PageSize)

	out := &Page[R]{Rows: []R{}, Pagination: pg}
	if total == 0 {
		return out, nil
	}

	events, err := p.FetchPage(ctx, pg.Offset(), pg.PageSize)
	if err != nil {
		return nil, err
	}
	if err := p.mapBatch(ctx, events, func(r R) error {
		out.Rows = append(out.Rows, r)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Each fetches the whole result once and calls fn for every row in order.
// It returns the number of rows passed to fn.
func (p *Paginator[E, R]) Each(ctx context.Context, fn func(R) error) (int, error) {
	events, err := p.FetchPage(ctx, 0, 0)
	if err != nil {
		return 0, err
	}

	n := 0
	for start := 0; start < len(events); start += exportBatch {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		end := min(start+exportBatch, len(events))
		if err := p.mapBatch(ctx, events[start:end], func(r R) error {
			if err := fn(r); err != nil {
				return err
			}
			n++
			return nil
		}); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (p *Paginator[E, R]) mapBatch(ctx context.Context, batch []E, emit func(R) error) error {
	if p.Prefetch != nil && len(batch) > 0 {
		if err := p.Prefetch(ctx, batch); err != nil {
			return err
		}
	}
	for i := range batch {
		r, err := p.MapRow(ctx, &batch[i])
		if err != nil {
			return err
		}
		if err := emit(r); err != nil {
			return err
		}
	}
	return nil
}
