package paging

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tenantify/tcore/types"
)

const (
	// DefaultLimit applies when a request carries no page size.
	DefaultLimit = 20
	// MaxLimit caps the page size; out-of-range values clamp to the nearer
	// bound rather than failing the request.
	MaxLimit = 100
)

// Params holds the unified pagination parameters of one page request.
type Params struct {
	Cursor        string    `json:"cursor"`
	Limit         int       `json:"limit"`
	Reverse       bool      `json:"reverse"`
	SortBy        string    `json:"sort_by"`
	SortDirection Direction `json:"sort_direction"`
	Filters       Filters   `json:"filters"`
	IncludeTotal  bool      `json:"include_total"`
}

// Pagination is the page metadata returned alongside the items.
type Pagination struct {
	HasNext          bool      `json:"has_next"`
	HasPrevious      bool      `json:"has_previous"`
	NextCursor       string    `json:"next_cursor,omitempty"`
	PreviousCursor   string    `json:"previous_cursor,omitempty"`
	TotalCount       *int      `json:"total_count,omitempty"`
	CurrentSort      string    `json:"current_sort"`
	CurrentDirection Direction `json:"current_direction"`
}

// Result holds one page of items in canonical presentation order plus its
// pagination metadata. Each page is a discrete, independently requestable
// result, not a restartable stream.
type Result[T any] struct {
	Items      []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Store executes keyset queries against a backing store. Fetch must honor
// the full Query contract: seek predicate, filters, order and limit. Count
// returns the size of the filtered set and is only invoked when a caller
// explicitly requests a total. Errors propagate unmodified; retry policy
// belongs to the store client.
type Store[T any] interface {
	Fetch(ctx context.Context, q *Query) ([]T, error)
	Count(ctx context.Context, q *Query) (int, error)
}

// Paginator orchestrates one resource's pagination: cursor decode, filter
// merge, query build, store execution and cursor regeneration. It is
// stateless per request and safe for concurrent use.
type Paginator[T any] struct {
	codec *Codec
	res   *Resource[T]
	store Store[T]
}

// NewPaginator wires a paginator from its collaborators.
func NewPaginator[T any](codec *Codec, res *Resource[T], store Store[T]) *Paginator[T] {
	if codec == nil || res == nil || store == nil {
		panic("paging: paginator requires codec, resource and store")
	}
	return &Paginator[T]{codec: codec, res: res, store: store}
}

// clampLimit forces the page size into [1, MaxLimit]. The clamp here is the
// single source of truth; transport bindings apply DefaultLimit for absent
// parameters and forward everything else untouched.
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Page executes one page request.
func (p *Paginator[T]) Page(ctx context.Context, params Params) (*Result[T], error) {
	limit := clampLimit(params.Limit)

	// Decode the inbound cursor, or synthesize a first-page payload from
	// the request parameters.
	fromCursor := params.Cursor != ""
	var payload Payload
	if fromCursor {
		var err error
		payload, err = p.codec.Decode(params.Cursor)
		if err != nil {
			return nil, err
		}
	} else {
		payload = p.initialPayload(params)
	}
	if _, ok := p.res.sortFields[payload.SortBy]; !ok {
		return nil, invalidSortField(p.res.name, payload.SortBy)
	}

	// The cursor's embedded filters pin the traversal's result set; request
	// filters on top may only narrow it. On a first page the request
	// filters are the embedded ones, so nothing merges twice.
	var extra Filters
	if fromCursor {
		extra = params.Filters
	}
	filters, err := p.res.resolveFilters(mergeFilters(payload.Filters, extra))
	if err != nil {
		return nil, err
	}

	q, err := buildQuery(p.res, payload, params.Reverse, filters, limit)
	if err != nil {
		return nil, err
	}

	items, total, err := p.execute(ctx, q, params.IncludeTotal)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	// A reversed fetch walks the keyset backwards; flip the rows so callers
	// always see canonical presentation order.
	var hasNext, hasPrevious bool
	if params.Reverse {
		reverseItems(items)
		hasNext = fromCursor
		hasPrevious = hasMore
	} else {
		hasNext = hasMore
		hasPrevious = fromCursor
	}

	if items == nil {
		items = make([]T, 0)
	}

	result := &Result[T]{
		Items: items,
		Pagination: Pagination{
			HasNext:          hasNext,
			HasPrevious:      hasPrevious,
			TotalCount:       total,
			CurrentSort:      payload.SortBy,
			CurrentDirection: payload.SortDirection,
		},
	}

	if len(items) > 0 {
		if hasNext {
			result.Pagination.NextCursor, err = p.boundaryCursor(payload, items[len(items)-1])
			if err != nil {
				return nil, err
			}
		}
		if hasPrevious {
			result.Pagination.PreviousCursor, err = p.boundaryCursor(payload, items[0])
			if err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// initialPayload synthesizes a first-page payload from request parameters,
// falling back to the resource defaults.
func (p *Paginator[T]) initialPayload(params Params) Payload {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = p.res.defaultSort
	}
	dir := params.SortDirection
	if dir == "" {
		dir = p.res.defaultDirection
	}
	filters := params.Filters
	if filters == nil {
		filters = Filters{}
	}
	return Payload{
		SortBy:        sortBy,
		SortDirection: dir,
		Filters:       filters.normalized(),
	}
}

// execute runs the page query, and the count query concurrently with it when
// a total was requested. The store calls are the only suspension points in
// the request path.
func (p *Paginator[T]) execute(ctx context.Context, q *Query, includeTotal bool) ([]T, *int, error) {
	if !includeTotal {
		items, err := p.store.Fetch(ctx, q)
		if err != nil {
			return nil, nil, storeError(err)
		}
		return items, nil, nil
	}

	var (
		items []T
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = p.store.Fetch(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = p.store.Count(gctx, q.countQuery())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, storeError(err)
	}
	return items, types.ToPointer(total), nil
}

// boundaryCursor mints a cursor positioned at the given boundary row,
// carrying forward the traversal's sort spec and embedded filters.
func (p *Paginator[T]) boundaryCursor(payload Payload, item T) (string, error) {
	value, err := p.res.SortValue(payload.SortBy, item)
	if err != nil {
		return "", err
	}
	return p.codec.Encode(Payload{
		SortBy:        payload.SortBy,
		SortDirection: payload.SortDirection,
		LastValue:     value,
		LastID:        ID(p.res.ID(item)),
		Filters:       payload.Filters,
	})
}

func reverseItems[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
