package paging

// CompareOp is the comparison applied to the sort field (and the id
// tie-breaker) in a seek predicate.
type CompareOp string

const (
	OpLess    CompareOp = "<"
	OpGreater CompareOp = ">"
)

// Seek is the range predicate positioning a query after (or before) the
// boundary row of the previous page. The full condition a store must apply is
//
//	(column Op value) OR (column = value AND id Op lastID)
//
// with the same operator on both comparisons.
type Seek struct {
	Field  string
	Column string
	Kind   Kind
	Op     CompareOp
	Value  any
	ID     int64
}

// Order is the ordering of the physical fetch: the sort column followed by
// the id tie-breaker, both in Direction.
type Order struct {
	Field     string
	Column    string
	Kind      Kind
	Direction Direction
}

// Query is the store-agnostic description of one keyset page fetch. Stores
// translate it into their native query form; Limit already includes the
// extra has-more sentinel row.
type Query struct {
	Seek     *Seek
	Order    Order
	IDColumn string
	Filters  []AppliedFilter
	Limit    int
}

// seekOp returns the comparison operator for the given logical sort
// direction and traversal direction:
//
//	desc, forward  -> <
//	desc, backward -> >
//	asc,  forward  -> >
//	asc,  backward -> <
func seekOp(dir Direction, reverse bool) CompareOp {
	if (dir == Desc) != reverse {
		return OpLess
	}
	return OpGreater
}

// physicalDirection flips the fetch order under reverse so it matches the
// comparison direction. The coordinator restores presentation order by
// reversing the fetched rows in memory.
func physicalDirection(dir Direction, reverse bool) Direction {
	if !reverse {
		return dir
	}
	if dir == Desc {
		return Asc
	}
	return Desc
}

// buildQuery turns a decoded payload plus request parameters into the Query
// IR. No seek predicate is produced for a first page. limit is the trimmed
// page size; the query fetches one extra row as the has-more sentinel.
func buildQuery[T any](res *Resource[T], p Payload, reverse bool, filters []AppliedFilter, limit int) (*Query, error) {
	sortField, ok := res.sortFields[p.SortBy]
	if !ok {
		return nil, invalidSortField(res.name, p.SortBy)
	}

	q := &Query{
		Order: Order{
			Field:     p.SortBy,
			Column:    sortField.Column,
			Kind:      sortField.Kind,
			Direction: physicalDirection(p.SortDirection, reverse),
		},
		IDColumn: res.idColumn,
		Filters:  filters,
		Limit:    limit + 1,
	}

	if p.LastValue != nil && p.LastID != nil {
		value, err := sortField.Kind.Coerce(p.LastValue)
		if err != nil {
			return nil, invalidCursor("last_value does not match field %q: %v", p.SortBy, err)
		}
		q.Seek = &Seek{
			Field:  p.SortBy,
			Column: sortField.Column,
			Kind:   sortField.Kind,
			Op:     seekOp(p.SortDirection, reverse),
			Value:  value,
			ID:     *p.LastID,
		}
	}

	return q, nil
}

// countQuery derives the query used for the opt-in total count: the filtered
// set without seek, order or limit.
func (q *Query) countQuery() *Query {
	return &Query{
		Order:    q.Order,
		IDColumn: q.IDColumn,
		Filters:  q.Filters,
	}
}
