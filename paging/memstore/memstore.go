// Package memstore provides an in-memory paging.Store backed by a slice.
// It interprets the same query contract the SQL adapters render, which makes
// it the reference implementation for tests and fixtures.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tenantify/tcore/paging"
)

// Store evaluates keyset queries over an in-memory slice. The resource
// registry supplies field accessors; filterable fields must be registered
// with accessors to be evaluable here.
type Store[T any] struct {
	res   *paging.Resource[T]
	items []T
}

// New creates a store over the given items. The slice is not copied; it must
// stay unmodified while the store is in use.
func New[T any](res *paging.Resource[T], items ...T) *Store[T] {
	return &Store[T]{res: res, items: items}
}

// Fetch evaluates the query: filters, seek predicate, order, limit.
func (s *Store[T]) Fetch(_ context.Context, q *paging.Query) ([]T, error) {
	matched, err := s.match(q)
	if err != nil {
		return nil, err
	}

	sortErr := error(nil)
	sort.SliceStable(matched, func(i, j int) bool {
		less, err := s.less(q.Order, matched[i], matched[j])
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count evaluates the query's filters only.
func (s *Store[T]) Count(_ context.Context, q *paging.Query) (int, error) {
	matched, err := s.match(q)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// match applies the filters and seek predicate.
func (s *Store[T]) match(q *paging.Query) ([]T, error) {
	var out []T
	for _, item := range s.items {
		ok, err := s.matchFilters(q.Filters, item)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if q.Seek != nil {
			ok, err = s.matchSeek(q.Seek, item)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// matchSeek evaluates (field op value) OR (field = value AND id op lastID).
func (s *Store[T]) matchSeek(seek *paging.Seek, item T) (bool, error) {
	value, err := s.res.SortValue(seek.Field, item)
	if err != nil {
		return false, err
	}
	cmp, err := seek.Kind.Compare(value, seek.Value)
	if err != nil {
		return false, err
	}
	if cmp != 0 {
		if seek.Op == paging.OpLess {
			return cmp < 0, nil
		}
		return cmp > 0, nil
	}
	id := s.res.ID(item)
	if seek.Op == paging.OpLess {
		return id < seek.ID, nil
	}
	return id > seek.ID, nil
}

func (s *Store[T]) matchFilters(filters []paging.AppliedFilter, item T) (bool, error) {
	for _, f := range filters {
		value, err := s.res.FilterValue(f.Field, item)
		if err != nil {
			return false, err
		}
		ok, err := evalFilter(f, value)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evalFilter(f paging.AppliedFilter, value any) (bool, error) {
	switch f.Filter.Op {
	case paging.FilterEquals:
		cmp, err := f.Kind.Compare(value, f.Filter.Value)
		if err != nil {
			return false, err
		}
		return cmp == 0, nil
	case paging.FilterIn:
		for _, candidate := range f.Filter.Values {
			cmp, err := f.Kind.Compare(value, candidate)
			if err != nil {
				return false, err
			}
			if cmp == 0 {
				return true, nil
			}
		}
		return false, nil
	case paging.FilterRange:
		return evalRange(f, value)
	case paging.FilterPrefix:
		str, ok := value.(string)
		if !ok {
			return false, fmt.Errorf("memstore: prefix filter on non-string value %v", value)
		}
		prefix, ok := f.Filter.Value.(string)
		if !ok {
			return false, fmt.Errorf("memstore: prefix filter with non-string pattern %v", f.Filter.Value)
		}
		return strings.HasPrefix(str, prefix), nil
	default:
		return false, fmt.Errorf("memstore: unknown filter op %q", f.Filter.Op)
	}
}

func evalRange(f paging.AppliedFilter, value any) (bool, error) {
	check := func(bound any, ok func(int) bool) (bool, error) {
		if bound == nil {
			return true, nil
		}
		cmp, err := f.Kind.Compare(value, bound)
		if err != nil {
			return false, err
		}
		return ok(cmp), nil
	}

	pass, err := check(f.Filter.GTE, func(c int) bool { return c >= 0 })
	if err != nil || !pass {
		return false, err
	}
	pass, err = check(f.Filter.LTE, func(c int) bool { return c <= 0 })
	if err != nil || !pass {
		return false, err
	}
	pass, err = check(f.Filter.GT, func(c int) bool { return c > 0 })
	if err != nil || !pass {
		return false, err
	}
	return check(f.Filter.LT, func(c int) bool { return c < 0 })
}

// less orders two items by the sort column then the id tie-breaker, honoring
// the physical direction.
func (s *Store[T]) less(order paging.Order, a, b T) (bool, error) {
	va, err := s.res.SortValue(order.Field, a)
	if err != nil {
		return false, err
	}
	vb, err := s.res.SortValue(order.Field, b)
	if err != nil {
		return false, err
	}
	cmp, err := order.Kind.Compare(va, vb)
	if err != nil {
		return false, err
	}
	if cmp == 0 {
		ida, idb := s.res.ID(a), s.res.ID(b)
		if order.Direction == paging.Desc {
			return ida > idb, nil
		}
		return ida < idb, nil
	}
	if order.Direction == paging.Desc {
		return cmp > 0, nil
	}
	return cmp < 0, nil
}
