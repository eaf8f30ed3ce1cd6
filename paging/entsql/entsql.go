// Package entsql renders paging queries onto ent's SQL selector, so
// ent-based repositories can serve keyset pages through query modifiers:
//
//	client.Project.Query().
//	    Modify(entsql.Modify(q)).
//	    All(ctx)
package entsql

import (
	"entgo.io/ent/dialect/sql"

	"github.com/tenantify/tcore/paging"
)

// Modify returns a selector modifier applying the query's filters, seek
// predicate, ordering and limit.
func Modify(q *paging.Query) func(*sql.Selector) {
	return func(s *sql.Selector) {
		for _, f := range q.Filters {
			s.Where(filterPredicate(s, f))
		}
		if q.Seek != nil {
			s.Where(seekPredicate(s, q.Seek, s.C(q.IDColumn)))
		}
		s.OrderBy(orderColumns(s, q)...)
		if q.Limit > 0 {
			s.Limit(q.Limit)
		}
	}
}

// ModifyCount returns a selector modifier for the matching count query: the
// filtered set without seek, order or limit.
func ModifyCount(q *paging.Query) func(*sql.Selector) {
	return func(s *sql.Selector) {
		for _, f := range q.Filters {
			s.Where(filterPredicate(s, f))
		}
	}
}

// seekPredicate builds (col op v) OR (col = v AND id op lastID).
func seekPredicate(s *sql.Selector, seek *paging.Seek, idCol string) *sql.Predicate {
	col := s.C(seek.Column)
	var primary, tie *sql.Predicate
	if seek.Op == paging.OpLess {
		primary = sql.LT(col, seek.Value)
		tie = sql.LT(idCol, seek.ID)
	} else {
		primary = sql.GT(col, seek.Value)
		tie = sql.GT(idCol, seek.ID)
	}
	return sql.Or(primary, sql.And(sql.EQ(col, seek.Value), tie))
}

func filterPredicate(s *sql.Selector, f paging.AppliedFilter) *sql.Predicate {
	col := s.C(f.Column)
	switch f.Filter.Op {
	case paging.FilterEquals:
		return sql.EQ(col, f.Filter.Value)
	case paging.FilterIn:
		return sql.In(col, f.Filter.Values...)
	case paging.FilterPrefix:
		prefix, _ := f.Filter.Value.(string)
		return sql.HasPrefix(col, prefix)
	case paging.FilterRange:
		var preds []*sql.Predicate
		if f.Filter.GTE != nil {
			preds = append(preds, sql.GTE(col, f.Filter.GTE))
		}
		if f.Filter.LTE != nil {
			preds = append(preds, sql.LTE(col, f.Filter.LTE))
		}
		if f.Filter.GT != nil {
			preds = append(preds, sql.GT(col, f.Filter.GT))
		}
		if f.Filter.LT != nil {
			preds = append(preds, sql.LT(col, f.Filter.LT))
		}
		return sql.And(preds...)
	default:
		// Unknown ops are rejected upstream during filter resolution.
		return sql.False()
	}
}

func orderColumns(s *sql.Selector, q *paging.Query) []string {
	sortCol, idCol := s.C(q.Order.Column), s.C(q.IDColumn)
	if q.Order.Direction == paging.Desc {
		return []string{sql.Desc(sortCol), sql.Desc(idCol)}
	}
	return []string{sql.Asc(sortCol), sql.Asc(idCol)}
}
