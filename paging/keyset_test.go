package paging

import (
	"errors"
	"testing"
	"time"
)

type event struct {
	id        int64
	createdAt time.Time
	priority  int64
}

func eventResource() *Resource[*event] {
	return NewResource[*event]("events", func(e *event) int64 { return e.id }).
		Sortable("created_at", Field[*event]{
			Column: "created_at",
			Kind:   KindTime,
			Value:  func(e *event) any { return e.createdAt },
		}).
		Sortable("priority", Field[*event]{
			Column: "priority",
			Kind:   KindInt,
			Value:  func(e *event) any { return e.priority },
		}).
		Filterable("priority", FilterField[*event]{
			Column: "priority",
			Kind:   KindInt,
			Value:  func(e *event) any { return e.priority },
		})
}

func TestSeekOpTruthTable(t *testing.T) {
	cases := []struct {
		dir     Direction
		reverse bool
		want    CompareOp
	}{
		{Desc, false, OpLess},
		{Desc, true, OpGreater},
		{Asc, false, OpGreater},
		{Asc, true, OpLess},
	}
	for _, c := range cases {
		if got := seekOp(c.dir, c.reverse); got != c.want {
			t.Errorf("seekOp(%s, %v) = %s, want %s", c.dir, c.reverse, got, c.want)
		}
	}
}

func TestPhysicalDirectionFlips(t *testing.T) {
	cases := []struct {
		dir     Direction
		reverse bool
		want    Direction
	}{
		{Desc, false, Desc},
		{Desc, true, Asc},
		{Asc, false, Asc},
		{Asc, true, Desc},
	}
	for _, c := range cases {
		if got := physicalDirection(c.dir, c.reverse); got != c.want {
			t.Errorf("physicalDirection(%s, %v) = %s, want %s", c.dir, c.reverse, got, c.want)
		}
	}
}

func TestBuildQueryFirstPage(t *testing.T) {
	res := eventResource()
	q, err := buildQuery(res, Payload{SortBy: "created_at", SortDirection: Desc}, false, nil, 20)
	if err != nil {
		t.Fatalf("buildQuery failed: %v", err)
	}
	if q.Seek != nil {
		t.Error("first page must not carry a seek predicate")
	}
	if q.Limit != 21 {
		t.Errorf("limit must include the has-more sentinel: got %d", q.Limit)
	}
	if q.Order.Column != "created_at" || q.Order.Direction != Desc {
		t.Errorf("unexpected order: %+v", q.Order)
	}
	if q.IDColumn != "id" {
		t.Errorf("unexpected id column %q", q.IDColumn)
	}
}

func TestBuildQuerySeek(t *testing.T) {
	res := eventResource()
	p := Payload{
		SortBy:        "created_at",
		SortDirection: Desc,
		LastValue:     "2025-08-14T10:30:00Z",
		LastID:        ID(4),
	}

	q, err := buildQuery(res, p, false, nil, 2)
	if err != nil {
		t.Fatalf("buildQuery failed: %v", err)
	}
	if q.Seek == nil {
		t.Fatal("expected a seek predicate")
	}
	if q.Seek.Op != OpLess {
		t.Errorf("desc forward must seek with <: got %s", q.Seek.Op)
	}
	if q.Seek.ID != 4 {
		t.Errorf("unexpected tie-break id %d", q.Seek.ID)
	}
	if _, ok := q.Seek.Value.(time.Time); !ok {
		t.Errorf("timestamp seek value must coerce to time.Time, got %T", q.Seek.Value)
	}

	// Same payload traversed backwards flips both the operator and the
	// physical fetch direction.
	q, err = buildQuery(res, p, true, nil, 2)
	if err != nil {
		t.Fatalf("buildQuery reverse failed: %v", err)
	}
	if q.Seek.Op != OpGreater {
		t.Errorf("desc backward must seek with >: got %s", q.Seek.Op)
	}
	if q.Order.Direction != Asc {
		t.Errorf("desc backward must fetch ascending: got %s", q.Order.Direction)
	}
}

func TestBuildQueryUnknownSortField(t *testing.T) {
	res := eventResource()
	_, err := buildQuery(res, Payload{SortBy: "nope", SortDirection: Desc}, false, nil, 20)
	if !errors.Is(err, ErrInvalidSortField) {
		t.Fatalf("expected ErrInvalidSortField, got %v", err)
	}
}

func TestBuildQueryMismatchedSeekValue(t *testing.T) {
	res := eventResource()
	p := Payload{SortBy: "priority", SortDirection: Asc, LastValue: "high", LastID: ID(1)}
	if _, err := buildQuery(res, p, false, nil, 20); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor for type mismatch, got %v", err)
	}
}

func TestCountQueryStripsSeekAndLimit(t *testing.T) {
	res := eventResource()
	p := Payload{SortBy: "priority", SortDirection: Asc, LastValue: int64(1), LastID: ID(1)}
	filters, err := res.resolveFilters(mergeFilters(Filters{"priority": Range(int64(1), nil, nil, nil)}, nil))
	if err != nil {
		t.Fatalf("resolveFilters failed: %v", err)
	}

	q, err := buildQuery(res, p, false, filters, 20)
	if err != nil {
		t.Fatalf("buildQuery failed: %v", err)
	}
	cq := q.countQuery()
	if cq.Seek != nil || cq.Limit != 0 {
		t.Errorf("count query must drop seek and limit: %+v", cq)
	}
	if len(cq.Filters) != 1 {
		t.Errorf("count query must keep filters: %+v", cq.Filters)
	}
}

func TestResolveFiltersUnknownField(t *testing.T) {
	res := eventResource()
	_, err := res.resolveFilters(mergeFilters(Filters{"ghost": Equals("x")}, nil))
	if !errors.Is(err, ErrInvalidFilterField) {
		t.Fatalf("expected ErrInvalidFilterField, got %v", err)
	}
}

func TestResolveFiltersBadValue(t *testing.T) {
	res := eventResource()
	_, err := res.resolveFilters(mergeFilters(Filters{"priority": Equals("urgent")}, nil))
	if !errors.Is(err, ErrInvalidFilterValue) {
		t.Fatalf("expected ErrInvalidFilterValue, got %v", err)
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 1},
		{-3, 1},
		{1, 1},
		{50, 50},
		{100, 100},
		{101, 100},
		{10000, 100},
	}
	for _, c := range cases {
		if got := clampLimit(c.in); got != c.want {
			t.Errorf("clampLimit(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestResourceRegistrationPanics(t *testing.T) {
	assertPanics := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}

	assertPanics("duplicate sortable", func() {
		NewResource[*event]("e", func(e *event) int64 { return e.id }).
			Sortable("f", Field[*event]{Column: "f", Kind: KindInt, Value: func(e *event) any { return e.priority }}).
			Sortable("f", Field[*event]{Column: "f", Kind: KindInt, Value: func(e *event) any { return e.priority }})
	})
	assertPanics("missing accessor", func() {
		NewResource[*event]("e", func(e *event) int64 { return e.id }).
			Sortable("f", Field[*event]{Column: "f", Kind: KindInt})
	})
	assertPanics("unknown default sort", func() {
		NewResource[*event]("e", func(e *event) int64 { return e.id }).DefaultSort("ghost", Asc)
	})
}
