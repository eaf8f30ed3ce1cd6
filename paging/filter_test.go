package paging

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFilterWireForm(t *testing.T) {
	cases := []struct {
		filter Filter
		want   string
	}{
		{Equals("active"), `{"op":"eq","value":"active"}`},
		{Equals(int64(0)), `{"op":"eq","value":0}`},
		{In("a", "b"), `{"op":"in","values":["a","b"]}`},
		{Prefix("proj-"), `{"op":"prefix","value":"proj-"}`},
		{Range(int64(1), int64(10), nil, nil), `{"op":"range","gte":1,"lte":10}`},
		{Range(nil, nil, 0.5, nil), `{"op":"range","gt":0.5}`},
	}
	for i, c := range cases {
		got, err := json.Marshal(c.filter)
		if err != nil {
			t.Fatalf("case %d: marshal failed: %v", i, err)
		}
		if string(got) != c.want {
			t.Errorf("case %d: got %s, want %s", i, got, c.want)
		}

		var back Filter
		if err := json.Unmarshal(got, &back); err != nil {
			t.Fatalf("case %d: unmarshal failed: %v", i, err)
		}
		if back.Op != c.filter.Op {
			t.Errorf("case %d: op lost in round-trip: %s", i, back.Op)
		}
	}
}

func TestFilterUnknownOpRejected(t *testing.T) {
	var f Filter
	if err := json.Unmarshal([]byte(`{"op":"regex","value":".*"}`), &f); err == nil {
		t.Fatal("unknown op accepted")
	}
}

func TestMergeFiltersEmbeddedPersist(t *testing.T) {
	embedded := Filters{"status": Equals("active")}
	merged := mergeFilters(embedded, nil)
	if len(merged) != 1 || merged[0].field != "status" {
		t.Fatalf("embedded filter lost: %+v", merged)
	}
}

func TestMergeFiltersNarrowing(t *testing.T) {
	embedded := Filters{"status": Equals("active"), "priority": Range(int64(1), nil, nil, nil)}
	extra := Filters{"priority": Range(nil, int64(5), nil, nil), "name": Prefix("a")}

	merged := mergeFilters(embedded, extra)

	// Deterministic field order, and both priority predicates survive.
	wantFields := []string{"name", "priority", "priority", "status"}
	if len(merged) != len(wantFields) {
		t.Fatalf("expected %d applied filters, got %d", len(wantFields), len(merged))
	}
	for i, want := range wantFields {
		if merged[i].field != want {
			t.Errorf("position %d: got field %q, want %q", i, merged[i].field, want)
		}
	}
	// Embedded predicate comes first within the shared field.
	if merged[1].filter.GTE == nil || merged[2].filter.LTE == nil {
		t.Error("embedded/extra order not preserved within field")
	}
}

func TestFilterValidateValues(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		kind   Kind
		ok     bool
	}{
		{"eq string ok", Equals("x"), KindString, true},
		{"eq wrong type", Equals(int64(1)), KindString, false},
		{"in ok", In(int64(1), int64(2)), KindInt, true},
		{"in empty", In(), KindInt, false},
		{"in mixed bad", In(int64(1), "two"), KindInt, false},
		{"range ok", Range(int64(1), nil, nil, nil), KindInt, true},
		{"range empty", Range(nil, nil, nil, nil), KindInt, false},
		{"range bad bound", Range("low", nil, nil, nil), KindInt, false},
		{"prefix ok", Prefix("a"), KindString, true},
		{"prefix non-string field", Prefix("a"), KindInt, false},
		{"time string ok", Equals("2025-08-14T10:30:00Z"), KindTime, true},
		{"time garbage", Equals("yesterday"), KindTime, false},
		{"bool ok", Equals(true), KindBool, true},
	}
	for _, c := range cases {
		err := c.filter.validate("f", c.kind)
		if c.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
		}
		if !c.ok {
			if err == nil {
				t.Errorf("%s: expected error", c.name)
			} else if !errors.Is(err, ErrInvalidFilterValue) {
				t.Errorf("%s: expected ErrInvalidFilterValue, got %v", c.name, err)
			}
		}
	}
}

func TestKindCompare(t *testing.T) {
	ts1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ts2 := ts1.Add(time.Hour)

	cases := []struct {
		kind Kind
		a, b any
		want int
	}{
		{KindString, "a", "b", -1},
		{KindInt, int64(5), int64(5), 0},
		{KindInt, int64(7), 5.0, 1},
		{KindFloat, int64(1), 1.5, -1},
		{KindTime, ts1, ts2, -1},
		{KindTime, ts2.Format(time.RFC3339Nano), ts1, 1},
		{KindBool, false, true, -1},
	}
	for i, c := range cases {
		got, err := c.kind.Compare(c.a, c.b)
		if err != nil {
			t.Fatalf("case %d: compare failed: %v", i, err)
		}
		if got != c.want {
			t.Errorf("case %d: got %d, want %d", i, got, c.want)
		}
	}

	if _, err := KindInt.Compare(int64(1), "nope"); err == nil {
		t.Error("expected coercion error")
	}
	if _, err := KindInt.Coerce(1.5); err == nil {
		t.Error("non-integral float coerced to int")
	}
}
