package paging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// FilterOp identifies a filter predicate kind.
type FilterOp string

const (
	FilterEquals FilterOp = "eq"
	FilterIn     FilterOp = "in"
	FilterRange  FilterOp = "range"
	FilterPrefix FilterOp = "prefix"
)

// Filter is a tagged predicate on a single field. Exactly one shape is
// populated depending on Op; use the constructors rather than building
// values by hand.
type Filter struct {
	Op     FilterOp
	Value  any   // FilterEquals, FilterPrefix
	Values []any // FilterIn
	GTE    any   // FilterRange bounds, each optional
	LTE    any
	GT     any
	LT     any
}

// Equals matches rows whose field equals v.
func Equals(v any) Filter {
	return Filter{Op: FilterEquals, Value: v}
}

// In matches rows whose field equals any of vs.
func In(vs ...any) Filter {
	return Filter{Op: FilterIn, Values: vs}
}

// Prefix matches rows whose field starts with s.
func Prefix(s string) Filter {
	return Filter{Op: FilterPrefix, Value: s}
}

// Range matches rows whose field falls inside the given bounds. Nil bounds
// are open.
func Range(gte, lte, gt, lt any) Filter {
	return Filter{Op: FilterRange, GTE: gte, LTE: lte, GT: gt, LT: lt}
}

// Filters maps field names to predicates. The map form is what gets embedded
// in cursors; its canonical JSON serialization is order-independent.
type Filters map[string]Filter

// filterWire is the JSON shape of a single filter inside a cursor.
type filterWire struct {
	Op     FilterOp `json:"op"`
	Value  any      `json:"value,omitempty"`
	Values []any    `json:"values,omitempty"`
	GTE    any      `json:"gte,omitempty"`
	LTE    any      `json:"lte,omitempty"`
	GT     any      `json:"gt,omitempty"`
	LT     any      `json:"lt,omitempty"`
}

// MarshalJSON serializes the filter in tagged wire form.
func (f Filter) MarshalJSON() ([]byte, error) {
	if f.Op == "" {
		return nil, fmt.Errorf("filter op is required")
	}
	return json.Marshal(filterWire{
		Op:     f.Op,
		Value:  f.Value,
		Values: f.Values,
		GTE:    f.GTE,
		LTE:    f.LTE,
		GT:     f.GT,
		LT:     f.LT,
	})
}

// UnmarshalJSON parses the tagged wire form, keeping numbers as literals so
// re-encoding is byte-stable.
func (f *Filter) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var w filterWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	switch w.Op {
	case FilterEquals, FilterIn, FilterRange, FilterPrefix:
	default:
		return fmt.Errorf("unknown filter op %q", w.Op)
	}
	*f = Filter{
		Op:     w.Op,
		Value:  w.Value,
		Values: w.Values,
		GTE:    w.GTE,
		LTE:    w.LTE,
		GT:     w.GT,
		LT:     w.LT,
	}
	return nil
}

// normalized reduces all carried values to the canonical scalar domain.
func (f Filter) normalized() Filter {
	f.Value = normalizeValue(f.Value)
	if f.Values != nil {
		vs := make([]any, len(f.Values))
		for i, v := range f.Values {
			vs[i] = normalizeValue(v)
		}
		f.Values = vs
	}
	f.GTE = normalizeValue(f.GTE)
	f.LTE = normalizeValue(f.LTE)
	f.GT = normalizeValue(f.GT)
	f.LT = normalizeValue(f.LT)
	return f
}

func (fs Filters) normalized() Filters {
	out := make(Filters, len(fs))
	for k, f := range fs {
		out[k] = f.normalized()
	}
	return out
}

// AppliedFilter is a filter resolved against a resource: field name plus the
// storage column it maps to.
type AppliedFilter struct {
	Field  string
	Column string
	Kind   Kind
	Filter Filter
}

// mergeFilters combines the filters embedded in a cursor with extra filters
// supplied on the current request. Embedded filters always apply, so a client
// cannot change the result set mid-traversal; extra filters on the same field
// add further predicates, which can only narrow the set. The output is
// ordered by field name for deterministic query rendering, embedded filters
// first within a field.
func mergeFilters(embedded, extra Filters) []appliedPair {
	fields := make([]string, 0, len(embedded)+len(extra))
	seen := make(map[string]bool, len(embedded)+len(extra))
	for f := range embedded {
		fields = append(fields, f)
		seen[f] = true
	}
	for f := range extra {
		if !seen[f] {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)

	var out []appliedPair
	for _, field := range fields {
		if f, ok := embedded[field]; ok {
			out = append(out, appliedPair{field, f})
		}
		if f, ok := extra[field]; ok {
			out = append(out, appliedPair{field, f})
		}
	}
	return out
}

// appliedPair is a pre-resolution (field, filter) pair.
type appliedPair struct {
	field  string
	filter Filter
}

// Kind declares the value type of a sortable or filterable field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindTime
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Coerce converts a normalized scalar into the kind's comparison domain.
// KindTime accepts time.Time or RFC 3339 strings, KindFloat accepts integer
// values, KindInt accepts integral floats (the form json round-trips can
// produce).
func (k Kind) Coerce(v any) (any, error) {
	v = normalizeValue(v)
	switch k {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case float64:
			if n == float64(int64(n)) {
				return int64(n), nil
			}
		}
	case KindFloat:
		switch n := v.(type) {
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		}
	case KindTime:
		switch t := v.(type) {
		case string:
			ts, err := time.Parse(time.RFC3339Nano, t)
			if err != nil {
				return nil, fmt.Errorf("not a timestamp: %q", t)
			}
			return ts, nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("value %v is not a %s", v, k)
}

// Compare coerces both values into the kind's domain and returns -1, 0 or 1.
func (k Kind) Compare(a, b any) (int, error) {
	ca, err := k.Coerce(a)
	if err != nil {
		return 0, err
	}
	cb, err := k.Coerce(b)
	if err != nil {
		return 0, err
	}
	switch k {
	case KindString:
		return compareOrdered(ca.(string), cb.(string)), nil
	case KindInt:
		return compareOrdered(ca.(int64), cb.(int64)), nil
	case KindFloat:
		return compareOrdered(ca.(float64), cb.(float64)), nil
	case KindTime:
		return ca.(time.Time).Compare(cb.(time.Time)), nil
	case KindBool:
		ba, bb := ca.(bool), cb.(bool)
		if ba == bb {
			return 0, nil
		}
		if !ba {
			return -1, nil
		}
		return 1, nil
	}
	return 0, fmt.Errorf("kind %s is not comparable", k)
}

func compareOrdered[T interface{ ~int64 | ~float64 | ~string }](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// validate checks a filter's values against the field kind it targets.
func (f Filter) validate(field string, kind Kind) error {
	invalid := func(v any) error {
		return fmt.Errorf("%w: field %q: value %v is not a %s", ErrInvalidFilterValue, field, v, kind)
	}
	switch f.Op {
	case FilterEquals:
		if _, err := kind.Coerce(f.Value); err != nil {
			return invalid(f.Value)
		}
	case FilterIn:
		if len(f.Values) == 0 {
			return fmt.Errorf("%w: field %q: in filter needs at least one value", ErrInvalidFilterValue, field)
		}
		for _, v := range f.Values {
			if _, err := kind.Coerce(v); err != nil {
				return invalid(v)
			}
		}
	case FilterRange:
		if f.GTE == nil && f.LTE == nil && f.GT == nil && f.LT == nil {
			return fmt.Errorf("%w: field %q: range filter needs at least one bound", ErrInvalidFilterValue, field)
		}
		for _, v := range []any{f.GTE, f.LTE, f.GT, f.LT} {
			if v == nil {
				continue
			}
			if _, err := kind.Coerce(v); err != nil {
				return invalid(v)
			}
		}
	case FilterPrefix:
		if kind != KindString {
			return fmt.Errorf("%w: field %q: prefix filter requires a string field", ErrInvalidFilterValue, field)
		}
		if _, ok := normalizeValue(f.Value).(string); !ok {
			return invalid(f.Value)
		}
	default:
		return fmt.Errorf("%w: field %q: unknown filter op %q", ErrInvalidFilterValue, field, f.Op)
	}
	return nil
}
