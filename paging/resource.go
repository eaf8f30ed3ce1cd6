package paging

import (
	"fmt"
)

// Field describes a sortable field of a resource: the storage column it maps
// to, its value kind, and a typed accessor used to extract boundary values
// when minting cursors.
type Field[T any] struct {
	Column string
	Kind   Kind
	Value  func(T) any
}

// FilterField describes a filterable field. Value is optional; it is only
// needed by stores that evaluate filters in process (memstore).
type FilterField[T any] struct {
	Column string
	Kind   Kind
	Value  func(T) any
}

// Resource is the per-resource registry built at startup: the sortable-field
// allow-list with typed column accessors, the filterable-field allow-list,
// and the id tie-breaker accessor. It is read-only after construction, so
// concurrent paginations need no locking.
type Resource[T any] struct {
	name             string
	idColumn         string
	id               func(T) int64
	defaultSort      string
	defaultDirection Direction
	sortFields       map[string]Field[T]
	filterFields     map[string]FilterField[T]
}

// NewResource creates a resource registry. id extracts the globally unique,
// strictly monotonic tie-breaker column; it is required because the primary
// sort field may contain duplicates.
func NewResource[T any](name string, id func(T) int64) *Resource[T] {
	if name == "" {
		panic("paging: resource name is required")
	}
	if id == nil {
		panic("paging: resource id accessor is required")
	}
	return &Resource[T]{
		name:             name,
		idColumn:         "id",
		id:               id,
		defaultDirection: Desc,
		sortFields:       make(map[string]Field[T]),
		filterFields:     make(map[string]FilterField[T]),
	}
}

// IDColumn overrides the storage column of the tie-breaker (default "id").
func (r *Resource[T]) IDColumn(column string) *Resource[T] {
	if column == "" {
		panic("paging: id column is required")
	}
	r.idColumn = column
	return r
}

// Sortable registers a sortable field. The first registered field becomes
// the default sort unless DefaultSort overrides it. Registration panics on
// incomplete definitions or duplicates, mirroring driver registries: a
// broken registry is a programming error, not a request error.
func (r *Resource[T]) Sortable(name string, f Field[T]) *Resource[T] {
	if name == "" || f.Column == "" || f.Value == nil {
		panic(fmt.Sprintf("paging: incomplete sortable field %q on resource %q", name, r.name))
	}
	if _, dup := r.sortFields[name]; dup {
		panic(fmt.Sprintf("paging: sortable field %q registered twice on resource %q", name, r.name))
	}
	r.sortFields[name] = f
	if r.defaultSort == "" {
		r.defaultSort = name
	}
	return r
}

// Filterable registers a filterable field.
func (r *Resource[T]) Filterable(name string, f FilterField[T]) *Resource[T] {
	if name == "" || f.Column == "" {
		panic(fmt.Sprintf("paging: incomplete filterable field %q on resource %q", name, r.name))
	}
	if _, dup := r.filterFields[name]; dup {
		panic(fmt.Sprintf("paging: filterable field %q registered twice on resource %q", name, r.name))
	}
	r.filterFields[name] = f
	return r
}

// DefaultSort sets the sort applied when a request names none. The field must
// already be registered.
func (r *Resource[T]) DefaultSort(name string, dir Direction) *Resource[T] {
	if _, ok := r.sortFields[name]; !ok {
		panic(fmt.Sprintf("paging: default sort %q is not a sortable field of resource %q", name, r.name))
	}
	if !dir.Valid() {
		panic(fmt.Sprintf("paging: invalid default direction %q on resource %q", dir, r.name))
	}
	r.defaultSort = name
	r.defaultDirection = dir
	return r
}

// Name returns the resource name.
func (r *Resource[T]) Name() string {
	return r.name
}

// SortValue extracts the named sort field's value from an item.
func (r *Resource[T]) SortValue(field string, item T) (any, error) {
	f, ok := r.sortFields[field]
	if !ok {
		return nil, invalidSortField(r.name, field)
	}
	return f.Value(item), nil
}

// FilterValue extracts the named filter field's value from an item. It fails
// for fields registered without an accessor.
func (r *Resource[T]) FilterValue(field string, item T) (any, error) {
	f, ok := r.filterFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q on resource %q", ErrInvalidFilterField, field, r.name)
	}
	if f.Value == nil {
		return nil, fmt.Errorf("filter field %q on resource %q has no accessor", field, r.name)
	}
	return f.Value(item), nil
}

// ID extracts the tie-breaker id from an item.
func (r *Resource[T]) ID(item T) int64 {
	return r.id(item)
}

// resolveFilters validates merged (field, filter) pairs against the
// filterable allow-list and resolves their storage columns.
func (r *Resource[T]) resolveFilters(pairs []appliedPair) ([]AppliedFilter, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make([]AppliedFilter, 0, len(pairs))
	for _, p := range pairs {
		f, ok := r.filterFields[p.field]
		if !ok {
			return nil, fmt.Errorf("%w: %q on resource %q", ErrInvalidFilterField, p.field, r.name)
		}
		if err := p.filter.validate(p.field, f.Kind); err != nil {
			return nil, err
		}
		out = append(out, AppliedFilter{
			Field:  p.field,
			Column: f.Column,
			Kind:   f.Kind,
			Filter: p.filter.normalized(),
		})
	}
	return out, nil
}

func invalidSortField(resource, field string) error {
	return fmt.Errorf("%w: %q on resource %q", ErrInvalidSortField, field, resource)
}
