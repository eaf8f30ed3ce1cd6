package sqlstore

import (
	"fmt"
	"strings"

	"github.com/tenantify/tcore/paging"
)

// builder accumulates SQL text and bound arguments, rewriting ? placeholders
// to the dialect's native style.
type builder struct {
	dialect Dialect
	buf     strings.Builder
	args    []any
	conds   int
	inWhere bool
}

func newBuilder(d Dialect) *builder {
	return &builder{dialect: d}
}

func (b *builder) writef(format string, a ...any) {
	fmt.Fprintf(&b.buf, format, a...)
}

// startWhere arms WHERE emission; the keyword is only written once the first
// condition arrives.
func (b *builder) startWhere() {
	b.inWhere = true
	b.conds = 0
}

func (b *builder) nextCond() {
	if b.conds == 0 {
		b.buf.WriteString(" WHERE ")
	} else {
		b.buf.WriteString(" AND ")
	}
	b.conds++
}

// placeholder appends an argument and writes its dialect placeholder.
func (b *builder) placeholder(arg any) {
	b.args = append(b.args, arg)
	if b.dialect == Postgres {
		fmt.Fprintf(&b.buf, "$%d", len(b.args))
	} else {
		b.buf.WriteByte('?')
	}
}

// condRaw appends a caller-supplied condition written with ? placeholders.
func (b *builder) condRaw(condition string, args ...any) {
	b.nextCond()
	b.buf.WriteByte('(')
	idx := 0
	for _, r := range condition {
		if r == '?' && idx < len(args) {
			b.placeholder(args[idx])
			idx++
			continue
		}
		b.buf.WriteRune(r)
	}
	b.buf.WriteByte(')')
}

// condSeek appends (col op v OR (col = v AND id op lastID)).
func (b *builder) condSeek(seek *paging.Seek, idColumn string) {
	b.nextCond()
	op := string(seek.Op)
	b.writef("(%s %s ", seek.Column, op)
	b.placeholder(seek.Value)
	b.writef(" OR (%s = ", seek.Column)
	b.placeholder(seek.Value)
	b.writef(" AND %s %s ", idColumn, op)
	b.placeholder(seek.ID)
	b.buf.WriteString("))")
}

// condFilter appends one resolved filter predicate.
func (b *builder) condFilter(f paging.AppliedFilter) {
	b.nextCond()
	col := f.Column
	switch f.Filter.Op {
	case paging.FilterEquals:
		b.writef("%s = ", col)
		b.placeholder(f.Filter.Value)
	case paging.FilterIn:
		b.writef("%s IN (", col)
		for i, v := range f.Filter.Values {
			if i > 0 {
				b.buf.WriteString(", ")
			}
			b.placeholder(v)
		}
		b.buf.WriteByte(')')
	case paging.FilterPrefix:
		pattern, _ := f.Filter.Value.(string)
		b.writef("%s LIKE ", col)
		b.placeholder(escapeLike(pattern) + "%")
		b.buf.WriteString(` ESCAPE '\'`)
	case paging.FilterRange:
		b.buf.WriteByte('(')
		bounds := 0
		writeBound := func(op string, v any) {
			if v == nil {
				return
			}
			if bounds > 0 {
				b.buf.WriteString(" AND ")
			}
			b.writef("%s %s ", col, op)
			b.placeholder(v)
			bounds++
		}
		writeBound(">=", f.Filter.GTE)
		writeBound("<=", f.Filter.LTE)
		writeBound(">", f.Filter.GT)
		writeBound("<", f.Filter.LT)
		b.buf.WriteByte(')')
	}
}

func (b *builder) sql() string {
	return b.buf.String()
}

// escapeLike escapes LIKE metacharacters so prefix patterns match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
