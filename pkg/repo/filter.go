package repo

import (
	"fmt"
	"strings"
	"time"
)

// Filter collects AND-ed predicate clauses with positional ($n) arguments.
//
// Every optional builder treats a missing value and an empty (or whitespace-only) value the same
// way: no clause is emitted. The scope clause, when present, is always the first clause, so the
// placeholder numbering of a Filter is fully determined by which optional fields carry a value.
// The same Filter must be used for the COUNT and the paged SELECT of one listing.
type Filter struct {
	clauses []string
	args    []any
}

// Scoped starts a filter with a mandatory equality clause on the scope column.
func Scoped(column string, value any) *Filter {
	f := &Filter{}
	f.add(column+" = %s", value)
	return f
}

// Unscoped starts a filter for resources that have no scope column.
func Unscoped() *Filter {
	return &Filter{}
}

func (f *Filter) placeholder() string {
	return fmt.Sprintf("$%d", len(f.args)+1)
}

func (f *Filter) add(format string, values ...any) {
	placeholders := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = f.placeholder()
		f.args = append(f.args, v)
	}
	f.clauses = append(f.clauses, fmt.Sprintf(format, placeholders...))
}

// Eq adds "column = value" when value is not blank.
func (f *Filter) Eq(column, value string) *Filter {
	if v := strings.TrimSpace(value); v != "" {
		f.add(column+" = %s", v)
	}
	return f
}

// EqInt adds "column = value" when value is set.
func (f *Filter) EqInt(column string, value *int64) *Filter {
	if value != nil {
		f.add(column+" = %s", *value)
	}
	return f
}

// In adds "column = ANY(values)" when at least one non-blank value is given.
func (f *Filter) In(column string, values []string) *Filter {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) > 0 {
		f.add(column+" = ANY(%s)", kept)
	}
	return f
}

// ILike adds a case-insensitive "contains" match when value is not blank.
func (f *Filter) ILike(column, value string) *Filter {
	if v := strings.TrimSpace(value); v != "" {
		f.add(column+" ILIKE %s", "%"+v+"%")
	}
	return f
}

// Range adds an inclusive bound on column. Both bounds produce a single BETWEEN.
func (f *Filter) Range(column string, from, to *time.Time) *Filter {
	hasFrom := from != nil && !from.IsZero()
	hasTo := to != nil && !to.IsZero()
	switch {
	case hasFrom && hasTo:
		f.add(column+" BETWEEN %s AND %s", *from, *to)
	case hasFrom:
		f.add(column+" >= %s", *from)
	case hasTo:
		f.add(column+" <= %s", *to)
	}
	return f
}

func (f *Filter) Clauses() []string {
	return append([]string(nil), f.clauses...)
}

func (f *Filter) Args() []any {
	return append([]any(nil), f.args...)
}

// Where renders " WHERE a AND b", or an empty string when there are no clauses.
func (f *Filter) Where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}
