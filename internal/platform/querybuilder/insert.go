package querybuilder

import (
	"fmt"
	"strings"
)

type InsertBuilder struct {
	table      string
	columns    []string
	values     []any
	onConflict string
	returning  []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = append([]any(nil), values...)
	return b
}

// OnConflictDoNothing skips the insert when target (e.g. "(order_id)") collides.
func (b *InsertBuilder) OnConflictDoNothing(target string) *InsertBuilder {
	b.onConflict = strings.TrimSpace(target)
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.values) != len(b.columns) {
		return "", nil, fmt.Errorf("insert has %d values, expected %d", len(b.values), len(b.columns))
	}

	w := &writer{}
	w.str("INSERT INTO ")
	w.str(b.table)
	w.str(" (")
	w.list(b.columns)
	w.str(") VALUES (")
	for i, value := range b.values {
		if i > 0 {
			w.str(", ")
		}
		w.bind(value)
	}
	w.str(")")
	if b.onConflict != "" {
		w.str(" ON CONFLICT ")
		w.str(b.onConflict)
		w.str(" DO NOTHING")
	}
	w.returning(b.returning)

	return w.result()
}
