package querybuilder

import (
	"fmt"
	"strings"
)

type assignment struct {
	column string
	expr   string
	args   []any
}

type UpdateBuilder struct {
	table     string
	sets      []assignment
	where     []Condition
	returning []string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	return b.SetExpr(column, "?", value)
}

// SetExpr assigns a raw expression with '?' argument markers, e.g.
// SetExpr("credits", "credits + ?", 10).
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, expr: expr, args: args})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("update without where is not allowed")
	}

	w := &writer{}
	w.str("UPDATE ")
	w.str(b.table)
	w.str(" SET ")
	for i, set := range b.sets {
		if i > 0 {
			w.str(", ")
		}
		w.str(set.column)
		w.str(" = ")
		w.expr(set.expr, set.args)
	}
	w.where(b.where)
	w.returning(b.returning)

	return w.result()
}
