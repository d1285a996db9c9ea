package querybuilder

// Condition is one AND-joined predicate of a WHERE clause.
type Condition interface {
	writeTo(w *writer)
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func (c compareCondition) writeTo(w *writer) {
	w.str(c.column)
	w.str(" ")
	w.str(c.op)
	w.str(" ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition {
	return compareCondition{column: column, op: "=", value: value}
}

func Gte(column string, value any) Condition {
	return compareCondition{column: column, op: ">=", value: value}
}

func Lt(column string, value any) Condition {
	return compareCondition{column: column, op: "<", value: value}
}

type exprCondition struct {
	expr string
	args []any
}

// Expr is a raw predicate with '?' argument markers.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) writeTo(w *writer) {
	w.expr(c.expr, c.args)
}
