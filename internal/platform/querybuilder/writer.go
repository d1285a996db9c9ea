package querybuilder

import (
	"strconv"
	"strings"
)

// writer accumulates SQL text and positional arguments ($1, $2, ...).
type writer struct {
	buf  strings.Builder
	args []any
}

func (w *writer) str(s string) {
	w.buf.WriteString(s)
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

// expr writes expr replacing each '?' with the next bound argument. Extra
// '?' characters without an argument are written literally.
func (w *writer) expr(expr string, exprArgs []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			w.bind(exprArgs[next])
			next++
			continue
		}
		w.buf.WriteByte(expr[i])
	}
}

func (w *writer) list(items []string) {
	w.str(strings.Join(items, ", "))
}

func (w *writer) where(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.str(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.str(" AND ")
		}
		c.writeTo(w)
	}
}

func (w *writer) returning(columns []string) {
	if len(columns) == 0 {
		return
	}
	w.str(" RETURNING ")
	w.list(columns)
}

func (w *writer) result() (string, []any, error) {
	return w.buf.String(), w.args, nil
}
