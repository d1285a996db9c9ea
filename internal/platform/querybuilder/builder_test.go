package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectBuilder_ForUpdate(t *testing.T) {
	t.Parallel()

	query, args, err := Select("user_id", "credits").
		From("accounts").
		Where(Eq("user_id", "u1")).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT user_id, credits FROM accounts WHERE user_id = $1 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{"u1"}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_OrderAndLimit(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").
		From("analysis_history").
		Where(Eq("user_id", "u1"), Expr("created_at < ?", "2026-01-01")).
		OrderBy("created_at DESC", "id DESC").
		Limit(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM analysis_history WHERE user_id = $1 AND created_at < $2 ORDER BY created_at DESC, id DESC LIMIT 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_OnConflict(t *testing.T) {
	t.Parallel()

	type row struct {
		OrderID string `db:"order_id"`
		Credits int    `db:"credits"`
		ignored string
		Skip    string `db:"-"`
	}

	builder, err := InsertModel("web_orders", row{OrderID: "o-1", Credits: 10})
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	query, args, err := builder.OnConflictDoNothing("(order_id)").Returning("order_id").ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO web_orders (order_id, credits) VALUES ($1, $2) ON CONFLICT (order_id) DO NOTHING RETURNING order_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{"o-1", 10}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_SetExpr(t *testing.T) {
	t.Parallel()

	query, args, err := Update("accounts").
		SetExpr("credits", "credits + ?", 25).
		SetExpr("updated_at", "NOW()").
		Where(Eq("user_id", "u1")).
		Returning("credits").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE accounts SET credits = credits + $1, updated_at = NOW() WHERE user_id = $2 RETURNING credits"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{25, "u1"}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_RequiresWhere(t *testing.T) {
	t.Parallel()

	if _, _, err := Update("accounts").Set("credits", 0).ToSQL(); err == nil {
		t.Fatalf("expected error for update without where")
	}
}
