package enum

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Querier is the slice of database access the executor needs. It is
// satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx, so the same executor
// works against a bare pool (inspection commands) or inside the migration
// transaction (mutations).
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ColumnBinding is a column whose declared type is a given enum type.
type ColumnBinding struct {
	Table  string
	Column string
}

// Executor issues the primitive enum DDL actions against the catalog.
// It does no transaction management of its own: run it on a pgx.Tx and the
// whole sequence commits or rolls back as one unit.
type Executor struct {
	db Querier
}

func NewExecutor(db Querier) *Executor {
	return &Executor{db: db}
}

// Create defines a new enum type with the given labels, in the given order.
func (e *Executor) Create(ctx context.Context, name string, values []string) error {
	stmt := fmt.Sprintf(`CREATE TYPE %s AS ENUM (%s);`,
		pq.QuoteIdentifier(name),
		quoteLabels(values),
	)
	if _, err := e.db.Exec(ctx, stmt); err != nil {
		return classify(fmt.Errorf("create enum %s: %w", name, err))
	}
	return nil
}

// Drop removes the enum type. There is no implicit cascade: if any column
// still uses the type this fails with ErrDependentObjects.
func (e *Executor) Drop(ctx context.Context, name string) error {
	stmt := fmt.Sprintf(`DROP TYPE %s;`, pq.QuoteIdentifier(name))
	if _, err := e.db.Exec(ctx, stmt); err != nil {
		return classify(fmt.Errorf("drop enum %s: %w", name, err))
	}
	return nil
}

// Values returns the enum's labels in definition order.
func (e *Executor) Values(ctx context.Context, name string) ([]string, error) {
	query := `
	SELECT e.enumlabel
	FROM pg_enum e
	JOIN pg_type t ON t.oid = e.enumtypid
	WHERE t.typname = $1
	ORDER BY e.enumsortorder;
	`

	rows, err := e.db.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("querying enum labels for %s: %w", name, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scanning enum label: %w", err)
		}
		values = append(values, label)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating enum label rows: %w", rows.Err())
	}

	return values, nil
}

// ColumnsUsing returns every (table, column) pair in the public schema whose
// declared type is the named enum.
func (e *Executor) ColumnsUsing(ctx context.Context, name string) ([]ColumnBinding, error) {
	query := `
	SELECT c.table_name, c.column_name
	FROM information_schema.columns c
	WHERE c.table_schema = 'public' AND c.udt_name = $1
	ORDER BY c.table_name, c.column_name;
	`

	rows, err := e.db.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("querying columns using %s: %w", name, err)
	}
	defer rows.Close()

	var bindings []ColumnBinding
	for rows.Next() {
		var b ColumnBinding
		if err := rows.Scan(&b.Table, &b.Column); err != nil {
			return nil, fmt.Errorf("scanning column binding: %w", err)
		}
		bindings = append(bindings, b)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating column binding rows: %w", rows.Err())
	}

	return bindings, nil
}

// Change alters the enum's label set to (current ∪ add) − remove. The current
// set is read from the catalog at call time, never cached, so the inverse of
// a change can be computed against whatever state actually exists at
// rollback. Retained labels keep their relative order; added labels are
// appended in the order given. A label being removed that is still stored in
// a bound column surfaces ErrInvalidValue and aborts the whole statement
// sequence.
func (e *Executor) Change(ctx context.Context, name string, add, remove []string) error {
	current, err := e.Values(ctx, name)
	if err != nil {
		return err
	}
	return e.substitute(ctx, name, mergeLabels(current, add, remove))
}

// Rename moves the enum (and every column bound to it) to a new type name.
// It follows the same snapshot, repoint, swap pattern as substitute, with two
// real type names instead of a temporary one.
func (e *Executor) Rename(ctx context.Context, from, to string) error {
	labels, err := e.Values(ctx, from)
	if err != nil {
		return err
	}

	bindings, err := e.ColumnsUsing(ctx, from)
	if err != nil {
		return err
	}

	if err := e.Create(ctx, to, labels); err != nil {
		return err
	}
	for _, b := range bindings {
		if err := e.repoint(ctx, b, to); err != nil {
			return err
		}
	}
	return e.Drop(ctx, from)
}

// substitute is the type-substitution protocol. PostgreSQL can append enum
// labels natively but cannot remove or reorder them, so the label set is
// replaced wholesale: park every bound column on a placeholder type carrying
// the current labels, rebuild the original name with the target labels, then
// repoint the columns back. Each column conversion goes through text because
// there is no direct enum-to-enum cast; the round trip is lossless as long as
// every stored label exists in the destination type.
func (e *Executor) substitute(ctx context.Context, name string, target []string) error {
	current, err := e.Values(ctx, name)
	if err != nil {
		return err
	}

	temp := "new_" + name
	if err := e.Create(ctx, temp, current); err != nil {
		return err
	}

	bindings, err := e.ColumnsUsing(ctx, name)
	if err != nil {
		return err
	}

	for _, b := range bindings {
		if err := e.repoint(ctx, b, temp); err != nil {
			return err
		}
	}

	if err := e.Drop(ctx, name); err != nil {
		return err
	}
	if err := e.Create(ctx, name, target); err != nil {
		return err
	}

	// Label removal becomes observable here: a stored label missing from the
	// target set fails the cast with ErrInvalidValue.
	for _, b := range bindings {
		if err := e.repoint(ctx, b, name); err != nil {
			return err
		}
	}

	return e.Drop(ctx, temp)
}

func (e *Executor) repoint(ctx context.Context, b ColumnBinding, typeName string) error {
	stmt := fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::text::%s;`,
		pq.QuoteIdentifier(b.Table),
		pq.QuoteIdentifier(b.Column),
		pq.QuoteIdentifier(typeName),
		pq.QuoteIdentifier(b.Column),
		pq.QuoteIdentifier(typeName),
	)
	if _, err := e.db.Exec(ctx, stmt); err != nil {
		return classify(fmt.Errorf("altering %s.%s to type %s: %w", b.Table, b.Column, typeName, err))
	}
	return nil
}

// mergeLabels computes (current ∪ add) − remove, keeping retained labels in
// their current relative order and appending new ones at the end.
func mergeLabels(current, add, remove []string) []string {
	removed := map[string]bool{}
	for _, label := range remove {
		removed[label] = true
	}

	seen := map[string]bool{}
	var result []string
	for _, label := range current {
		if !removed[label] && !seen[label] {
			seen[label] = true
			result = append(result, label)
		}
	}
	for _, label := range add {
		if !removed[label] && !seen[label] {
			seen[label] = true
			result = append(result, label)
		}
	}
	return result
}

func quoteLabels(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = pq.QuoteLiteral(v)
	}
	return strings.Join(quoted, ", ")
}
