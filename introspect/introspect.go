package introspect

import (
	"context"
	"fmt"

	"github.com/enumigo/enumigo/database"
	"github.com/jackc/pgx/v5"
)

// ExistingEnum is one enum type currently defined in the public schema.
type ExistingEnum struct {
	Name   string
	Values []string
}

// IntrospectEnums lists every enum type in the public schema with its labels
// in definition order.
func IntrospectEnums() ([]ExistingEnum, error) {
	ctx := context.Background()
	pool, err := database.GetPool()
	if err != nil {
		return nil, fmt.Errorf("unable to get connection pool: %w", err)
	}

	enumsQuery := `
	SELECT t.typname,
	       array_agg(e.enumlabel ORDER BY e.enumsortorder) AS labels
	FROM pg_type t
	JOIN pg_enum e ON e.enumtypid = t.oid
	JOIN pg_namespace n ON n.oid = t.typnamespace
	WHERE n.nspname = 'public'
	GROUP BY t.typname
	ORDER BY t.typname;
	`

	rows, err := pool.Query(ctx, enumsQuery)
	if err != nil {
		return nil, fmt.Errorf("querying enum types: %w", err)
	}
	defer rows.Close()

	var enums []ExistingEnum
	for rows.Next() {
		var e ExistingEnum
		if err := rows.Scan(&e.Name, &e.Values); err != nil {
			return nil, fmt.Errorf("scanning enum type: %w", err)
		}
		enums = append(enums, e)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating enum type rows: %w", rows.Err())
	}

	return enums, nil
}

// Connect returns a database connection for use by other packages.
func Connect() (*pgx.Conn, error) {
	ctx := context.Background()
	return database.GetConnection(ctx)
}
