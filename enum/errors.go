package enum

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateType: creating or renaming to a type name already in the
	// catalog.
	ErrDuplicateType = errors.New("enum type already exists")

	// ErrDependentObjects: dropping a type while a column is still bound to
	// it. The operator has to repoint or drop the dependent column first.
	ErrDependentObjects = errors.New("enum type still has dependent objects")

	// ErrInvalidValue: a bound column holds a label that is absent from the
	// target label set. No silent data coercion; the migration aborts.
	ErrInvalidValue = errors.New("stored value not present in enum")

	// ErrIrreversible: rollback of an operation whose inverse cannot be
	// derived, e.g. drop_enum declared without its values list.
	ErrIrreversible = errors.New("irreversible operation")
)

// SQLSTATE codes, see the PostgreSQL errcodes appendix.
const (
	codeDuplicateObject           = "42710"
	codeDependentObjectsExist     = "2BP01"
	codeInvalidTextRepresentation = "22P02"
)

// classify maps engine failures onto the package sentinels so callers can use
// errors.Is. Anything unrecognized propagates unmodified.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeDuplicateObject:
		return fmt.Errorf("%w: %v", ErrDuplicateType, err)
	case codeDependentObjectsExist:
		return fmt.Errorf("%w: %v", ErrDependentObjects, err)
	case codeInvalidTextRepresentation:
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return err
}
