package enum

import (
	"context"
	"fmt"
	"strings"
)

type OperationType string

const (
	CreateEnum       OperationType = "CREATE_ENUM"
	DropEnum         OperationType = "DROP_ENUM"
	ChangeEnumValues OperationType = "CHANGE_ENUM_VALUES"
	RenameEnum       OperationType = "RENAME_ENUM"
)

// Mutator is the action surface an Operation drives. *Executor implements it.
type Mutator interface {
	Create(ctx context.Context, name string, values []string) error
	Drop(ctx context.Context, name string) error
	Change(ctx context.Context, name string, add, remove []string) error
	Rename(ctx context.Context, from, to string) error
}

// Operation is a declared enum change together with everything needed to
// derive its inverse. Operations are plain values: nothing is cached between
// Apply and Revert, each computes against the catalog state at its own
// execution time.
type Operation struct {
	Type    OperationType
	Name    string
	Values  []string // for CREATE_ENUM; for DROP_ENUM the recorded labels, nil if not recorded
	Add     []string // for CHANGE_ENUM_VALUES
	Remove  []string // for CHANGE_ENUM_VALUES
	NewName string   // for RENAME_ENUM
}

func Create(name string, values []string) Operation {
	return Operation{Type: CreateEnum, Name: name, Values: values}
}

// Drop declares a type drop. values is what the inverse recreates the type
// with; pass nil to declare the drop irreversible.
func Drop(name string, values []string) Operation {
	return Operation{Type: DropEnum, Name: name, Values: values}
}

func ChangeValues(name string, add, remove []string) Operation {
	return Operation{Type: ChangeEnumValues, Name: name, Add: add, Remove: remove}
}

// AddValues is ChangeValues with an empty remove set.
func AddValues(name string, values []string) Operation {
	return ChangeValues(name, values, nil)
}

// RemoveValues is ChangeValues with an empty add set.
func RemoveValues(name string, values []string) Operation {
	return ChangeValues(name, nil, values)
}

func Rename(from, to string) Operation {
	return Operation{Type: RenameEnum, Name: from, NewName: to}
}

// Apply runs the operation's forward action.
func (op Operation) Apply(ctx context.Context, m Mutator) error {
	switch op.Type {
	case CreateEnum:
		return m.Create(ctx, op.Name, op.Values)
	case DropEnum:
		return m.Drop(ctx, op.Name)
	case ChangeEnumValues:
		return m.Change(ctx, op.Name, op.Add, op.Remove)
	case RenameEnum:
		return m.Rename(ctx, op.Name, op.NewName)
	default:
		return fmt.Errorf("unsupported operation: %s", op.Type)
	}
}

// Revert runs the operation's inverse action. The inverse of a value change
// swaps the add and remove sets and re-reads the current labels from the
// catalog, so removed labels come back appended at the end of the set rather
// than at their original position.
func (op Operation) Revert(ctx context.Context, m Mutator) error {
	switch op.Type {
	case CreateEnum:
		return m.Drop(ctx, op.Name)
	case DropEnum:
		if op.Values == nil {
			return fmt.Errorf("%w: drop of %q was declared without its values", ErrIrreversible, op.Name)
		}
		return m.Create(ctx, op.Name, op.Values)
	case ChangeEnumValues:
		return m.Change(ctx, op.Name, op.Remove, op.Add)
	case RenameEnum:
		return m.Rename(ctx, op.NewName, op.Name)
	default:
		return fmt.Errorf("unsupported operation: %s", op.Type)
	}
}

// String renders a short one-line summary, used by dry-run previews and the
// migration activity log.
func (op Operation) String() string {
	switch op.Type {
	case CreateEnum:
		return fmt.Sprintf("%s %s (%s)", op.Type, op.Name, strings.Join(op.Values, ", "))
	case DropEnum:
		if op.Values == nil {
			return fmt.Sprintf("%s %s (irreversible)", op.Type, op.Name)
		}
		return fmt.Sprintf("%s %s (%s)", op.Type, op.Name, strings.Join(op.Values, ", "))
	case ChangeEnumValues:
		return fmt.Sprintf("%s %s add=[%s] remove=[%s]", op.Type, op.Name,
			strings.Join(op.Add, ", "), strings.Join(op.Remove, ", "))
	case RenameEnum:
		return fmt.Sprintf("%s %s -> %s", op.Type, op.Name, op.NewName)
	default:
		return string(op.Type)
	}
}

// Inverse returns the operation that Revert would execute, for previews. The
// actual rollback still re-reads catalog state through Revert.
func (op Operation) Inverse() (Operation, error) {
	switch op.Type {
	case CreateEnum:
		return Drop(op.Name, op.Values), nil
	case DropEnum:
		if op.Values == nil {
			return Operation{}, fmt.Errorf("%w: drop of %q was declared without its values", ErrIrreversible, op.Name)
		}
		return Create(op.Name, op.Values), nil
	case ChangeEnumValues:
		return ChangeValues(op.Name, op.Remove, op.Add), nil
	case RenameEnum:
		return Rename(op.NewName, op.Name), nil
	default:
		return Operation{}, fmt.Errorf("unsupported operation: %s", op.Type)
	}
}
