package loader

import (
	"fmt"
	"os"

	"github.com/enumigo/enumigo/enum"
	"gopkg.in/yaml.v3"
)

// Document is the YAML shape of one migration file: a description plus an
// ordered list of enum operations.
//
//	description: add suspended to user_role
//	operations:
//	  - change_enum_values:
//	      name: user_role
//	      add: [suspended]
type Document struct {
	Description string  `yaml:"description,omitempty"`
	Operations  []Entry `yaml:"operations"`
}

// Entry is one operation in a migration file. Exactly one key must be set.
type Entry struct {
	CreateEnum   *CreateEnum   `yaml:"create_enum,omitempty"`
	DropEnum     *DropEnum     `yaml:"drop_enum,omitempty"`
	AddValues    *ValueChange  `yaml:"add_enum_values,omitempty"`
	RemoveValues *ValueChange  `yaml:"remove_enum_values,omitempty"`
	ChangeValues *ChangeValues `yaml:"change_enum_values,omitempty"`
	RenameEnum   *RenameEnum   `yaml:"rename_enum,omitempty"`
}

type CreateEnum struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

// DropEnum drops a type. Values is optional: when present it is what a
// rollback recreates the type with; when absent the drop is irreversible.
type DropEnum struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values,omitempty"`
}

type ValueChange struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

type ChangeValues struct {
	Name   string   `yaml:"name"`
	Add    []string `yaml:"add,omitempty"`
	Remove []string `yaml:"remove,omitempty"`
}

type RenameEnum struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoadMigrationFile reads one migration YAML file into operations.
func LoadMigrationFile(path string) ([]enum.Operation, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.ToOperations()
}

// LoadDocument reads one migration YAML file into its document form.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading migration file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("unmarshalling YAML: %w", err)
	}
	return doc, nil
}

// ToOperations converts the document into executable operations, in file
// order.
func (d Document) ToOperations() ([]enum.Operation, error) {
	var ops []enum.Operation
	for i, entry := range d.Operations {
		op, err := entry.operation()
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (e Entry) operation() (enum.Operation, error) {
	set := 0
	var op enum.Operation

	if e.CreateEnum != nil {
		set++
		op = enum.Create(e.CreateEnum.Name, e.CreateEnum.Values)
	}
	if e.DropEnum != nil {
		set++
		op = enum.Drop(e.DropEnum.Name, e.DropEnum.Values)
	}
	if e.AddValues != nil {
		set++
		op = enum.AddValues(e.AddValues.Name, e.AddValues.Values)
	}
	if e.RemoveValues != nil {
		set++
		op = enum.RemoveValues(e.RemoveValues.Name, e.RemoveValues.Values)
	}
	if e.ChangeValues != nil {
		set++
		op = enum.ChangeValues(e.ChangeValues.Name, e.ChangeValues.Add, e.ChangeValues.Remove)
	}
	if e.RenameEnum != nil {
		set++
		op = enum.Rename(e.RenameEnum.From, e.RenameEnum.To)
	}

	switch set {
	case 0:
		return enum.Operation{}, fmt.Errorf("no operation key set")
	case 1:
		return op, nil
	default:
		return enum.Operation{}, fmt.Errorf("more than one operation key set")
	}
}

// FromOperations builds a document for writing, picking the most specific
// YAML key for each operation.
func FromOperations(description string, ops []enum.Operation) (Document, error) {
	doc := Document{Description: description}
	for _, op := range ops {
		entry, err := entryFor(op)
		if err != nil {
			return Document{}, err
		}
		doc.Operations = append(doc.Operations, entry)
	}
	return doc, nil
}

func entryFor(op enum.Operation) (Entry, error) {
	switch op.Type {
	case enum.CreateEnum:
		return Entry{CreateEnum: &CreateEnum{Name: op.Name, Values: op.Values}}, nil
	case enum.DropEnum:
		return Entry{DropEnum: &DropEnum{Name: op.Name, Values: op.Values}}, nil
	case enum.ChangeEnumValues:
		if len(op.Remove) == 0 {
			return Entry{AddValues: &ValueChange{Name: op.Name, Values: op.Add}}, nil
		}
		if len(op.Add) == 0 {
			return Entry{RemoveValues: &ValueChange{Name: op.Name, Values: op.Remove}}, nil
		}
		return Entry{ChangeValues: &ChangeValues{Name: op.Name, Add: op.Add, Remove: op.Remove}}, nil
	case enum.RenameEnum:
		return Entry{RenameEnum: &RenameEnum{From: op.Name, To: op.NewName}}, nil
	default:
		return Entry{}, fmt.Errorf("unsupported operation: %s", op.Type)
	}
}
