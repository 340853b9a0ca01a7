package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/enumigo/enumigo/enum"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migration.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMigrationFile(t *testing.T) {
	path := writeFile(t, `
description: enum housekeeping
operations:
  - create_enum:
      name: user_role
      values: [admin, owner, user]
  - add_enum_values:
      name: user_role
      values: [suspended]
  - remove_enum_values:
      name: user_role
      values: [owner]
  - change_enum_values:
      name: user_role
      add: [baz]
      remove: [foo]
  - rename_enum:
      from: user_role
      to: user_kind
  - drop_enum:
      name: user_kind
      values: [admin, user]
`)

	ops, err := LoadMigrationFile(path)
	if err != nil {
		t.Fatalf("LoadMigrationFile: %v", err)
	}

	want := []enum.Operation{
		enum.Create("user_role", []string{"admin", "owner", "user"}),
		enum.AddValues("user_role", []string{"suspended"}),
		enum.RemoveValues("user_role", []string{"owner"}),
		enum.ChangeValues("user_role", []string{"baz"}, []string{"foo"}),
		enum.Rename("user_role", "user_kind"),
		enum.Drop("user_kind", []string{"admin", "user"}),
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDropWithoutValuesStaysIrreversible(t *testing.T) {
	path := writeFile(t, `
operations:
  - drop_enum:
      name: user_role
`)

	ops, err := LoadMigrationFile(path)
	if err != nil {
		t.Fatalf("LoadMigrationFile: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}
	if ops[0].Values != nil {
		t.Errorf("drop without values must keep a nil values list, got %v", ops[0].Values)
	}
}

func TestLoadRejectsEmptyEntry(t *testing.T) {
	path := writeFile(t, `
operations:
  - {}
`)

	if _, err := LoadMigrationFile(path); err == nil {
		t.Fatal("expected an error for an entry with no operation key")
	}
}

func TestLoadRejectsAmbiguousEntry(t *testing.T) {
	path := writeFile(t, `
operations:
  - create_enum:
      name: a
      values: [x]
    drop_enum:
      name: b
`)

	if _, err := LoadMigrationFile(path); err == nil {
		t.Fatal("expected an error for an entry with two operation keys")
	}
}

func TestFromOperationsRoundTrip(t *testing.T) {
	ops := []enum.Operation{
		enum.Create("user_role", []string{"admin", "user"}),
		enum.AddValues("user_role", []string{"suspended"}),
		enum.RemoveValues("user_role", []string{"admin"}),
		enum.ChangeValues("user_role", []string{"a"}, []string{"b"}),
		enum.Rename("user_role", "user_kind"),
	}

	doc, err := FromOperations("round trip", ops)
	if err != nil {
		t.Fatalf("FromOperations: %v", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var parsed Document
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	got, err := parsed.ToOperations()
	if err != nil {
		t.Fatalf("ToOperations: %v", err)
	}
	if diff := cmp.Diff(ops, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
