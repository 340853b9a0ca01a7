package validator

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigration(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func findingTypes(findings []ValidationError) []string {
	var types []string
	for _, f := range findings {
		types = append(types, f.Type)
	}
	return types
}

func TestValidateCleanMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_create.yaml", `
operations:
  - create_enum:
      name: user_role
      values: [admin, owner, user]
`)
	writeMigration(t, dir, "002_rename.yaml", `
operations:
  - rename_enum:
      from: user_role
      to: user_kind
`)

	result, err := ValidateMigrationsDir(dir)
	if err != nil {
		t.Fatalf("ValidateMigrationsDir: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid result, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got: %v", result.Warnings)
	}
}

func TestValidateFlagsIrreversibleDrop(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_drop.yaml", `
operations:
  - drop_enum:
      name: user_role
`)

	result, err := ValidateMigrationsDir(dir)
	if err != nil {
		t.Fatalf("ValidateMigrationsDir: %v", err)
	}
	if !result.Valid {
		t.Errorf("irreversible drop is a warning, not an error: %v", result.Errors)
	}
	if got := findingTypes(result.Warnings); len(got) != 1 || got[0] != "irreversible" {
		t.Errorf("expected an irreversible warning, got %v", got)
	}
}

func TestValidateRejectsBrokenMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_bad.yaml", `
operations:
  - create_enum:
      name: user_role
      values: [admin, admin]
  - change_enum_values:
      name: user_role
      add: [x]
      remove: [x]
  - rename_enum:
      from: user_role
      to: user_role
  - create_enum:
      name: ""
      values: [a]
`)

	result, err := ValidateMigrationsDir(dir)
	if err != nil {
		t.Fatalf("ValidateMigrationsDir: %v", err)
	}
	if result.Valid {
		t.Fatal("expected validation errors")
	}

	want := map[string]bool{
		"duplicate_value":    false,
		"add_remove_overlap": false,
		"rename_to_self":     false,
		"missing_name":       false,
	}
	for _, f := range result.Errors {
		if _, ok := want[f.Type]; ok {
			want[f.Type] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Errorf("expected a %s error, findings: %v", typ, findingTypes(result.Errors))
		}
	}
}

func TestValidateEmptyMigration(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_empty.yaml", "description: nothing\n")

	result, err := ValidateMigrationsDir(dir)
	if err != nil {
		t.Fatalf("ValidateMigrationsDir: %v", err)
	}
	if result.Valid {
		t.Fatal("expected an empty_migration error")
	}
	if got := findingTypes(result.Errors); got[0] != "empty_migration" {
		t.Errorf("expected empty_migration, got %v", got)
	}
}

func TestValidateUnparsableFile(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_parse.yaml", "operations: [{]")

	result, err := ValidateMigrationsDir(dir)
	if err != nil {
		t.Fatalf("ValidateMigrationsDir: %v", err)
	}
	if result.Valid {
		t.Fatal("expected a parse_error")
	}
	if got := findingTypes(result.Errors); got[0] != "parse_error" {
		t.Errorf("expected parse_error, got %v", got)
	}
}
