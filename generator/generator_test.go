package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/enumigo/enumigo/enum"
	"github.com/enumigo/enumigo/loader"
	"github.com/google/go-cmp/cmp"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Chdir: %v", err)
		}
	})
}

func TestWriteMigrationFile(t *testing.T) {
	chdir(t, t.TempDir())

	ops := []enum.Operation{
		enum.Create("user_role", []string{"admin", "owner", "user"}),
		enum.AddValues("user_role", []string{"suspended"}),
	}

	path, err := WriteMigrationFile("add user role", ops)
	if err != nil {
		t.Fatalf("WriteMigrationFile: %v", err)
	}

	if dir := filepath.Dir(path); dir != MigrationsDir {
		t.Errorf("migration written to %s, want %s", dir, MigrationsDir)
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, "_add_user_role.yaml") {
		t.Errorf("unexpected filename %s", base)
	}

	got, err := loader.LoadMigrationFile(path)
	if err != nil {
		t.Fatalf("LoadMigrationFile: %v", err)
	}
	if diff := cmp.Diff(ops, got); diff != "" {
		t.Errorf("written operations mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMigrationFileRejectsEmpty(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := WriteMigrationFile("noop", nil); err == nil {
		t.Fatal("expected an error for an empty operation list")
	}
	if _, err := os.Stat(MigrationsDir); !os.IsNotExist(err) {
		t.Error("migrations folder should not be created for an empty write")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"add suspended to user_role", "add_suspended_to_user_role"},
		{"  Rename User Role!  ", "rename_user_role"},
		{"", "migration"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
