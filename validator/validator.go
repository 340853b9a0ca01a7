package validator

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/enumigo/enumigo/enum"
	"github.com/enumigo/enumigo/loader"
)

// ValidationError represents one finding against a migration file.
type ValidationError struct {
	Type     string `json:"type"`
	File     string `json:"file,omitempty"`
	Enum     string `json:"enum,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

func (r *ValidationResult) addError(e ValidationError) {
	e.Severity = "error"
	r.Valid = false
	r.Errors = append(r.Errors, e)
}

func (r *ValidationResult) addWarning(e ValidationError) {
	e.Severity = "warning"
	r.Warnings = append(r.Warnings, e)
}

// ValidateMigrationsDir statically checks every migration file in dir. It
// never touches the database: catalog-level conflicts (duplicate type names,
// stored labels being removed) are the engine's to report at execution time.
func ValidateMigrationsDir(dir string) (*ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing migration files: %w", err)
	}
	sort.Strings(files)

	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	for _, file := range files {
		ValidateFile(file, result)
	}

	return result, nil
}

// ValidateFile checks one migration file and appends findings to result.
func ValidateFile(path string, result *ValidationResult) {
	name := filepath.Base(path)

	ops, err := loader.LoadMigrationFile(path)
	if err != nil {
		result.addError(ValidationError{
			Type:    "parse_error",
			File:    name,
			Message: err.Error(),
		})
		return
	}

	if len(ops) == 0 {
		result.addError(ValidationError{
			Type:    "empty_migration",
			File:    name,
			Message: "migration declares no operations",
		})
		return
	}

	for _, op := range ops {
		validateOperation(name, op, result)
	}
}

func validateOperation(file string, op enum.Operation, result *ValidationResult) {
	if op.Name == "" {
		result.addError(ValidationError{
			Type:    "missing_name",
			File:    file,
			Message: fmt.Sprintf("%s operation has no enum name", op.Type),
		})
		return
	}

	switch op.Type {
	case enum.CreateEnum:
		if len(op.Values) == 0 {
			result.addWarning(ValidationError{
				Type:    "empty_values",
				File:    file,
				Enum:    op.Name,
				Message: "enum is created with no values",
			})
		}
		checkDuplicates(file, op.Name, op.Values, result)

	case enum.DropEnum:
		if op.Values == nil {
			result.addWarning(ValidationError{
				Type:    "irreversible",
				File:    file,
				Enum:    op.Name,
				Message: "drop_enum has no values list; rollback of this migration will fail",
			})
		}
		checkDuplicates(file, op.Name, op.Values, result)

	case enum.ChangeEnumValues:
		if len(op.Add) == 0 && len(op.Remove) == 0 {
			result.addWarning(ValidationError{
				Type:    "no_op",
				File:    file,
				Enum:    op.Name,
				Message: "change declares neither added nor removed values",
			})
		}
		checkDuplicates(file, op.Name, op.Add, result)
		checkDuplicates(file, op.Name, op.Remove, result)
		for _, label := range op.Add {
			if contains(op.Remove, label) {
				result.addError(ValidationError{
					Type:    "add_remove_overlap",
					File:    file,
					Enum:    op.Name,
					Message: fmt.Sprintf("value %q is both added and removed", label),
				})
			}
		}

	case enum.RenameEnum:
		if op.NewName == "" {
			result.addError(ValidationError{
				Type:    "missing_name",
				File:    file,
				Enum:    op.Name,
				Message: "rename_enum has no destination name",
			})
		} else if op.NewName == op.Name {
			result.addError(ValidationError{
				Type:    "rename_to_self",
				File:    file,
				Enum:    op.Name,
				Message: "rename_enum source and destination are identical",
			})
		}
	}

	for _, label := range append(append(append([]string{}, op.Values...), op.Add...), op.Remove...) {
		if label == "" {
			result.addError(ValidationError{
				Type:    "empty_label",
				File:    file,
				Enum:    op.Name,
				Message: "empty string is not a usable enum value",
			})
		}
	}
}

func checkDuplicates(file, enumName string, values []string, result *ValidationResult) {
	seen := map[string]bool{}
	for _, v := range values {
		if seen[v] {
			result.addError(ValidationError{
				Type:    "duplicate_value",
				File:    file,
				Enum:    enumName,
				Message: fmt.Sprintf("value %q appears more than once", v),
			})
		}
		seen[v] = true
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
