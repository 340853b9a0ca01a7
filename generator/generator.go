package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/enumigo/enumigo/enum"
	"github.com/enumigo/enumigo/loader"
	"gopkg.in/yaml.v3"
)

// MigrationsDir is where migration files live, relative to the working
// directory.
const MigrationsDir = "migrations"

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// WriteMigrationFile saves the operations into a timestamped .yaml migration
// file and returns its path.
func WriteMigrationFile(description string, ops []enum.Operation) (string, error) {
	if len(ops) == 0 {
		return "", fmt.Errorf("no operations to write")
	}

	if _, err := os.Stat(MigrationsDir); os.IsNotExist(err) {
		if err := os.Mkdir(MigrationsDir, 0755); err != nil {
			return "", fmt.Errorf("creating migrations folder: %w", err)
		}
	}

	doc, err := loader.FromOperations(description, ops)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshalling migration: %w", err)
	}

	timestamp := time.Now().Format("20060102150405")
	filename := filepath.Join(MigrationsDir, fmt.Sprintf("%s_%s.yaml", timestamp, Slug(description)))

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("writing migration file: %w", err)
	}

	return filename, nil
}

// Slug turns a free-form description into a filename fragment.
func Slug(description string) string {
	slug := strings.ToLower(strings.TrimSpace(description))
	slug = slugPattern.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "migration"
	}
	return slug
}
