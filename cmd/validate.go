package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/enumigo/enumigo/generator"
	"github.com/enumigo/enumigo/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Statically check migration files",
	Long: `Statically check every migration file for problems before applying:
unparsable YAML, empty or duplicate values, overlapping add/remove sets,
irreversible drops.

Catalog-level conflicts (duplicate type names, removed values still stored in
rows) are only detectable at execution time and are reported by migrate.

Examples:
  enumigo validate
`,
	Run: func(cmd *cobra.Command, args []string) {
		result, err := validator.ValidateMigrationsDir(generator.MigrationsDir)
		if err != nil {
			fmt.Println("❌ Validation error:", err)
			os.Exit(1)
		}

		red := color.New(color.FgRed, color.Bold)
		yellow := color.New(color.FgYellow, color.Bold)

		for _, e := range result.Errors {
			red.Printf("❌ [%s] ", e.Type)
			fmt.Printf("%s: %s\n", e.File, e.Message)
		}
		for _, w := range result.Warnings {
			yellow.Printf("⚠️  [%s] ", w.Type)
			fmt.Printf("%s: %s\n", w.File, w.Message)
		}

		if !result.Valid {
			fmt.Printf("\n❌ Validation failed: %d error(s), %d warning(s)\n", len(result.Errors), len(result.Warnings))
			os.Exit(1)
		}

		if len(result.Warnings) > 0 {
			fmt.Printf("\n✅ Migrations valid with %d warning(s)\n", len(result.Warnings))
			return
		}
		fmt.Println("✅ All migration files are valid.")
	},
}
