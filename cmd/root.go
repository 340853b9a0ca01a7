package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "enumigo",
	Short: "Reversible PostgreSQL enum migrations",
	Long: `enumigo manages PostgreSQL enum types as versioned, reversible migrations.

Declare enum operations in YAML migration files and enumigo computes the
inverse of each one, so rollbacks never need hand-written down SQL.

Examples:

  enumigo init
  enumigo new create user_role --values admin,owner,user
  enumigo migrate
  enumigo rollback
`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(validateCmd)
}
