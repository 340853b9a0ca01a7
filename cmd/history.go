package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/enumigo/enumigo/introspect"
	"github.com/enumigo/enumigo/runner"
)

var (
	historyLimit    int
	historyType     string
	historyDetailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show detailed migration history",
	Long: `Show detailed migration history with timestamps, execution times, and user information.

Examples:
  enumigo history                    # Show all migration history
  enumigo history --limit 10         # Show last 10 migrations
  enumigo history --type user_role   # Show migrations touching a specific enum
  enumigo history --detailed         # Show detailed information
`,
	Run: func(cmd *cobra.Command, args []string) {
		db, err := introspect.Connect()
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close(context.Background())

		history, err := runner.GetMigrationHistory(db, historyLimit, historyType)
		if err != nil {
			fmt.Printf("❌ Error getting migration history: %v\n", err)
			os.Exit(1)
		}

		if len(history) == 0 {
			fmt.Println("📋 No migration history found")
			return
		}

		showMigrationHistory(history)
	},
}

func showMigrationHistory(records []runner.MigrationRecord) {
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan)

	fmt.Println("📋 Migration History")
	fmt.Println(strings.Repeat("=", 60))

	for i, record := range records {
		fmt.Printf("\n%d. ", i+1)

		switch record.Status {
		case "success":
			green.Print("✅ ")
		case "failed":
			red.Print("❌ ")
		default:
			fmt.Print("📝 ")
		}

		fmt.Printf("%s", record.MigrationName)
		cyan.Printf("  [%s]", record.ExecutedAt.Format("2006-01-02 15:04:05"))
		fmt.Println()

		if record.TypesAffected != "" {
			cyan.Printf("   🏷️  Enums: %s\n", record.TypesAffected)
		}

		if historyDetailed {
			cyan.Printf("   ⏱️  Execution time: %v\n", record.ExecutionTime)
			cyan.Printf("   👤 Executed by: %s\n", record.ExecutedBy)
			if record.Checksum != "" {
				cyan.Printf("   🔑 Checksum: %s\n", record.Checksum[:12])
			}
		}

		if record.ErrorMessage != "" {
			red.Printf("   💥 Error: %s\n", record.ErrorMessage)
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("📊 Showing %d migration(s)\n", len(records))
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 0, "Limit number of migrations to show")
	historyCmd.Flags().StringVarP(&historyType, "type", "t", "", "Filter by affected enum type")
	historyCmd.Flags().BoolVarP(&historyDetailed, "detailed", "D", false, "Show detailed information")
}
