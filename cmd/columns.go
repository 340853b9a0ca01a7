package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/enumigo/enumigo/database"
	"github.com/enumigo/enumigo/enum"
	"github.com/spf13/cobra"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <enum>",
	Short: "List columns bound to an enum type",
	Long: `List every (table, column) pair whose declared type is the given enum,
together with the enum's current values.

Examples:
  enumigo columns user_role
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		ctx := context.Background()

		pool, err := database.GetPool()
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		ex := enum.NewExecutor(pool)

		values, err := ex.Values(ctx, name)
		if err != nil {
			fmt.Printf("❌ Error reading enum values: %v\n", err)
			os.Exit(1)
		}
		if len(values) == 0 {
			fmt.Printf("❌ No enum type named %q found\n", name)
			os.Exit(1)
		}

		bindings, err := ex.ColumnsUsing(ctx, name)
		if err != nil {
			fmt.Printf("❌ Error listing columns: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("📋 %s: %s\n", name, strings.Join(values, ", "))

		if len(bindings) == 0 {
			fmt.Println("\n🕒 No columns use this type.")
			return
		}

		fmt.Println("\n✅ Columns using this type:")
		for _, b := range bindings {
			fmt.Printf("   - %s.%s\n", b.Table, b.Column)
		}
	},
}
