package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/enumigo/enumigo/introspect"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List enum types defined in the database",
	Long: `List every enum type in the public schema with its values in
definition order.

Examples:
  enumigo types
`,
	Run: func(cmd *cobra.Command, args []string) {
		enums, err := introspect.IntrospectEnums()
		if err != nil {
			fmt.Printf("❌ Error listing enum types: %v\n", err)
			os.Exit(1)
		}

		if len(enums) == 0 {
			fmt.Println("📋 No enum types found")
			return
		}

		bold := color.New(color.Bold)
		cyan := color.New(color.FgCyan)

		fmt.Println("📋 Enum Types")
		fmt.Println(strings.Repeat("=", 60))
		for _, e := range enums {
			bold.Printf("\n%s\n", e.Name)
			cyan.Printf("   %s\n", strings.Join(e.Values, ", "))
		}
		fmt.Println()
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("📊 %d enum type(s)\n", len(enums))
	},
}
