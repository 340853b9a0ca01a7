package cmd

import (
	"fmt"
	"os"

	"github.com/enumigo/enumigo/enum"
	"github.com/enumigo/enumigo/generator"
	"github.com/spf13/cobra"
)

var (
	newValues      []string
	newAdd         []string
	newRemove      []string
	newDescription string
)

var newCmd = &cobra.Command{
	Use:   "new <create|drop|add|remove|change|rename> <enum> [new-name]",
	Short: "Create a new enum migration file",
	Long: `Create a timestamped migration file for one enum operation.

Examples:
  enumigo new create user_role --values admin,owner,user
  enumigo new drop user_role --values admin,owner,user
  enumigo new add user_role --values suspended
  enumigo new remove user_role --values suspended
  enumigo new change user_role --add baz,qux --remove foo,bar
  enumigo new rename user_role user_kind
`,
	Args: cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		op, description, err := buildOperation(args)
		if err != nil {
			fmt.Println("❌", err)
			os.Exit(1)
		}
		if newDescription != "" {
			description = newDescription
		}

		filename, err := generator.WriteMigrationFile(description, []enum.Operation{op})
		if err != nil {
			fmt.Println("❌ Error writing migration file:", err)
			os.Exit(1)
		}

		fmt.Println("✅ Created migration:", filename)
		fmt.Println("🚀 Run 'enumigo migrate' to apply it")
	},
}

func buildOperation(args []string) (enum.Operation, string, error) {
	verb, name := args[0], args[1]

	switch verb {
	case "create":
		if len(newValues) == 0 {
			return enum.Operation{}, "", fmt.Errorf("create requires --values")
		}
		return enum.Create(name, newValues), "create " + name, nil

	case "drop":
		// --values is optional but recommended: without it the drop is
		// irreversible.
		return enum.Drop(name, newValues), "drop " + name, nil

	case "add":
		if len(newValues) == 0 {
			return enum.Operation{}, "", fmt.Errorf("add requires --values")
		}
		return enum.AddValues(name, newValues), "add values to " + name, nil

	case "remove":
		if len(newValues) == 0 {
			return enum.Operation{}, "", fmt.Errorf("remove requires --values")
		}
		return enum.RemoveValues(name, newValues), "remove values from " + name, nil

	case "change":
		if len(newAdd) == 0 && len(newRemove) == 0 {
			return enum.Operation{}, "", fmt.Errorf("change requires --add and/or --remove")
		}
		return enum.ChangeValues(name, newAdd, newRemove), "change values of " + name, nil

	case "rename":
		if len(args) < 3 {
			return enum.Operation{}, "", fmt.Errorf("rename requires a destination name")
		}
		return enum.Rename(name, args[2]), "rename " + name + " to " + args[2], nil

	default:
		return enum.Operation{}, "", fmt.Errorf("unknown operation %q (want create, drop, add, remove, change or rename)", verb)
	}
}

func init() {
	newCmd.Flags().StringSliceVar(&newValues, "values", nil, "Enum values (comma separated)")
	newCmd.Flags().StringSliceVar(&newAdd, "add", nil, "Values to add (comma separated, for change)")
	newCmd.Flags().StringSliceVar(&newRemove, "remove", nil, "Values to remove (comma separated, for change)")
	newCmd.Flags().StringVarP(&newDescription, "description", "d", "", "Migration description (used in the filename)")
}
