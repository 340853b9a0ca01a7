package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/enumigo/enumigo/generator"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new enumigo project",
	Long: `Initialize a new enumigo project: create the migrations directory and an
example migration file showing every supported enum operation.

Examples:
  enumigo init
`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(generator.MigrationsDir); err == nil {
			fmt.Println("❌ migrations directory already exists!")
			return
		}

		if err := os.MkdirAll(generator.MigrationsDir, 0755); err != nil {
			fmt.Println("❌ Failed to create migrations directory:", err)
			return
		}

		// The .example suffix keeps it out of migrate runs.
		content := `# Example enumigo migration. Rename to <timestamp>_<name>.yaml to activate,
# or generate real migrations with 'enumigo new'.
#
# Each operation is applied in order on migrate, and reverted in reverse
# order on rollback. Inverses are computed automatically.
description: example enum migration
operations:
  # create a new enum type
  - create_enum:
      name: user_role
      values: [admin, owner, user]

  # append values (native, fast)
  - add_enum_values:
      name: user_role
      values: [suspended]

  # remove values; fails if any row still stores one of them
  - remove_enum_values:
      name: user_role
      values: [owner]

  # add and remove in one step
  - change_enum_values:
      name: user_role
      add: [guest]
      remove: [suspended]

  # rename the type; bound columns follow
  - rename_enum:
      from: user_role
      to: user_kind

  # drop the type. The values list is what a rollback recreates it with;
  # omit it and the drop becomes irreversible.
  - drop_enum:
      name: user_kind
      values: [admin, user, guest]
`

		examplePath := filepath.Join(generator.MigrationsDir, "example_user_role.yaml.example")
		if err := os.WriteFile(examplePath, []byte(content), 0644); err != nil {
			fmt.Println("❌ Error creating example migration:", err)
			return
		}

		fmt.Println("✅ Created migrations directory with an example migration.")
		fmt.Println("📝 See", examplePath, "for the supported operations")
		fmt.Println("🚀 Run 'enumigo new create <enum> --values a,b,c' to create your first migration")
	},
}
