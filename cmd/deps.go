package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/addonctl/internal/ui/styles"
)

var depsCmd = &cobra.Command{
	Use:   "deps <id>",
	Short: "Show the addons affected by an action on an addon",
	Long: `Show the combined dependencies of an addon: the addon itself, the
dependencies without their own version, and their direct dependencies.

These are the folders "addonctl remove" deletes.

Examples:
  addonctl deps DBM-Core
  addonctl deps Bagnon`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, collection, err := loadCollection()
		if err != nil {
			return err
		}

		target, ok := collection.Get(args[0])
		if !ok {
			return fmt.Errorf("addon not found: %s", args[0])
		}

		fmt.Println(styles.Title.Render(target.ID))
		if target.Title != "" && target.Title != target.ID {
			fmt.Println(styles.MutedText.Render(target.Title))
		}
		fmt.Println()

		for _, id := range target.CombinedDependencies(collection) {
			line := fmt.Sprintf("%s %s", styles.Bullet, id)
			if _, installed := collection.Get(id); !installed {
				line += styles.MutedText.Render(" (not installed)")
			}
			fmt.Println(line)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(depsCmd)
}
