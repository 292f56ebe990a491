package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/addonctl/internal/ui/styles"
)

var (
	removeForce    bool
	removeNoBackup bool
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove an addon and its dependencies",
	Long: `Remove an addon together with its combined dependencies (see
"addonctl deps"). Another addon with its own version is never removed along.

By default, a backup of every removed folder is created.
Use --no-backup to skip backup creation.
Use --force to skip confirmation prompt.

Examples:
  addonctl remove DBM-Core
  addonctl remove DBM-Core --force --no-backup`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, collection, err := loadCollection()
		if err != nil {
			return err
		}

		target, ok := collection.Get(args[0])
		if !ok {
			return fmt.Errorf("addon not found: %s", args[0])
		}

		if !removeForce {
			fmt.Printf("Remove addon %s?\n", styles.Highlighted.Render(target.ID))
			for _, id := range target.CombinedDependencies(collection) {
				if _, installed := collection.Get(id); installed {
					fmt.Printf("  %s %s\n", styles.Bullet, id)
				}
			}
			if !removeNoBackup {
				fmt.Println("  A backup will be created.")
			} else {
				fmt.Println(styles.FormatWarning("No backup will be created!"))
			}

			fmt.Print("\nConfirm? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))

			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		removed, err := manager.Remove(collection, target.ID, !removeNoBackup)
		for _, id := range removed {
			fmt.Println(styles.FormatSuccess("Removed " + id))
		}
		if err != nil {
			return fmt.Errorf("failed to remove addon: %w", err)
		}

		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip confirmation prompt")
	removeCmd.Flags().BoolVar(&removeNoBackup, "no-backup", false, "Skip backup creation")
	rootCmd.AddCommand(removeCmd)
}
