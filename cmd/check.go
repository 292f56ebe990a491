package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/addonctl/internal/ui/styles"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check WoWInterface for addon updates",
	Long: `Fetch the latest release details of every addon whose .toc carries
an X-WoWI-ID and remember them for list and update.

Set ADDONCTL_WOWI_TOKEN (or wowi_token in config.yaml) to send an API token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, collection, err := loadCollection()
		if err != nil {
			return err
		}

		updatable, err := manager.Check(cmd.Context(), collection)
		if err != nil {
			return err
		}

		if len(updatable) == 0 {
			fmt.Println(styles.FormatSuccess("All addons are up to date"))
			return nil
		}

		for _, id := range updatable {
			a, _ := collection.Get(id)
			fmt.Printf("%s %s %s → %s\n", styles.Bullet, styles.Highlighted.Render(id),
				orDash(a.Version), a.RemoteVersion)
		}
		fmt.Printf("\n%d update(s) available, run: addonctl update\n", len(updatable))

		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
