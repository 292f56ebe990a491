package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bnema/addonctl/internal/ui/styles"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed addons",
	Long: `List all addons in the Interface/AddOns directory.

Addons with an update sort first. Details come from the last check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, collection, err := loadCollection()
		if err != nil {
			return err
		}

		if len(collection) == 0 {
			fmt.Println("No addons installed")
			fmt.Printf("Addons directory: %s\n", manager.AddonsDir())
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			styles.Title.Render("ID"),
			styles.Title.Render("VERSION"),
			styles.Title.Render("REMOTE"),
			styles.Title.Render("STATE"),
		)

		for _, addon := range collection {
			localVersion := addon.Version
			if localVersion == "" {
				localVersion = "-"
			}
			remoteVersion := addon.RemoteVersion
			if remoteVersion == "" {
				remoteVersion = "-"
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				styles.FormatAddonID(addon),
				localVersion,
				remoteVersion,
				styles.FormatAddonState(addon.State),
			)
		}

		_ = w.Flush()

		fmt.Printf("\n%d addon(s) installed, %d updatable\n", len(collection), len(collection.Updatable()))
		fmt.Printf("Addons directory: %s\n", manager.AddonsDir())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
