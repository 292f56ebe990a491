package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/addonctl/internal/addons"
	"github.com/bnema/addonctl/internal/network"
	"github.com/bnema/addonctl/internal/ui/progress"
	"github.com/bnema/addonctl/internal/ui/styles"
	"github.com/bnema/addonctl/internal/updater"
)

var updatePlain bool

var updateCmd = &cobra.Command{
	Use:   "update [id...]",
	Short: "Download addon updates",
	Long: `Download the archive of every addon with an update, or of the given
addons only. Archives are written to the download directory, one file per
addon named after its id.

Run "addonctl check" first to look up the latest versions.

Examples:
  addonctl update              # Every updatable addon
  addonctl update DBM-Core     # A single addon
  addonctl update --plain      # No interactive progress display`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, collection, err := loadCollection()
		if err != nil {
			return err
		}

		targets, err := selectTargets(collection, args)
		if err != nil {
			return err
		}

		if len(targets.Updatable()) == 0 {
			fmt.Println(styles.FormatSuccess("Nothing to update"))
			return nil
		}

		var result *updater.UpdateResult
		if updatePlain {
			result = manager.Update(cmd.Context(), targets, plainObserver)
		} else {
			result, err = updateWithProgress(cmd, manager, targets)
			if err != nil {
				return err
			}
		}

		for _, id := range result.Downloaded {
			fmt.Println(styles.FormatSuccess("Downloaded " + id))
		}
		for _, f := range result.Failed {
			fmt.Println(styles.FormatError(fmt.Sprintf("%s: %v", f.ID, f.Err)))
		}
		progress.PrintSummary("Downloaded: %d, Skipped: %d, Failed: %d (to %s)",
			len(result.Downloaded), len(result.Skipped), len(result.Failed), manager.DownloadDir())

		if len(result.Failed) > 0 {
			return fmt.Errorf("%d download(s) failed", len(result.Failed))
		}
		return nil
	},
}

// selectTargets returns the named addons, or the whole collection when no
// names are given
func selectTargets(collection addons.Collection, ids []string) (addons.Collection, error) {
	if len(ids) == 0 {
		return collection, nil
	}

	var targets addons.Collection
	for _, id := range ids {
		a, ok := collection.Get(id)
		if !ok {
			return nil, fmt.Errorf("addon not found: %s", id)
		}
		targets = append(targets, a)
	}
	return targets, nil
}

func updateWithProgress(cmd *cobra.Command, manager *updater.Manager, targets addons.Collection) (*updater.UpdateResult, error) {
	var ids []string
	for _, a := range targets.Updatable() {
		if a.RemoteURL != "" {
			ids = append(ids, a.ID)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(progress.NewModel("Downloading updates", ids...))

	var result *updater.UpdateResult
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		result = manager.Update(ctx, targets, progress.Observer(p))
		p.Send(progress.DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil || !finalModel.(progress.Model).IsDone() {
		// Quit early: abandon the downloads, partial archives stay on disk.
		cancel()
		<-finished
		if err != nil {
			return nil, fmt.Errorf("error running progress display: %w", err)
		}
		return nil, fmt.Errorf("update interrupted")
	}
	<-finished

	return result, nil
}

// plainObserver prints phase changes but not individual chunks
func plainObserver(p network.Progress) {
	if p.Phase == network.PhaseStreaming && p.Chunk > 0 {
		return
	}
	progress.PrintProgress(p)
}

func init() {
	updateCmd.Flags().BoolVar(&updatePlain, "plain", false, "Print plain progress lines instead of the interactive display")
	rootCmd.AddCommand(updateCmd)
}
