package progress

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/bnema/addonctl/internal/network"
	"github.com/bnema/addonctl/internal/ui/styles"
)

// FormatBytes formats a byte count, including the total when it is known
func FormatBytes(written, total int64) string {
	if total > 0 {
		return humanize.Bytes(uint64(written)) + " / " + humanize.Bytes(uint64(total))
	}
	return humanize.Bytes(uint64(written))
}

// FormatRow returns a single styled line for a download without animation
func FormatRow(r Row) string {
	line := fmt.Sprintf("  %s %s", StyledIcon(r.Phase), PhaseStyle(r.Phase).Render(r.ID))

	switch r.Phase {
	case network.PhaseStreaming:
		line += styles.MutedText.Render(" - " + FormatBytes(r.Written, r.Total))
	case network.PhaseComplete:
		line += styles.MutedText.Render(" - " + humanize.Bytes(uint64(r.Written)))
	case network.PhaseAborted:
		if r.Err != nil {
			line += styles.ErrorText.Render(" - " + r.Err.Error())
		}
	default:
		line += styles.MutedText.Render(" - " + r.Phase.String())
	}
	return line
}

// PrintProgress prints a download event as a plain line
func PrintProgress(p network.Progress) {
	fmt.Println(FormatRow(Row{
		ID:      p.AddonID,
		Phase:   p.Phase,
		Written: p.Written,
		Total:   p.Total,
		Err:     p.Err,
	}))
}

// PrintSummary prints a summary line with count
func PrintSummary(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Printf("\n  %s\n", styles.MutedText.Render(message))
}
