package progress

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/addonctl/internal/network"
	"github.com/bnema/addonctl/internal/ui/styles"
)

// Icons - Nerd Font with ASCII fallback
type Icons struct {
	Check   string
	Cross   string
	Pending string
	Spinner string
}

var (
	// NerdFontIcons uses Nerd Font glyphs
	NerdFontIcons = Icons{
		Check:   "\uf00c",
		Cross:   "\uf00d",
		Pending: "\uf111",
		Spinner: "\uf110",
	}

	// ASCIIIcons uses simple ASCII characters
	ASCIIIcons = Icons{
		Check:   "+",
		Cross:   "x",
		Pending: "o",
		Spinner: "*",
	}
)

// GetIcons returns the appropriate icon set based on environment
func GetIcons() Icons {
	if os.Getenv("ADDONCTL_NERD_FONTS") == "1" {
		return NerdFontIcons
	}
	return ASCIIIcons
}

// Icon styles
var (
	IconStyleCheck   = lipgloss.NewStyle().Foreground(styles.Success)
	IconStyleCross   = lipgloss.NewStyle().Foreground(styles.Error)
	IconStylePending = lipgloss.NewStyle().Foreground(styles.Muted)
	IconStyleSpinner = lipgloss.NewStyle().Foreground(styles.Primary)
)

// StyledIcon returns a styled icon string for a download phase
func StyledIcon(phase network.Phase) string {
	icons := GetIcons()
	switch phase {
	case network.PhaseComplete:
		return IconStyleCheck.Render(icons.Check)
	case network.PhaseAborted:
		return IconStyleCross.Render(icons.Cross)
	case network.PhaseRequesting, network.PhaseStreaming:
		return IconStyleSpinner.Render(icons.Spinner)
	default:
		return IconStylePending.Render(icons.Pending)
	}
}

// PhaseStyle returns the text style for a download in the given phase
func PhaseStyle(phase network.Phase) lipgloss.Style {
	switch phase {
	case network.PhaseComplete:
		return styles.SuccessText
	case network.PhaseAborted:
		return styles.ErrorText
	case network.PhaseRequesting, network.PhaseStreaming:
		return styles.NormalText.Bold(true)
	default:
		return styles.MutedText
	}
}

// Row is the displayed state of one download
type Row struct {
	ID      string
	Phase   network.Phase
	Written int64
	Total   int64
	Err     error
}

// Fraction returns the completed share of the download, or -1 when the
// total size is unknown
func (r Row) Fraction() float64 {
	if r.Total <= 0 {
		return -1
	}
	f := float64(r.Written) / float64(r.Total)
	if f > 1 {
		return 1
	}
	return f
}
