package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/addonctl/internal/addons"
)

// Color palette - coherent with charmbracelet style
var (
	Primary   = lipgloss.Color("#7D56F4") // Purple (charmbracelet brand)
	Secondary = lipgloss.Color("#FF79C6") // Pink accent
	Success   = lipgloss.Color("#50FA7B") // Green
	Warning   = lipgloss.Color("#FFB86C") // Orange
	Error     = lipgloss.Color("#FF5555") // Red
	Muted     = lipgloss.Color("#6272A4") // Muted blue-gray
	Text      = lipgloss.Color("#F8F8F2") // Light text
)

// Base styles
var (
	// Title style for headers
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFDF5")).
		Background(Primary).
		Padding(0, 1).
		Bold(true)

	NormalText = lipgloss.NewStyle().
			Foreground(Text)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	SuccessText = lipgloss.NewStyle().
			Foreground(Success)

	WarningText = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)

	// Highlighted (focused)
	Highlighted = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	Spinner = lipgloss.NewStyle().
		Foreground(Primary)
)

// Symbols
var (
	CheckMark = lipgloss.NewStyle().Foreground(Success).SetString("✓")
	CrossMark = lipgloss.NewStyle().Foreground(Error).SetString("✗")
	Bullet    = lipgloss.NewStyle().Foreground(Primary).SetString("•")
)

// Addon state styles for list display
var (
	AddonIdle = lipgloss.NewStyle().
			Foreground(Muted)

	AddonUpdatable = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	AddonBusy = lipgloss.NewStyle().
			Foreground(Warning)

	AddonErrored = lipgloss.NewStyle().
			Foreground(Error)

	AddonParent = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)
)

// FormatAddonState returns a styled state indicator
func FormatAddonState(state addons.State) string {
	switch state.Kind {
	case addons.StateUpdatable:
		return AddonUpdatable.Render("↑ update")
	case addons.StateDownloading, addons.StateUnpacking:
		return AddonBusy.Render(state.String())
	default:
		if state.Note == "error" {
			return AddonErrored.Render(state.String())
		}
		return AddonIdle.Render(state.String())
	}
}

// FormatAddonID renders parents bold and dependency-only addons muted
func FormatAddonID(a *addons.Addon) string {
	if a.IsParent() {
		return AddonParent.Render(a.ID)
	}
	return MutedText.Render(a.ID)
}

// FormatSuccess formats a success message
func FormatSuccess(msg string) string {
	return CheckMark.String() + " " + SuccessText.Render(msg)
}

// FormatError formats an error message
func FormatError(msg string) string {
	return CrossMark.String() + " " + ErrorText.Render(msg)
}

// FormatWarning formats a warning message
func FormatWarning(msg string) string {
	return WarningText.Render("! " + msg)
}
