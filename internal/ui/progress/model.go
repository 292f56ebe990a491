package progress

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/addonctl/internal/network"
	"github.com/bnema/addonctl/internal/ui/styles"
)

// Model is the bubbletea model showing a set of concurrent downloads
type Model struct {
	title       string
	order       []string
	rows        map[string]*Row
	spinner     spinner.Model
	progressBar progress.Model
	done        bool
	width       int
}

// NewModel creates a model with one pending row per addon ID
func NewModel(title string, ids ...string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	rows := make(map[string]*Row, len(ids))
	for _, id := range ids {
		rows[id] = &Row{ID: id, Phase: network.PhaseNotStarted, Total: -1}
	}

	return Model{
		title:       title,
		order:       ids,
		rows:        rows,
		spinner:     s,
		progressBar: p,
		width:       80,
	}
}

type (
	// ProgressMsg carries a download event into the program
	ProgressMsg network.Progress

	// DoneMsg signals every download has finished
	DoneMsg struct{}
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(min(msg.Width-10, 40), 10)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		row, ok := m.rows[msg.AddonID]
		if !ok {
			row = &Row{ID: msg.AddonID}
			m.rows[msg.AddonID] = row
			m.order = append(m.order, msg.AddonID)
		}
		row.Phase = msg.Phase
		row.Written = msg.Written
		row.Total = msg.Total
		row.Err = msg.Err
		return m, nil

	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the progress display
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Text).
		Bold(true)
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	indent := "  "
	for _, id := range m.order {
		row := m.rows[id]

		if row.Phase != network.PhaseRequesting && row.Phase != network.PhaseStreaming {
			b.WriteString(FormatRow(*row))
			b.WriteString("\n")
			continue
		}

		line := fmt.Sprintf("%s%s %s", indent, m.spinner.View(), PhaseStyle(row.Phase).Render(row.ID))
		b.WriteString(line)
		b.WriteString(styles.MutedText.Render(" - " + FormatBytes(row.Written, row.Total)))
		b.WriteString("\n")

		if f := row.Fraction(); f >= 0 {
			b.WriteString(indent + "  " + m.progressBar.ViewAs(f) + "\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}

// Rows returns the download rows in display order
func (m Model) Rows() []Row {
	rows := make([]Row, 0, len(m.order))
	for _, id := range m.order {
		rows = append(rows, *m.rows[id])
	}
	return rows
}

// IsDone returns true once DoneMsg was received
func (m Model) IsDone() bool {
	return m.done
}

// Sender is the part of tea.Program an observer needs
type Sender interface {
	Send(msg tea.Msg)
}

// Observer forwards download events to a running program. Phase changes are
// always sent; chunk events only once per percent, or every
// unknownTotalStep bytes when the size is unknown.
func Observer(p Sender) network.Observer {
	t := newThrottle()
	return func(pr network.Progress) {
		if t.allow(pr) {
			p.Send(ProgressMsg(pr))
		}
	}
}

const unknownTotalStep = 100 * 1024

type throttle struct {
	mu   sync.Mutex
	last map[string]int64
}

func newThrottle() *throttle {
	return &throttle{last: make(map[string]int64)}
}

func (t *throttle) allow(pr network.Progress) bool {
	if pr.Phase != network.PhaseStreaming || pr.Chunk == 0 {
		return true
	}

	step := int64(unknownTotalStep)
	if pr.Total > 0 {
		step = max(pr.Total/100, 1)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	last, seen := t.last[pr.AddonID]
	if seen && pr.Written-last < step && pr.Written != pr.Total {
		return false
	}
	t.last[pr.AddonID] = pr.Written
	return true
}
