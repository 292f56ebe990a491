package progress

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/addonctl/internal/network"
)

type recordingSender struct {
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.msgs = append(r.msgs, msg)
}

func TestObserverThrottlesChunks(t *testing.T) {
	sender := &recordingSender{}
	observe := Observer(sender)

	events := []network.Progress{
		{AddonID: "Foo", Phase: network.PhaseRequesting, Total: -1},
		{AddonID: "Foo", Phase: network.PhaseStreaming, Total: 1000},
		{AddonID: "Foo", Phase: network.PhaseStreaming, Chunk: 1, Written: 5, Total: 1000},
		{AddonID: "Foo", Phase: network.PhaseStreaming, Chunk: 2, Written: 10, Total: 1000},
		{AddonID: "Foo", Phase: network.PhaseStreaming, Chunk: 3, Written: 15, Total: 1000},
		{AddonID: "Foo", Phase: network.PhaseStreaming, Chunk: 4, Written: 1000, Total: 1000},
		{AddonID: "Foo", Phase: network.PhaseComplete, Chunk: 4, Written: 1000, Total: 1000},
	}
	for _, e := range events {
		observe(e)
	}

	var written []int64
	for _, msg := range sender.msgs {
		written = append(written, msg.(ProgressMsg).Written)
	}
	assert.Equal(t, []int64{0, 0, 5, 15, 1000, 1000}, written)
}

func TestObserverUnknownTotal(t *testing.T) {
	sender := &recordingSender{}
	observe := Observer(sender)

	for chunk := 1; chunk <= 30; chunk++ {
		observe(network.Progress{AddonID: "Foo", Phase: network.PhaseStreaming, Chunk: chunk, Written: int64(chunk) * network.ChunkSize, Total: -1})
	}

	// First chunk, then roughly every 100 KiB
	assert.Len(t, sender.msgs, 3)
}

func TestModelAppliesProgress(t *testing.T) {
	m := NewModel("Downloading", "Foo", "Bar")

	updated, _ := m.Update(ProgressMsg{AddonID: "Foo", Phase: network.PhaseStreaming, Chunk: 1, Written: 8000, Total: 16000})
	updated, _ = updated.Update(ProgressMsg{AddonID: "Bar", Phase: network.PhaseAborted, Err: errors.New("reset")})
	updated, _ = updated.Update(ProgressMsg{AddonID: "Late", Phase: network.PhaseRequesting, Total: -1})

	model := updated.(Model)
	rows := model.Rows()
	require.Len(t, rows, 3)

	assert.Equal(t, "Foo", rows[0].ID)
	assert.Equal(t, network.PhaseStreaming, rows[0].Phase)
	assert.InDelta(t, 0.5, rows[0].Fraction(), 0.0001)
	assert.Equal(t, network.PhaseAborted, rows[1].Phase)
	assert.Equal(t, "Late", rows[2].ID)
	assert.False(t, model.IsDone())

	view := model.View()
	assert.True(t, strings.Contains(view, "Downloading"))
	assert.True(t, strings.Contains(view, "reset"))
}

func TestModelDone(t *testing.T) {
	updated, cmd := NewModel("Downloading").Update(DoneMsg{})

	assert.True(t, updated.(Model).IsDone())
	assert.NotNil(t, cmd)
}

func TestRowFraction(t *testing.T) {
	assert.Equal(t, -1.0, Row{Written: 10, Total: -1}.Fraction())
	assert.Equal(t, 1.0, Row{Written: 20, Total: 10}.Fraction())
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "20 kB", FormatBytes(20000, -1))
	assert.Equal(t, "8.0 kB / 20 kB", FormatBytes(8000, 20000))
}

func TestModelClampsBarWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{width: 5, want: 10},
		{width: 30, want: 20},
		{width: 200, want: 40},
	}

	for _, tt := range tests {
		updated, _ := NewModel("Downloading").Update(tea.WindowSizeMsg{Width: tt.width, Height: 24})
		assert.Equal(t, tt.want, updated.(Model).progressBar.Width, "terminal width %d", tt.width)
	}
}
