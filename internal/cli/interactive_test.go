package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractiveEncode(t *testing.T) {
	m := newInteractiveModel(&RootOptions{})
	m.doc.SetValue(`{"key": [1000]}`)
	m.refresh()

	require.NoError(t, m.err)
	assert.Contains(t, m.result, "06 01 03 6b 65 79 05 01")
	assert.Contains(t, m.sizes, "tagged 17")
	assert.Contains(t, m.sizes, "wire 14 bytes")
	assert.Contains(t, m.View(), "encode json")
}

func TestInteractiveFormatCycle(t *testing.T) {
	m := newInteractiveModel(&RootOptions{})
	m.doc.SetValue("key: [1000]")
	m.refresh()
	require.Error(t, m.err)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	require.NoError(t, m.err)
	assert.Contains(t, m.View(), "encode yaml")
	assert.Contains(t, m.sizes, "wire 14 bytes")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Contains(t, m.View(), "encode json")
}

func TestInteractiveDecode(t *testing.T) {
	m := newInteractiveModel(&RootOptions{})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, modeDecode, m.mode)

	m.hexIn.SetValue(scenarioHex)
	m.refresh()
	require.NoError(t, m.err)
	assert.Contains(t, m.result, `"key": array (1)`)
	assert.Contains(t, m.sizes, "wire 14 · tagged 17 bytes")

	m.hexIn.SetValue("09")
	m.refresh()
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, modeEncode, m.mode)
}

func TestInteractiveQuit(t *testing.T) {
	m := newInteractiveModel(&RootOptions{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
