package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/rbuf/codec"
	"github.com/wippyai/rbuf/internal/formats"
	"github.com/wippyai/rbuf/rle"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	sizeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelMode int

const (
	modeEncode modelMode = iota // document in, wire bytes out
	modeDecode                  // hex in, value tree out
)

// textFormats are the input formats that can be typed into the editor.
var textFormats = []formats.Format{formats.JSON, formats.JSONC, formats.YAML}

type interactiveModel struct {
	err    error
	opts   *RootOptions
	doc    textarea.Model
	hexIn  textinput.Model
	result string
	sizes  string
	from   int
	mode   modelMode
}

func newInteractiveModel(opts *RootOptions) *interactiveModel {
	doc := textarea.New()
	doc.Placeholder = `{"key": [1000]}`
	doc.ShowLineNumbers = false
	doc.SetWidth(72)
	doc.SetHeight(8)
	doc.Focus()

	hexIn := textinput.New()
	hexIn.Placeholder = "06 01 03 6b 65 79 ..."
	hexIn.Prompt = "wire: "
	hexIn.Width = 66

	return &interactiveModel{
		opts:  opts,
		doc:   doc,
		hexIn: hexIn,
		mode:  modeEncode,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			if m.mode == modeEncode {
				m.mode = modeDecode
				m.doc.Blur()
				m.hexIn.Focus()
			} else {
				m.mode = modeEncode
				m.hexIn.Blur()
				m.doc.Focus()
			}
			m.refresh()
			return m, nil

		case "ctrl+f":
			if m.mode == modeEncode {
				m.from = (m.from + 1) % len(textFormats)
				m.refresh()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		if msg.Width > 8 {
			m.doc.SetWidth(msg.Width - 4)
			m.hexIn.Width = msg.Width - 10
		}
	}

	var cmd tea.Cmd
	if m.mode == modeEncode {
		m.doc, cmd = m.doc.Update(msg)
	} else {
		m.hexIn, cmd = m.hexIn.Update(msg)
	}
	m.refresh()
	return m, cmd
}

// refresh recomputes the result pane from the focused input.
func (m *interactiveModel) refresh() {
	m.result, m.sizes, m.err = "", "", nil
	if m.mode == modeEncode {
		m.encode()
	} else {
		m.decode()
	}
}

func (m *interactiveModel) encode() {
	src := m.doc.Value()
	if strings.TrimSpace(src) == "" {
		return
	}
	tree, err := formats.Decode(textFormats[m.from], []byte(src))
	if err != nil {
		m.err = err
		return
	}
	tagged, err := m.opts.encoder().EncodeTagged(tree)
	if err != nil {
		m.err = err
		return
	}
	wire := rle.Encode(tagged)
	m.sizes = fmt.Sprintf("input %d · tagged %d · wire %d bytes", len(src), len(tagged), len(wire))
	m.result = hex.Dump(wire)
}

func (m *interactiveModel) decode() {
	text := strings.Join(strings.Fields(m.hexIn.Value()), "")
	if text == "" {
		return
	}
	wire, err := hex.DecodeString(text)
	if err != nil {
		m.err = err
		return
	}
	tree, err := m.opts.decoder().Decode(wire)
	if err != nil {
		m.err = err
		return
	}
	var b strings.Builder
	writeTree(&b, tree, "", 0)
	m.sizes = fmt.Sprintf("wire %d · tagged %d bytes", len(wire), len(codec.EncodeTagged(tree)))
	m.result = b.String()
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("rbuf"))
	b.WriteString(" ")
	if m.mode == modeEncode {
		b.WriteString(modeStyle.Render("encode " + string(textFormats[m.from])))
		b.WriteString("\n\n")
		b.WriteString(m.doc.View())
	} else {
		b.WriteString(modeStyle.Render("decode"))
		b.WriteString("\n\n")
		b.WriteString(m.hexIn.View())
	}
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.result != "":
		b.WriteString(sizeStyle.Render(m.sizes))
		b.WriteString("\n\n")
		b.WriteString(resultStyle.Render(strings.TrimRight(m.result, "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == modeEncode {
		b.WriteString(helpStyle.Render("tab decode mode • ctrl+f input format • esc quit"))
	} else {
		b.WriteString(helpStyle.Render("tab encode mode • esc quit"))
	}
	return b.String()
}

func runInteractive(opts *RootOptions) error {
	p := tea.NewProgram(newInteractiveModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
