package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/timeax/fortiplugin-bundle-adapter/inject"
	"github.com/timeax/fortiplugin-bundle-adapter/transform"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectFile modelState = iota
	stateEditIDs
	statePreview
)

type previewModel struct {
	err      error
	cfg      transform.Config
	files    []string
	selected int
	state    modelState

	idsInput textinput.Model
	view     viewport.Model
	ready    bool

	original []byte
	output   []byte
	showOrig bool
	written  bool
}

func newPreviewModel(files []string, cfg transform.Config) *previewModel {
	ti := textinput.New()
	ti.Prompt = "injected ids: "
	ti.SetValue(strings.Join(cfg.Rules.IDs, ","))
	ti.Width = 60
	return &previewModel{
		files:    files,
		cfg:      cfg,
		state:    stateSelectFile,
		idsInput: ti,
	}
}

type rewrittenMsg struct {
	err      error
	original []byte
	output   []byte
}

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) rewriteSelected() tea.Msg {
	src, err := os.ReadFile(m.files[m.selected])
	if err != nil {
		return rewrittenMsg{err: err}
	}
	out, err := transform.Rewrite(src, m.cfg)
	if err != nil {
		return rewrittenMsg{err: err}
	}
	return rewrittenMsg{original: src, output: out}
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.view = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = msg.Height - 6
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateEditIDs || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFile && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFile && m.selected < len(m.files)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFile:
				m.written = false
				m.showOrig = false
				return m, m.rewriteSelected
			case stateEditIDs:
				m.cfg.Rules = inject.Rules{
					IDs:      splitList(m.idsInput.Value()),
					Prefixes: m.cfg.Rules.Prefixes,
				}
				m.idsInput.Blur()
				m.state = stateSelectFile
			}

		case "e":
			if m.state == stateSelectFile {
				m.state = stateEditIDs
				m.idsInput.Focus()
				return m, textinput.Blink
			}

		case "o":
			if m.state == statePreview {
				m.showOrig = !m.showOrig
				m.syncViewport()
			}

		case "w":
			if m.state == statePreview && m.err == nil {
				m.err = os.WriteFile(m.files[m.selected], m.output, 0o644)
				m.written = m.err == nil
			}

		case "esc":
			switch m.state {
			case statePreview:
				m.state = stateSelectFile
				m.err = nil
			case stateEditIDs:
				m.idsInput.Blur()
				m.state = stateSelectFile
			}
		}

	case rewrittenMsg:
		m.err = msg.err
		m.original = msg.original
		m.output = msg.output
		m.state = statePreview
		m.syncViewport()
	}

	if m.state == stateEditIDs {
		var cmd tea.Cmd
		m.idsInput, cmd = m.idsInput.Update(msg)
		return m, cmd
	}
	if m.state == statePreview {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *previewModel) syncViewport() {
	if !m.ready {
		return
	}
	if m.showOrig {
		m.view.SetContent(string(m.original))
	} else {
		m.view.SetContent(string(m.output))
	}
	m.view.GotoTop()
}

func (m *previewModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bundle Rewrite"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFile:
		b.WriteString("Select a file to preview:\n\n")
		for i, f := range m.files {
			line := "  " + f
			if i == m.selected {
				line = selectedStyle.Render("> " + f)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(fmt.Sprintf("injected ids: %s",
			strings.Join(m.cfg.Rules.IDs, ", "))))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter preview • e edit ids • q quit"))

	case stateEditIDs:
		b.WriteString("Edit the injected id list (comma-separated):\n\n")
		b.WriteString(m.idsInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))

	case statePreview:
		label := "rewritten"
		if m.showOrig {
			label = "original"
		}
		b.WriteString(fileStyle.Render(m.files[m.selected]))
		b.WriteString(statusStyle.Render("  [" + label + "]"))
		if m.written {
			b.WriteString(statusStyle.Render("  written"))
		}
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		} else if m.ready {
			b.WriteString(m.view.View())
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("o toggle original • w write • esc back • q quit"))
	}

	return b.String()
}

func runInteractive(files []string, cfg transform.Config) error {
	if len(files) == 0 {
		return fmt.Errorf("interactive mode needs at least one file argument")
	}
	p := tea.NewProgram(newPreviewModel(files, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
