package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// phraseModel reads the confirmation phrase into a text input.
type phraseModel struct {
	input     textinput.Model
	expected  string
	summary   string
	done      bool
	cancelled bool
}

func newPhraseModel(expected, summary string) phraseModel {
	ti := textinput.New()
	ti.Placeholder = expected
	ti.CharLimit = 64
	ti.Width = 32
	ti.Prompt = "  " + IconChevron + " "
	ti.Focus()
	return phraseModel{input: ti, expected: expected, summary: summary}
}

func (m phraseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m phraseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m phraseModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	warn := lipgloss.NewStyle().Foreground(ColorError).Bold(true).
		Render(fmt.Sprintf("  %s %s", IconWarning, m.summary))
	ask := lipgloss.NewStyle().Foreground(ColorText).
		Render(fmt.Sprintf("  Type %s to confirm:", lipgloss.NewStyle().Bold(true).Render(m.expected)))
	hint := HintBarStyle().Render("  enter confirm " + IconPipe + " esc cancel")
	return warn + "\n" + ask + "\n" + m.input.View() + "\n" + hint + "\n"
}

// PhrasePrompt asks for the confirmation phrase in a text input.
type PhrasePrompt struct {
	in      io.Reader
	out     io.Writer
	Summary string
}

// NewPhrasePrompt creates a prompt reading from in and drawing to out.
func NewPhrasePrompt(in io.Reader, out io.Writer) *PhrasePrompt {
	return &PhrasePrompt{in: in, out: out, Summary: "Selected directories will be deleted."}
}

// Confirm implements selection.Confirmer. It returns what was typed; the
// caller compares it.
func (p *PhrasePrompt) Confirm(expected string) (string, error) {
	prog := tea.NewProgram(newPhraseModel(expected, p.Summary), tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	m, ok := final.(phraseModel)
	if !ok {
		return "", fmt.Errorf("prompt: unexpected model %T", final)
	}
	if m.cancelled {
		return "", ErrPromptCancelled
	}
	return m.input.Value(), nil
}
