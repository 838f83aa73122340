package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
	"github.com/lakshaymaurya-felt/dirpurge/internal/selection"
)

// ErrPromptCancelled is returned when the user leaves a prompt with esc or
// ctrl+c.
var ErrPromptCancelled = errors.New("prompt cancelled")

// answer is one keypress of the per-directory prompt.
type answer int

const (
	answerNone answer = iota
	answerYes
	answerNo
	answerAll
	answerQuit
)

// answers tracks the sticky "all" and "quit" choices across prompts.
type answers struct {
	all  bool
	quit bool
}

// sticky returns the decision implied by an earlier "all" or "quit".
func (a *answers) sticky() (selection.Decision, bool) {
	switch {
	case a.quit:
		return selection.Keep, true
	case a.all:
		return selection.Delete, true
	}
	return selection.Keep, false
}

func (a *answers) apply(ans answer) selection.Decision {
	switch ans {
	case answerYes:
		return selection.Delete
	case answerAll:
		a.all = true
		return selection.Delete
	case answerQuit:
		a.quit = true
	}
	return selection.Keep
}

func parseAnswer(s string) answer {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return answerYes
	case "n", "no", "":
		return answerNo
	case "a", "all":
		return answerAll
	case "q", "quit":
		return answerQuit
	}
	return answerNone
}

// ─── Model ───────────────────────────────────────────────────────────────────

// pickerModel asks keep/delete for a single candidate.
type pickerModel struct {
	cand   scan.Candidate
	index  int
	width  int
	answer answer
}

func newPickerModel(c scan.Candidate, index int) pickerModel {
	return pickerModel{cand: c, index: index, width: 80}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.answer = answerQuit
			return m, tea.Quit
		case "enter":
			m.answer = answerNo
			return m, tea.Quit
		}
		if ans := parseAnswer(msg.String()); ans != answerNone {
			m.answer = ans
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.answer != answerNone {
		return ""
	}
	w := m.width
	if w < 40 {
		w = 40
	}

	title := TitleStyle().Render(fmt.Sprintf("  %s Delete this directory? (%d)", IconDiamond, m.index))
	path := PathStyle().Render("  " + Truncate(m.cand.Path, w-8))

	meta := []string{core.FormatSize(m.cand.Size), fmt.Sprintf("%d items", m.cand.Files)}
	if days, ok := m.cand.AgeDays(); ok {
		meta = append(meta, fmt.Sprintf("%d days old", days))
	}
	details := lipgloss.NewStyle().Foreground(ColorTextDim).
		Render("  " + strings.Join(meta, " "+IconChevron+" "))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorCoral).
		Width(w - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, path, details))

	hints := strings.Join([]string{"y delete", "n keep", "a delete all", "q keep rest"}, " "+IconPipe+" ")
	return box + "\n" + HintBarStyle().Render("  "+hints) + "\n"
}

// ─── Decider ─────────────────────────────────────────────────────────────────

// Picker is a full-screen-less bubbletea prompt asking about one directory
// at a time. "a" deletes every remaining candidate, "q" keeps them.
type Picker struct {
	in    io.Reader
	out   io.Writer
	index int
	answers
}

// NewPicker creates a picker reading keys from in and drawing to out.
func NewPicker(in io.Reader, out io.Writer) *Picker {
	return &Picker{in: in, out: out}
}

// Decide implements selection.Decider.
func (p *Picker) Decide(c scan.Candidate) (selection.Decision, error) {
	if d, ok := p.sticky(); ok {
		return d, nil
	}
	p.index++

	prog := tea.NewProgram(newPickerModel(c, p.index), tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		return selection.Keep, fmt.Errorf("prompt: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok {
		return selection.Keep, fmt.Errorf("prompt: unexpected model %T", final)
	}
	return p.apply(m.answer), nil
}
