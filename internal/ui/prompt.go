package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
	"github.com/lakshaymaurya-felt/dirpurge/internal/selection"
)

// LinePrompter asks its questions one line at a time. It is used when
// stdin or stdout is not a terminal, and serves as both Decider and
// Confirmer so the two share one buffered reader.
type LinePrompter struct {
	r   *bufio.Reader
	w   io.Writer
	eof bool
	answers
}

// NewLinePrompter creates a prompter reading from r and writing to w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{r: bufio.NewReader(r), w: w}
}

func (p *LinePrompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if errors.Is(err, io.EOF) {
		p.eof = true
		if line != "" {
			return line, nil
		}
	}
	return line, err
}

// Decide implements selection.Decider. End of input keeps the rest.
func (p *LinePrompter) Decide(c scan.Candidate) (selection.Decision, error) {
	if d, ok := p.sticky(); ok {
		return d, nil
	}
	for {
		if p.eof {
			p.quit = true
			return selection.Keep, nil
		}
		fmt.Fprintf(p.w, "Delete %s (%s)? [y]es/[n]o/[a]ll/[q]uit: ", c.Path, core.FormatSize(c.Size))
		line, err := p.readLine()
		if err != nil {
			if p.eof {
				p.quit = true
				return selection.Keep, nil
			}
			return selection.Keep, err
		}
		if ans := parseAnswer(line); ans != answerNone {
			return p.apply(ans), nil
		}
		fmt.Fprintln(p.w, "Please answer y, n, a or q.")
	}
}

// Confirm implements selection.Confirmer.
func (p *LinePrompter) Confirm(expected string) (string, error) {
	fmt.Fprintf(p.w, "Type %s to confirm deletion: ", expected)
	line, err := p.readLine()
	if err != nil {
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	return line, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewPrompts returns the decision and confirmation providers for in and
// out: bubbletea prompts on a terminal, line prompts otherwise.
func NewPrompts(in, out *os.File) (selection.Decider, selection.Confirmer) {
	if IsTerminal(in) && IsTerminal(out) {
		return NewPicker(in, out), NewPhrasePrompt(in, out)
	}
	lp := NewLinePrompter(in, out)
	return lp, lp
}
