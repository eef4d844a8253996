// Package ui is the terminal side of the wizard: line prompts, participant
// pickers, ledger rendering and clipboard access.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrAborted is returned when input ends or the user cancels a prompt.
var ErrAborted = errors.New("input aborted")

// Prompter reads one answer per line.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	lines chan lineResult
}

type lineResult struct {
	text string
	err  error
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Out is where prompts and notices are written.
func (p *Prompter) Out() io.Writer { return p.out }

// Ask prints label and returns the trimmed answer. Cancelling ctx returns
// ErrAborted without waiting for the pending line.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrAborted
	}
	fmt.Fprint(p.out, label)

	// lines stays set while a read started by a cancelled Ask is pending.
	if p.lines == nil {
		p.lines = make(chan lineResult, 1)
		go p.readLine(p.lines)
	}

	select {
	case <-ctx.Done():
		return "", ErrAborted
	case r := <-p.lines:
		p.lines = nil
		if r.err != nil {
			if errors.Is(r.err, io.EOF) && r.text != "" {
				return strings.TrimSpace(r.text), nil
			}
			if errors.Is(r.err, io.EOF) {
				return "", ErrAborted
			}
			return "", fmt.Errorf("read input: %w", r.err)
		}
		return strings.TrimSpace(r.text), nil
	}
}

func (p *Prompter) readLine(out chan<- lineResult) {
	text, err := p.in.ReadString('\n')
	out <- lineResult{text: text, err: err}
}

// AskUntil repeats a prompt until accept returns nil, printing each
// rejection as a notice.
func (p *Prompter) AskUntil(ctx context.Context, label string, accept func(string) error) (string, error) {
	for {
		answer, err := p.Ask(ctx, label)
		if err != nil {
			return "", err
		}
		if err := accept(answer); err != nil {
			p.Notice(err)
			continue
		}
		return answer, nil
	}
}

// Notice prints a one-line message for a rejected input.
func (p *Prompter) Notice(err error) {
	fmt.Fprintf(p.out, "  ! %s\n", Describe(err))
}
