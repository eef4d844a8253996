package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/koki-develop/go-fzf"

	"splitbill/internal/core"
)

// Picker chooses which participants share an expense.
type Picker interface {
	Pick(ctx context.Context, item string, names []string) ([]int, error)
}

// FuzzyPicker is a full-screen multi-select over participant names.
type FuzzyPicker struct{}

func (FuzzyPicker) Pick(_ context.Context, item string, names []string) ([]int, error) {
	if len(names) == 0 {
		return nil, core.ErrInvalidPeopleCount
	}

	f, err := fzf.New(
		fzf.WithPrompt(fmt.Sprintf("Who shared %s? (tab to select) > ", item)),
		fzf.WithInputPosition(fzf.InputPositionTop),
		fzf.WithNoLimit(true),
	)
	if err != nil {
		return nil, err
	}

	idxs, err := f.Find(names, func(i int) string { return names[i] })
	if err != nil {
		if errors.Is(err, fzf.ErrAbort) {
			return nil, ErrAborted
		}
		return nil, err
	}
	if len(idxs) == 0 {
		return nil, core.ErrNoParticipantsSelected
	}
	return sortedUnique(idxs), nil
}

// PromptPicker lists participants with numbers and reads a selection such
// as "1,3" or "all".
type PromptPicker struct {
	Prompter *Prompter
}

func (p PromptPicker) Pick(ctx context.Context, item string, names []string) ([]int, error) {
	out := p.Prompter.Out()
	fmt.Fprintf(out, "Who shared %s?\n", item)
	for i, n := range names {
		fmt.Fprintf(out, "  %d) %s\n", i+1, n)
	}

	var picked []int
	_, err := p.Prompter.AskUntil(ctx, "People (e.g. 1,3 or all): ", func(s string) error {
		idxs, err := ParseSelection(s, len(names))
		if err != nil {
			return err
		}
		picked = idxs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return picked, nil
}

// ParseSelection parses a 1-based, comma or space separated list of
// participant numbers into zero-based indices. "all" or "*" selects everyone.
func ParseSelection(s string, n int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, core.ErrNoParticipantsSelected
	}
	if strings.EqualFold(s, "all") || s == "*" {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	idxs := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 1 || v > n {
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownParticipant, f)
		}
		idxs = append(idxs, v-1)
	}
	return sortedUnique(idxs), nil
}

func sortedUnique(idxs []int) []int {
	seen := make(map[int]struct{}, len(idxs))
	out := make([]int, 0, len(idxs))
	for _, i := range idxs {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}
