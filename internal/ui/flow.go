package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"splitbill/internal/core"
	"splitbill/internal/split"
	"splitbill/internal/wizard"
)

// Flow drives a wizard from terminal input, one screen per step.
type Flow struct {
	Wizard   *wizard.Wizard
	Prompter *Prompter
	Picker   Picker
	Renderer Renderer
}

// Run walks every step and returns the computed ledger.
func (f *Flow) Run(ctx context.Context) (split.Ledger, error) {
	steps := []func(context.Context) error{
		f.groupName,
		f.peopleCount,
		f.peopleNames,
		f.expenses,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return split.Ledger{}, err
		}
	}
	return f.Wizard.Calculate()
}

func (f *Flow) groupName(ctx context.Context) error {
	_, err := f.Prompter.AskUntil(ctx, "Group name: ", f.Wizard.SetGroupName)
	return err
}

func (f *Flow) peopleCount(ctx context.Context) error {
	label := fmt.Sprintf("Number of people (1-%d): ", f.Wizard.MaxParticipants())
	_, err := f.Prompter.AskUntil(ctx, label, f.Wizard.ParsePeopleCount)
	return err
}

func (f *Flow) peopleNames(ctx context.Context) error {
	n := f.Wizard.PeopleCount()
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		label := "Name of person " + strconv.Itoa(i+1) + ": "
		name, err := f.Prompter.AskUntil(ctx, label, func(s string) error {
			s = core.NormalizeName(s)
			if s == "" {
				return core.ErrEmptyName
			}
			for _, prev := range names {
				if prev == s {
					return core.ErrDuplicateName
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		names = append(names, core.NormalizeName(name))
	}
	return f.Wizard.SetPeopleNames(names)
}

func (f *Flow) expenses(ctx context.Context) error {
	out := f.Prompter.Out()
	names := f.Wizard.Snapshot().Names()
	fmt.Fprintln(out, "Add expenses. Leave the item name empty when done.")

	for {
		item, err := f.Prompter.Ask(ctx, "Item name: ")
		if err != nil {
			return err
		}
		if item == "" {
			if len(f.Wizard.Expenses()) == 0 {
				f.Prompter.Notice(core.ErrNoExpenses)
				continue
			}
			return nil
		}

		price, err := f.Prompter.AskUntil(ctx, "Price per unit: ", func(s string) error {
			_, err := core.ParseUnitPrice(s)
			return err
		})
		if err != nil {
			return err
		}
		qty, err := f.Prompter.AskUntil(ctx, "Quantity: ", func(s string) error {
			_, err := core.ParseQuantity(s)
			return err
		})
		if err != nil {
			return err
		}
		people, err := f.Picker.Pick(ctx, item, names)
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return err
			}
			f.Prompter.Notice(err)
			continue
		}

		e, err := f.Wizard.AddExpense(wizard.ExpenseInput{Name: item, Price: price, Qty: qty, People: people})
		if err != nil {
			f.Prompter.Notice(err)
			continue
		}
		fmt.Fprintf(out, "  + %s\n", f.Renderer.ExpenseLine(e, names))
	}
}
