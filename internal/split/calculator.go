// Package split computes how much each participant owes for a session.
//
// Costs are accumulated in minor currency units. Each expense is rounded to
// minor units once per unit price; shares are then divided with real division
// and keep their fractional part.
package split

import (
	"errors"
	"fmt"

	"splitbill/internal/core"
)

// TotalName is the display name of the synthetic aggregate entry.
const TotalName = "Total"

// EntryKind tags a ledger entry as a participant or as the aggregate total.
type EntryKind int

const (
	EntryParticipant EntryKind = iota
	EntryTotal
)

func (k EntryKind) String() string {
	switch k {
	case EntryParticipant:
		return "participant"
	case EntryTotal:
		return "total"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

type (
	// LineItem is one expense's contribution to an entry, in minor units.
	LineItem struct {
		Item   string
		Amount float64
	}

	Entry struct {
		Name  string
		Kind  EntryKind
		Owed  float64 // Minor units
		Items []LineItem
	}

	// Ledger lists participants in session order followed by the total entry.
	Ledger struct {
		Entries []Entry
	}
)

// InvalidReferenceError reports an expense pointing at a participant index
// that does not exist in the session.
type InvalidReferenceError struct {
	Expense      int
	ExpenseName  string
	Index        int
	Participants int
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("expense %d (%q) references participant %d, session has %d",
		e.Expense, e.ExpenseName, e.Index, e.Participants)
}

// Compute builds the ledger for a session. It never mutates the session.
//
// An empty expense list yields a ledger of zeros; rejecting it is up to the
// caller. Out-of-range participant indices return *InvalidReferenceError and
// no ledger. An expense with nobody selected, or amounts too large to add up
// exactly, return a *core.ValidationError and no ledger.
func Compute(s core.Session) (Ledger, error) {
	if err := checkExpenses(s); err != nil {
		return Ledger{}, err
	}

	n := len(s.Participants)
	entries := make([]Entry, n+1)
	for i, p := range s.Participants {
		entries[i] = Entry{Name: p.Name, Kind: EntryParticipant, Items: []LineItem{}}
	}
	total := &entries[n]
	*total = Entry{Name: TotalName, Kind: EntryTotal, Items: []LineItem{}}

	for _, e := range s.Expenses {
		cost := core.LineTotal(e.UnitPrice, e.Quantity)
		total.Items = append(total.Items, LineItem{Item: e.Name, Amount: float64(cost)})
		total.Owed += float64(cost)

		share := float64(cost) / float64(len(e.Participants))
		for _, idx := range e.Participants {
			entries[idx].Owed += share
			entries[idx].Items = append(entries[idx].Items, LineItem{Item: e.Name, Amount: share})
		}
	}

	return Ledger{Entries: entries}, nil
}

func checkExpenses(s core.Session) error {
	n := len(s.Participants)
	for ei, e := range s.Expenses {
		for _, idx := range e.Participants {
			if idx < 0 || idx >= n {
				return &InvalidReferenceError{
					Expense:      ei,
					ExpenseName:  e.Name,
					Index:        idx,
					Participants: n,
				}
			}
		}
		if len(e.Participants) == 0 {
			return fmt.Errorf("expense %d: %w", ei,
				&core.ValidationError{Field: "people", Err: core.ErrNoParticipantsSelected})
		}
		if err := core.CheckLineTotal(e.UnitPrice, e.Quantity); err != nil {
			field := "qty"
			if errors.Is(err, core.ErrInvalidPrice) {
				field = "price"
			}
			return fmt.Errorf("expense %d: %w", ei, &core.ValidationError{Field: field, Err: err})
		}
	}
	if _, err := core.TotalMinor(s.Expenses); err != nil {
		return &core.ValidationError{Field: "expenses", Err: err}
	}
	return nil
}

// Participants returns the participant entries in session order.
func (l Ledger) Participants() []Entry {
	out := make([]Entry, 0, len(l.Entries))
	for _, e := range l.Entries {
		if e.Kind == EntryParticipant {
			out = append(out, e)
		}
	}
	return out
}

// Total returns the aggregate entry. The zero Entry is returned for a zero
// Ledger.
func (l Ledger) Total() Entry {
	for i := len(l.Entries) - 1; i >= 0; i-- {
		if l.Entries[i].Kind == EntryTotal {
			return l.Entries[i]
		}
	}
	return Entry{Name: TotalName, Kind: EntryTotal}
}

// Entry looks up a participant entry by exact name.
func (l Ledger) Entry(name string) (Entry, bool) {
	for _, e := range l.Entries {
		if e.Kind == EntryParticipant && e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Remainder is the total cost minus the sum of all participant shares.
// Uneven splits are not reconciled, so this is the float drift left over.
func (l Ledger) Remainder() float64 {
	var sum float64
	for _, e := range l.Participants() {
		sum += e.Owed
	}
	return l.Total().Owed - sum
}
