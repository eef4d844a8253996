package wizard

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"splitbill/internal/core"
	"splitbill/internal/log"
	"splitbill/internal/share"
	"splitbill/internal/split"
)

func ready(t *testing.T, names ...string) *Wizard {
	t.Helper()
	w := New()
	if err := w.SetGroupName("Goa trip"); err != nil {
		t.Fatalf("SetGroupName: %v", err)
	}
	if err := w.SetPeopleCount(len(names)); err != nil {
		t.Fatalf("SetPeopleCount: %v", err)
	}
	if err := w.SetPeopleNames(names); err != nil {
		t.Fatalf("SetPeopleNames: %v", err)
	}
	return w
}

func TestWizardHappyPath(t *testing.T) {
	w := ready(t, "Alice", "Bob")
	if w.Step() != StepExpenses {
		t.Fatalf("step = %s, want expenses", w.Step())
	}

	if _, err := w.AddExpense(ExpenseInput{Name: "Pizza", Price: "10.00", Qty: "1", People: []int{0, 1}}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	l, err := w.Calculate()
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if w.Step() != StepResult {
		t.Fatalf("step = %s, want result", w.Step())
	}
	alice, _ := l.Entry("Alice")
	if alice.Owed != 500 || l.Total().Owed != 1000 {
		t.Fatalf("unexpected ledger %+v", l)
	}
	if got, ok := w.Ledger(); !ok || got.Total().Owed != 1000 {
		t.Fatalf("Ledger() = %+v, %v", got, ok)
	}
}

func TestWizardGroupNameValidation(t *testing.T) {
	w := New()
	err := w.SetGroupName("   ")
	if !errors.Is(err, core.ErrEmptyGroupName) || !core.IsValidation(err) {
		t.Fatalf("expected empty group name validation error, got %v", err)
	}
	if w.Step() != StepGroupName {
		t.Fatalf("step advanced on error")
	}
}

func TestWizardPeopleCount(t *testing.T) {
	w := New(WithMaxParticipants(5))
	if err := w.SetPeopleCount(2); !errors.Is(err, ErrStepOrder) {
		t.Fatalf("expected ErrStepOrder before group name, got %v", err)
	}
	_ = w.SetGroupName("g")

	for _, in := range []string{"0", "-1", "abc", "6", ""} {
		if err := w.ParsePeopleCount(in); !errors.Is(err, core.ErrInvalidPeopleCount) {
			t.Fatalf("ParsePeopleCount(%q) = %v, want ErrInvalidPeopleCount", in, err)
		}
	}
	if err := w.ParsePeopleCount(" 3 "); err != nil {
		t.Fatalf("ParsePeopleCount: %v", err)
	}
	if w.PeopleCount() != 3 || w.Step() != StepPeopleNames {
		t.Fatalf("count=%d step=%s", w.PeopleCount(), w.Step())
	}
}

func TestWizardPeopleNames(t *testing.T) {
	cases := []struct {
		name  string
		names []string
		want  error
	}{
		{"blank", []string{"Alice", " "}, core.ErrEmptyName},
		{"duplicate", []string{"Alice", "Alice"}, core.ErrDuplicateName},
		{"duplicate after trim", []string{"Alice", " Alice "}, core.ErrDuplicateName},
		{"wrong count", []string{"Alice"}, core.ErrInvalidPeopleCount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := New()
			_ = w.SetGroupName("g")
			_ = w.SetPeopleCount(2)
			if err := w.SetPeopleNames(tc.names); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if w.Step() != StepPeopleNames {
				t.Fatalf("step advanced on error")
			}
		})
	}
}

func TestWizardAddExpenseValidation(t *testing.T) {
	cases := []struct {
		name string
		in   ExpenseInput
		want error
	}{
		{"no name", ExpenseInput{Price: "1", Qty: "1", People: []int{0}}, core.ErrEmptyItemName},
		{"bad price", ExpenseInput{Name: "x", Price: "abc", Qty: "1", People: []int{0}}, core.ErrInvalidPrice},
		{"zero price", ExpenseInput{Name: "x", Price: "0", Qty: "1", People: []int{0}}, core.ErrInvalidPrice},
		{"negative price", ExpenseInput{Name: "x", Price: "-5", Qty: "1", People: []int{0}}, core.ErrInvalidPrice},
		{"zero qty", ExpenseInput{Name: "x", Price: "1", Qty: "0", People: []int{0}}, core.ErrInvalidQuantity},
		{"nobody", ExpenseInput{Name: "x", Price: "1", Qty: "1"}, core.ErrNoParticipantsSelected},
		{"unknown person", ExpenseInput{Name: "x", Price: "1", Qty: "1", People: []int{5}}, core.ErrUnknownParticipant},
		{"price beyond range", ExpenseInput{Name: "x", Price: "184467440737095517.16", Qty: "1", People: []int{0}}, core.ErrInvalidPrice},
		{"qty beyond range", ExpenseInput{Name: "x", Price: "1", Qty: "9223372036854775807", People: []int{0}}, core.ErrInvalidQuantity},
		{"line total beyond range", ExpenseInput{Name: "x", Price: "100", Qty: "9007199254740992", People: []int{0}}, core.ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ready(t, "Alice", "Bob")
			if _, err := w.AddExpense(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(w.Expenses()) != 0 {
				t.Fatalf("invalid expense was recorded")
			}
		})
	}
}

func TestWizardAddExpenseBoundsSessionTotal(t *testing.T) {
	w := ready(t, "Alice")
	big := ExpenseInput{Name: "Yacht", Price: "90071992547409", Qty: "1", People: []int{0}}
	if _, err := w.AddExpense(big); err != nil {
		t.Fatalf("first line: %v", err)
	}
	if _, err := w.AddExpense(big); !errors.Is(err, core.ErrAmountTooLarge) || !core.IsValidation(err) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
	if len(w.Expenses()) != 1 {
		t.Fatalf("rejected expense was recorded")
	}
}

func TestWizardCalculateRequiresExpenses(t *testing.T) {
	w := ready(t, "Alice")
	_, err := w.Calculate()
	if !errors.Is(err, core.ErrNoExpenses) {
		t.Fatalf("expected ErrNoExpenses, got %v", err)
	}
	if w.Step() != StepExpenses {
		t.Fatalf("step = %s", w.Step())
	}
}

func TestWizardChangingCountResetsPeople(t *testing.T) {
	w := ready(t, "Alice", "Bob")
	_, _ = w.AddExpense(ExpenseInput{Name: "x", Price: "1", Qty: "1", People: []int{1}})
	if err := w.SetPeopleCount(3); err != nil {
		t.Fatalf("SetPeopleCount: %v", err)
	}
	s := w.Snapshot()
	if len(s.Participants) != 0 || len(s.Expenses) != 0 {
		t.Fatalf("expected participants and expenses cleared, got %+v", s)
	}
}

func TestWizardSnapshotIsolation(t *testing.T) {
	w := ready(t, "Alice", "Bob")
	_, _ = w.AddExpense(ExpenseInput{Name: "x", Price: "1", Qty: "1", People: []int{0}})

	s := w.Snapshot()
	s.Participants[0].Name = "Mallory"
	s.Expenses[0].Participants[0] = 1

	again := w.Snapshot()
	if again.Participants[0].Name != "Alice" || again.Expenses[0].Participants[0] != 0 {
		t.Fatalf("snapshot shares state with the wizard")
	}
}

func TestWizardShareAndOpen(t *testing.T) {
	w := ready(t, "Zoë", "Bob")
	_, _ = w.AddExpense(ExpenseInput{Name: "Chai", Price: "12,50", Qty: "2", People: []int{0, 1}})

	link, err := w.ShareURL("https://splitbill.app/")
	if err != nil {
		t.Fatalf("ShareURL: %v", err)
	}
	if !strings.HasPrefix(link, "https://splitbill.app/?"+share.QueryParam+"=") {
		t.Fatalf("unexpected link %q", link)
	}

	r := New()
	if !r.Open(link) {
		t.Fatalf("Open failed for %q", link)
	}
	if !r.ReadOnly() || r.Step() != StepResult {
		t.Fatalf("opened wizard not read-only at result: ro=%v step=%s", r.ReadOnly(), r.Step())
	}
	l, ok := r.Ledger()
	if !ok || l.Total().Owed != 2500 {
		t.Fatalf("ledger = %+v, ok=%v", l, ok)
	}

	if err := r.SetGroupName("other"); !errors.Is(err, core.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if _, err := r.AddExpense(ExpenseInput{Name: "x", Price: "1", Qty: "1", People: []int{0}}); !errors.Is(err, core.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestWizardOpenFallsBackToFreshFlow(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Output: &buf})

	w := New(WithLogger(logger))
	_ = w.SetGroupName("half done")

	if w.Open("https://splitbill.app/?data=not-a-valid-token!!") {
		t.Fatalf("Open should fail for a malformed token")
	}
	if w.Step() != StepGroupName || w.ReadOnly() || w.Snapshot().GroupName != "" {
		t.Fatalf("wizard not reset: step=%s session=%+v", w.Step(), w.Snapshot())
	}
	for _, want := range []string{"decode_stage=base64", "component=share", "operation=decode", "error_type=decode_error"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in log, got %q", want, buf.String())
		}
	}

	if w.Open("https://splitbill.app/") {
		t.Fatalf("Open should report no shared state")
	}
}

func TestWizardAddAfterResultReturnsToExpenses(t *testing.T) {
	w := ready(t, "Alice")
	_, _ = w.AddExpense(ExpenseInput{Name: "a", Price: "1", Qty: "1", People: []int{0}})
	if _, err := w.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	_, _ = w.AddExpense(ExpenseInput{Name: "b", Price: "2", Qty: "1", People: []int{0}})
	if w.Step() != StepExpenses {
		t.Fatalf("step = %s, want expenses", w.Step())
	}
	if _, ok := w.Ledger(); ok {
		t.Fatalf("stale ledger reported after new expense")
	}
}

func TestWizardOpenEnforcesPeopleLimit(t *testing.T) {
	src := ready(t, "Alice", "Bob", "Carol")
	if _, err := src.AddExpense(ExpenseInput{Name: "Tea", Price: "3", Qty: "1", People: []int{0, 1, 2}}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	tok, err := src.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	var buf bytes.Buffer
	w := New(WithMaxParticipants(2), WithLogger(log.New(log.Config{Level: slog.LevelWarn, Output: &buf})))
	if w.Open(tok) {
		t.Fatalf("Open accepted a session above the people limit")
	}
	if w.Step() != StepGroupName || w.ReadOnly() {
		t.Fatalf("wizard not reset: step=%s", w.Step())
	}
	if !strings.Contains(buf.String(), "error_type=validation_error") {
		t.Fatalf("unexpected log %q", buf.String())
	}

	if !New(WithMaxParticipants(3)).Open(tok) {
		t.Fatalf("Open rejected a session at the people limit")
	}
}

func TestErrorType(t *testing.T) {
	_, decodeErr := share.Decode("not-a-valid-token!!")
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &core.ValidationError{Field: "qty", Err: core.ErrInvalidQuantity}, log.ErrorTypeValidation},
		{"step order", ErrStepOrder, log.ErrorTypeValidation},
		{"read only", core.ErrReadOnly, log.ErrorTypeValidation},
		{"reference", &split.InvalidReferenceError{Index: 3, Participants: 1}, log.ErrorTypeReference},
		{"decode", decodeErr, log.ErrorTypeDecode},
		{"other", errors.New("boom"), log.ErrorTypeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorType(tc.err); got != tc.want {
				t.Fatalf("ErrorType = %q, want %q", got, tc.want)
			}
		})
	}
}
