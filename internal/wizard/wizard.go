// Package wizard walks a user through building a session one step at a time.
//
// The Wizard owns the only mutable session. Everything it hands out is a deep
// copy, and split computation and share encoding only ever see snapshots.
package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"splitbill/internal/core"
	"splitbill/internal/log"
	"splitbill/internal/share"
	"splitbill/internal/split"
)

// DefaultMaxParticipants bounds SetPeopleCount when no limit is configured.
const DefaultMaxParticipants = 50

type Step int

const (
	StepGroupName Step = iota
	StepPeopleCount
	StepPeopleNames
	StepExpenses
	StepResult
)

var stepNames = [...]string{"group_name", "people_count", "people_names", "expenses", "result"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// ErrStepOrder is returned when a step is attempted before its prerequisites.
var ErrStepOrder = errors.New("step not available yet")

// ExpenseInput is the raw form of an expense as typed by the user.
type ExpenseInput struct {
	Name   string
	Price  string
	Qty    string
	People []int
}

type Wizard struct {
	step      Step
	session   core.Session
	count     int
	maxPeople int
	ledger    split.Ledger
	logger    *log.Logger
}

type Option func(*Wizard)

// WithLogger sets the logger used for step transitions.
func WithLogger(l *log.Logger) Option {
	return func(w *Wizard) {
		if l != nil {
			w.logger = l.WithComponent(log.ComponentWizard)
		}
	}
}

// WithMaxParticipants caps the number of people a session may have.
func WithMaxParticipants(n int) Option {
	return func(w *Wizard) {
		if n > 0 {
			w.maxPeople = n
		}
	}
}

// New returns a wizard positioned at the group name step.
func New(opts ...Option) *Wizard {
	w := &Wizard{
		maxPeople: DefaultMaxParticipants,
		logger:    log.Discard(),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

func (w *Wizard) Step() Step     { return w.step }
func (w *Wizard) ReadOnly() bool { return w.session.ReadOnly }

// MaxParticipants returns the configured people limit.
func (w *Wizard) MaxParticipants() int { return w.maxPeople }

// PeopleCount is the count chosen at the people count step.
func (w *Wizard) PeopleCount() int { return w.count }

// Snapshot returns a deep copy of the current session.
func (w *Wizard) Snapshot() core.Session { return w.session.Clone() }

// Reset discards all state and returns to the first step.
func (w *Wizard) Reset() {
	w.session = core.Session{}
	w.count = 0
	w.ledger = split.Ledger{}
	w.moveTo(StepGroupName)
}

func (w *Wizard) moveTo(s Step) {
	if w.step != s {
		w.logger.Debug("wizard step changed", "from", w.step.String(), log.FieldStep, s.String())
	}
	w.step = s
}

func (w *Wizard) editable(need Step) error {
	if w.session.ReadOnly {
		return &core.ValidationError{Err: core.ErrReadOnly}
	}
	if w.step < need {
		return fmt.Errorf("%w: at %s, need %s", ErrStepOrder, w.step, need)
	}
	return nil
}

// SetGroupName validates and stores the group name.
func (w *Wizard) SetGroupName(name string) error {
	if err := w.editable(StepGroupName); err != nil {
		return err
	}
	name = core.NormalizeName(name)
	if name == "" {
		return &core.ValidationError{Field: "groupName", Err: core.ErrEmptyGroupName}
	}
	if len([]rune(name)) > core.MaxNameLength {
		return &core.ValidationError{Field: "groupName", Err: core.ErrNameTooLong}
	}
	w.session.GroupName = name
	if w.step == StepGroupName {
		w.moveTo(StepPeopleCount)
	}
	return nil
}

// SetPeopleCount chooses how many participants the session has. Changing the
// count discards names and expenses already entered.
func (w *Wizard) SetPeopleCount(n int) error {
	if err := w.editable(StepPeopleCount); err != nil {
		return err
	}
	if n < 1 || n > w.maxPeople {
		return &core.ValidationError{
			Field: "people",
			Err:   fmt.Errorf("%w: must be between 1 and %d", core.ErrInvalidPeopleCount, w.maxPeople),
		}
	}
	if n != w.count {
		w.session.Participants = nil
		w.session.Expenses = nil
		w.ledger = split.Ledger{}
	}
	w.count = n
	w.moveTo(StepPeopleNames)
	return nil
}

// ParsePeopleCount is SetPeopleCount for raw user input.
func (w *Wizard) ParsePeopleCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return &core.ValidationError{Field: "people", Err: core.ErrInvalidPeopleCount}
	}
	return w.SetPeopleCount(n)
}

// SetPeopleNames stores one name per participant. Renaming keeps expenses,
// since they reference participants by position.
func (w *Wizard) SetPeopleNames(names []string) error {
	if err := w.editable(StepPeopleNames); err != nil {
		return err
	}
	if len(names) != w.count {
		return &core.ValidationError{
			Field: "people",
			Err:   fmt.Errorf("%w: got %d names for %d people", core.ErrInvalidPeopleCount, len(names), w.count),
		}
	}
	ps := make([]core.Participant, len(names))
	for i, n := range names {
		ps[i] = core.Participant{Name: core.NormalizeName(n)}
	}
	if err := core.ValidateParticipants(ps); err != nil {
		return err
	}
	w.session.Participants = ps
	w.logger.Debug("participants set", log.FieldPeople, len(ps))
	if w.step < StepExpenses {
		w.moveTo(StepExpenses)
	}
	return nil
}

// AddExpense parses, validates and appends an expense. Nothing is appended
// when validation fails.
func (w *Wizard) AddExpense(in ExpenseInput) (core.Expense, error) {
	if err := w.editable(StepExpenses); err != nil {
		return core.Expense{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return core.Expense{}, &core.ValidationError{Field: "name", Err: core.ErrEmptyItemName}
	}
	price, err := core.ParseUnitPrice(in.Price)
	if err != nil {
		return core.Expense{}, &core.ValidationError{Field: "price", Err: err}
	}
	qty, err := core.ParseQuantity(in.Qty)
	if err != nil {
		return core.Expense{}, &core.ValidationError{Field: "qty", Err: err}
	}
	e := core.Expense{
		Name:         name,
		UnitPrice:    price,
		Quantity:     qty,
		Participants: append([]int(nil), in.People...),
	}
	if err := e.Validate(len(w.session.Participants)); err != nil {
		return core.Expense{}, err
	}
	if _, err := core.TotalMinor(append(w.session.Clone().Expenses, e)); err != nil {
		return core.Expense{}, &core.ValidationError{Field: "expenses", Err: err}
	}

	w.session.Expenses = append(w.session.Expenses, e)
	w.logger.Debug("expense added",
		log.NewFields().
			WithOperation(log.OpAddItem).
			WithExpense(e.Name, core.LineTotal(e.UnitPrice, e.Quantity), len(e.Participants)).
			ToSlice()...)
	if w.step == StepResult {
		w.moveTo(StepExpenses)
	}
	return e, nil
}

// Expenses returns a copy of the expenses entered so far.
func (w *Wizard) Expenses() []core.Expense {
	return w.session.Clone().Expenses
}

// Calculate computes the ledger for the current session. At least one
// expense is required.
func (w *Wizard) Calculate() (split.Ledger, error) {
	if w.step < StepExpenses {
		return split.Ledger{}, fmt.Errorf("%w: at %s, need %s", ErrStepOrder, w.step, StepExpenses)
	}
	if len(w.session.Expenses) == 0 {
		return split.Ledger{}, &core.ValidationError{Field: "expenses", Err: core.ErrNoExpenses}
	}
	ledger, err := split.Compute(w.Snapshot())
	if err != nil {
		w.logger.WithComponent(log.ComponentSplit).Error("split computation failed",
			log.NewFields().
				WithOperation(log.OpCalculate).
				WithErrorType(ErrorType(err)).
				WithError(err).
				ToSlice()...)
		return split.Ledger{}, err
	}
	w.ledger = ledger
	w.logger.Debug("split computed",
		log.NewFields().
			WithOperation(log.OpCalculate).
			WithSession(w.session.GroupName, len(w.session.Participants), len(w.session.Expenses)).
			ToSlice()...)
	w.moveTo(StepResult)
	return ledger, nil
}

// Ledger returns the last computed ledger, if any.
func (w *Wizard) Ledger() (split.Ledger, bool) {
	return w.ledger, w.step == StepResult && len(w.ledger.Entries) > 0
}

// Token encodes the current session as a share token.
func (w *Wizard) Token() (string, error) {
	if w.step < StepExpenses {
		return "", fmt.Errorf("%w: at %s, need %s", ErrStepOrder, w.step, StepExpenses)
	}
	tok, err := share.Encode(w.Snapshot())
	if err != nil {
		return "", err
	}
	w.logger.Debug("session encoded", log.FieldOperation, log.OpEncode, log.FieldTokenLength, len(tok))
	return tok, nil
}

// ShareURL builds a share link for the current session under base.
func (w *Wizard) ShareURL(base string) (string, error) {
	tok, err := w.Token()
	if err != nil {
		return "", err
	}
	return share.URL(base, tok)
}

// Open replaces the wizard state with a shared session taken from a URL or
// token. On any decode failure the wizard is reset to a fresh flow and false
// is returned.
func (w *Wizard) Open(raw string) bool {
	tok, err := share.TokenFromURL(raw)
	if err == nil {
		var s core.Session
		s, err = share.Decode(tok)
		if err == nil {
			return w.load(s)
		}
	}

	if errors.Is(err, share.ErrNoSharedState) {
		w.logger.Debug("no shared state present", log.FieldOperation, log.OpRestore)
		w.Reset()
		return false
	}
	attrs := log.NewFields().
		WithOperation(log.OpDecode).
		WithErrorType(log.ErrorTypeDecode).
		WithError(err)
	var de *share.DecodeError
	if errors.As(err, &de) {
		attrs[log.FieldDecodeStage] = de.Stage
	}
	w.logger.WithComponent(log.ComponentShare).Warn("ignoring malformed share token", attrs.ToSlice()...)
	w.Reset()
	return false
}

// ErrorType maps a wizard failure onto a log error category.
func ErrorType(err error) string {
	var (
		ref *split.InvalidReferenceError
		de  *share.DecodeError
	)
	switch {
	case errors.As(err, &ref):
		return log.ErrorTypeReference
	case errors.As(err, &de):
		return log.ErrorTypeDecode
	case core.IsValidation(err), errors.Is(err, ErrStepOrder), errors.Is(err, core.ErrReadOnly):
		return log.ErrorTypeValidation
	default:
		return log.ErrorTypeInternal
	}
}

func (w *Wizard) load(s core.Session) bool {
	s.ReadOnly = true
	if len(s.Participants) > w.maxPeople {
		w.logger.Warn("shared session exceeds people limit",
			log.NewFields().
				WithOperation(log.OpValidate).
				WithErrorType(log.ErrorTypeValidation).
				WithSession(s.GroupName, len(s.Participants), len(s.Expenses)).
				ToSlice()...)
		w.Reset()
		return false
	}
	ledger, err := split.Compute(s)
	if err != nil {
		w.logger.WithComponent(log.ComponentSplit).Warn("shared session cannot be computed",
			log.NewFields().
				WithOperation(log.OpRestore).
				WithErrorType(ErrorType(err)).
				WithError(err).
				ToSlice()...)
		w.Reset()
		return false
	}
	w.session = s
	w.count = len(s.Participants)
	w.ledger = ledger
	w.moveTo(StepResult)
	w.logger.Debug("shared session opened", log.FieldReadOnly, true, log.FieldPeople, w.count)
	return true
}
