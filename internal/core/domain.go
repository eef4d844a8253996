package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// MaxNameLength bounds group, participant and item names.
const MaxNameLength = 200

type (
	Participant struct {
		Name string
	}

	Expense struct {
		Name         string
		UnitPrice    decimal.Decimal
		Quantity     int
		Participants []int // Zero-based participant indices
	}

	// Session is the complete state of one splitting flow.
	Session struct {
		GroupName    string
		Participants []Participant
		Expenses     []Expense
		ReadOnly     bool // Reconstructed from a share token
	}
)

var (
	ErrEmptyGroupName         = errors.New("empty group name")
	ErrInvalidPeopleCount     = errors.New("invalid number of people")
	ErrEmptyName              = errors.New("empty participant name")
	ErrDuplicateName          = errors.New("duplicate participant name")
	ErrNameTooLong            = fmt.Errorf("name too long (max %d characters)", MaxNameLength)
	ErrEmptyItemName          = errors.New("empty item name")
	ErrInvalidPrice           = errors.New("invalid price")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrNoParticipantsSelected = errors.New("no participants selected")
	ErrUnknownParticipant     = errors.New("unknown participant")
	ErrRepeatedParticipant    = errors.New("participant selected more than once")
	ErrNoExpenses             = errors.New("no expenses recorded")
	ErrAmountTooLarge         = errors.New("total amount too large")
	ErrReadOnly               = errors.New("session is read-only")
)

// ValidationError reports which input field failed and why.
// It unwraps to one of the sentinel errors above.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NormalizeName trims surrounding whitespace and applies Unicode NFC so that
// visually identical names compare equal.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// PeopleCount returns the number of participants in the session.
func (s Session) PeopleCount() int {
	return len(s.Participants)
}

// Names returns participant names in session order.
func (s Session) Names() []string {
	names := make([]string, len(s.Participants))
	for i, p := range s.Participants {
		names[i] = p.Name
	}
	return names
}

// Clone returns a deep copy so callers can hand out snapshots.
func (s Session) Clone() Session {
	out := Session{
		GroupName: s.GroupName,
		ReadOnly:  s.ReadOnly,
	}
	if s.Participants != nil {
		out.Participants = append([]Participant(nil), s.Participants...)
	}
	if s.Expenses != nil {
		out.Expenses = make([]Expense, len(s.Expenses))
		for i, e := range s.Expenses {
			e.Participants = append([]int(nil), e.Participants...)
			out.Expenses[i] = e
		}
	}
	return out
}

func validateName(field, name string, empty error) error {
	if strings.TrimSpace(name) == "" {
		return invalid(field, empty)
	}
	if len([]rune(name)) > MaxNameLength {
		return invalid(field, ErrNameTooLong)
	}
	return nil
}

// ValidateParticipants checks that names are non-blank and unique.
func ValidateParticipants(ps []Participant) error {
	if len(ps) == 0 {
		return invalid("people", ErrInvalidPeopleCount)
	}
	seen := make(map[string]struct{}, len(ps))
	for i, p := range ps {
		field := fmt.Sprintf("people[%d]", i)
		if err := validateName(field, p.Name, ErrEmptyName); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return invalid(field, ErrDuplicateName)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Validate checks the expense invariants against a session with
// participantCount participants.
func (e Expense) Validate(participantCount int) error {
	if err := validateName("name", e.Name, ErrEmptyItemName); err != nil {
		return err
	}
	if err := CheckLineTotal(e.UnitPrice, e.Quantity); err != nil {
		if errors.Is(err, ErrInvalidPrice) {
			return invalid("price", err)
		}
		return invalid("qty", err)
	}
	if len(e.Participants) == 0 {
		return invalid("people", ErrNoParticipantsSelected)
	}
	seen := make(map[int]struct{}, len(e.Participants))
	for _, idx := range e.Participants {
		if idx < 0 || idx >= participantCount {
			return invalid("people", fmt.Errorf("%w: index %d", ErrUnknownParticipant, idx))
		}
		if _, dup := seen[idx]; dup {
			return invalid("people", fmt.Errorf("%w: index %d", ErrRepeatedParticipant, idx))
		}
		seen[idx] = struct{}{}
	}
	return nil
}

// Validate checks every Session invariant. An empty expense list is valid;
// computing a split requires at least one expense and is checked by callers.
func (s Session) Validate() error {
	if err := validateName("groupName", s.GroupName, ErrEmptyGroupName); err != nil {
		return err
	}
	if err := ValidateParticipants(s.Participants); err != nil {
		return err
	}
	for i, e := range s.Expenses {
		if err := e.Validate(len(s.Participants)); err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
	}
	if _, err := TotalMinor(s.Expenses); err != nil {
		return invalid("expenses", err)
	}
	return nil
}
