package ui

import (
	"errors"

	"splitbill/internal/core"
	"splitbill/internal/wizard"
)

var notices = []struct {
	err error
	msg string
}{
	{core.ErrEmptyGroupName, "Please enter a group name."},
	{core.ErrInvalidPeopleCount, "Please enter a valid number of people."},
	{core.ErrEmptyName, "Please enter all names."},
	{core.ErrDuplicateName, "Duplicate names are not allowed."},
	{core.ErrNameTooLong, "That name is too long."},
	{core.ErrEmptyItemName, "Please enter an item name."},
	{core.ErrInvalidPrice, "Please enter a valid price."},
	{core.ErrInvalidQuantity, "Please enter a valid quantity."},
	{core.ErrNoParticipantsSelected, "Please select at least one person."},
	{core.ErrUnknownParticipant, "Please pick people from the list."},
	{core.ErrRepeatedParticipant, "Each person can only be picked once."},
	{core.ErrNoExpenses, "Please add at least one expense."},
	{core.ErrAmountTooLarge, "The total is too large to split."},
	{core.ErrReadOnly, "This shared split is read-only."},
	{wizard.ErrStepOrder, "Finish the previous step first."},
}

// Describe turns an error into the short notice shown to the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	for _, n := range notices {
		if errors.Is(err, n.err) {
			return n.msg
		}
	}
	return err.Error()
}
