package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"splitbill/internal/core"
	"splitbill/internal/split"
)

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	nameStyle   = lipgloss.NewStyle().Bold(true)
	totalStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	amountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	linkStyle   = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))
)

// Renderer formats sessions and ledgers. Plain output carries no escape
// sequences and is used for pipes and tests.
type Renderer struct {
	Symbol string
	Styled bool
}

func (r Renderer) style(s lipgloss.Style, text string) string {
	if !r.Styled {
		return text
	}
	return s.Render(text)
}

// Amount formats minor units as symbol + major units with two decimals.
func (r Renderer) Amount(minor float64) string {
	return core.FormatMinor(r.Symbol, minor)
}

// ExpenseLine renders one recorded expense, e.g.
// "Pizza — ₹10 × 1 (Alice, Bob)".
func (r Renderer) ExpenseLine(e core.Expense, names []string) string {
	who := make([]string, 0, len(e.Participants))
	for _, i := range e.Participants {
		if i >= 0 && i < len(names) {
			who = append(who, names[i])
		}
	}
	return fmt.Sprintf("%s — %s%s × %d (%s)",
		e.Name, r.Symbol, e.UnitPrice.String(), e.Quantity, strings.Join(who, ", "))
}

// Expenses renders the numbered expense list of a session.
func (r Renderer) Expenses(w io.Writer, s core.Session) {
	names := s.Names()
	for i, e := range s.Expenses {
		fmt.Fprintf(w, "%3d. %s\n", i+1, r.ExpenseLine(e, names))
	}
}

// Ledger renders a header line per entry followed by its item breakdown.
func (r Renderer) Ledger(w io.Writer, groupName string, l split.Ledger) {
	width := 0
	for _, e := range l.Entries {
		if n := len([]rune(e.Name)); n > width {
			width = n
		}
	}

	if groupName != "" {
		fmt.Fprintln(w, r.style(titleStyle, groupName))
	}
	for _, e := range l.Entries {
		label := fmt.Sprintf("%-*s", width, e.Name)
		if e.Kind == split.EntryTotal {
			label = r.style(totalStyle, label)
		} else {
			label = r.style(nameStyle, label)
		}
		fmt.Fprintf(w, "%s  %s\n", label, r.style(amountStyle, r.Amount(e.Owed)))
		for _, it := range e.Items {
			fmt.Fprintf(w, "    %s\n", r.style(dimStyle, fmt.Sprintf("%s — %s", it.Item, r.Amount(it.Amount))))
		}
	}
}

// Link renders a share link line.
func (r Renderer) Link(w io.Writer, url string) {
	fmt.Fprintf(w, "Share link: %s\n", r.style(linkStyle, url))
}
