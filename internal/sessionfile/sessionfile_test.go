package sessionfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"splitbill/internal/core"
)

const sample = `group: Goa trip
people: [Alice, Bob, Cara]
expenses:
  - name: Pizza
    price: 10.00
    qty: 1
    people: ["*"]
  - name: Beer
    price: "5,50"
    qty: 3
    people: [Alice, Cara]
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.GroupName != "Goa trip" || s.PeopleCount() != 3 || len(s.Expenses) != 2 {
		t.Fatalf("unexpected session %+v", s)
	}
	if got := s.Expenses[0].Participants; len(got) != 3 || got[2] != 2 {
		t.Fatalf("everyone selector resolved to %v", got)
	}
	if got := s.Expenses[1].Participants; len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("names resolved to %v", got)
	}
	if core.MinorUnits(s.Expenses[1].UnitPrice) != 550 || s.Expenses[1].Quantity != 3 {
		t.Fatalf("unexpected beer expense %+v", s.Expenses[1])
	}
	if s.ReadOnly {
		t.Fatalf("file sessions are editable")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"no group", "people: [a]\n", core.ErrEmptyGroupName},
		{"no people", "group: g\n", core.ErrInvalidPeopleCount},
		{"duplicate people", "group: g\npeople: [a, a]\n", core.ErrDuplicateName},
		{"unknown person", "group: g\npeople: [a]\nexpenses:\n  - {name: x, price: 1, qty: 1, people: [b]}\n", core.ErrUnknownParticipant},
		{"nobody", "group: g\npeople: [a]\nexpenses:\n  - {name: x, price: 1, qty: 1, people: []}\n", core.ErrNoParticipantsSelected},
		{"picked twice", "group: g\npeople: [a]\nexpenses:\n  - {name: x, price: 1, qty: 1, people: [a, \"*\"]}\n", core.ErrRepeatedParticipant},
		{"bad price", "group: g\npeople: [a]\nexpenses:\n  - {name: x, price: free, qty: 1, people: [a]}\n", core.ErrInvalidPrice},
		{"zero qty", "group: g\npeople: [a]\nexpenses:\n  - {name: x, price: 1, qty: 0, people: [a]}\n", core.ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.doc)); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	for _, doc := range []string{"", "group: [unclosed", "group: g\npeople: [a]\ncolour: red\n"} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("expected error for %q", doc)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trip.yaml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.GroupName != "Goa trip" {
		t.Fatalf("group = %q", s.GroupName)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWriteThenParse(t *testing.T) {
	in, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "group: Goa trip") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}

	out, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse written yaml: %v\n%s", err, buf.String())
	}
	for i := range in.Expenses {
		a, b := in.Expenses[i], out.Expenses[i]
		if a.Name != b.Name || !a.UnitPrice.Equal(b.UnitPrice) || a.Quantity != b.Quantity || len(a.Participants) != len(b.Participants) {
			t.Fatalf("expense %d changed: %+v -> %+v", i, a, b)
		}
	}
}
