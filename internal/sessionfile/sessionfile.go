// Package sessionfile reads and writes sessions as YAML documents, so a
// split can be computed without the interactive wizard:
//
//	group: Goa trip
//	people: [Alice, Bob, Cara]
//	expenses:
//	  - name: Pizza
//	    price: 10.00
//	    qty: 1
//	    people: ["*"]
//	  - name: Beer
//	    price: 5.00
//	    qty: 3
//	    people: [Alice]
//
// Expense people are participant names; "*" selects everyone.
package sessionfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"splitbill/internal/core"
)

// Everyone in an expense's people list selects all participants.
const Everyone = "*"

type (
	File struct {
		Group    string    `yaml:"group"`
		People   []string  `yaml:"people"`
		Expenses []Expense `yaml:"expenses"`
	}

	Expense struct {
		Name   string   `yaml:"name"`
		Price  string   `yaml:"price"`
		Qty    int      `yaml:"qty"`
		People []string `yaml:"people"`
	}
)

// Load reads and validates the session file at path.
func Load(path string) (core.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Session{}, fmt.Errorf("read session file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return core.Session{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML session document. Unknown keys are rejected.
func Parse(data []byte) (core.Session, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Session{}, fmt.Errorf("parse session file: empty document")
		}
		return core.Session{}, fmt.Errorf("parse session file: %w", err)
	}
	return f.Session()
}

// Session converts the document into a validated core.Session.
func (f File) Session() (core.Session, error) {
	s := core.Session{
		GroupName:    core.NormalizeName(f.Group),
		Participants: make([]core.Participant, len(f.People)),
		Expenses:     make([]core.Expense, 0, len(f.Expenses)),
	}
	index := make(map[string]int, len(f.People))
	for i, name := range f.People {
		name = core.NormalizeName(name)
		s.Participants[i] = core.Participant{Name: name}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	if err := core.ValidateParticipants(s.Participants); err != nil {
		return core.Session{}, err
	}

	for i, e := range f.Expenses {
		price, err := core.ParseUnitPrice(e.Price)
		if err != nil {
			return core.Session{}, fmt.Errorf("expense %d: %w", i, &core.ValidationError{Field: "price", Err: err})
		}
		people, err := resolve(e.People, index, len(f.People))
		if err != nil {
			return core.Session{}, fmt.Errorf("expense %d: %w", i, err)
		}
		s.Expenses = append(s.Expenses, core.Expense{
			Name:         core.NormalizeName(e.Name),
			UnitPrice:    price,
			Quantity:     e.Qty,
			Participants: people,
		})
	}

	if err := s.Validate(); err != nil {
		return core.Session{}, err
	}
	return s, nil
}

func resolve(names []string, index map[string]int, n int) ([]int, error) {
	out := make([]int, 0, len(names))
	for _, name := range names {
		if name == Everyone {
			for i := 0; i < n; i++ {
				out = append(out, i)
			}
			continue
		}
		i, ok := index[core.NormalizeName(name)]
		if !ok {
			return nil, &core.ValidationError{Field: "people", Err: fmt.Errorf("%w: %q", core.ErrUnknownParticipant, name)}
		}
		out = append(out, i)
	}
	return out, nil
}

// FromSession builds the document form of a session.
func FromSession(s core.Session) File {
	f := File{
		Group:    s.GroupName,
		People:   s.Names(),
		Expenses: make([]Expense, len(s.Expenses)),
	}
	for i, e := range s.Expenses {
		people := make([]string, 0, len(e.Participants))
		for _, idx := range e.Participants {
			if idx >= 0 && idx < len(s.Participants) {
				people = append(people, s.Participants[idx].Name)
			}
		}
		f.Expenses[i] = Expense{
			Name:   e.Name,
			Price:  e.UnitPrice.String(),
			Qty:    e.Quantity,
			People: people,
		}
	}
	return f
}

// Write encodes a session as YAML.
func Write(w io.Writer, s core.Session) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromSession(s)); err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	return enc.Close()
}
