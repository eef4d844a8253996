// Package share encodes a session into a URL-safe token and back.
//
// Token pipeline: JSON payload -> percent-escaping -> base64 (URL alphabet,
// unpadded). Decoding also accepts the standard alphabet, padding, and
// '+' characters that a query decoder turned into spaces.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"splitbill/internal/core"
)

// QueryParam is the query-string parameter that carries the token.
const QueryParam = "data"

// Decode stages, reported by DecodeError.
const (
	StageToken   = "token"
	StageBase64  = "base64"
	StageEscape  = "escape"
	StagePayload = "payload"
	StageSession = "session"
)

var (
	ErrEmptyToken    = errors.New("empty share token")
	ErrNoSharedState = errors.New("no shared state present")
)

// DecodeError reports a malformed or tampered token and the stage that
// rejected it.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode share token (%s): %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type (
	payload struct {
		GroupName string           `json:"groupName"`
		People    []string         `json:"people"`
		Expenses  []expensePayload `json:"expenses"`
	}

	expensePayload struct {
		Name   string      `json:"name"`
		Price  json.Number `json:"price"`
		Qty    int         `json:"qty"`
		People []int       `json:"people"`
	}
)

// Encode serializes the shareable part of a session. ReadOnly is not
// carried; the receiving side always opens a token read-only.
func Encode(s core.Session) (string, error) {
	p := payload{
		GroupName: s.GroupName,
		People:    s.Names(),
		Expenses:  make([]expensePayload, 0, len(s.Expenses)),
	}
	for _, e := range s.Expenses {
		people := e.Participants
		if people == nil {
			people = []int{}
		}
		p.Expenses = append(p.Expenses, expensePayload{
			Name:   e.Name,
			Price:  json.Number(e.UnitPrice.String()),
			Qty:    e.Quantity,
			People: people,
		})
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal share payload: %w", err)
	}
	escaped := url.PathEscape(string(raw))
	return base64.RawURLEncoding.EncodeToString([]byte(escaped)), nil
}

// Decode reverses Encode. Every failure is a *DecodeError. The returned
// session is ReadOnly and satisfies Session.Validate.
func Decode(token string) (core.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return core.Session{}, &DecodeError{Stage: StageToken, Err: ErrEmptyToken}
	}

	bin, err := decodeBase64(token)
	if err != nil {
		return core.Session{}, &DecodeError{Stage: StageBase64, Err: err}
	}

	text, err := url.PathUnescape(string(bin))
	if err != nil {
		return core.Session{}, &DecodeError{Stage: StageEscape, Err: err}
	}

	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return core.Session{}, &DecodeError{Stage: StagePayload, Err: err}
	}

	s, err := p.session()
	if err != nil {
		return core.Session{}, &DecodeError{Stage: StageSession, Err: err}
	}
	return s, nil
}

func decodeBase64(token string) ([]byte, error) {
	// Query decoding turns '+' into ' '.
	token = strings.ReplaceAll(token, " ", "+")
	token = strings.TrimRight(token, "=")
	token = strings.NewReplacer("-", "+", "_", "/").Replace(token)
	return base64.RawStdEncoding.DecodeString(token)
}

func (p payload) session() (core.Session, error) {
	s := core.Session{
		GroupName:    p.GroupName,
		Participants: make([]core.Participant, len(p.People)),
		Expenses:     make([]core.Expense, len(p.Expenses)),
		ReadOnly:     true,
	}
	for i, name := range p.People {
		s.Participants[i] = core.Participant{Name: name}
	}
	for i, e := range p.Expenses {
		price, err := decimal.NewFromString(e.Price.String())
		if err != nil {
			return core.Session{}, fmt.Errorf("expense %d: %w", i, core.ErrInvalidPrice)
		}
		s.Expenses[i] = core.Expense{
			Name:         e.Name,
			UnitPrice:    price,
			Quantity:     e.Qty,
			Participants: append([]int(nil), e.People...),
		}
	}
	if err := s.Validate(); err != nil {
		return core.Session{}, err
	}
	return s, nil
}

// URL embeds token into base as the data query parameter, keeping the
// origin, path and any other query parameters of base.
func URL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse share base URL: %w", err)
	}
	q := u.Query()
	q.Set(QueryParam, token)
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// TokenFromURL extracts the token from a share URL. Input that does not look
// like a URL is returned as a bare token.
func TokenFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "?") && !strings.Contains(raw, "://") {
		if raw == "" {
			return "", ErrNoSharedState
		}
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse share URL: %w", err)
	}
	tok := u.Query().Get(QueryParam)
	if tok == "" {
		return "", ErrNoSharedState
	}
	return tok, nil
}

// Restore turns a share URL or bare token into a read-only session.
// Any failure means no shared state is present and ok is false.
func Restore(raw string) (s core.Session, ok bool) {
	tok, err := TokenFromURL(raw)
	if err != nil {
		return core.Session{}, false
	}
	s, err = Decode(tok)
	if err != nil {
		return core.Session{}, false
	}
	return s, true
}
