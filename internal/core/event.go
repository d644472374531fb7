package core

import (
	"errors"
	"strings"
)

type (
	// Event is a single dated financial transaction in an account's ledger.
	Event struct {
		ID       string `json:"id"`
		Amount   Money  `json:"amount"`
		Category string `json:"category"`
		Date     string `json:"date"` // YYYY-MM-DD, no timezone
		Memo     string `json:"memo"`
	}

	// EventFields carries the caller-supplied portion of an event. The
	// ledger assigns the ID on Add and preserves it on Edit.
	EventFields struct {
		Amount   Money
		Category string
		Date     string
		Memo     string
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyDate          = errors.New("empty date")
	ErrMemoTooLong        = errors.New("memo too long (max 500 characters)")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// SuggestedCategories is the client-facing default category set. It is a
// suggestion only; events may carry any category string.
var SuggestedCategories = []string{
	"Food",
	"Rent",
	"Phone",
	"Transportation",
	"Education",
	"Entertainment",
}

func (f EventFields) Validate() error {
	if f.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(f.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(f.Date) == "" {
		return ErrEmptyDate
	}
	if len(f.Memo) > 500 {
		return ErrMemoTooLong
	}
	return nil
}

// Apply returns a copy of e with the mutable fields replaced. The ID is
// never touched.
func (e Event) Apply(f EventFields) Event {
	e.Amount = f.Amount
	e.Category = f.Category
	e.Date = f.Date
	e.Memo = f.Memo
	return e
}

// MatchesTerm reports whether the event's category or memo contains term,
// case-insensitively. An empty term matches everything.
func (e Event) MatchesTerm(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.Category), term) ||
		strings.Contains(strings.ToLower(e.Memo), term)
}
