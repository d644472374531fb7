package core

import (
	"strings"
	"testing"
)

func TestEventFieldsValidate(t *testing.T) {
	good := EventFields{
		Amount:   Money{Cents: 1000},
		Category: "Food",
		Date:     "2024-12-01",
		Memo:     "groceries",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// zero amount is allowed
	zero := good
	zero.Amount = Money{}
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be valid, got %v", err)
	}

	bads := []EventFields{
		{Amount: Money{Cents: -1}, Category: "c", Date: "2024-01-01"},
		{Amount: Money{Cents: 1}, Category: "", Date: "2024-01-01"},
		{Amount: Money{Cents: 1}, Category: "c", Date: ""},
		{Amount: Money{Cents: 1}, Category: "c", Date: "2024-01-01", Memo: strings.Repeat("x", 501)},
	}
	for i, f := range bads {
		if err := f.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestEventApplyPreservesID(t *testing.T) {
	e := Event{ID: "abc", Amount: Money{Cents: 100}, Category: "Food", Date: "2024-01-02", Memo: "old"}
	got := e.Apply(EventFields{Amount: Money{Cents: 200}, Category: "Rent", Date: "2024-02-03", Memo: "new"})
	if got.ID != "abc" {
		t.Fatalf("Apply changed ID: %q", got.ID)
	}
	if got.Amount.Cents != 200 || got.Category != "Rent" || got.Date != "2024-02-03" || got.Memo != "new" {
		t.Fatalf("Apply did not replace fields: %+v", got)
	}
}

func TestEventMatchesTerm(t *testing.T) {
	cases := []struct {
		event Event
		term  string
		want  bool
	}{
		{Event{Category: "Food"}, "food", true},
		{Event{Category: "transportation"}, "food", false},
		{Event{Category: "Rent", Memo: "Foodie dinner"}, "food", true},
		{Event{Category: "Phone"}, "", true},
		{Event{Category: "Phone", Memo: "bill"}, "BILL", true},
	}
	for i, tc := range cases {
		if got := tc.event.MatchesTerm(tc.term); got != tc.want {
			t.Fatalf("case %d: MatchesTerm(%q) = %v, want %v", i, tc.term, got, tc.want)
		}
	}
}
