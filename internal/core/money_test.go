package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmountToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"700", 70000, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{".5", 50, false},
		{"12.", 1200, false},
		{"", 0, true},
		{".", 0, true},
		{",", 0, true},
		{"-1", 0, true},
		{"+1", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"1e3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmountToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseAmountToCents(%q) expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmountToCents(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmountToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{70000, "700.00"},
		{-150, "-1.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1050})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "10.50" {
		t.Fatalf("marshal = %s, want 10.50", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("15"), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 1500 {
		t.Fatalf("unmarshal number = %d cents, want 1500", m.Cents)
	}
	if err := json.Unmarshal([]byte(`"9.99"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != 999 {
		t.Fatalf("unmarshal string = %d cents, want 999", m.Cents)
	}
	if err := json.Unmarshal([]byte(`"-3"`), &m); err == nil {
		t.Fatal("expected error for negative amount")
	}
}
