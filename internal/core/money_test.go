package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		cents   int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12.345", 1235, false}, // half-up on third decimal
		{"12.344", 1234, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"-0.5", -50, false},
		{"-12.34", -1234, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"+5", 0, true},
		{"12.3x", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMoney(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Cents != tt.cents {
				t.Errorf("cents = %d, want %d", m.Cents, tt.cents)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{-1234, "-12.34"},
		{100000, "1000.00"},
		{-7, "-0.07"},
	}
	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	in := Money{Cents: 4250}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "42.50" {
		t.Errorf("marshal = %s, want 42.50", data)
	}
	var out Money
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Cents != in.Cents {
		t.Errorf("round trip = %d cents, want %d", out.Cents, in.Cents)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	deposits := Money{Cents: 5000}
	expenses := Money{Cents: 1000}
	if got := deposits.Sub(expenses).Cents; got != 4000 {
		t.Errorf("balance = %d, want 4000", got)
	}
	if got := expenses.Add(Money{Cents: 50}).Cents; got != 1050 {
		t.Errorf("sum = %d, want 1050", got)
	}
}
