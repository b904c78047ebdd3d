package core

import (
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	cases := []struct {
		title string
		ok    bool
	}{
		{"Coffee", true},
		{"", false},
		{"   ", false},
		{strings.Repeat("x", MaxTitleLen), true},
		{strings.Repeat("x", MaxTitleLen+1), false},
	}
	for i, tc := range cases {
		err := ValidateTitle(tc.title)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -450}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Title:  "Coffee",
		Amount: Money{Cents: 450},
		Date:   NewDate(2024, 6, 1),
		UserID: "1",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Title: "", Amount: Money{Cents: 1}, Date: NewDate(2024, 6, 1), UserID: "1"},
		{Title: "a", Amount: Money{Cents: 0}, Date: NewDate(2024, 6, 1), UserID: "1"},
		{Title: "a", Amount: Money{Cents: 1}, Date: Date{}, UserID: "1"},
		{Title: "a", Amount: Money{Cents: 1}, Date: NewDate(2024, 6, 1), UserID: ""},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpenseSummary(t *testing.T) {
	e := Expense{ID: 7, Title: "Lunch", Amount: Money{Cents: 1250}, Date: NewDate(2024, 6, 1), UserID: "1"}
	s := e.Summary()
	if s.Title != "Lunch" || s.Amount.Cents != 1250 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
