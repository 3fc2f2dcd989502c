package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-03-01", true},
		{" 2024-12-31 ", true},
		{"2024-13-01", false},
		{"01-03-2024", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestDateSameDay(t *testing.T) {
	a := NewDate(2024, time.March, 1)
	b := Date{Time: time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)}
	if !a.SameDay(b) {
		t.Fatal("same calendar day should match regardless of time-of-day")
	}
	if a.SameDay(NewDate(2024, 3, 2)) {
		t.Fatal("different days should not match")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero is a valid amount, got %v", err)
	}
	if err := (Money{Cents: 450}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range AllCategories() {
		if !c.Valid() {
			t.Fatalf("%q should be valid", c)
		}
	}
	for _, c := range []Category{"", "food & dining", "Groceries"} {
		if c.Valid() {
			t.Fatalf("%q should be invalid", c)
		}
	}
}

func TestExpenseInputValidate(t *testing.T) {
	good := ExpenseInput{
		Title:    "Coffee",
		Amount:   Money{Cents: 450},
		Category: CategoryFood,
		Date:     NewDate(2024, 3, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		in   ExpenseInput
		want error
	}{
		{"empty title", ExpenseInput{Title: "  ", Amount: Money{Cents: 1}, Category: CategoryFood, Date: NewDate(2024, 3, 1)}, ErrEmptyTitle},
		{"negative amount", ExpenseInput{Title: "a", Amount: Money{Cents: -1}, Category: CategoryFood, Date: NewDate(2024, 3, 1)}, ErrNegativeAmount},
		{"unknown category", ExpenseInput{Title: "a", Amount: Money{Cents: 1}, Category: "Groceries", Date: NewDate(2024, 3, 1)}, ErrUnknownCategory},
		{"zero date", ExpenseInput{Title: "a", Amount: Money{Cents: 1}, Category: CategoryFood}, ErrInvalidDate},
	}
	for _, tc := range cases {
		err := tc.in.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if !IsValidation(err) {
			t.Fatalf("%s: expected a ValidationError, got %T", tc.name, err)
		}
	}
}
