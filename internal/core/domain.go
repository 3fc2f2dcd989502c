package core

import (
	"strings"
	"time"
)

// Categories form a closed set; anything else is rejected at validation.
const (
	CategoryFood          Category = "Food & Dining"
	CategoryTransport     Category = "Transportation"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills & Utilities"
	CategoryHealthcare    Category = "Healthcare"
	CategoryTravel        Category = "Travel"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

type (
	Category string

	// Date is a calendar day. The time-of-day component is always UTC midnight;
	// comparisons are by day, never by instant.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Principal is the authenticated identity resolved at the session boundary.
	// The core only ever reads it.
	Principal struct {
		ID          int64
		Email       string
		DisplayName string
	}

	// Expense is the sole persisted entity. OwnerID is set once at creation and
	// never touched by updates.
	Expense struct {
		ID          int64
		OwnerID     int64
		Title       string
		Amount      Money
		Category    Category
		Description string
		Date        Date
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// ExpenseInput is the caller-supplied field set for create and update.
	// Updates are full replaces of exactly these fields.
	ExpenseInput struct {
		Title       string
		Amount      Money
		Category    Category
		Description string
		Date        Date
	}
)

// AllCategories lists the allowed categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryBills,
		CategoryHealthcare,
		CategoryTravel,
		CategoryEducation,
		CategoryOther,
	}
}

var validCategories = func() map[Category]struct{} {
	m := make(map[Category]struct{})
	for _, c := range AllCategories() {
		m[c] = struct{}{}
	}
	return m
}()

func (c Category) Valid() bool {
	_, ok := validCategories[c]
	return ok
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	return d.Year() == other.Year() && d.YearDay() == other.YearDay()
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Validate checks the caller-mutable fields against the ledger invariants:
// non-empty title, non-negative amount, known category, valid calendar date.
func (in ExpenseInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if len(in.Title) > 200 {
		return &ValidationError{Field: "title", Err: ErrTitleTooLong}
	}
	if err := in.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Err: err}
	}
	if !in.Category.Valid() {
		return &ValidationError{Field: "category", Err: ErrUnknownCategory}
	}
	if err := in.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Err: err}
	}
	return nil
}
