package core

import (
	"sort"
	"strings"
)

// Sort keys and directions accepted by the query pipeline.
const (
	SortByDate   SortBy = "date"
	SortByAmount SortBy = "amount"
	SortByTitle  SortBy = "title"

	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type (
	SortBy    string
	SortOrder string

	// Query filters and orders an expense snapshot. Zero values mean "no
	// filter" and the default ordering (date descending).
	Query struct {
		Search    string
		Category  Category
		SortBy    SortBy
		SortOrder SortOrder
	}
)

func (s SortBy) Valid() bool {
	switch s {
	case SortByDate, SortByAmount, SortByTitle:
		return true
	}
	return false
}

func (s SortOrder) Valid() bool {
	return s == SortAsc || s == SortDesc
}

// Apply runs the filter and sort pipeline over a snapshot and returns a new
// slice; the input is never mutated. The sort is stable, so records with
// equal keys keep their snapshot order.
func (q Query) Apply(snapshot []Expense) []Expense {
	sortBy := q.SortBy
	if !sortBy.Valid() {
		sortBy = SortByDate
	}
	order := q.SortOrder
	if !order.Valid() {
		order = SortDesc
	}

	out := make([]Expense, 0, len(snapshot))
	term := strings.ToLower(strings.TrimSpace(q.Search))
	for _, e := range snapshot {
		if term != "" && !matchesSearch(e, term) {
			continue
		}
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		out = append(out, e)
	}

	less := lessFunc(sortBy)
	sort.SliceStable(out, func(i, j int) bool {
		if order == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})

	return out
}

// matchesSearch does a case-insensitive substring match over title,
// description and category. An absent description never matches a non-empty
// term.
func matchesSearch(e Expense, term string) bool {
	return strings.Contains(strings.ToLower(e.Title), term) ||
		strings.Contains(strings.ToLower(e.Description), term) ||
		strings.Contains(strings.ToLower(string(e.Category)), term)
}

func lessFunc(key SortBy) func(a, b Expense) bool {
	switch key {
	case SortByAmount:
		return func(a, b Expense) bool { return a.Amount.Cents < b.Amount.Cents }
	case SortByTitle:
		return func(a, b Expense) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default:
		return func(a, b Expense) bool { return a.Date.Before(b.Date) }
	}
}
