package core

import (
	"reflect"
	"testing"
)

func querySnapshot() []Expense {
	return []Expense{
		expense("Coffee", 450, CategoryFood, NewDate(2024, 3, 1)),
		expense("Bus", 200, CategoryTransport, NewDate(2024, 3, 1)),
		{Title: "Cinema", Amount: Money{Cents: 1200}, Category: CategoryEntertainment,
			Description: "late show", Date: NewDate(2024, 3, 5)},
	}
}

func titles(es []Expense) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Title
	}
	return out
}

func TestQuerySearch(t *testing.T) {
	cases := []struct {
		search string
		want   []string
	}{
		{"cof", []string{"Coffee"}},
		{"COFFEE", []string{"Coffee"}},
		{"show", []string{"Cinema"}},       // matches description
		{"transport", []string{"Bus"}},     // matches category
		{"", []string{"Cinema", "Coffee", "Bus"}}, // empty term passes everything (date desc default)
		{"zzz", []string{}},
	}
	for _, tc := range cases {
		got := titles(Query{Search: tc.search}.Apply(querySnapshot()))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("search %q expected %v, got %v", tc.search, tc.want, got)
		}
	}
}

func TestQueryCategoryFilter(t *testing.T) {
	got := titles(Query{Category: CategoryFood}.Apply(querySnapshot()))
	if !reflect.DeepEqual(got, []string{"Coffee"}) {
		t.Fatalf("expected [Coffee], got %v", got)
	}
	// Unset category passes everything.
	if got := (Query{}).Apply(querySnapshot()); len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
}

func TestQuerySort(t *testing.T) {
	cases := []struct {
		name string
		q    Query
		want []string
	}{
		{"amount asc", Query{SortBy: SortByAmount, SortOrder: SortAsc}, []string{"Bus", "Coffee", "Cinema"}},
		{"amount desc", Query{SortBy: SortByAmount, SortOrder: SortDesc}, []string{"Cinema", "Coffee", "Bus"}},
		{"title asc", Query{SortBy: SortByTitle, SortOrder: SortAsc}, []string{"Bus", "Cinema", "Coffee"}},
		{"date asc", Query{SortBy: SortByDate, SortOrder: SortAsc}, []string{"Coffee", "Bus", "Cinema"}},
		{"default is date desc", Query{}, []string{"Cinema", "Coffee", "Bus"}},
	}
	for _, tc := range cases {
		got := titles(tc.q.Apply(querySnapshot()))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestQuerySortStableOnTies(t *testing.T) {
	// Equal dates keep snapshot order, in both directions.
	asc := titles(Query{SortBy: SortByDate, SortOrder: SortAsc}.Apply(querySnapshot()))
	if !reflect.DeepEqual(asc[:2], []string{"Coffee", "Bus"}) {
		t.Fatalf("ascending ties must keep snapshot order, got %v", asc)
	}
	desc := titles(Query{SortBy: SortByDate, SortOrder: SortDesc}.Apply(querySnapshot()))
	if !reflect.DeepEqual(desc[1:], []string{"Coffee", "Bus"}) {
		t.Fatalf("descending ties must keep snapshot order, got %v", desc)
	}
}

func TestQueryIsIdempotentAndNonMutating(t *testing.T) {
	snapshot := querySnapshot()
	before := titles(snapshot)

	q := Query{Search: "c", SortBy: SortByAmount, SortOrder: SortAsc}
	first := titles(q.Apply(snapshot))
	second := titles(q.Apply(snapshot))

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same query on same snapshot must agree: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(titles(snapshot), before) {
		t.Fatalf("input snapshot was mutated: %v", titles(snapshot))
	}
}
