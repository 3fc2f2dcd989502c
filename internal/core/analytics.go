package core

import "time"

type (
	// CategoryTotal is an amount aggregated by category.
	CategoryTotal struct {
		Category Category
		Total    Money
	}

	// DayTotal is the amount spent on one calendar day of the current week.
	DayTotal struct {
		Date  Date
		Total Money
	}

	// Summary holds every derived metric computed from one expense snapshot.
	Summary struct {
		Total Money
		// ByCategory contains only categories present in the snapshot, in
		// order of first occurrence. Absent categories are omitted, not
		// zero-filled.
		ByCategory []CategoryTotal
		// Weekly always has exactly 7 entries covering the Sunday-start week
		// containing the reference instant, in chronological order.
		Weekly []DayTotal
		// ThisMonth and LastMonth are calendar-month sums relative to the
		// reference instant; LastMonth crosses year boundaries correctly.
		ThisMonth Money
		LastMonth Money
		// MonthlyChangePct is ((ThisMonth-LastMonth)/LastMonth)*100, defined
		// as 0 when LastMonth is zero. That is a division-by-zero policy, not
		// a claim that spending did not change.
		MonthlyChangePct float64
	}
)

// WeekStart returns the Sunday beginning the calendar week containing t.
func WeekStart(t time.Time) Date {
	d := DateOf(t)
	return Date{Time: d.AddDate(0, 0, -int(d.Weekday()))}
}

// Summarize derives all analytics metrics from a snapshot of expenses. It is
// a pure function: the snapshot is never mutated and no I/O happens. All sums
// are accumulated in cents.
func Summarize(expenses []Expense, now time.Time) Summary {
	s := Summary{}

	byCategory := make(map[Category]int)
	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)
		if idx, ok := byCategory[e.Category]; ok {
			s.ByCategory[idx].Total = s.ByCategory[idx].Total.Add(e.Amount)
		} else {
			byCategory[e.Category] = len(s.ByCategory)
			s.ByCategory = append(s.ByCategory, CategoryTotal{Category: e.Category, Total: e.Amount})
		}
	}

	weekStart := WeekStart(now)
	s.Weekly = make([]DayTotal, 7)
	for i := range s.Weekly {
		day := Date{Time: weekStart.AddDate(0, 0, i)}
		s.Weekly[i].Date = day
		for _, e := range expenses {
			if e.Date.SameDay(day) {
				s.Weekly[i].Total = s.Weekly[i].Total.Add(e.Amount)
			}
		}
	}

	thisYear, thisMonth := now.Year(), now.Month()
	prev := time.Date(thisYear, thisMonth, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	lastYear, lastMonth := prev.Year(), prev.Month()
	for _, e := range expenses {
		y, m := e.Date.Year(), e.Date.Month()
		switch {
		case y == thisYear && m == thisMonth:
			s.ThisMonth = s.ThisMonth.Add(e.Amount)
		case y == lastYear && m == lastMonth:
			s.LastMonth = s.LastMonth.Add(e.Amount)
		}
	}

	if s.LastMonth.Cents != 0 {
		s.MonthlyChangePct = float64(s.ThisMonth.Cents-s.LastMonth.Cents) / float64(s.LastMonth.Cents) * 100
	}

	return s
}
