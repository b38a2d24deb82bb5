package expense_list

import (
	"errors"
	"time"

	"github.com/picka/expensetracker/internal/utils"
	"github.com/picka/expensetracker/pkg/expense"
)

var errInvalidFilterKind = errors.New("invalid filter kind")

// FilterKind enumerates the closed set of list filters. Filter selection is
// resolved against the injected clock, never against the global wall clock.
type FilterKind int

const (
	FilterToday FilterKind = iota
	FilterYesterday
	FilterThisWeek
	FilterThisMonth
	FilterDateRange
	FilterCategory
)

// Filter is a tagged selector: Kind decides which payload fields are
// meaningful. Start/End carry the literal bounds of FilterDateRange;
// Category carries the category of FilterCategory.
type Filter struct {
	Kind     FilterKind
	Start    time.Time
	End      time.Time
	Category expense.Category
}

func Today() Filter     { return Filter{Kind: FilterToday} }
func Yesterday() Filter { return Filter{Kind: FilterYesterday} }
func ThisWeek() Filter  { return Filter{Kind: FilterThisWeek} }
func ThisMonth() Filter { return Filter{Kind: FilterThisMonth} }

func DateRange(start, end time.Time) Filter {
	return Filter{Kind: FilterDateRange, Start: utils.DateOf(start), End: utils.DateOf(end)}
}

func ByCategory(category expense.Category) Filter {
	return Filter{Kind: FilterCategory, Category: category}
}

// DateBounds resolves the filter to its concrete inclusive date range.
// ok is false for FilterCategory, which bypasses date filtering entirely.
// Weeks start on Monday.
func (f Filter) DateBounds(clock utils.Clock) (start, end time.Time, ok bool) {
	today := utils.Today(clock)
	switch f.Kind {
	case FilterToday:
		return today, today, true
	case FilterYesterday:
		yesterday := today.AddDate(0, 0, -1)
		return yesterday, yesterday, true
	case FilterThisWeek:
		weekday := int(today.Weekday())
		if weekday == 0 { // Sunday
			weekday = 7
		}
		monday := today.AddDate(0, 0, -(weekday - 1))
		return monday, monday.AddDate(0, 0, 6), true
	case FilterThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1), true
	case FilterDateRange:
		return f.Start, f.End, true
	case FilterCategory:
		return time.Time{}, time.Time{}, false
	}
	return today, today, true
}

// GroupBy selects how the filtered list is grouped.
type GroupBy int

const (
	GroupByDate GroupBy = iota
	GroupByCategory
	GroupByNone
)

// Next cycles Date -> Category -> None -> Date, matching the list screen's
// group toggle.
func (g GroupBy) Next() GroupBy {
	switch g {
	case GroupByDate:
		return GroupByCategory
	case GroupByCategory:
		return GroupByNone
	}
	return GroupByDate
}

func (g GroupBy) String() string {
	switch g {
	case GroupByDate:
		return "date"
	case GroupByCategory:
		return "category"
	}
	return "none"
}

// SortBy selects the order of expenses within each group. SortByDateDesc is
// the store's native order (newest created first) and applies no reordering.
type SortBy int

const (
	SortByDateDesc SortBy = iota
	SortByDateAsc
	SortByAmountDesc
	SortByAmountAsc
)

func (s SortBy) String() string {
	switch s {
	case SortByDateAsc:
		return "dateAsc"
	case SortByAmountDesc:
		return "amountDesc"
	case SortByAmountAsc:
		return "amountAsc"
	}
	return "dateDesc"
}
