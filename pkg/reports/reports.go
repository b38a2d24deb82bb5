package reports

import (
	"time"

	"github.com/picka/expensetracker/pkg/expense"
)

// CategorySummary is the spending total for one category within a report
// range, with its share of the range's grand total. Percentage is 0-100,
// rounded to one decimal; it is 0 when the range total is 0.
type CategorySummary struct {
	Category    expense.Category
	TotalAmount float64
	Percentage  float64
}

// DailySummary is the spending total and expense count for one day within a
// report range.
type DailySummary struct {
	Date         time.Time
	TotalAmount  float64
	ExpenseCount int
}

// ReportSummary condenses a report range into its grand total, the number of
// expenses, and a per-category breakdown.
type ReportSummary struct {
	TotalAmount  float64
	ExpenseCount int
	ByCategory   map[expense.Category]float64
}
