package expense_list

import (
	"testing"
	"time"

	"github.com/picka/expensetracker/internal/utils"
	"github.com/picka/expensetracker/pkg/expense"
	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestFilter_DateBounds(t *testing.T) {
	// 2024-01-04 is a Thursday.
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.January, 4, 15, 45, 0, 0, time.UTC)}

	tests := []struct {
		name      string
		filter    Filter
		wantStart time.Time
		wantEnd   time.Time
		wantOk    bool
	}{
		{
			name:      "today",
			filter:    Today(),
			wantStart: date(2024, time.January, 4),
			wantEnd:   date(2024, time.January, 4),
			wantOk:    true,
		},
		{
			name:      "yesterday",
			filter:    Yesterday(),
			wantStart: date(2024, time.January, 3),
			wantEnd:   date(2024, time.January, 3),
			wantOk:    true,
		},
		{
			name:      "this week runs Monday through Sunday",
			filter:    ThisWeek(),
			wantStart: date(2024, time.January, 1),
			wantEnd:   date(2024, time.January, 7),
			wantOk:    true,
		},
		{
			name:      "this month",
			filter:    ThisMonth(),
			wantStart: date(2024, time.January, 1),
			wantEnd:   date(2024, time.January, 31),
			wantOk:    true,
		},
		{
			name:      "literal date range",
			filter:    DateRange(date(2023, time.December, 24), date(2023, time.December, 31)),
			wantStart: date(2023, time.December, 24),
			wantEnd:   date(2023, time.December, 31),
			wantOk:    true,
		},
		{
			name:   "category bypasses date filtering",
			filter: ByCategory(expense.CategoryTravel),
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := tt.filter.DateBounds(clock)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.wantStart, start)
				assert.Equal(t, tt.wantEnd, end)
			}
		})
	}
}

func TestFilter_ThisWeekOnSunday(t *testing.T) {
	// 2024-01-07 is a Sunday; the week still starts the previous Monday.
	clock := &utils.MockClock{FixedNow: date(2024, time.January, 7)}

	start, end, ok := ThisWeek().DateBounds(clock)
	assert.True(t, ok)
	assert.Equal(t, date(2024, time.January, 1), start)
	assert.Equal(t, date(2024, time.January, 7), end)
}

func TestGroupBy_NextCycles(t *testing.T) {
	assert.Equal(t, GroupByCategory, GroupByDate.Next())
	assert.Equal(t, GroupByNone, GroupByCategory.Next())
	assert.Equal(t, GroupByDate, GroupByNone.Next())
}
