package reports

import (
	"context"
	"testing"
	"time"

	"github.com/picka/expensetracker/internal/utils"
	"github.com/picka/expensetracker/pkg/expense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportsClock = &utils.MockClock{FixedNow: time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func setupService(t *testing.T) (*ReportsServiceImpl, *expense.StubExpenseRepo) {
	repo := expense.NewStubExpenseRepo()
	service := NewReportsService(repo, reportsClock, 10*time.Millisecond)
	t.Cleanup(repo.Cleanup)
	return service, repo
}

func seedMarchExpenses(t *testing.T, repo *expense.StubExpenseRepo) {
	expenses := []expense.Expense{
		{Title: "Flight", Amount: 300.00, Category: expense.CategoryTravel, Date: date(2024, time.March, 10)},
		{Title: "Hotel", Amount: 200.00, Category: expense.CategoryTravel, Date: date(2024, time.March, 11)},
		{Title: "Team lunch", Amount: 80.00, Category: expense.CategoryFood, Date: date(2024, time.March, 11)},
		{Title: "Electricity", Amount: 120.00, Category: expense.CategoryUtility, Date: date(2024, time.March, 12)},
		{Title: "Snacks", Amount: 20.00, Category: expense.CategoryFood, Date: date(2024, time.March, 12)},
	}
	for _, e := range expenses {
		_, err := repo.Store(context.Background(), e)
		require.NoError(t, err)
	}
}

func TestReportsService_CategoryTotals(t *testing.T) {
	service, repo := setupService(t)
	seedMarchExpenses(t, repo)

	summaries, err := service.CategoryTotals(context.Background(), date(2024, time.March, 10), date(2024, time.March, 12))

	require.NoError(t, err)
	require.Len(t, summaries, 3)

	byCategory := map[expense.Category]CategorySummary{}
	for _, s := range summaries {
		byCategory[s.Category] = s
	}
	assert.InDelta(t, 500.00, byCategory[expense.CategoryTravel].TotalAmount, 0.001)
	assert.InDelta(t, 69.4, byCategory[expense.CategoryTravel].Percentage, 0.001)
	assert.InDelta(t, 100.00, byCategory[expense.CategoryFood].TotalAmount, 0.001)
	assert.InDelta(t, 13.9, byCategory[expense.CategoryFood].Percentage, 0.001)
	assert.InDelta(t, 16.7, byCategory[expense.CategoryUtility].Percentage, 0.001)

	percentageSum := 0.0
	for _, s := range summaries {
		percentageSum += s.Percentage
	}
	assert.InDelta(t, 100.0, percentageSum, 0.5)
}

func TestReportsService_CategoryTotalsOmitsEmptyCategories(t *testing.T) {
	service, repo := setupService(t)
	seedMarchExpenses(t, repo)

	summaries, err := service.CategoryTotals(context.Background(), date(2024, time.March, 10), date(2024, time.March, 12))

	require.NoError(t, err)
	for _, s := range summaries {
		assert.NotEqual(t, expense.CategoryStaff, s.Category)
	}
}

func TestReportsService_CategoryTotalsEmptyRange(t *testing.T) {
	service, _ := setupService(t)

	summaries, err := service.CategoryTotals(context.Background(), date(2024, time.March, 1), date(2024, time.March, 31))

	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestReportsService_DailyTotals(t *testing.T) {
	service, repo := setupService(t)
	seedMarchExpenses(t, repo)

	summaries, err := service.DailyTotals(context.Background(), date(2024, time.March, 10), date(2024, time.March, 12))

	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, date(2024, time.March, 10), summaries[0].Date)
	assert.Equal(t, 1, summaries[0].ExpenseCount)
	assert.InDelta(t, 300.00, summaries[0].TotalAmount, 0.001)
	assert.Equal(t, date(2024, time.March, 11), summaries[1].Date)
	assert.Equal(t, 2, summaries[1].ExpenseCount)
	assert.InDelta(t, 280.00, summaries[1].TotalAmount, 0.001)
	assert.Equal(t, 2, summaries[2].ExpenseCount)
}

func TestReportsService_DailyAndCategoryTotalsAgree(t *testing.T) {
	service, repo := setupService(t)
	seedMarchExpenses(t, repo)
	start, end := date(2024, time.March, 10), date(2024, time.March, 12)

	daily, err := service.DailyTotals(context.Background(), start, end)
	require.NoError(t, err)
	byCategory, err := service.CategoryTotals(context.Background(), start, end)
	require.NoError(t, err)

	dailySum, categorySum, count := 0.0, 0.0, 0
	for _, d := range daily {
		dailySum += d.TotalAmount
		count += d.ExpenseCount
	}
	for _, c := range byCategory {
		categorySum += c.TotalAmount
	}
	assert.InDelta(t, dailySum, categorySum, 0.001)
	assert.Equal(t, 5, count)
}

func TestReportsService_Summary(t *testing.T) {
	service, repo := setupService(t)
	seedMarchExpenses(t, repo)

	summary, err := service.Summary(context.Background(), date(2024, time.March, 10), date(2024, time.March, 12))

	require.NoError(t, err)
	assert.InDelta(t, 720.00, summary.TotalAmount, 0.001)
	assert.Equal(t, 5, summary.ExpenseCount)
	assert.InDelta(t, 500.00, summary.ByCategory[expense.CategoryTravel], 0.001)
	assert.InDelta(t, 100.00, summary.ByCategory[expense.CategoryFood], 0.001)
	assert.InDelta(t, 120.00, summary.ByCategory[expense.CategoryUtility], 0.001)
}

func TestReportsService_SummaryEmptyRange(t *testing.T) {
	service, _ := setupService(t)

	summary, err := service.Summary(context.Background(), date(2024, time.March, 1), date(2024, time.March, 31))

	require.NoError(t, err)
	assert.Zero(t, summary.TotalAmount)
	assert.Zero(t, summary.ExpenseCount)
	assert.Empty(t, summary.ByCategory)
}

func TestReportsService_LastNDays(t *testing.T) {
	service, _ := setupService(t)

	start, end := service.LastNDays(7)

	assert.Equal(t, date(2024, time.March, 9), start)
	assert.Equal(t, date(2024, time.March, 15), end)

	start, end = service.LastNDays(1)
	assert.Equal(t, end, start)
}

func TestReportsService_SimulateExport(t *testing.T) {
	service, _ := setupService(t)

	before := time.Now()
	err := service.SimulateExport(context.Background(), "pdf")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(before), 10*time.Millisecond)
}

func TestReportsService_SimulateExportCancelled(t *testing.T) {
	service, _ := setupService(t)
	service.exportDelay = time.Minute
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := service.SimulateExport(ctx, "csv")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRoundToOneDecimal(t *testing.T) {
	assert.InDelta(t, 33.3, roundToOneDecimal(33.333333), 0.0001)
	assert.InDelta(t, 66.7, roundToOneDecimal(66.666666), 0.0001)
	assert.InDelta(t, 0.0, roundToOneDecimal(0.04), 0.0001)
	assert.InDelta(t, 100.0, roundToOneDecimal(99.99), 0.0001)
}
