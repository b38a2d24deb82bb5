package reports

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/picka/expensetracker/internal/utils"
	"github.com/picka/expensetracker/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type ReportsService interface {
	// CategoryTotals aggregates expenses with date in [start, end] by
	// category. Categories with no expenses in range are omitted. The
	// percentages add up to 100 (within rounding) whenever the range total
	// is positive, and are all 0 when the range is empty.
	CategoryTotals(ctx context.Context, start, end time.Time) ([]CategorySummary, error)
	// DailyTotals aggregates the same range by day, ascending. ExpenseCount
	// is the actual number of expenses on each day.
	DailyTotals(ctx context.Context, start, end time.Time) ([]DailySummary, error)
	// Summary condenses the range into a grand total, expense count, and
	// per-category breakdown.
	Summary(ctx context.Context, start, end time.Time) (ReportSummary, error)
	// LastNDays resolves a reporting period ending today: [today-(n-1), today].
	LastNDays(n int) (start, end time.Time)
	// SimulateExport pretends to export a report. It observes the configured
	// delay and honors ctx cancellation, but produces no file.
	SimulateExport(ctx context.Context, format string) error
}

type ExpenseTotalsReader interface {
	CategoryTotals(ctx context.Context, start, end time.Time) ([]expense.CategoryTotal, error)
	DailyTotals(ctx context.Context, start, end time.Time) ([]expense.DailyTotal, error)
}

type ReportsServiceImpl struct {
	repo        ExpenseTotalsReader
	clock       utils.Clock
	exportDelay time.Duration
}

func NewReportsService(repo ExpenseTotalsReader, clock utils.Clock, exportDelay time.Duration) *ReportsServiceImpl {
	return &ReportsServiceImpl{
		repo:        repo,
		clock:       clock,
		exportDelay: exportDelay,
	}
}

func (s *ReportsServiceImpl) CategoryTotals(ctx context.Context, start, end time.Time) ([]CategorySummary, error) {
	totals, err := s.repo.CategoryTotals(ctx, utils.DateOf(start), utils.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("failed to load category totals: %w", err)
	}

	grandTotal := 0.0
	for _, t := range totals {
		grandTotal += t.TotalAmount
	}

	summaries := make([]CategorySummary, 0, len(totals))
	for _, t := range totals {
		percentage := 0.0
		if grandTotal > 0 {
			percentage = roundToOneDecimal(t.TotalAmount / grandTotal * 100)
		}
		summaries = append(summaries, CategorySummary{
			Category:    t.Category,
			TotalAmount: t.TotalAmount,
			Percentage:  percentage,
		})
	}
	return summaries, nil
}

func (s *ReportsServiceImpl) DailyTotals(ctx context.Context, start, end time.Time) ([]DailySummary, error) {
	totals, err := s.repo.DailyTotals(ctx, utils.DateOf(start), utils.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("failed to load daily totals: %w", err)
	}

	summaries := make([]DailySummary, 0, len(totals))
	for _, t := range totals {
		summaries = append(summaries, DailySummary{
			Date:         t.Date,
			TotalAmount:  t.TotalAmount,
			ExpenseCount: t.ExpenseCount,
		})
	}
	return summaries, nil
}

func (s *ReportsServiceImpl) Summary(ctx context.Context, start, end time.Time) (ReportSummary, error) {
	categoryTotals, err := s.repo.CategoryTotals(ctx, utils.DateOf(start), utils.DateOf(end))
	if err != nil {
		return ReportSummary{}, fmt.Errorf("failed to load category totals: %w", err)
	}
	dailyTotals, err := s.repo.DailyTotals(ctx, utils.DateOf(start), utils.DateOf(end))
	if err != nil {
		return ReportSummary{}, fmt.Errorf("failed to load daily totals: %w", err)
	}

	summary := ReportSummary{ByCategory: map[expense.Category]float64{}}
	for _, t := range categoryTotals {
		summary.TotalAmount += t.TotalAmount
		summary.ByCategory[t.Category] = t.TotalAmount
	}
	for _, t := range dailyTotals {
		summary.ExpenseCount += t.ExpenseCount
	}
	return summary, nil
}

func (s *ReportsServiceImpl) LastNDays(n int) (start, end time.Time) {
	end = utils.Today(s.clock)
	start = end.AddDate(0, 0, -(n - 1))
	return start, end
}

func (s *ReportsServiceImpl) SimulateExport(ctx context.Context, format string) error {
	log.Infof("Simulating %s export", format)
	timer := time.NewTimer(s.exportDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
