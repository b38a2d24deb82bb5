package expense

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/picka/expensetracker/internal/utils"
)

// StubExpenseRepo is an in-memory ExpenseRepo used by tests in this package
// and by the engines' tests.
type StubExpenseRepo struct {
	nextId int64
	data   map[int64]Expense
}

func NewStubExpenseRepo() *StubExpenseRepo {
	return &StubExpenseRepo{data: map[int64]Expense{}}
}

func (s *StubExpenseRepo) Store(ctx context.Context, expense Expense) (int64, error) {
	if expense.Id == 0 {
		s.nextId++
		expense.Id = s.nextId
	} else if expense.Id > s.nextId {
		s.nextId = expense.Id
	}
	s.data[expense.Id] = expense
	return expense.Id, nil
}

func (s *StubExpenseRepo) Update(ctx context.Context, expense Expense) (bool, error) {
	if _, ok := s.data[expense.Id]; !ok {
		return false, nil
	}
	s.data[expense.Id] = expense
	return true, nil
}

func (s *StubExpenseRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubExpenseRepo) GetAll(ctx context.Context) ([]Expense, error) {
	return s.collect(func(Expense) bool { return true }, byCreatedAtDesc), nil
}

func (s *StubExpenseRepo) GetByDate(ctx context.Context, date time.Time) ([]Expense, error) {
	return s.collect(func(e Expense) bool {
		return utils.SameDay(e.Date, date)
	}, byCreatedAtDesc), nil
}

func (s *StubExpenseRepo) GetByCategory(ctx context.Context, category Category) ([]Expense, error) {
	return s.collect(func(e Expense) bool {
		return e.Category == category
	}, byCreatedAtDesc), nil
}

func (s *StubExpenseRepo) GetBetweenDates(ctx context.Context, start, end time.Time) ([]Expense, error) {
	return s.collect(func(e Expense) bool {
		return !e.Date.Before(utils.DateOf(start)) && !e.Date.After(utils.DateOf(end))
	}, byDateDesc), nil
}

func (s *StubExpenseRepo) Search(ctx context.Context, query string) ([]Expense, error) {
	q := strings.ToLower(query)
	return s.collect(func(e Expense) bool {
		return strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Notes), q) ||
			strings.Contains(strings.ToLower(e.Category.DisplayName()), q)
	}, byCreatedAtDesc), nil
}

func (s *StubExpenseRepo) TotalForDate(ctx context.Context, date time.Time) (float64, error) {
	total := 0.0
	for _, e := range s.data {
		if utils.SameDay(e.Date, date) {
			total += e.Amount
		}
	}
	return total, nil
}

func (s *StubExpenseRepo) CategoryTotals(ctx context.Context, start, end time.Time) ([]CategoryTotal, error) {
	sums := map[Category]float64{}
	for _, e := range s.data {
		if !e.Date.Before(utils.DateOf(start)) && !e.Date.After(utils.DateOf(end)) {
			sums[e.Category] += e.Amount
		}
	}
	var totals []CategoryTotal
	for _, c := range Categories() {
		if sum, ok := sums[c]; ok {
			totals = append(totals, CategoryTotal{Category: c, TotalAmount: sum})
		}
	}
	return totals, nil
}

func (s *StubExpenseRepo) DailyTotals(ctx context.Context, start, end time.Time) ([]DailyTotal, error) {
	sums := map[time.Time]*DailyTotal{}
	for _, e := range s.data {
		if e.Date.Before(utils.DateOf(start)) || e.Date.After(utils.DateOf(end)) {
			continue
		}
		day := utils.DateOf(e.Date)
		if sums[day] == nil {
			sums[day] = &DailyTotal{Date: day}
		}
		sums[day].TotalAmount += e.Amount
		sums[day].ExpenseCount++
	}
	var totals []DailyTotal
	for _, t := range sums {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date.Before(totals[j].Date)
	})
	return totals, nil
}

func (s *StubExpenseRepo) Cleanup() {
	s.data = map[int64]Expense{}
	s.nextId = 0
}

func (s *StubExpenseRepo) collect(match func(Expense) bool, less func(a, b Expense) bool) []Expense {
	var expenses []Expense
	for _, e := range s.data {
		if match(e) {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return less(expenses[i], expenses[j])
	})
	return expenses
}

func byCreatedAtDesc(a, b Expense) bool {
	return a.CreatedAt.After(b.CreatedAt)
}

func byDateDesc(a, b Expense) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.CreatedAt.After(b.CreatedAt)
}
