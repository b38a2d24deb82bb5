package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/picka/expensetracker/internal/event_bus"
	"github.com/picka/expensetracker/internal/utils"
	log "github.com/sirupsen/logrus"
)

type ExpenseService interface {
	// Create validates and persists a new expense, returning it with its
	// assigned id. CreatedAt is stamped and Date defaults to today when the
	// caller leaves them zero.
	Create(ctx context.Context, expense Expense) (Expense, error)
	// Update replaces the record matching expense.Id. A missing id is a
	// silent no-op reported as false, not an error.
	Update(ctx context.Context, expense Expense) (bool, error)
	Delete(ctx context.Context, expense Expense) (bool, error)
	DeleteById(ctx context.Context, id int64) (bool, error)

	GetAll(ctx context.Context) ([]Expense, error)
	GetByDate(ctx context.Context, date time.Time) ([]Expense, error)
	GetByCategory(ctx context.Context, category Category) ([]Expense, error)
	GetBetweenDates(ctx context.Context, start, end time.Time) ([]Expense, error)
	Search(ctx context.Context, query string) ([]Expense, error)
	TotalForDate(ctx context.Context, date time.Time) (float64, error)
	TodayTotal(ctx context.Context) (float64, error)

	// IsDuplicateToday reports whether the candidate near-duplicates an
	// expense already recorded today. Advisory only; it never blocks Create.
	IsDuplicateToday(ctx context.Context, candidate Expense) (bool, error)

	WatchAll(ctx context.Context) *LiveQuery
	WatchByDate(ctx context.Context, date time.Time) *LiveQuery
	WatchByCategory(ctx context.Context, category Category) *LiveQuery
	WatchBetweenDates(ctx context.Context, start, end time.Time) *LiveQuery
	WatchSearch(ctx context.Context, query string) *LiveQuery
}

type ExpenseServiceImpl struct {
	repo  ExpenseRepo
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewExpenseService(repo ExpenseRepo, bus *event_bus.EventBus, clock utils.Clock) *ExpenseServiceImpl {
	return &ExpenseServiceImpl{
		repo:  repo,
		bus:   bus,
		clock: clock,
	}
}

func (s *ExpenseServiceImpl) Create(ctx context.Context, expense Expense) (Expense, error) {
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = s.clock.Now()
	}
	if expense.Date.IsZero() {
		expense.Date = utils.Today(s.clock)
	} else {
		expense.Date = utils.DateOf(expense.Date)
	}
	if expense.HasReceipt && expense.ReceiptPath == "" {
		expense.ReceiptPath = "receipts/" + uuid.NewString()
	}

	if err := expense.Validate(); err != nil {
		return Expense{}, err
	}

	id, err := s.repo.Store(ctx, expense)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to store expense: %w", err)
	}
	expense.Id = id

	s.publish(ctx, event_bus.ExpenseCreatedType, expense)
	return expense, nil
}

func (s *ExpenseServiceImpl) Update(ctx context.Context, expense Expense) (bool, error) {
	expense.Date = utils.DateOf(expense.Date)
	if err := expense.Validate(); err != nil {
		return false, err
	}

	updated, err := s.repo.Update(ctx, expense)
	if err != nil {
		return false, fmt.Errorf("failed to update expense: %w", err)
	}
	if !updated {
		log.Debugf("expense %d not updated, no record with that id", expense.Id)
		return false, nil
	}

	s.publish(ctx, event_bus.ExpenseUpdatedType, expense)
	return true, nil
}

func (s *ExpenseServiceImpl) Delete(ctx context.Context, expense Expense) (bool, error) {
	return s.DeleteById(ctx, expense.Id)
}

func (s *ExpenseServiceImpl) DeleteById(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}
	if !deleted {
		log.Debugf("expense %d not deleted, no record with that id", id)
		return false, nil
	}

	s.publish(ctx, event_bus.ExpenseDeletedType, Expense{Id: id})
	return true, nil
}

func (s *ExpenseServiceImpl) GetAll(ctx context.Context) ([]Expense, error) {
	return s.repo.GetAll(ctx)
}

func (s *ExpenseServiceImpl) GetByDate(ctx context.Context, date time.Time) ([]Expense, error) {
	return s.repo.GetByDate(ctx, utils.DateOf(date))
}

func (s *ExpenseServiceImpl) GetByCategory(ctx context.Context, category Category) ([]Expense, error) {
	return s.repo.GetByCategory(ctx, category)
}

func (s *ExpenseServiceImpl) GetBetweenDates(ctx context.Context, start, end time.Time) ([]Expense, error) {
	return s.repo.GetBetweenDates(ctx, utils.DateOf(start), utils.DateOf(end))
}

func (s *ExpenseServiceImpl) Search(ctx context.Context, query string) ([]Expense, error) {
	return s.repo.Search(ctx, query)
}

func (s *ExpenseServiceImpl) TotalForDate(ctx context.Context, date time.Time) (float64, error) {
	return s.repo.TotalForDate(ctx, utils.DateOf(date))
}

func (s *ExpenseServiceImpl) TodayTotal(ctx context.Context) (float64, error) {
	return s.repo.TotalForDate(ctx, utils.Today(s.clock))
}

func (s *ExpenseServiceImpl) IsDuplicateToday(ctx context.Context, candidate Expense) (bool, error) {
	today := utils.Today(s.clock)
	// Only expenses attributed to today are candidates; a back-dated entry
	// is never compared against today's records.
	if !candidate.Date.IsZero() && !utils.DateOf(candidate.Date).Equal(today) {
		return false, nil
	}
	todayExpenses, err := s.repo.GetByDate(ctx, today)
	if err != nil {
		return false, fmt.Errorf("failed to load today's expenses: %w", err)
	}
	return IsDuplicate(candidate, todayExpenses), nil
}

func (s *ExpenseServiceImpl) WatchAll(ctx context.Context) *LiveQuery {
	return newLiveQuery(ctx, s.bus, s.repo.GetAll)
}

func (s *ExpenseServiceImpl) WatchByDate(ctx context.Context, date time.Time) *LiveQuery {
	date = utils.DateOf(date)
	return newLiveQuery(ctx, s.bus, func(ctx context.Context) ([]Expense, error) {
		return s.repo.GetByDate(ctx, date)
	})
}

func (s *ExpenseServiceImpl) WatchByCategory(ctx context.Context, category Category) *LiveQuery {
	return newLiveQuery(ctx, s.bus, func(ctx context.Context) ([]Expense, error) {
		return s.repo.GetByCategory(ctx, category)
	})
}

func (s *ExpenseServiceImpl) WatchBetweenDates(ctx context.Context, start, end time.Time) *LiveQuery {
	start, end = utils.DateOf(start), utils.DateOf(end)
	return newLiveQuery(ctx, s.bus, func(ctx context.Context) ([]Expense, error) {
		return s.repo.GetBetweenDates(ctx, start, end)
	})
}

func (s *ExpenseServiceImpl) WatchSearch(ctx context.Context, query string) *LiveQuery {
	return newLiveQuery(ctx, s.bus, func(ctx context.Context) ([]Expense, error) {
		return s.repo.Search(ctx, query)
	})
}

func (s *ExpenseServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, expense Expense) {
	err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, event_bus.ExpenseChanged{
		Id:       expense.Id,
		Date:     expense.Date,
		Category: string(expense.Category),
	}))
	if err != nil {
		// The mutation itself is committed; a failing subscriber must not
		// turn it into a caller-visible error.
		log.Errorf("failed to publish %s event: %v", eventType, err)
	}
}
