package expense_list

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/picka/expensetracker/internal/event_bus"
	"github.com/picka/expensetracker/internal/utils"
	"github.com/picka/expensetracker/pkg/expense"
	log "github.com/sirupsen/logrus"
)

// ExpenseReader is the slice of the expense store the view needs.
// expense.ExpenseServiceImpl satisfies it.
type ExpenseReader interface {
	GetByDate(ctx context.Context, date time.Time) ([]expense.Expense, error)
	GetByCategory(ctx context.Context, category expense.Category) ([]expense.Expense, error)
	GetBetweenDates(ctx context.Context, start, end time.Time) ([]expense.Expense, error)
}

// GroupKey identifies one group of the view output. Exactly one field is set
// when grouping by date or category; both are zero for the single anonymous
// group produced by GroupByNone.
type GroupKey struct {
	Date     time.Time
	Category expense.Category
}

type Group struct {
	Key      GroupKey
	Expenses []expense.Expense
}

// View is the filtered, searched, grouped, sorted list the presentation
// layer renders. It re-derives its output whenever the filter, the query,
// the grouping, the sorting, or the underlying store changes, and pushes
// fresh snapshots to watchers.
type View struct {
	reader ExpenseReader
	clock  utils.Clock

	mu       sync.Mutex
	filter   Filter
	query    string
	groupBy  GroupBy
	sortBy   SortBy
	groups   []Group
	watchers map[uint64]chan []Group
	nextID   uint64

	unsubs    []func()
	closeOnce sync.Once
}

// NewView creates a view with the original defaults: today's expenses,
// no query, grouped by date, native sort order. The view subscribes to the
// bus so store mutations re-derive the output automatically.
func NewView(reader ExpenseReader, bus *event_bus.EventBus, clock utils.Clock) *View {
	v := &View{
		reader:   reader,
		clock:    clock,
		filter:   Today(),
		groupBy:  GroupByDate,
		sortBy:   SortByDateDesc,
		watchers: map[uint64]chan []Group{},
	}
	for _, eventType := range event_bus.ExpenseTypes {
		unsub := bus.Subscribe(eventType, func(e event_bus.Event) error {
			return v.Refresh(e.Context())
		})
		v.unsubs = append(v.unsubs, unsub)
	}
	return v
}

func (v *View) Filter() Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

func (v *View) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

func (v *View) GroupBy() GroupBy {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.groupBy
}

func (v *View) SortBy() SortBy {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sortBy
}

func (v *View) SetFilter(ctx context.Context, filter Filter) error {
	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
	return v.Refresh(ctx)
}

func (v *View) SetQuery(ctx context.Context, query string) error {
	v.mu.Lock()
	v.query = query
	v.mu.Unlock()
	return v.Refresh(ctx)
}

func (v *View) SetGroupBy(ctx context.Context, groupBy GroupBy) error {
	v.mu.Lock()
	v.groupBy = groupBy
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// CycleGroupBy advances the group mode (date -> category -> none -> date)
// and returns the new mode.
func (v *View) CycleGroupBy(ctx context.Context) (GroupBy, error) {
	v.mu.Lock()
	v.groupBy = v.groupBy.Next()
	groupBy := v.groupBy
	v.mu.Unlock()
	return groupBy, v.Refresh(ctx)
}

func (v *View) SetSortBy(ctx context.Context, sortBy SortBy) error {
	v.mu.Lock()
	v.sortBy = sortBy
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// Snapshot returns the most recently derived output.
func (v *View) Snapshot() []Group {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.groups
}

// Watch registers a watcher and returns its snapshot channel together with
// an unsubscribe function. Delivery is latest-wins per watcher: an
// undelivered snapshot is replaced, never queued, so one slow watcher
// cannot stall the others.
func (v *View) Watch() (<-chan []Group, func()) {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	ch := make(chan []Group, 1)
	v.watchers[id] = ch
	v.mu.Unlock()

	return ch, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.watchers[id]; ok {
			delete(v.watchers, id)
			close(ch)
		}
	}
}

// Refresh re-runs the pipeline: fetch per the resolved filter, apply the
// free-text query, sort, group, then fan the result out to watchers.
// On error the previous output is kept.
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	filter, query, groupBy, sortBy := v.filter, v.query, v.groupBy, v.sortBy
	v.mu.Unlock()

	expenses, err := v.fetch(ctx, filter)
	if err != nil {
		log.Errorf("could not refresh expense list: %v", err)
		return err
	}
	expenses = filterByQuery(expenses, query)
	sortExpenses(expenses, sortBy)
	groups := groupExpenses(expenses, groupBy)

	v.mu.Lock()
	v.groups = groups
	for _, ch := range v.watchers {
		select {
		case ch <- groups:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- groups
		}
	}
	v.mu.Unlock()
	return nil
}

// Close drops the bus subscriptions and closes all watcher channels.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		for _, unsub := range v.unsubs {
			unsub()
		}
		v.mu.Lock()
		for id, ch := range v.watchers {
			delete(v.watchers, id)
			close(ch)
		}
		v.mu.Unlock()
	})
}

func (v *View) fetch(ctx context.Context, filter Filter) ([]expense.Expense, error) {
	if filter.Kind == FilterCategory {
		return v.reader.GetByCategory(ctx, filter.Category)
	}
	start, end, _ := filter.DateBounds(v.clock)
	if start.Equal(end) {
		return v.reader.GetByDate(ctx, start)
	}
	return v.reader.GetBetweenDates(ctx, start, end)
}

// filterByQuery applies the same matching rule as the store's search: a
// case-insensitive substring of title, notes, or the category display name.
// An empty query matches everything.
func filterByQuery(expenses []expense.Expense, query string) []expense.Expense {
	if query == "" {
		return expenses
	}
	q := strings.ToLower(query)
	matched := make([]expense.Expense, 0, len(expenses))
	for _, e := range expenses {
		if strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Notes), q) ||
			strings.Contains(strings.ToLower(e.Category.DisplayName()), q) {
			matched = append(matched, e)
		}
	}
	return matched
}

// sortExpenses reorders in place. SortByDateDesc keeps the store's native
// order (newest created first) untouched.
func sortExpenses(expenses []expense.Expense, sortBy SortBy) {
	switch sortBy {
	case SortByDateAsc:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Date.Before(expenses[j].Date)
		})
	case SortByAmountDesc:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Amount > expenses[j].Amount
		})
	case SortByAmountAsc:
		sort.SliceStable(expenses, func(i, j int) bool {
			return expenses[i].Amount < expenses[j].Amount
		})
	}
}

// groupExpenses groups stably: group keys appear in first-seen order and
// each group preserves the incoming order of its expenses.
func groupExpenses(expenses []expense.Expense, groupBy GroupBy) []Group {
	if groupBy == GroupByNone {
		if len(expenses) == 0 {
			return []Group{}
		}
		return []Group{{Expenses: expenses}}
	}

	keyOf := func(e expense.Expense) GroupKey {
		if groupBy == GroupByDate {
			return GroupKey{Date: utils.DateOf(e.Date)}
		}
		return GroupKey{Category: e.Category}
	}

	groups := []Group{}
	index := map[GroupKey]int{}
	for _, e := range expenses {
		key := keyOf(e)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Expenses = append(groups[i].Expenses, e)
	}
	return groups
}
