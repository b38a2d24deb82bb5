package expense

import (
	"context"
	"sync"

	"github.com/picka/expensetracker/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// LiveQuery is a subscription to a query's result set. The initial snapshot
// is delivered first; after that, every committed mutation of the store
// re-runs the query and a fresh snapshot replaces any undelivered one
// (latest-wins). A consumer therefore never observes a stale result set,
// and a slow consumer never blocks delivery to other subscriptions.
type LiveQuery struct {
	snapshots chan []Expense
	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	unsubs    []func()
}

// newLiveQuery starts a subscription whose result set is produced by run.
// Each mutation event on the bus nudges the query goroutine; the query
// itself runs outside of Publish, so a slow query never stalls the
// publisher or delivery to unrelated subscriptions. Cancelling ctx is
// equivalent to calling Close.
func newLiveQuery(ctx context.Context, bus *event_bus.EventBus, run func(context.Context) ([]Expense, error)) *LiveQuery {
	q := &LiveQuery{
		snapshots: make(chan []Expense, 1),
		notify:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	for _, eventType := range event_bus.ExpenseTypes {
		unsub := bus.Subscribe(eventType, func(event_bus.Event) error {
			q.nudge()
			return nil
		})
		q.unsubs = append(q.unsubs, unsub)
	}

	go func() {
		defer close(q.snapshots)
		for {
			expenses, err := run(ctx)
			if err != nil {
				// Keep the subscription alive; the next mutation retries.
				log.Errorf("live query failed, keeping previous snapshot: %v", err)
			} else {
				q.push(expenses)
			}

			select {
			case <-q.done:
				return
			case <-ctx.Done():
				q.Close()
				return
			case <-q.notify:
			}
		}
	}()

	return q
}

// Snapshots returns the channel of result sets. It is closed after Close
// (or context cancellation), so consumers can range over it.
func (q *LiveQuery) Snapshots() <-chan []Expense {
	return q.snapshots
}

// Close unsubscribes from the store's change notifications and releases the
// query goroutine. Safe to call more than once.
func (q *LiveQuery) Close() {
	q.closeOnce.Do(func() {
		for _, unsub := range q.unsubs {
			unsub()
		}
		close(q.done)
	})
}

func (q *LiveQuery) nudge() {
	select {
	case q.notify <- struct{}{}:
	default: // a refresh is already pending
	}
}

// push delivers the snapshot, discarding an undelivered older one.
func (q *LiveQuery) push(expenses []Expense) {
	for {
		select {
		case q.snapshots <- expenses:
			return
		default:
			select {
			case <-q.snapshots:
			default:
			}
		}
	}
}
