package event_bus

import "time"

// Event types published by the expense service after each committed mutation.
// Live query result sets subscribe to all three to re-derive their snapshots.
const (
	ExpenseCreatedType EventType = "expense.created"
	ExpenseUpdatedType EventType = "expense.updated"
	ExpenseDeletedType EventType = "expense.deleted"
)

// ExpenseTypes lists every mutation event type, for subscribers that need to
// observe the store as a whole rather than a single operation.
var ExpenseTypes = []EventType{ExpenseCreatedType, ExpenseUpdatedType, ExpenseDeletedType}

// ExpenseChanged is the payload for all expense mutation events. The bus does
// not carry the full record; subscribers re-query so their snapshots always
// reflect the committed state.
type ExpenseChanged struct {
	Id       int64
	Date     time.Time // calendar day the expense is attributed to
	Category string
}
