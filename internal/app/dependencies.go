package app

import (
	"database/sql"
	"time"

	"github.com/picka/expensetracker/internal/config"
	"github.com/picka/expensetracker/internal/event_bus"
	"github.com/picka/expensetracker/internal/utils"
	"github.com/picka/expensetracker/pkg/expense"
	"github.com/picka/expensetracker/pkg/expense_list"
	"github.com/picka/expensetracker/pkg/reports"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	ExpenseRepo    expense.ExpenseRepo
	ExpenseService *expense.ExpenseServiceImpl
	ExpenseHandler *expense.ExpenseHandler

	ListView    *expense_list.View
	ViewHandler *expense_list.ViewHandler

	ReportsService *reports.ReportsServiceImpl
	ReportsHandler *reports.ReportsHandler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = utils.SystemClock{}

	deps.ExpenseRepo = expense.NewExpenseRepo(db)
	deps.ExpenseService = expense.NewExpenseService(deps.ExpenseRepo, deps.EventBus, deps.Clock)
	deps.ExpenseHandler = expense.NewExpenseHandler(deps.ExpenseService)

	deps.ListView = expense_list.NewView(deps.ExpenseService, deps.EventBus, deps.Clock)
	deps.ViewHandler = expense_list.NewViewHandler(deps.ListView)

	exportDelay := time.Duration(cfg.Export.DelaySeconds) * time.Second
	deps.ReportsService = reports.NewReportsService(deps.ExpenseRepo, deps.Clock, exportDelay)
	deps.ReportsHandler = reports.NewReportsHandler(deps.ReportsService)

	return deps
}
