package app

import (
	"github.com/gorilla/mux"
	"github.com/picka/expensetracker/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Expenses
	r.HandleFunc("/api/expense", deps.ExpenseHandler.Register).Methods("POST")
	r.HandleFunc("/api/expense", deps.ExpenseHandler.List).Methods("GET")
	r.HandleFunc("/api/expense/{id}", deps.ExpenseHandler.Update).Methods("PUT")
	r.HandleFunc("/api/expense/{id}", deps.ExpenseHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/expense/today/total", deps.ExpenseHandler.TodayTotal).Methods("GET")

	// List view (filter / search / group / sort)
	r.HandleFunc("/api/list", deps.ViewHandler.Get).Methods("GET")
	r.HandleFunc("/api/list/filter", deps.ViewHandler.SetFilter).Methods("PUT")
	r.HandleFunc("/api/list/query", deps.ViewHandler.SetQuery).Methods("PUT")
	r.HandleFunc("/api/list/groupby", deps.ViewHandler.SetGroupBy).Methods("PUT")
	r.HandleFunc("/api/list/groupby/cycle", deps.ViewHandler.CycleGroupBy).Methods("POST")
	r.HandleFunc("/api/list/sortby", deps.ViewHandler.SetSortBy).Methods("PUT")

	// Reports
	r.HandleFunc("/api/reports", deps.ReportsHandler.GetReport).Methods("GET")
	r.HandleFunc("/api/reports/export", deps.ReportsHandler.Export).Methods("POST")
}
