package reports

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/picka/expensetracker/internal/rest"
	log "github.com/sirupsen/logrus"
)

type CategorySummaryDTO struct {
	Category    string  `json:"category"`
	DisplayName string  `json:"displayName"`
	Color       uint32  `json:"color"`
	TotalAmount float64 `json:"totalAmount"`
	Percentage  float64 `json:"percentage"`
}

type DailySummaryDTO struct {
	Date         string  `json:"date"` // 2006-01-02
	TotalAmount  float64 `json:"totalAmount"`
	ExpenseCount int     `json:"expenseCount"`
}

type ReportDTO struct {
	StartDate   string               `json:"startDate"`
	EndDate     string               `json:"endDate"`
	TotalAmount float64              `json:"totalAmount"`
	Categories  []CategorySummaryDTO `json:"categories"`
	Days        []DailySummaryDTO    `json:"days"`
}

type ReportsHandler struct {
	reportsService ReportsService
}

func NewReportsHandler(reportsService ReportsService) *ReportsHandler {
	return &ReportsHandler{reportsService}
}

// GetReport serves the aggregated report for a date range. The range comes
// either from from/to parameters (YYYY-MM-DD) or from days=N (last N days,
// default 7), matching the reports screen's period selector.
func (handler *ReportsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	start, end, err := handler.resolvePeriod(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid report period",
			Details: err.Error(),
		}); encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	categories, err := handler.reportsService.CategoryTotals(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	days, err := handler.reportsService.DailyTotals(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	report := ReportDTO{
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
		Categories: make([]CategorySummaryDTO, 0, len(categories)),
		Days:       make([]DailySummaryDTO, 0, len(days)),
	}
	for _, c := range categories {
		report.TotalAmount += c.TotalAmount
		report.Categories = append(report.Categories, CategorySummaryDTO{
			Category:    string(c.Category),
			DisplayName: c.Category.DisplayName(),
			Color:       c.Category.Color(),
			TotalAmount: c.TotalAmount,
			Percentage:  c.Percentage,
		})
	}
	for _, d := range days {
		report.Days = append(report.Days, DailySummaryDTO{
			Date:         d.Date.Format("2006-01-02"),
			TotalAmount:  d.TotalAmount,
			ExpenseCount: d.ExpenseCount,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Export runs a simulated report export; no file is produced.
func (handler *ReportsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	if err := handler.reportsService.SimulateExport(r.Context(), format); err != nil {
		log.Errorf("export simulation interrupted: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (handler *ReportsHandler) resolvePeriod(r *http.Request) (time.Time, time.Time, error) {
	params := r.URL.Query()
	if params.Has("from") && params.Has("to") {
		start, err := time.Parse("2006-01-02", params.Get("from"))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err := time.Parse("2006-01-02", params.Get("to"))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	}

	days := 7
	if params.Has("days") {
		parsed, err := strconv.Atoi(params.Get("days"))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		days = parsed
	}
	start, end := handler.reportsService.LastNDays(days)
	return start, end, nil
}
