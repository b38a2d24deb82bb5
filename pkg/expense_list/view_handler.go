package expense_list

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/picka/expensetracker/internal/rest"
	"github.com/picka/expensetracker/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type GroupDTO struct {
	Date     string               `json:"date,omitempty"` // 2006-01-02, set when grouped by date
	Category string               `json:"category,omitempty"`
	Expenses []expense.ExpenseDTO `json:"expenses"`
}

type ViewStateDTO struct {
	Filter  FilterDTO  `json:"filter"`
	Query   string     `json:"query"`
	GroupBy string     `json:"groupBy"`
	SortBy  string     `json:"sortBy"`
	Groups  []GroupDTO `json:"groups"`
}

type FilterDTO struct {
	Kind     string `json:"kind"`
	Start    string `json:"start,omitempty"` // 2006-01-02
	End      string `json:"end,omitempty"`
	Category string `json:"category,omitempty"`
}

type ViewHandler struct {
	view *View
}

func NewViewHandler(view *View) *ViewHandler {
	return &ViewHandler{view}
}

// Get returns the current view state and its grouped expense list.
func (handler *ViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// The snapshot may be empty before the first change; derive it now so a
	// fresh GET never sees an unpopulated view.
	if err := handler.view.Refresh(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	state := ViewStateDTO{
		Filter:  filterToDTO(handler.view.Filter()),
		Query:   handler.view.Query(),
		GroupBy: handler.view.GroupBy().String(),
		SortBy:  handler.view.SortBy().String(),
		Groups:  groupsToDTO(handler.view.Snapshot()),
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(state); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// SetFilter replaces the active filter.
func (handler *ViewHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var filterDTO FilterDTO
	if err := json.NewDecoder(r.Body).Decode(&filterDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	filter, err := dtoToFilter(filterDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()}); encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := handler.view.SetFilter(r.Context(), filter); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (handler *ViewHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var queryDTO struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&queryDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := handler.view.SetQuery(r.Context(), queryDTO.Query); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (handler *ViewHandler) SetGroupBy(w http.ResponseWriter, r *http.Request) {
	var groupByDTO struct {
		GroupBy string `json:"groupBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&groupByDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	groupBy, ok := parseGroupBy(groupByDTO.GroupBy)
	if !ok {
		http.Error(w, "Invalid groupBy, expected date, category or none", http.StatusBadRequest)
		return
	}
	if err := handler.view.SetGroupBy(r.Context(), groupBy); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CycleGroupBy advances the group mode and reports the new one.
func (handler *ViewHandler) CycleGroupBy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	groupBy, err := handler.view.CycleGroupBy(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(struct {
		GroupBy string `json:"groupBy"`
	}{groupBy.String()}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *ViewHandler) SetSortBy(w http.ResponseWriter, r *http.Request) {
	var sortByDTO struct {
		SortBy string `json:"sortBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&sortByDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sortBy, ok := parseSortBy(sortByDTO.SortBy)
	if !ok {
		http.Error(w, "Invalid sortBy", http.StatusBadRequest)
		return
	}
	if err := handler.view.SetSortBy(r.Context(), sortBy); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func groupsToDTO(groups []Group) []GroupDTO {
	groupsDTO := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		groupDTO := GroupDTO{
			Category: string(g.Key.Category),
			Expenses: make([]expense.ExpenseDTO, 0, len(g.Expenses)),
		}
		if !g.Key.Date.IsZero() {
			groupDTO.Date = g.Key.Date.Format("2006-01-02")
		}
		for _, e := range g.Expenses {
			groupDTO.Expenses = append(groupDTO.Expenses, expense.ExpenseToDTO(e))
		}
		groupsDTO = append(groupsDTO, groupDTO)
	}
	return groupsDTO
}

func filterToDTO(filter Filter) FilterDTO {
	filterDTO := FilterDTO{}
	switch filter.Kind {
	case FilterToday:
		filterDTO.Kind = "today"
	case FilterYesterday:
		filterDTO.Kind = "yesterday"
	case FilterThisWeek:
		filterDTO.Kind = "thisWeek"
	case FilterThisMonth:
		filterDTO.Kind = "thisMonth"
	case FilterDateRange:
		filterDTO.Kind = "dateRange"
		filterDTO.Start = filter.Start.Format("2006-01-02")
		filterDTO.End = filter.End.Format("2006-01-02")
	case FilterCategory:
		filterDTO.Kind = "category"
		filterDTO.Category = string(filter.Category)
	}
	return filterDTO
}

func dtoToFilter(filterDTO FilterDTO) (Filter, error) {
	switch filterDTO.Kind {
	case "today":
		return Today(), nil
	case "yesterday":
		return Yesterday(), nil
	case "thisWeek":
		return ThisWeek(), nil
	case "thisMonth":
		return ThisMonth(), nil
	case "dateRange":
		start, err := time.Parse("2006-01-02", filterDTO.Start)
		if err != nil {
			return Filter{}, err
		}
		end, err := time.Parse("2006-01-02", filterDTO.End)
		if err != nil {
			return Filter{}, err
		}
		return DateRange(start, end), nil
	case "category":
		category, err := expense.ParseCategory(filterDTO.Category)
		if err != nil {
			return Filter{}, err
		}
		return ByCategory(category), nil
	}
	log.Debugf("unknown filter kind %q", filterDTO.Kind)
	return Filter{}, errInvalidFilterKind
}

func parseGroupBy(s string) (GroupBy, bool) {
	switch s {
	case "date":
		return GroupByDate, true
	case "category":
		return GroupByCategory, true
	case "none":
		return GroupByNone, true
	}
	return GroupByDate, false
}

func parseSortBy(s string) (SortBy, bool) {
	switch s {
	case "dateDesc":
		return SortByDateDesc, true
	case "dateAsc":
		return SortByDateAsc, true
	case "amountDesc":
		return SortByAmountDesc, true
	case "amountAsc":
		return SortByAmountAsc, true
	}
	return SortByDateDesc, false
}
