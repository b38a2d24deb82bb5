package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/picka/expensetracker/internal/rest"
	log "github.com/sirupsen/logrus"
)

type ExpenseDTO struct {
	Id          int64      `json:"id"`
	Title       string     `json:"title"`
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
	Notes       string     `json:"notes,omitempty"`
	HasReceipt  bool       `json:"hasReceipt"`
	ReceiptPath string     `json:"receiptPath,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	Date        string     `json:"date,omitempty"` // 2006-01-02
}

type ExpenseHandler struct {
	expenseService ExpenseService
}

func NewExpenseHandler(expenseService ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService}
}

// Register creates a new expense. Unless the request carries ?force=true,
// a same-day near-duplicate is rejected with 409 so the client can ask the
// user to confirm.
func (handler *ExpenseHandler) Register(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new expense")
	w.Header().Set("Content-Type", "application/json")

	var expenseDTO ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&expenseDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	expense, err := DTOToExpense(expenseDTO)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	if r.URL.Query().Get("force") != "true" {
		duplicate, err := handler.expenseService.IsDuplicateToday(r.Context(), expense)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if duplicate {
			w.WriteHeader(http.StatusConflict)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Similar expense already exists today",
				Details: "Repeat the request with force=true to add it anyway",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
	}

	createdExpense, err := handler.expenseService.Create(r.Context(), expense)
	if err != nil {
		if isValidationError(err) {
			writeValidationError(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(createdExpense)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// List serves the one-shot read queries: all expenses, by date, by category,
// by date range, or free-text search, selected through query parameters.
func (handler *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var expenses []Expense
	var err error
	params := r.URL.Query()
	switch {
	case params.Has("date"):
		var date time.Time
		date, err = time.Parse("2006-01-02", params.Get("date"))
		if err != nil {
			http.Error(w, "Invalid date format, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		expenses, err = handler.expenseService.GetByDate(r.Context(), date)
	case params.Has("category"):
		var category Category
		category, err = ParseCategory(params.Get("category"))
		if err != nil {
			writeValidationError(w, err)
			return
		}
		expenses, err = handler.expenseService.GetByCategory(r.Context(), category)
	case params.Has("from") && params.Has("to"):
		var from, to time.Time
		from, err = time.Parse("2006-01-02", params.Get("from"))
		if err == nil {
			to, err = time.Parse("2006-01-02", params.Get("to"))
		}
		if err != nil {
			http.Error(w, "Invalid date format, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		expenses, err = handler.expenseService.GetBetweenDates(r.Context(), from, to)
	case params.Has("q"):
		expenses, err = handler.expenseService.Search(r.Context(), params.Get("q"))
	default:
		expenses, err = handler.expenseService.GetAll(r.Context())
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	expensesDTO := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		expensesDTO = append(expensesDTO, ExpenseToDTO(e))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(expensesDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	expenseId, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var expenseDTO ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&expenseDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if expenseDTO.Id == 0 || expenseDTO.Id != expenseId {
		http.Error(w, "Invalid expense id in request body", http.StatusBadRequest)
		return
	}

	expense, err := DTOToExpense(expenseDTO)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	ok, err := handler.expenseService.Update(r.Context(), expense)
	if err != nil {
		if isValidationError(err) {
			writeValidationError(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(expenseDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	expenseId, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := handler.expenseService.DeleteById(r.Context(), expenseId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TodayTotal serves the running total for the current day.
func (handler *ExpenseHandler) TodayTotal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	total, err := handler.expenseService.TodayTotal(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(struct {
		Total float64 `json:"total"`
	}{total}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func ExpenseToDTO(expense Expense) ExpenseDTO {
	var createdAt *time.Time
	if !expense.CreatedAt.IsZero() {
		createdAt = &expense.CreatedAt
	}
	var date string
	if !expense.Date.IsZero() {
		date = expense.Date.Format("2006-01-02")
	}
	return ExpenseDTO{
		Id:          expense.Id,
		Title:       expense.Title,
		Amount:      expense.Amount,
		Category:    string(expense.Category),
		Notes:       expense.Notes,
		HasReceipt:  expense.HasReceipt,
		ReceiptPath: expense.ReceiptPath,
		CreatedAt:   createdAt,
		Date:        date,
	}
}

func DTOToExpense(expenseDTO ExpenseDTO) (Expense, error) {
	category, err := ParseCategory(expenseDTO.Category)
	if err != nil {
		return Expense{}, err
	}
	var date time.Time
	if expenseDTO.Date != "" {
		date, err = time.Parse("2006-01-02", expenseDTO.Date)
		if err != nil {
			return Expense{}, err
		}
	}
	var createdAt time.Time
	if expenseDTO.CreatedAt != nil {
		createdAt = *expenseDTO.CreatedAt
	}
	return Expense{
		Id:          expenseDTO.Id,
		Title:       expenseDTO.Title,
		Amount:      expenseDTO.Amount,
		Category:    category,
		Notes:       expenseDTO.Notes,
		HasReceipt:  expenseDTO.HasReceipt,
		ReceiptPath: expenseDTO.ReceiptPath,
		CreatedAt:   createdAt,
		Date:        date,
	}, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrBlankTitle) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrNotesTooLong)
}

func writeValidationError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
