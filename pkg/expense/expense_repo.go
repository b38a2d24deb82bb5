package expense

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Storage layouts for the date columns. created_at keeps a fixed-width
// fractional part so lexicographic ordering matches chronological ordering.
const (
	dateLayout      = "2006-01-02"
	createdAtLayout = "2006-01-02 15:04:05.000000000"
)

// CategoryTotal is a raw GROUP BY row: the summed amount per category within
// a date range. Percentage normalization happens in the reports service.
type CategoryTotal struct {
	Category    Category
	TotalAmount float64
}

// DailyTotal is a raw GROUP BY row: the summed amount and true expense count
// for one day within a date range.
type DailyTotal struct {
	Date         time.Time
	TotalAmount  float64
	ExpenseCount int
}

type ExpenseRepo interface {
	// Store persists a new expense and returns its assigned id. An expense
	// that already carries an id replaces the stored record with that id.
	Store(ctx context.Context, expense Expense) (int64, error)
	// Update replaces the record matching expense.Id. Returns false when no
	// such record exists.
	Update(ctx context.Context, expense Expense) (bool, error)
	// Delete removes the record with the given id. Returns false when no
	// such record exists.
	Delete(ctx context.Context, id int64) (bool, error)
	GetAll(ctx context.Context) ([]Expense, error)
	GetByDate(ctx context.Context, date time.Time) ([]Expense, error)
	GetByCategory(ctx context.Context, category Category) ([]Expense, error)
	// GetBetweenDates returns expenses with date in [start, end], both ends
	// inclusive, newest date first.
	GetBetweenDates(ctx context.Context, start, end time.Time) ([]Expense, error)
	// Search matches the query case-insensitively against title, notes, and
	// the category display name. An empty query matches everything.
	Search(ctx context.Context, query string) ([]Expense, error)
	TotalForDate(ctx context.Context, date time.Time) (float64, error)
	CategoryTotals(ctx context.Context, start, end time.Time) ([]CategoryTotal, error)
	DailyTotals(ctx context.Context, start, end time.Time) ([]DailyTotal, error)
}

type ExpenseRepoImpl struct {
	db *sql.DB
}

func NewExpenseRepo(db *sql.DB) *ExpenseRepoImpl {
	return &ExpenseRepoImpl{db: db}
}

const expenseColumns = "id, title, amount, category, notes, has_receipt, receipt_path, created_at, date"

func (r ExpenseRepoImpl) Store(ctx context.Context, expense Expense) (int64, error) {
	if expense.Id != 0 {
		// Insert-or-replace keeps the caller-provided id.
		query := `INSERT OR REPLACE INTO expense (
						id, title, amount, category, notes, has_receipt, receipt_path, created_at, date
					) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		stmt, err := r.db.PrepareContext(ctx, query)
		if err != nil {
			err := fmt.Errorf("could not prepare query: %w", err)
			log.Error(err)
			return 0, err
		}
		defer stmt.Close()

		_, err = stmt.ExecContext(ctx,
			expense.Id,
			expense.Title,
			expense.Amount,
			string(expense.Category),
			expense.Notes,
			expense.HasReceipt,
			expense.ReceiptPath,
			expense.CreatedAt.UTC().Format(createdAtLayout),
			expense.Date.Format(dateLayout),
		)
		if err != nil {
			err := fmt.Errorf("could not execute query: %w", err)
			log.Error(err)
			return 0, err
		}
		return expense.Id, nil
	}

	query := `INSERT INTO expense (
					title, amount, category, notes, has_receipt, receipt_path, created_at, date
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		expense.Title,
		expense.Amount,
		string(expense.Category),
		expense.Notes,
		expense.HasReceipt,
		expense.ReceiptPath,
		expense.CreatedAt.UTC().Format(createdAtLayout),
		expense.Date.Format(dateLayout),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}

	return lastInsertID, nil
}

func (r ExpenseRepoImpl) Update(ctx context.Context, expense Expense) (bool, error) {
	query := `UPDATE expense SET
					title = ?,
					amount = ?,
					category = ?,
					notes = ?,
					has_receipt = ?,
					receipt_path = ?,
					date = ?
				WHERE id = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		expense.Title,
		expense.Amount,
		string(expense.Category),
		expense.Notes,
		expense.HasReceipt,
		expense.ReceiptPath,
		expense.Date.Format(dateLayout),
		expense.Id,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}

	return rowsAffected == 1, nil
}

func (r ExpenseRepoImpl) Delete(ctx context.Context, id int64) (bool, error) {
	query := "DELETE FROM expense WHERE id = ?"
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r ExpenseRepoImpl) GetAll(ctx context.Context) ([]Expense, error) {
	query := fmt.Sprintf("SELECT %s FROM expense ORDER BY created_at DESC", expenseColumns)
	return r.queryExpenses(ctx, query)
}

func (r ExpenseRepoImpl) GetByDate(ctx context.Context, date time.Time) ([]Expense, error) {
	query := fmt.Sprintf("SELECT %s FROM expense WHERE date = ? ORDER BY created_at DESC", expenseColumns)
	return r.queryExpenses(ctx, query, date.Format(dateLayout))
}

func (r ExpenseRepoImpl) GetByCategory(ctx context.Context, category Category) ([]Expense, error) {
	query := fmt.Sprintf("SELECT %s FROM expense WHERE category = ? ORDER BY created_at DESC", expenseColumns)
	return r.queryExpenses(ctx, query, string(category))
}

func (r ExpenseRepoImpl) GetBetweenDates(ctx context.Context, start, end time.Time) ([]Expense, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM expense WHERE date BETWEEN ? AND ? ORDER BY date DESC, created_at DESC",
		expenseColumns,
	)
	return r.queryExpenses(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
}

func (r ExpenseRepoImpl) Search(ctx context.Context, searchQuery string) ([]Expense, error) {
	// SQLite's LIKE is case-insensitive for ASCII; category names match
	// their display names modulo case, so matching the stored name is
	// equivalent to matching the display name.
	query := fmt.Sprintf(
		`SELECT %s FROM expense
			WHERE title LIKE '%%' || ? || '%%'
			   OR notes LIKE '%%' || ? || '%%'
			   OR category LIKE '%%' || ? || '%%'
			ORDER BY created_at DESC`,
		expenseColumns,
	)
	return r.queryExpenses(ctx, query, searchQuery, searchQuery, searchQuery)
}

func (r ExpenseRepoImpl) TotalForDate(ctx context.Context, date time.Time) (float64, error) {
	query := "SELECT SUM(amount) FROM expense WHERE date = ?"
	row := r.db.QueryRowContext(ctx, query, date.Format(dateLayout))
	var total sql.NullFloat64
	if err := row.Scan(&total); err != nil {
		err := fmt.Errorf("could not sum amounts for date: %w", err)
		log.Error(err)
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Float64, nil
}

func (r ExpenseRepoImpl) CategoryTotals(ctx context.Context, start, end time.Time) ([]CategoryTotal, error) {
	query := `SELECT category, SUM(amount)
				FROM expense
				WHERE date BETWEEN ? AND ?
				GROUP BY category`
	rows, err := r.db.QueryContext(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		err := fmt.Errorf("could not query category totals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var categoryName string
		var total CategoryTotal
		if err := rows.Scan(&categoryName, &total.TotalAmount); err != nil {
			err := fmt.Errorf("could not scan category total: %w", err)
			log.Error(err)
			return nil, err
		}
		category, err := ParseCategory(categoryName)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		total.Category = category
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return totals, nil
}

func (r ExpenseRepoImpl) DailyTotals(ctx context.Context, start, end time.Time) ([]DailyTotal, error) {
	query := `SELECT date, SUM(amount), COUNT(*)
				FROM expense
				WHERE date BETWEEN ? AND ?
				GROUP BY date
				ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		err := fmt.Errorf("could not query daily totals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var totals []DailyTotal
	for rows.Next() {
		var dateString string
		var total DailyTotal
		if err := rows.Scan(&dateString, &total.TotalAmount, &total.ExpenseCount); err != nil {
			err := fmt.Errorf("could not scan daily total: %w", err)
			log.Error(err)
			return nil, err
		}
		date, err := time.Parse(dateLayout, dateString)
		if err != nil {
			err := fmt.Errorf("could not parse date: %w", err)
			log.Error(err)
			return nil, err
		}
		total.Date = date
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return totals, nil
}

func (r ExpenseRepoImpl) queryExpenses(ctx context.Context, query string, args ...any) ([]Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return expenses, nil
}

func scanExpense(rows *sql.Rows) (Expense, error) {
	var expense Expense
	var categoryName, createdAtString, dateString string
	if err := rows.Scan(
		&expense.Id,
		&expense.Title,
		&expense.Amount,
		&categoryName,
		&expense.Notes,
		&expense.HasReceipt,
		&expense.ReceiptPath,
		&createdAtString,
		&dateString,
	); err != nil {
		return Expense{}, fmt.Errorf("could not scan expense: %w", err)
	}

	category, err := ParseCategory(categoryName)
	if err != nil {
		return Expense{}, err
	}
	expense.Category = category

	createdAt, err := time.Parse(createdAtLayout, createdAtString)
	if err != nil {
		return Expense{}, fmt.Errorf("could not parse created_at: %w", err)
	}
	expense.CreatedAt = createdAt

	date, err := time.Parse(dateLayout, dateString)
	if err != nil {
		return Expense{}, fmt.Errorf("could not parse date: %w", err)
	}
	expense.Date = date

	return expense, nil
}
