package expense

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of spending classifications. Values are stored
// by name; unknown names are rejected at the persistence boundary.
type Category string

const (
	CategoryStaff   Category = "STAFF"
	CategoryTravel  Category = "TRAVEL"
	CategoryFood    Category = "FOOD"
	CategoryUtility Category = "UTILITY"
)

// Categories returns all categories in their fixed display order.
func Categories() []Category {
	return []Category{CategoryStaff, CategoryTravel, CategoryFood, CategoryUtility}
}

// DisplayName is the human-readable label shown in lists and matched by
// free-text search.
func (c Category) DisplayName() string {
	switch c {
	case CategoryStaff:
		return "Staff"
	case CategoryTravel:
		return "Travel"
	case CategoryFood:
		return "Food"
	case CategoryUtility:
		return "Utility"
	}
	return string(c)
}

// Color is the category's display color as 0xAARRGGBB.
func (c Category) Color() uint32 {
	switch c {
	case CategoryStaff:
		return 0xFFFF6B6B
	case CategoryTravel:
		return 0xFF4ECDC4
	case CategoryFood:
		return 0xFF45B7D1
	case CategoryUtility:
		return 0xFF96CEB4
	}
	return 0
}

// ParseCategory maps a stored or user-supplied name onto the closed set.
// Both the enum name and the display name are accepted, case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.DisplayName()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MaxNotesLen bounds the optional notes field.
const MaxNotesLen = 100

var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrBlankTitle      = errors.New("title must not be blank")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNotesTooLong    = errors.New("notes must be at most 100 characters")
)

// Expense is a single recorded spending transaction. Id 0 means the record
// has not been persisted yet; the store assigns an id on insert.
type Expense struct {
	Id          int64
	Title       string
	Amount      float64
	Category    Category
	Notes       string
	HasReceipt  bool
	ReceiptPath string
	// CreatedAt is the record's creation timestamp, set once and never mutated.
	CreatedAt time.Time
	// Date is the calendar day the expense is attributed to; it may differ
	// from CreatedAt's day.
	Date time.Time
}

// Validate applies the store's defense-in-depth checks. Primary validation
// of raw user input is the caller's responsibility.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrBlankTitle
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return err
	}
	if len(e.Notes) > MaxNotesLen {
		return ErrNotesTooLong
	}
	return nil
}
