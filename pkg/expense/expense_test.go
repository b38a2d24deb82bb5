package expense

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{input: "STAFF", want: CategoryStaff},
		{input: "Travel", want: CategoryTravel},
		{input: "food", want: CategoryFood},
		{input: "Utility", want: CategoryUtility},
		{input: "groceries", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			category, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, category)
		})
	}
}

func TestCategoryDisplayNameAndColor(t *testing.T) {
	assert.Equal(t, "Staff", CategoryStaff.DisplayName())
	assert.Equal(t, "Travel", CategoryTravel.DisplayName())
	assert.Equal(t, "Food", CategoryFood.DisplayName())
	assert.Equal(t, "Utility", CategoryUtility.DisplayName())

	for _, c := range Categories() {
		assert.NotZero(t, c.Color(), "category %s must have a display color", c)
	}
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{Title: "Lunch", Amount: 12.50, Category: CategoryFood}

	t.Run("valid expense", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("blank title", func(t *testing.T) {
		e := valid
		e.Title = "   "
		assert.ErrorIs(t, e.Validate(), ErrBlankTitle)
	})

	t.Run("zero amount", func(t *testing.T) {
		e := valid
		e.Amount = 0
		assert.ErrorIs(t, e.Validate(), ErrInvalidAmount)
	})

	t.Run("negative amount", func(t *testing.T) {
		e := valid
		e.Amount = -3
		assert.ErrorIs(t, e.Validate(), ErrInvalidAmount)
	})

	t.Run("unknown category", func(t *testing.T) {
		e := valid
		e.Category = "GROCERIES"
		assert.ErrorIs(t, e.Validate(), ErrUnknownCategory)
	})

	t.Run("notes too long", func(t *testing.T) {
		e := valid
		e.Notes = strings.Repeat("x", MaxNotesLen+1)
		assert.ErrorIs(t, e.Validate(), ErrNotesTooLong)
	})
}
