package expense

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicate(t *testing.T) {
	existing := []Expense{
		{Title: "Coffee", Category: CategoryFood, Amount: 4.50},
		{Title: "Taxi", Category: CategoryTravel, Amount: 12.00},
	}

	tests := []struct {
		name      string
		candidate Expense
		want      bool
	}{
		{
			name:      "same title different case and amount within a cent",
			candidate: Expense{Title: "coffee", Category: CategoryFood, Amount: 4.505},
			want:      true,
		},
		{
			name:      "exact match",
			candidate: Expense{Title: "Coffee", Category: CategoryFood, Amount: 4.50},
			want:      true,
		},
		{
			name:      "same title and amount but different category",
			candidate: Expense{Title: "Coffee", Category: CategoryTravel, Amount: 4.50},
			want:      false,
		},
		{
			name:      "amount differs by a full cent",
			candidate: Expense{Title: "Coffee", Category: CategoryFood, Amount: 4.51},
			want:      false,
		},
		{
			name:      "different title",
			candidate: Expense{Title: "Espresso", Category: CategoryFood, Amount: 4.50},
			want:      false,
		},
		{
			name:      "no expenses yet",
			candidate: Expense{Title: "Coffee", Category: CategoryFood, Amount: 4.50},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todayExpenses := existing
			if tt.name == "no expenses yet" {
				todayExpenses = nil
			}
			assert.Equal(t, tt.want, IsDuplicate(tt.candidate, todayExpenses))
		})
	}
}
