package expense

import (
	"math"
	"strings"
)

// amountEpsilon is the currency comparison tolerance. Two amounts closer
// than one cent are treated as equal to guard against floating-point noise.
const amountEpsilon = 0.01

// IsDuplicate reports whether the candidate is a near-duplicate of any of
// the given expenses: same title (case-insensitive), same category, and an
// amount within one cent. The check is advisory; callers decide whether a
// detected duplicate blocks insertion.
func IsDuplicate(candidate Expense, existing []Expense) bool {
	for _, e := range existing {
		if strings.EqualFold(e.Title, candidate.Title) &&
			e.Category == candidate.Category &&
			math.Abs(e.Amount-candidate.Amount) < amountEpsilon {
			return true
		}
	}
	return false
}
