package accounting

import (
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SumSides returns the total debits and credits of a set of account lines.
func SumSides(lines []domain.DocumentAccountLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.DebitAmount)
		credits = credits.Add(l.CreditAmount)
	}
	return debits, credits
}

// IsBalanced reports whether the lines' debits equal their credits.
func IsBalanced(lines []domain.DocumentAccountLine) bool {
	d, c := SumSides(lines)
	return d.Equal(c)
}
