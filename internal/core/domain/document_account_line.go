package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DocumentAccountLine is a double-entry posting against the chart of accounts.
// Exactly one of DebitAmount and CreditAmount is positive; the other is zero.
type DocumentAccountLine struct {
	AccountLineID string          `json:"accountLineID"`
	TenantID      string          `json:"tenantID"`
	DocumentID    string          `json:"documentID"`
	AccountID     string          `json:"accountID"`
	Description   *string         `json:"description,omitempty"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	CostCenterID  *string         `json:"costCenterID,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	SortOrder     int             `json:"sortOrder"`
	AuditFields
}

// MetadataReversalOf marks a line written by cancellation of a posted document.
const MetadataReversalOf = "reversalOf"

// Validate enforces the debit-xor-credit invariant.
func (l *DocumentAccountLine) Validate() error {
	debit := l.DebitAmount.GreaterThan(decimal.Zero)
	credit := l.CreditAmount.GreaterThan(decimal.Zero)
	if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
		return fmt.Errorf("account line %d on account %s has a negative amount", l.SortOrder, l.AccountID)
	}
	if debit == credit {
		return fmt.Errorf("account line %d on account %s must have exactly one of debit or credit", l.SortOrder, l.AccountID)
	}
	return nil
}

// IsDebit reports whether the line is on the debit side.
func (l *DocumentAccountLine) IsDebit() bool {
	return l.DebitAmount.GreaterThan(decimal.Zero)
}

// Reversed returns a copy of the line with debit and credit swapped.
func (l DocumentAccountLine) Reversed() DocumentAccountLine {
	out := l
	out.DebitAmount, out.CreditAmount = l.CreditAmount, l.DebitAmount
	out.Metadata = map[string]any{MetadataReversalOf: l.AccountLineID}
	return out
}
