package domain

import "github.com/shopspring/decimal"

// TaxType distinguishes percentage taxes from flat amounts.
type TaxType string

const (
	TaxPercentage TaxType = "PERCENTAGE"
	TaxFixed      TaxType = "FIXED"
)

// TaxDefinition is the provider's view of a tax at computation time.
// Rate is a fraction (0.10 for 10%).
type TaxDefinition struct {
	TaxID  string           `json:"taxID"`
	Name   string           `json:"name"`
	Type   TaxType          `json:"type"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// DocumentTaxLine is a snapshot of a tax applied to an item, or to the whole document
// when DocumentItemID is nil. Name and rate are copied so later edits to the
// definition never alter historical documents.
type DocumentTaxLine struct {
	TaxLineID      string           `json:"taxLineID"`
	TenantID       string           `json:"tenantID"`
	DocumentID     string           `json:"documentID"`
	DocumentItemID *string          `json:"documentItemID,omitempty"`
	TaxID          *string          `json:"taxID,omitempty"`
	TaxName        string           `json:"taxName"`
	TaxType        TaxType          `json:"taxType"`
	TaxRate        *decimal.Decimal `json:"taxRate,omitempty"`
	TaxAmount      decimal.Decimal  `json:"taxAmount"`
	TaxableBase    decimal.Decimal  `json:"taxableBase"`
	AuditFields
}
