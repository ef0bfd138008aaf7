package domain

import "github.com/shopspring/decimal"

// DocumentItem is an ordered line owned by a document.
// LineTotal = round(Quantity x UnitPrice) - DiscountAmount + TaxAmount.
type DocumentItem struct {
	DocumentItemID string          `json:"documentItemID"`
	DocumentID     string          `json:"documentID"`
	ItemID         string          `json:"itemID"`
	ItemName       string          `json:"itemName"`
	ItemType       string          `json:"itemType"`
	Description    *string         `json:"description,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`  // 4 fractional digits
	UnitPrice      decimal.Decimal `json:"unitPrice"` // 2 fractional digits
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
	Dimensions     map[string]any  `json:"dimensions,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	SortOrder      int             `json:"sortOrder"`
	AuditFields
}

// DimensionCostCenter is the dimension key carrying a cost center id on an item.
const DimensionCostCenter = "costCenterID"

// CostCenterID returns the cost center dimension of the item, if any.
func (i *DocumentItem) CostCenterID() *string {
	if i.Dimensions == nil {
		return nil
	}
	v, ok := i.Dimensions[DimensionCostCenter].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}
