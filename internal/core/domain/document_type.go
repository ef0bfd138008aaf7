package domain

import "sort"

// DocumentType describes one registered document key.
type DocumentType struct {
	Key           string `json:"key"` // e.g. sales.invoice
	Module        Module `json:"module"`
	Name          string `json:"name"`
	NumberPrefix  string `json:"numberPrefix"`
	RequiresItems bool   `json:"requiresItems"`
	ApprovalSteps int    `json:"approvalSteps"`
	Reverses      bool   `json:"reverses"` // Posting rule swaps the ordinary sides (credit notes)
}

var documentTypes = map[string]DocumentType{
	"sales.order":          {Key: "sales.order", Module: ModuleSales, Name: "Sales Order", NumberPrefix: "SO", RequiresItems: true, ApprovalSteps: 1},
	"sales.invoice":        {Key: "sales.invoice", Module: ModuleSales, Name: "Sales Invoice", NumberPrefix: "INV", RequiresItems: true, ApprovalSteps: 1},
	"sales.credit_note":    {Key: "sales.credit_note", Module: ModuleSales, Name: "Credit Note", NumberPrefix: "CN", RequiresItems: true, ApprovalSteps: 1, Reverses: true},
	"purchasing.po":        {Key: "purchasing.po", Module: ModulePurchase, Name: "Purchase Order", NumberPrefix: "PO", RequiresItems: true, ApprovalSteps: 2},
	"purchasing.grn":       {Key: "purchasing.grn", Module: ModulePurchase, Name: "Goods Received Note", NumberPrefix: "GRN", RequiresItems: true, ApprovalSteps: 1},
	"accounting.journal":   {Key: "accounting.journal", Module: ModuleAccounting, Name: "Journal Entry", NumberPrefix: "JE", RequiresItems: false, ApprovalSteps: 1},
	"inventory.transfer":   {Key: "inventory.transfer", Module: ModuleInventory, Name: "Stock Transfer", NumberPrefix: "TRF", RequiresItems: true, ApprovalSteps: 1},
	"inventory.adjustment": {Key: "inventory.adjustment", Module: ModuleInventory, Name: "Stock Adjustment", NumberPrefix: "ADJ", RequiresItems: true, ApprovalSteps: 1},
	"inventory.count":      {Key: "inventory.count", Module: ModuleInventory, Name: "Stock Count", NumberPrefix: "CNT", RequiresItems: true, ApprovalSteps: 1},
}

// LookupDocumentType returns the registered type for a key.
func LookupDocumentType(key string) (DocumentType, bool) {
	t, ok := documentTypes[key]
	return t, ok
}

// DocumentTypes returns the registry sorted by key.
func DocumentTypes() []DocumentType {
	out := make([]DocumentType, 0, len(documentTypes))
	for _, t := range documentTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
