package services

import (
	"fmt"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingAccounts names the chart of accounts codes the built-in posting rules post to.
type PostingAccounts struct {
	Cash          string
	Receivable    string
	Inventory     string
	TaxReceivable string
	Payable       string
	TaxPayable    string
	Revenue       string
	CostOfGoods   string
}

// DefaultPostingAccounts returns the account codes used when none are configured.
func DefaultPostingAccounts() PostingAccounts {
	return PostingAccounts{
		Cash:          "1000",
		Receivable:    "1100",
		Inventory:     "1200",
		TaxReceivable: "1300",
		Payable:       "2000",
		TaxPayable:    "2100",
		Revenue:       "4000",
		CostOfGoods:   "5000",
	}
}

// PostingLine is a ledger line before account resolution. Exactly one of AccountCode and
// AccountID identifies the account.
type PostingLine struct {
	AccountCode  string
	AccountID    string
	Description  string
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
	CostCenterID *string
}

// PostingInput is what a posting rule sees of the document being posted.
type PostingInput struct {
	Document domain.Document
	Type     domain.DocumentType
	Accounts PostingAccounts
}

// PostingRule turns a document into ledger lines. Rules are pure; the controller resolves
// accounts, validates every line and checks the balance before anything is stored.
type PostingRule func(in PostingInput) ([]PostingLine, error)

// DefaultPostingRules returns the built-in rule of each module.
func DefaultPostingRules() map[domain.Module]PostingRule {
	return map[domain.Module]PostingRule{
		domain.ModuleSales:      SalesPostingRule,
		domain.ModulePurchase:   PurchasePostingRule,
		domain.ModuleAccounting: JournalPostingRule,
		domain.ModuleInventory:  InventoryPostingRule,
	}
}

func debit(code string, amount decimal.Decimal, desc string, cc *string) PostingLine {
	return PostingLine{AccountCode: code, DebitAmount: amount, CreditAmount: decimal.Zero, Description: desc, CostCenterID: cc}
}

func credit(code string, amount decimal.Decimal, desc string, cc *string) PostingLine {
	return PostingLine{AccountCode: code, DebitAmount: decimal.Zero, CreditAmount: amount, Description: desc, CostCenterID: cc}
}

type costCenterAmount struct {
	CostCenterID *string
	Amount       decimal.Decimal
}

// netByCostCenter groups the net item amounts (gross minus discount) by cost center, in
// order of first appearance.
func netByCostCenter(items []domain.DocumentItem) []costCenterAmount {
	var out []costCenterAmount
	index := map[string]int{}
	for i := range items {
		it := &items[i]
		net := it.LineTotal.Sub(it.TaxAmount)
		key := ""
		cc := it.CostCenterID()
		if cc != nil {
			key = *cc
		}
		if pos, ok := index[key]; ok {
			out[pos].Amount = out[pos].Amount.Add(net)
			continue
		}
		index[key] = len(out)
		out = append(out, costCenterAmount{CostCenterID: cc, Amount: net})
	}
	return out
}

func nonZero(lines []PostingLine) []PostingLine {
	out := lines[:0]
	for _, l := range lines {
		if l.DebitAmount.IsZero() && l.CreditAmount.IsZero() {
			continue
		}
		out = append(out, l)
	}
	return out
}

func swapSides(lines []PostingLine) []PostingLine {
	for i := range lines {
		lines[i].DebitAmount, lines[i].CreditAmount = lines[i].CreditAmount, lines[i].DebitAmount
	}
	return lines
}

// SalesPostingRule debits receivables with the total and credits revenue (per cost center)
// and tax payable. Credit notes post the mirror image.
func SalesPostingRule(in PostingInput) ([]PostingLine, error) {
	doc := in.Document
	desc := fmt.Sprintf("%s %s", in.Type.Name, doc.Number)

	lines := []PostingLine{debit(in.Accounts.Receivable, doc.Total, desc, nil)}
	for _, g := range netByCostCenter(doc.Items) {
		lines = append(lines, credit(in.Accounts.Revenue, g.Amount, desc, g.CostCenterID))
	}
	lines = append(lines, credit(in.Accounts.TaxPayable, doc.TaxTotal, desc, nil))

	lines = nonZero(lines)
	if in.Type.Reverses {
		lines = swapSides(lines)
	}
	return lines, nil
}

// PurchasePostingRule debits inventory (per cost center) and tax receivable, and credits
// payables with the total.
func PurchasePostingRule(in PostingInput) ([]PostingLine, error) {
	doc := in.Document
	desc := fmt.Sprintf("%s %s", in.Type.Name, doc.Number)

	var lines []PostingLine
	for _, g := range netByCostCenter(doc.Items) {
		lines = append(lines, debit(in.Accounts.Inventory, g.Amount, desc, g.CostCenterID))
	}
	lines = append(lines,
		debit(in.Accounts.TaxReceivable, doc.TaxTotal, desc, nil),
		credit(in.Accounts.Payable, doc.Total, desc, nil),
	)
	return nonZero(lines), nil
}

// JournalPostingRule posts the manual lines carried in the document metadata verbatim.
func JournalPostingRule(in PostingInput) ([]PostingLine, error) {
	manual, err := domain.JournalLinesFromMetadata(in.Document.Metadata)
	if err != nil {
		return nil, apperrors.NewValidationFailedError("metadata.journalLines", err.Error())
	}
	lines := make([]PostingLine, 0, len(manual))
	for _, m := range manual {
		desc := ""
		if m.Description != nil {
			desc = *m.Description
		}
		lines = append(lines, PostingLine{
			AccountID:    m.AccountID,
			Description:  desc,
			DebitAmount:  m.DebitAmount,
			CreditAmount: m.CreditAmount,
			CostCenterID: m.CostCenterID,
		})
	}
	return lines, nil
}

// InventoryPostingRule moves the net value of adjustments and counts from inventory to cost of
// goods. Transfers move stock between locations only and post nothing.
func InventoryPostingRule(in PostingInput) ([]PostingLine, error) {
	doc := in.Document
	if in.Type.Key == "inventory.transfer" {
		return nil, nil
	}
	amount := doc.Subtotal.Sub(doc.DiscountTotal)
	if !amount.IsPositive() {
		return nil, nil
	}
	desc := fmt.Sprintf("%s %s", in.Type.Name, doc.Number)
	return []PostingLine{
		debit(in.Accounts.CostOfGoods, amount, desc, nil),
		credit(in.Accounts.Inventory, amount, desc, nil),
	}, nil
}
