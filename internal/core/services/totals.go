package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// documentContent is the derived part of a document: items, tax lines and totals.
type documentContent struct {
	Items         []domain.DocumentItem
	TaxLines      []domain.DocumentTaxLine
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
}

// apply copies the content onto a document header.
func (c *documentContent) apply(doc *domain.Document) {
	doc.Items = c.Items
	doc.TaxLines = c.TaxLines
	doc.Subtotal = c.Subtotal
	doc.DiscountTotal = c.DiscountTotal
	doc.TaxTotal = c.TaxTotal
	doc.Total = c.Total
}

// contentInput is everything needed to derive document content.
type contentInput struct {
	TenantID         string
	DocumentID       string
	UserID           string
	Now              time.Time
	Items            []dto.DocumentItemInput
	DocumentDiscount *decimal.Decimal
	DocumentTaxIDs   []string
}

// validateItemInput checks quantity, price and discount precision and ranges.
func validateItemInput(i int, in dto.DocumentItemInput) error {
	field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }

	if !in.Quantity.IsPositive() {
		return apperrors.NewValidationFailedError(field("quantity"), "quantity must be greater than zero")
	}
	if !accounting.HasMaxPlaces(in.Quantity, accounting.QuantityPlaces) {
		return apperrors.NewValidationFailedError(field("quantity"), "quantity allows at most 4 decimal places")
	}
	if in.UnitPrice.IsNegative() {
		return apperrors.NewValidationFailedError(field("unitPrice"), "unit price cannot be negative")
	}
	if !accounting.HasMaxPlaces(in.UnitPrice, accounting.MoneyPlaces) {
		return apperrors.NewValidationFailedError(field("unitPrice"), "unit price allows at most 2 decimal places")
	}
	if in.DiscountAmount != nil {
		d := *in.DiscountAmount
		if d.IsNegative() {
			return apperrors.NewValidationFailedError(field("discountAmount"), "discount cannot be negative")
		}
		if !accounting.HasMaxPlaces(d, accounting.MoneyPlaces) {
			return apperrors.NewValidationFailedError(field("discountAmount"), "discount allows at most 2 decimal places")
		}
		if d.GreaterThan(accounting.LineGross(in.Quantity, in.UnitPrice)) {
			return apperrors.NewValidationFailedError(field("discountAmount"), "discount exceeds the line amount")
		}
	}
	return nil
}

// taxLineFor computes one tax line over a taxable base.
func taxLineFor(tax domain.TaxDefinition, base decimal.Decimal, tenantID, documentID string, itemID *string, userID string, now time.Time) (domain.DocumentTaxLine, error) {
	var amount decimal.Decimal
	switch tax.Type {
	case domain.TaxPercentage:
		if tax.Rate == nil {
			return domain.DocumentTaxLine{}, apperrors.NewValidationFailedError("taxIDs", fmt.Sprintf("tax %s has no rate", tax.Name))
		}
		amount = accounting.RoundMoney(base.Mul(*tax.Rate))
	case domain.TaxFixed:
		if tax.Amount == nil {
			return domain.DocumentTaxLine{}, apperrors.NewValidationFailedError("taxIDs", fmt.Sprintf("tax %s has no amount", tax.Name))
		}
		amount = accounting.RoundMoney(*tax.Amount)
	default:
		return domain.DocumentTaxLine{}, apperrors.NewValidationFailedError("taxIDs", fmt.Sprintf("tax %s has unknown type %s", tax.Name, tax.Type))
	}

	taxID := tax.TaxID
	line := domain.DocumentTaxLine{
		TaxLineID:      uuid.NewString(),
		TenantID:       tenantID,
		DocumentID:     documentID,
		DocumentItemID: itemID,
		TaxName:        tax.Name,
		TaxType:        tax.Type,
		TaxAmount:      amount,
		TaxableBase:    base,
		AuditFields:    domain.NewAuditFields(userID, now),
	}
	if taxID != "" {
		line.TaxID = &taxID
	}
	if tax.Rate != nil {
		rate := tax.Rate.Round(accounting.RatePlaces)
		line.TaxRate = &rate
	}
	return line, nil
}

// buildContent validates item inputs and derives items, tax lines and totals.
func buildContent(ctx context.Context, taxes portssvc.TaxDefinitionProvider, in contentInput) (*documentContent, error) {
	for i, it := range in.Items {
		if err := validateItemInput(i, it); err != nil {
			return nil, err
		}
	}

	n := len(in.Items)
	gross := make([]decimal.Decimal, n)
	discounts := make([]decimal.Decimal, n)
	nets := make([]decimal.Decimal, n)
	netTotal := decimal.Zero
	subtotal := decimal.Zero
	for i, it := range in.Items {
		gross[i] = accounting.LineGross(it.Quantity, it.UnitPrice)
		discounts[i] = decimal.Zero
		if it.DiscountAmount != nil {
			discounts[i] = *it.DiscountAmount
		}
		nets[i] = gross[i].Sub(discounts[i])
		netTotal = netTotal.Add(nets[i])
		subtotal = subtotal.Add(gross[i])
	}

	if in.DocumentDiscount != nil && !in.DocumentDiscount.IsZero() {
		dd := *in.DocumentDiscount
		if dd.IsNegative() || !accounting.HasMaxPlaces(dd, accounting.MoneyPlaces) {
			return nil, apperrors.NewValidationFailedError("documentDiscount", "document discount must be a non-negative amount with at most 2 decimal places")
		}
		if dd.GreaterThan(netTotal) {
			return nil, apperrors.NewValidationFailedError("documentDiscount", "document discount exceeds the net amount of the lines")
		}
		shares, err := accounting.Prorate(dd, nets)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("documentDiscount", "document discount needs at least one line with a positive amount")
		}
		for i := range shares {
			discounts[i] = discounts[i].Add(shares[i])
			nets[i] = gross[i].Sub(discounts[i])
		}
	}

	content := &documentContent{
		Items:         make([]domain.DocumentItem, 0, n),
		TaxLines:      []domain.DocumentTaxLine{},
		Subtotal:      subtotal,
		DiscountTotal: decimal.Zero,
		TaxTotal:      decimal.Zero,
	}

	for i, it := range in.Items {
		itemID := uuid.NewString()

		var defs []domain.TaxDefinition
		var err error
		switch {
		case taxes == nil:
		case len(it.TaxIDs) > 0:
			defs, err = taxes.ResolveTaxesByIDs(ctx, it.TaxIDs, in.TenantID)
		default:
			defs, err = taxes.ResolveTaxesFor(ctx, it.ItemID, in.TenantID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve taxes for item %s: %w", it.ItemID, err)
		}

		itemTax := decimal.Zero
		for _, def := range defs {
			id := itemID
			line, err := taxLineFor(def, nets[i], in.TenantID, in.DocumentID, &id, in.UserID, in.Now)
			if err != nil {
				return nil, err
			}
			itemTax = itemTax.Add(line.TaxAmount)
			content.TaxLines = append(content.TaxLines, line)
		}

		content.Items = append(content.Items, domain.DocumentItem{
			DocumentItemID: itemID,
			DocumentID:     in.DocumentID,
			ItemID:         it.ItemID,
			ItemName:       it.ItemName,
			ItemType:       it.ItemType,
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: discounts[i],
			TaxAmount:      itemTax,
			LineTotal:      nets[i].Add(itemTax),
			Dimensions:     it.Dimensions,
			Metadata:       it.Metadata,
			SortOrder:      i,
			AuditFields:    domain.NewAuditFields(in.UserID, in.Now),
		})
		content.DiscountTotal = content.DiscountTotal.Add(discounts[i])
	}

	if len(in.DocumentTaxIDs) > 0 && taxes != nil {
		defs, err := taxes.ResolveTaxesByIDs(ctx, in.DocumentTaxIDs, in.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve document taxes: %w", err)
		}
		base := content.Subtotal.Sub(content.DiscountTotal)
		for _, def := range defs {
			line, err := taxLineFor(def, base, in.TenantID, in.DocumentID, nil, in.UserID, in.Now)
			if err != nil {
				return nil, err
			}
			content.TaxLines = append(content.TaxLines, line)
		}
	}

	for _, tl := range content.TaxLines {
		content.TaxTotal = content.TaxTotal.Add(tl.TaxAmount)
	}
	content.Total = content.Subtotal.Sub(content.DiscountTotal).Add(content.TaxTotal)
	return content, nil
}
