package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
)

// taxProvider resolves tax definitions from the taxes and item_taxes tables.
type taxProvider struct {
	BaseService
	taxRepo portsrepo.TaxDefinitionReader
}

// NewTaxProvider creates the storage-backed tax-definition provider.
func NewTaxProvider(repo portsrepo.TaxDefinitionReader) portssvc.TaxDefinitionProvider {
	return &taxProvider{taxRepo: repo}
}

var _ portssvc.TaxDefinitionProvider = (*taxProvider)(nil)

func (p *taxProvider) ResolveTaxesFor(ctx context.Context, itemID, tenantID string) ([]domain.TaxDefinition, error) {
	taxes, err := p.taxRepo.FindTaxesForItem(ctx, tenantID, itemID)
	if err != nil {
		p.LogError(ctx, err, "Failed to resolve item taxes",
			slog.String("item_id", itemID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	return taxes, nil
}

// ResolveTaxesByIDs returns the requested taxes; an unknown id is a validation failure.
func (p *taxProvider) ResolveTaxesByIDs(ctx context.Context, taxIDs []string, tenantID string) ([]domain.TaxDefinition, error) {
	if len(taxIDs) == 0 {
		return nil, nil
	}
	taxes, err := p.taxRepo.FindTaxesByIDs(ctx, tenantID, taxIDs)
	if err != nil {
		return nil, err
	}
	found := make(map[string]struct{}, len(taxes))
	for _, t := range taxes {
		found[t.TaxID] = struct{}{}
	}
	for _, id := range taxIDs {
		if _, ok := found[id]; !ok {
			return nil, apperrors.NewValidationFailedError("taxIDs", "unknown tax "+id)
		}
	}
	return taxes, nil
}
