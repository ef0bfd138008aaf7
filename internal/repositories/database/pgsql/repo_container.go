package pgsql

import (
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TenantRepo:     newPgxTenantRepository(dbPool),
		AccountRepo:    newPgxAccountRepository(dbPool),
		CostCenterRepo: newPgxCostCenterRepository(dbPool),
		TaxRepo:        newPgxTaxRepository(dbPool),
		DocumentRepo:   newPgxDocumentRepository(dbPool),
		NumberRepo:     newPgxNumberSettingRepository(dbPool),
		OutboxRepo:     newPgxOutboxRepository(dbPool),
		TagRepo:        newPgxTagRepository(dbPool),
		AttachmentRepo: newPgxAttachmentRepository(dbPool),
		TokenRepo:      newPgxIntegrationTokenRepository(dbPool),
	}
}
