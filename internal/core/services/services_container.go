package services

import (
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/platform/config"
)

// PostingAccountsFromConfig maps configured account codes onto the posting rules' accounts.
func PostingAccountsFromConfig(codes config.PostingAccountCodes) PostingAccounts {
	accounts := DefaultPostingAccounts()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&accounts.Cash, codes.Cash)
	set(&accounts.Receivable, codes.Receivable)
	set(&accounts.Inventory, codes.Inventory)
	set(&accounts.TaxReceivable, codes.TaxReceivable)
	set(&accounts.Payable, codes.Payable)
	set(&accounts.TaxPayable, codes.TaxPayable)
	set(&accounts.Revenue, codes.Revenue)
	set(&accounts.CostOfGoods, codes.CostOfGoods)
	return accounts
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize tenant service first since every other service authorizes through it
	container.Tenant = NewTenantService(repos.TenantRepo)
	authorizer := WithTenantAuthorizer(container.Tenant)

	container.Accounts = NewChartOfAccountsService(repos.AccountRepo, authorizer)
	container.CostCenters = NewCostCenterService(repos.CostCenterRepo, authorizer)
	container.Numbering = NewNumberingService(repos.NumberRepo, cfg.NumberPadding, cfg.NumberPeriodFormat, authorizer)

	container.Documents = NewDocumentService(
		repos.DocumentRepo,
		WithDocumentTenantAuthorizer(container.Tenant),
		WithPermissionChecker(container.Tenant),
		WithTaxProvider(NewTaxProvider(repos.TaxRepo)),
		WithNumberer(container.Numbering),
		WithLedgerResolvers(container.Accounts, container.CostCenters),
		WithPostingAccounts(PostingAccountsFromConfig(cfg.PostingAccounts)),
	)

	container.Outbox = NewOutboxService(repos.OutboxRepo, authorizer)
	container.Tags = NewTagService(repos.TagRepo, container.Documents, container.Documents, authorizer)
	container.Attachments = NewAttachmentService(repos.AttachmentRepo, container.Documents, container.Documents, authorizer)
	container.Tokens = NewIntegrationTokenService(repos.TokenRepo, authorizer)

	return container
}
