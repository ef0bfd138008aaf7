package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Tenant      TenantSvcFacade
	Accounts    ChartOfAccountsSvc
	CostCenters CostCenterSvc
	Documents   DocumentSvcFacade
	Numbering   NumberingSvc
	Outbox      OutboxSvc
	Tags        TagSvc
	Attachments AttachmentSvc
	Tokens      IntegrationTokenSvc
}
