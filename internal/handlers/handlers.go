package handlers

import (
	"github.com/nomadecampers/nomade-api/internal/services"
	"github.com/nomadecampers/nomade-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Client       *ClientHandler
	Catalog      *CatalogHandler
	Project      *ProjectHandler
	Budget       *BudgetHandler
	Contract     *ContractHandler
	Billing      *BillingHandler
	Notification *NotificationHandler
	Report       *ReportHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, storage *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Client:       NewClientHandler(svcs.Client),
		Catalog:      NewCatalogHandler(svcs.Catalog),
		Project:      NewProjectHandler(svcs.Project),
		Budget:       NewBudgetHandler(svcs.Budget),
		Contract:     NewContractHandler(svcs.Contract, storage),
		Billing:      NewBillingHandler(svcs.Billing),
		Notification: NewNotificationHandler(svcs.Notification),
		Report:       NewReportHandler(svcs.Report),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}
