package services

import (
	"github.com/nomadecampers/nomade-api/internal/config"
	"github.com/nomadecampers/nomade-api/internal/jobs"
	"github.com/nomadecampers/nomade-api/internal/repository"
	"github.com/nomadecampers/nomade-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Client       *ClientService
	Catalog      *CatalogService
	Project      *ProjectService
	Budget       *BudgetService
	Contract     *ContractService
	Billing      *BillingService
	Notification *NotificationService
	Report       *ReportService
	Audit        *AuditService
	Email        *EmailService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)
	imageSvc := NewImageService(cfg.StoragePath + "/uploads")
	jobSvc := NewJobService(worker)

	catalogSvc := NewCatalogService(repos.Catalog, auditSvc)
	projectSvc := NewProjectService(repos.Project, repos.Client, auditSvc, notificationSvc)
	budgetSvc := NewBudgetService(repos.Budget, repos.Project, repos.Client, catalogSvc, projectSvc, emailSvc, auditSvc, notificationSvc)
	contractSvc := NewContractService(repos.ContractDocument, repos.Project, repos.Client, repos.Budget, repos.Catalog,
		projectSvc, store, emailSvc, auditSvc, notificationSvc, worker, cfg)
	billingSvc := NewBillingService(repos.Invoice, repos.Project, repos.Budget, repos.User, emailSvc, auditSvc, notificationSvc)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:         NewUserService(repos.User, worker, emailSvc, auditSvc, imageSvc),
		Client:       NewClientService(repos.Client, auditSvc, notificationSvc),
		Catalog:      catalogSvc,
		Project:      projectSvc,
		Budget:       budgetSvc,
		Contract:     contractSvc,
		Billing:      billingSvc,
		Notification: notificationSvc,
		Report:       NewReportService(repos.Project, repos.Invoice, repos.Client),
		Audit:        auditSvc,
		Email:        emailSvc,
		Job:          jobSvc,
	}
}
