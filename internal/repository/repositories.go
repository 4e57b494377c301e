package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User             UserRepository
	Client           ClientRepository
	Catalog          CatalogRepository
	Project          ProjectRepository
	Budget           BudgetRepository
	Invoice          InvoiceRepository
	ContractDocument ContractDocumentRepository
	Notification     NotificationRepository
	RefreshToken     RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:             NewUserRepository(db),
		Client:           NewClientRepository(db),
		Catalog:          NewCatalogRepository(db),
		Project:          NewProjectRepository(db),
		Budget:           NewBudgetRepository(db),
		Invoice:          NewInvoiceRepository(db),
		ContractDocument: NewContractDocumentRepository(db),
		Notification:     NewNotificationRepository(db),
		RefreshToken:     NewRefreshTokenRepository(db),
	}
}
