package repository

import (
	"context"

	"github.com/nomadecampers/nomade-api/internal/models"
	"gorm.io/gorm"
)

// BudgetRepository defines the interface for budget data access
type BudgetRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Budget, error)
	FindByProject(ctx context.Context, projectID uint) ([]models.Budget, error)
	FindPrimaryByProject(ctx context.Context, projectID uint) (*models.Budget, error)
	Create(ctx context.Context, budget *models.Budget) error
	Update(ctx context.Context, budget *models.Budget) error
	Delete(ctx context.Context, id uint) error
	ReplaceItems(ctx context.Context, budgetID uint, items []models.BudgetItem) error
	SetPrimary(ctx context.Context, projectID, budgetID uint) error
}

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) FindByID(ctx context.Context, id uint) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&budget, id).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) FindByProject(ctx context.Context, projectID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Order("created_at DESC").
		Find(&budgets).Error
	return budgets, err
}

func (r *budgetRepository) FindPrimaryByProject(ctx context.Context, projectID uint) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_primary = ?", projectID, true).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	return r.db.WithContext(ctx).Create(budget).Error
}

func (r *budgetRepository) Update(ctx context.Context, budget *models.Budget) error {
	return r.db.WithContext(ctx).Omit("Items").Save(budget).Error
}

func (r *budgetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", id).Delete(&models.BudgetItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Budget{}, id).Error
	})
}

// ReplaceItems swaps the full line-item set of a budget in one transaction,
// so a failure can never leave the budget with no items.
func (r *budgetRepository) ReplaceItems(ctx context.Context, budgetID uint, items []models.BudgetItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budgetID).Delete(&models.BudgetItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].BudgetID = budgetID
		}
		return tx.Create(&items).Error
	})
}

// SetPrimary marks one budget as primary and clears the flag on every other
// budget of the project in the same transaction.
func (r *budgetRepository) SetPrimary(ctx context.Context, projectID, budgetID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Budget{}).
			Where("project_id = ? AND id <> ?", projectID, budgetID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Budget{}).
			Where("id = ? AND project_id = ?", budgetID, projectID).
			Update("is_primary", true).Error
	})
}
