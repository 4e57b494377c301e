package repository

import (
	"context"

	"github.com/nomadecampers/nomade-api/internal/models"
	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	FindByCode(ctx context.Context, code string) (*models.Project, error)
	FindByClient(ctx context.Context, clientID uint) ([]models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Project, int64, error)
	CountByPhase(ctx context.Context) (map[string]int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Assignee").
		Preload("Budgets", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Budgets.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByCode(ctx context.Context, code string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("code = ?", code).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByClient(ctx context.Context, clientID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Preload("Budgets").
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
}

func (r *projectRepository) List(ctx context.Context, query *ListQuery) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Project{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN clients ON clients.id = projects.client_id").
			Where("projects.code ILIKE ? OR projects.vehicle_brand ILIKE ? OR projects.vehicle_model ILIKE ? OR projects.plate ILIKE ? OR clients.full_name ILIKE ?",
				search, search, search, search, search)
	}

	if query.Filters["phase"] != "" {
		db = db.Where("projects.phase = ?", query.Filters["phase"])
	}

	if query.Filters["client_id"] != "" {
		db = db.Where("projects.client_id = ?", query.Filters["client_id"])
	}

	if query.Filters["assigned_to"] != "" {
		db = db.Where("projects.assigned_to = ?", query.Filters["assigned_to"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := "projects." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("projects.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Client").
		Preload("Assignee").
		Preload("Budgets").
		Find(&projects).Error
	return projects, total, err
}

func (r *projectRepository) CountByPhase(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Phase string
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Select("phase, COUNT(*) as count").
		Group("phase").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Phase] = r.Count
	}
	return counts, nil
}
