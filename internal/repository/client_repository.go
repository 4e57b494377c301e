package repository

import (
	"context"
	"time"

	"github.com/nomadecampers/nomade-api/internal/models"
	"gorm.io/gorm"
)

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Client, error)
	FindByDNI(ctx context.Context, dni string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Client, int64, error)
	FindStaleLeads(ctx context.Context, olderThan time.Time) ([]models.Client, error)
	TouchContact(ctx context.Context, id uint) error
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Projects").
		First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) FindByDNI(ctx context.Context, dni string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("dni = ?", dni).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, id).Error
}

func (r *clientRepository) List(ctx context.Context, query *ListQuery) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Client{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR dni ILIKE ? OR company ILIKE ?",
			search, search, search, search, search)
	}

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if query.Filters["source"] != "" {
		db = db.Where("source = ?", query.Filters["source"])
	}

	if query.Filters["assigned_to"] != "" {
		db = db.Where("assigned_to = ?", query.Filters["assigned_to"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Assignee").Find(&clients).Error
	return clients, total, err
}

func (r *clientRepository) FindStaleLeads(ctx context.Context, olderThan time.Time) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Where("status = ? AND (last_contact_at IS NULL OR last_contact_at < ?) AND created_at < ?",
			models.ClientStatusLead, olderThan, olderThan).
		Find(&clients).Error
	return clients, err
}

func (r *clientRepository) TouchContact(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Update("last_contact_at", gorm.Expr("NOW()")).Error
}
