package repository

import (
	"context"
	"time"

	"github.com/nomadecampers/nomade-api/internal/models"
	"gorm.io/gorm"
)

// InvoiceStats aggregates billing totals for the dashboard
type InvoiceStats struct {
	TotalBilled    float64 `json:"total_billed"`
	TotalCollected float64 `json:"total_collected"`
	TotalPending   float64 `json:"total_pending"`
	OverdueCount   int64   `json:"overdue_count"`
}

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	FindByProject(ctx context.Context, projectID uint) ([]models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error)
	FindOverdue(ctx context.Context, notRemindedSince time.Time) ([]models.Invoice, error)
	MarkReminderSent(ctx context.Context, id uint, at time.Time) error
	NextSequence(ctx context.Context, year int) (int, error)
	Stats(ctx context.Context, year int) (*InvoiceStats, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Project.Client").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByProject(ctx context.Context, projectID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("issued_at ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN projects ON projects.id = invoices.project_id").
			Joins("LEFT JOIN clients ON clients.id = projects.client_id").
			Where("invoices.number ILIKE ? OR invoices.concept ILIKE ? OR clients.full_name ILIKE ?",
				search, search, search)
	}

	if query.Filters["status"] != "" {
		db = db.Where("invoices.status = ?", query.Filters["status"])
	}

	if query.Filters["tranche"] != "" {
		db = db.Where("invoices.tranche = ?", query.Filters["tranche"])
	}

	if query.Filters["project_id"] != "" {
		db = db.Where("invoices.project_id = ?", query.Filters["project_id"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := "invoices." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("invoices.issued_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Project").Preload("Project.Client").Find(&invoices).Error
	return invoices, total, err
}

// FindOverdue returns pending invoices past due that have not been reminded
// since the given time.
func (r *invoiceRepository) FindOverdue(ctx context.Context, notRemindedSince time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < NOW()", models.InvoiceStatusPending).
		Where("overdue_reminder_sent_at IS NULL OR overdue_reminder_sent_at < ?", notRemindedSince).
		Preload("Project").
		Preload("Project.Client").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) MarkReminderSent(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Update("overdue_reminder_sent_at", at).Error
}

// NextSequence returns the next invoice sequence number within a year
func (r *invoiceRepository) NextSequence(ctx context.Context, year int) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("EXTRACT(YEAR FROM issued_at) = ?", year).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

func (r *invoiceRepository) Stats(ctx context.Context, year int) (*InvoiceStats, error) {
	stats := &InvoiceStats{}
	db := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("EXTRACT(YEAR FROM issued_at) = ? AND status <> ?", year, models.InvoiceStatusCancelled)

	type totals struct {
		Billed    float64
		Collected float64
	}
	var t totals
	err := db.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total), 0) as billed, COALESCE(SUM(CASE WHEN status = 'paid' THEN total ELSE 0 END), 0) as collected").
		Scan(&t).Error
	if err != nil {
		return nil, err
	}
	stats.TotalBilled = t.Billed
	stats.TotalCollected = t.Collected
	stats.TotalPending = t.Billed - t.Collected

	err = r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("status = ? AND due_date < NOW()", models.InvoiceStatusPending).
		Count(&stats.OverdueCount).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
