package repository

import (
	"context"
	"strings"
	"time"

	"github.com/nomadecampers/nomade-api/internal/models"
	"gorm.io/gorm"
)

// ContractDocumentRepository defines the interface for archived contract
// document data access
type ContractDocumentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ContractDocument, error)
	FindByProject(ctx context.Context, projectID uint) ([]models.ContractDocument, error)
	Create(ctx context.Context, doc *models.ContractDocument) error
	Update(ctx context.Context, doc *models.ContractDocument) error
	Delete(ctx context.Context, id uint) error
}

type contractDocumentRepository struct {
	db *gorm.DB
}

// NewContractDocumentRepository creates a new contract document repository
func NewContractDocumentRepository(db *gorm.DB) ContractDocumentRepository {
	return &contractDocumentRepository{db: db}
}

func (r *contractDocumentRepository) FindByID(ctx context.Context, id uint) (*models.ContractDocument, error) {
	var doc models.ContractDocument
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Author").
		First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *contractDocumentRepository) FindByProject(ctx context.Context, projectID uint) ([]models.ContractDocument, error) {
	var docs []models.ContractDocument
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Preload("Author").
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *contractDocumentRepository) Create(ctx context.Context, doc *models.ContractDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *contractDocumentRepository) Update(ctx context.Context, doc *models.ContractDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *contractDocumentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ContractDocument{}, id).Error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Notification, error)
	FindByUser(ctx context.Context, userID uint, query *ListQuery) ([]models.Notification, int64, error)
	Create(ctx context.Context, notification *models.Notification) error
	Update(ctx context.Context, notification *models.Notification) error
	Delete(ctx context.Context, id uint) error
	MarkAllAsRead(ctx context.Context, userID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) FindByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).First(&notification, id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindByUser(ctx context.Context, userID uint, query *ListQuery) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)

	if status, ok := query.Filters["status"]; ok && status != "" {
		switch strings.ToLower(status) {
		case "unread":
			db = db.Where("read_at IS NULL")
		case "read":
			db = db.Where("read_at IS NOT NULL")
		}
	}

	db.Count(&total)
	db = db.Order("created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&notifications).Error
	return notifications, total, err
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Notification{}, id).Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", now).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// RefreshTokenRepository defines the interface for refresh token data access
type RefreshTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Create(ctx context.Context, rt *models.RefreshToken) error
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *refreshTokenRepository) Create(ctx context.Context, rt *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}
