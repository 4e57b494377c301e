package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/nomadecampers/nomade-api/internal/models"
)

// UserRepository is the data access layer for staff accounts. Deactivated
// accounts are soft-deleted via discarded_at and excluded from every read.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.User, int64, error)
	FindAdmins(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.active(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.active(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return errors.New("Ya existe un usuario con este correo electrónico")
		}
		return err
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("discarded_at", gorm.Expr("NOW()")).Error
}

func (r *userRepository) Restore(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("discarded_at", nil).Error
}

func (r *userRepository) List(ctx context.Context, query *ListQuery) ([]models.User, int64, error) {
	db := r.active(ctx).Model(&models.User{})

	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Where("full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", term, term, term)
	}
	if role := query.Filters["role"]; role != "" {
		db = db.Where("role = ?", role)
	}
	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	err := query.apply(db).Find(&users).Error
	return users, total, err
}

// FindAdmins returns the active admins, the audience of system notifications
func (r *userRepository) FindAdmins(ctx context.Context) ([]models.User, error) {
	var admins []models.User
	err := r.active(ctx).
		Where("role = ? AND status = ?", models.RoleAdmin, models.StatusActive).
		Find(&admins).Error
	return admins, err
}

// active scopes every query to non-discarded rows
func (r *userRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("discarded_at IS NULL")
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

// ListQuery carries the pagination, search and filter parameters shared by
// the list endpoints.
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery returns a ListQuery with the default page size
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// apply adds the query's ordering and pagination to db
func (q *ListQuery) apply(db *gorm.DB) *gorm.DB {
	if q.SortBy != "" {
		order := q.SortBy
		if q.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}
	if q.PerPage > 0 {
		db = db.Offset((q.Page - 1) * q.PerPage).Limit(q.PerPage)
	}
	return db
}
