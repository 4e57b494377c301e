package repository

import (
	"context"

	"github.com/nomadecampers/nomade-api/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository defines the interface for configuration option data
// access. Everything is reference data: load-all plus per-family CRUD for
// the admin screens.
type CatalogRepository interface {
	LoadCatalog(ctx context.Context) (*models.Catalog, error)

	FindEngine(ctx context.Context, id uint) (*models.EngineOption, error)
	FindPack(ctx context.Context, id uint) (*models.Pack, error)
	FindElectricSystem(ctx context.Context, id uint) (*models.ElectricSystem, error)

	CreateEngine(ctx context.Context, e *models.EngineOption) error
	UpdateEngine(ctx context.Context, e *models.EngineOption) error
	CreateModel(ctx context.Context, m *models.VehicleModel) error
	UpdateModel(ctx context.Context, m *models.VehicleModel) error
	CreateColor(ctx context.Context, c *models.ColorOption) error
	UpdateColor(ctx context.Context, c *models.ColorOption) error
	CreatePack(ctx context.Context, p *models.Pack) error
	UpdatePack(ctx context.Context, p *models.Pack) error
	CreateElectricSystem(ctx context.Context, es *models.ElectricSystem) error
	UpdateElectricSystem(ctx context.Context, es *models.ElectricSystem) error
	CreateAdditionalItem(ctx context.Context, i *models.AdditionalItem) error
	UpdateAdditionalItem(ctx context.Context, i *models.AdditionalItem) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// LoadCatalog fetches all active options of every family in one pass
func (r *catalogRepository) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	var catalog models.Catalog
	db := r.db.WithContext(ctx)

	if err := db.Where("active = ?", true).Order("name ASC").Find(&catalog.Engines).Error; err != nil {
		return nil, err
	}
	if err := db.Where("active = ?", true).Order("name ASC").Find(&catalog.Models).Error; err != nil {
		return nil, err
	}
	var colors []models.ColorOption
	if err := db.Where("active = ?", true).Order("name ASC").Find(&colors).Error; err != nil {
		return nil, err
	}
	for _, c := range colors {
		switch c.Kind {
		case models.ColorKindExterior:
			catalog.ExteriorColors = append(catalog.ExteriorColors, c)
		case models.ColorKindInterior:
			catalog.InteriorColors = append(catalog.InteriorColors, c)
		}
	}
	if err := db.Where("active = ?", true).Order("name ASC").Find(&catalog.Packs).Error; err != nil {
		return nil, err
	}
	if err := db.Where("active = ?", true).Order("name ASC").Find(&catalog.ElectricSystems).Error; err != nil {
		return nil, err
	}
	if err := db.Where("active = ?", true).Order("category ASC, name ASC").Find(&catalog.AdditionalItems).Error; err != nil {
		return nil, err
	}

	return &catalog, nil
}

func (r *catalogRepository) FindEngine(ctx context.Context, id uint) (*models.EngineOption, error) {
	var e models.EngineOption
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *catalogRepository) FindPack(ctx context.Context, id uint) (*models.Pack, error) {
	var p models.Pack
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) FindElectricSystem(ctx context.Context, id uint) (*models.ElectricSystem, error) {
	var es models.ElectricSystem
	if err := r.db.WithContext(ctx).First(&es, id).Error; err != nil {
		return nil, err
	}
	return &es, nil
}

func (r *catalogRepository) CreateEngine(ctx context.Context, e *models.EngineOption) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *catalogRepository) UpdateEngine(ctx context.Context, e *models.EngineOption) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *catalogRepository) CreateModel(ctx context.Context, m *models.VehicleModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *catalogRepository) UpdateModel(ctx context.Context, m *models.VehicleModel) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *catalogRepository) CreateColor(ctx context.Context, c *models.ColorOption) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogRepository) UpdateColor(ctx context.Context, c *models.ColorOption) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *catalogRepository) CreatePack(ctx context.Context, p *models.Pack) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *catalogRepository) UpdatePack(ctx context.Context, p *models.Pack) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *catalogRepository) CreateElectricSystem(ctx context.Context, es *models.ElectricSystem) error {
	return r.db.WithContext(ctx).Create(es).Error
}

func (r *catalogRepository) UpdateElectricSystem(ctx context.Context, es *models.ElectricSystem) error {
	return r.db.WithContext(ctx).Save(es).Error
}

func (r *catalogRepository) CreateAdditionalItem(ctx context.Context, i *models.AdditionalItem) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *catalogRepository) UpdateAdditionalItem(ctx context.Context, i *models.AdditionalItem) error {
	return r.db.WithContext(ctx).Save(i).Error
}
