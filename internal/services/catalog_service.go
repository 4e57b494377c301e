package services

import (
	"context"
	"fmt"

	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/pricing"
	"github.com/nomadecampers/nomade-api/internal/repository"
)

// CatalogService exposes the configuration option families used by the
// budget editor and the admin catalog screens.
type CatalogService struct {
	repo     repository.CatalogRepository
	auditSvc *AuditService
}

func NewCatalogService(repo repository.CatalogRepository, auditSvc *AuditService) *CatalogService {
	return &CatalogService{repo: repo, auditSvc: auditSvc}
}

// Load returns every active option family in one payload
func (s *CatalogService) Load(ctx context.Context) (*models.Catalog, error) {
	return s.repo.LoadCatalog(ctx)
}

// LoadPricing returns the catalog in the form the pricing engine consumes
func (s *CatalogService) LoadPricing(ctx context.Context) (pricing.Catalogs, error) {
	catalog, err := s.repo.LoadCatalog(ctx)
	if err != nil {
		return pricing.Catalogs{}, err
	}
	return catalog.ToPricing(), nil
}

func (s *CatalogService) SaveEngine(ctx context.Context, e *models.EngineOption, actorID uint) error {
	var err error
	if e.ID == 0 {
		err = s.repo.CreateEngine(ctx, e)
	} else {
		err = s.repo.UpdateEngine(ctx, e)
	}
	if err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Catalog", e.ID, fmt.Sprintf("Motorización guardada: %s", e.Name), "", "")
}

func (s *CatalogService) SaveModel(ctx context.Context, m *models.VehicleModel, actorID uint) error {
	var err error
	if m.ID == 0 {
		err = s.repo.CreateModel(ctx, m)
	} else {
		err = s.repo.UpdateModel(ctx, m)
	}
	if err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Catalog", m.ID, fmt.Sprintf("Modelo guardado: %s", m.Name), "", "")
}

func (s *CatalogService) SaveColor(ctx context.Context, c *models.ColorOption, actorID uint) error {
	if c.Kind != models.ColorKindExterior && c.Kind != models.ColorKindInterior {
		return fmt.Errorf("tipo de color no válido: %s", c.Kind)
	}
	var err error
	if c.ID == 0 {
		err = s.repo.CreateColor(ctx, c)
	} else {
		err = s.repo.UpdateColor(ctx, c)
	}
	if err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Catalog", c.ID, fmt.Sprintf("Color guardado: %s (%s)", c.Name, c.Kind), "", "")
}

func (s *CatalogService) SavePack(ctx context.Context, p *models.Pack, actorID uint) error {
	var err error
	if p.ID == 0 {
		err = s.repo.CreatePack(ctx, p)
	} else {
		err = s.repo.UpdatePack(ctx, p)
	}
	if err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Catalog", p.ID, fmt.Sprintf("Pack guardado: %s", p.Name), "", "")
}

func (s *CatalogService) SaveElectricSystem(ctx context.Context, es *models.ElectricSystem, actorID uint) error {
	var err error
	if es.ID == 0 {
		err = s.repo.CreateElectricSystem(ctx, es)
	} else {
		err = s.repo.UpdateElectricSystem(ctx, es)
	}
	if err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Catalog", es.ID, fmt.Sprintf("Sistema eléctrico guardado: %s", es.Name), "", "")
}

func (s *CatalogService) SaveAdditionalItem(ctx context.Context, i *models.AdditionalItem, actorID uint) error {
	var err error
	if i.ID == 0 {
		err = s.repo.CreateAdditionalItem(ctx, i)
	} else {
		err = s.repo.UpdateAdditionalItem(ctx, i)
	}
	if err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Catalog", i.ID, fmt.Sprintf("Extra guardado: %s", i.Name), "", "")
}
