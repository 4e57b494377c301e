package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/nomadecampers/nomade-api/internal/config"
	"github.com/nomadecampers/nomade-api/internal/contracts"
	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/repository"
)

type mockProjectRepo struct {
	repository.ProjectRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Project, error)
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	return m.mockFindByID(ctx, id)
}

type mockClientRepo struct {
	repository.ClientRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Client, error)
}

func (m *mockClientRepo) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	return m.mockFindByID(ctx, id)
}

type mockBudgetRepo struct {
	repository.BudgetRepository
	mockFindPrimary func(ctx context.Context, projectID uint) (*models.Budget, error)
}

func (m *mockBudgetRepo) FindPrimaryByProject(ctx context.Context, projectID uint) (*models.Budget, error) {
	return m.mockFindPrimary(ctx, projectID)
}

type mockCatalogRepo struct {
	repository.CatalogRepository
	mockLoadCatalog func(ctx context.Context) (*models.Catalog, error)
}

func (m *mockCatalogRepo) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	return m.mockLoadCatalog(ctx)
}

func contractTestService() *ContractService {
	dni := "12345678Z"
	power := "140 CV"

	projectRepo := &mockProjectRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Project, error) {
			return &models.Project{
				ID:            id,
				Code:          "NMD-2026-ab12cd34",
				ClientID:      7,
				VehicleBrand:  "Mercedes-Benz",
				VehicleModel:  "Sprinter",
				ChassisNumber: "WDB9066331S123456",
				Plate:         "1234 KLM",
				DeliveryWeeks: 14,
			}, nil
		},
	}
	clientRepo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Client, error) {
			return &models.Client{
				ID:       id,
				FullName: "Ana García",
				DNI:      &dni,
				Phone:    "600123456",
				Email:    "ana@example.com",
			}, nil
		},
	}
	engineID := uint(3)
	budgetRepo := &mockBudgetRepo{
		mockFindPrimary: func(ctx context.Context, projectID uint) (*models.Budget, error) {
			return &models.Budget{
				ID:             11,
				ProjectID:      projectID,
				EngineOptionID: &engineID,
				Total:          60500,
				IVARate:        21,
			}, nil
		},
	}
	catalogRepo := &mockCatalogRepo{
		mockLoadCatalog: func(ctx context.Context) (*models.Catalog, error) {
			return &models.Catalog{
				Engines: []models.EngineOption{
					{ID: 3, Name: "2.0 CDI 140", Power: &power},
				},
			}, nil
		},
	}

	return &ContractService{
		repo:        nil,
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		budgetRepo:  budgetRepo,
		catalogRepo: catalogRepo,
		cfg:         &config.Config{CompanyIBAN: "ES12 3456 7890 1234 5678 9012"},
	}
}

func TestContractService_BuildContractData(t *testing.T) {
	service := contractTestService()

	data, err := service.BuildContractData(context.Background(), 1)
	assert.NoError(t, err)

	assert.Equal(t, "Ana García", data[contracts.FieldClientName])
	assert.Equal(t, "12345678Z", data[contracts.FieldDNI])
	assert.Equal(t, "NMD-2026-ab12cd34", data[contracts.FieldProjectCode])
	assert.Equal(t, "14 semanas", data[contracts.FieldDeliveryTerm])
	assert.Equal(t, "ES12 3456 7890 1234 5678 9012", data[contracts.FieldIBAN])

	// Tranches split 40/40/20 over the budget total
	assert.Equal(t, "60500.00 €", data[contracts.FieldTotalPrice])
	assert.Equal(t, "24200.00 €", data[contracts.FieldInitialPay])
	assert.Equal(t, "24200.00 €", data[contracts.FieldProductionPay])
	assert.Equal(t, "12100.00 €", data[contracts.FieldFinalPay])

	// Catalog lookups resolve to display names
	assert.Equal(t, "2.0 CDI 140", data[contracts.FieldEngine])
	assert.Equal(t, "140 CV", data[contracts.FieldPower])

	// Fields with no source data stay absent so rendering shows the
	// not-specified placeholder
	_, hasCity := data[contracts.FieldCity]
	assert.False(t, hasCity)
}

func TestContractService_BuildContractData_NoPrimaryBudget(t *testing.T) {
	service := contractTestService()
	service.budgetRepo = &mockBudgetRepo{
		mockFindPrimary: func(ctx context.Context, projectID uint) (*models.Budget, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	_, err := service.BuildContractData(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoPrimaryBudget)
}

func TestFormatSpanishDate(t *testing.T) {
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1 de septiembre de 2026", formatSpanishDate(date))
}
