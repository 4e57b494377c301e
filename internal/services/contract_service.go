package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"gorm.io/gorm"

	"github.com/nomadecampers/nomade-api/internal/config"
	"github.com/nomadecampers/nomade-api/internal/contracts"
	"github.com/nomadecampers/nomade-api/internal/jobs"
	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/repository"
	"github.com/nomadecampers/nomade-api/internal/storage"
)

// Payment tranche split applied to the accepted budget total
const (
	trancheInitialPct    = 0.40
	trancheProductionPct = 0.40
	trancheFinalPct      = 0.20
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// ContractService generates, archives and signs contract documents
type ContractService struct {
	repo            repository.ContractDocumentRepository
	projectRepo     repository.ProjectRepository
	clientRepo      repository.ClientRepository
	budgetRepo      repository.BudgetRepository
	catalogRepo     repository.CatalogRepository
	projectSvc      *ProjectService
	storage         *storage.LocalStorage
	emailSvc        *EmailService
	auditSvc        *AuditService
	notificationSvc *NotificationService
	worker          *jobs.Worker
	cfg             *config.Config
}

func NewContractService(
	repo repository.ContractDocumentRepository,
	projectRepo repository.ProjectRepository,
	clientRepo repository.ClientRepository,
	budgetRepo repository.BudgetRepository,
	catalogRepo repository.CatalogRepository,
	projectSvc *ProjectService,
	store *storage.LocalStorage,
	emailSvc *EmailService,
	auditSvc *AuditService,
	notificationSvc *NotificationService,
	worker *jobs.Worker,
	cfg *config.Config,
) *ContractService {
	return &ContractService{
		repo:            repo,
		projectRepo:     projectRepo,
		clientRepo:      clientRepo,
		budgetRepo:      budgetRepo,
		catalogRepo:     catalogRepo,
		projectSvc:      projectSvc,
		storage:         store,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
		worker:          worker,
		cfg:             cfg,
	}
}

func (s *ContractService) FindByID(ctx context.Context, id uint) (*models.ContractDocument, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ContractService) FindByProject(ctx context.Context, projectID uint) ([]models.ContractDocument, error) {
	return s.repo.FindByProject(ctx, projectID)
}

// BuildContractData assembles the field values for a project's contract from
// the client, the project and its primary budget. The primary budget is
// required because the payment tranches derive from its total.
func (s *ContractService) BuildContractData(ctx context.Context, projectID uint) (contracts.Data, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, project.ClientID)
	if err != nil {
		return nil, err
	}
	budget, err := s.budgetRepo.FindPrimaryByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPrimaryBudget
		}
		return nil, err
	}

	data := contracts.Data{
		contracts.FieldDate:          formatSpanishDate(time.Now()),
		contracts.FieldClientName:    client.FullName,
		contracts.FieldPhone:         client.Phone,
		contracts.FieldEmail:         client.Email,
		contracts.FieldVehicleBrand:  project.VehicleBrand,
		contracts.FieldVehicleModel:  project.VehicleModel,
		contracts.FieldChassisNumber: project.ChassisNumber,
		contracts.FieldPlate:         project.Plate,
		contracts.FieldProjectCode:   project.Code,
		contracts.FieldDeliveryTerm:  fmt.Sprintf("%d semanas", project.DeliveryWeeks),
		contracts.FieldIBAN:          s.cfg.CompanyIBAN,
		contracts.FieldTotalPrice:    formatEuros(budget.Total),
		contracts.FieldTotalInWords:  NumberToWords(budget.Total),
		contracts.FieldInitialPay:    formatEuros(budget.Total * trancheInitialPct),
		contracts.FieldProductionPay: formatEuros(budget.Total * trancheProductionPct),
		contracts.FieldFinalPay:      formatEuros(budget.Total * trancheFinalPct),
	}

	setOptional := func(field string, value *string) {
		if value != nil && *value != "" {
			data[field] = *value
		}
	}
	setOptional(contracts.FieldDNI, client.DNI)
	setOptional(contracts.FieldCIF, client.CIF)
	setOptional(contracts.FieldCompany, client.Company)
	setOptional(contracts.FieldAddress, client.Address)
	setOptional(contracts.FieldCity, client.City)
	setOptional(contracts.FieldPostalCode, client.PostalCode)

	s.fillCatalogFields(ctx, data, budget)

	return data, nil
}

// fillCatalogFields resolves the budget's catalog selections to display names.
// Lookups that fail leave the field absent so it renders as "No especificado".
func (s *ContractService) fillCatalogFields(ctx context.Context, data contracts.Data, budget *models.Budget) {
	catalog, err := s.catalogRepo.LoadCatalog(ctx)
	if err != nil {
		return
	}

	if budget.EngineOptionID != nil {
		for i := range catalog.Engines {
			if catalog.Engines[i].ID == *budget.EngineOptionID {
				data[contracts.FieldEngine] = catalog.Engines[i].Name
				if catalog.Engines[i].Power != nil {
					data[contracts.FieldPower] = *catalog.Engines[i].Power
				}
				break
			}
		}
	}
	if budget.VehicleModelID != nil {
		for i := range catalog.Models {
			if catalog.Models[i].ID == *budget.VehicleModelID {
				data[contracts.FieldNomadeModel] = catalog.Models[i].Name
				break
			}
		}
	}
	if budget.ExteriorColorID != nil {
		for i := range catalog.ExteriorColors {
			if catalog.ExteriorColors[i].ID == *budget.ExteriorColorID {
				data[contracts.FieldExteriorColor] = catalog.ExteriorColors[i].Name
				break
			}
		}
	}
	if budget.InteriorColorID != nil {
		for i := range catalog.InteriorColors {
			if catalog.InteriorColors[i].ID == *budget.InteriorColorID {
				data[contracts.FieldInteriorColor] = catalog.InteriorColors[i].Name
				break
			}
		}
	}
}

// Generate renders a contract template for a project, converts it to PDF and
// archives both forms.
func (s *ContractService) Generate(ctx context.Context, projectID uint, templateKey string, actorID uint) (*models.ContractDocument, error) {
	tmpl, err := contracts.Template(templateKey)
	if err != nil {
		return nil, err
	}
	data, err := s.BuildContractData(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, project.ClientID)
	if err != nil {
		return nil, err
	}

	filled := contracts.ProcessTemplate(tmpl, data)
	html := contracts.Render(filled, client.FullName)

	doc := &models.ContractDocument{
		ProjectID:    projectID,
		TemplateKey:  templateKey,
		Title:        fmt.Sprintf("Contrato %s - %s", project.Code, client.FullName),
		RenderedHTML: html,
		GeneratedBy:  actorID,
	}

	pdfBytes, err := s.htmlToPDF(html)
	if err != nil {
		return nil, fmt.Errorf("error al generar el PDF del contrato: %w", err)
	}
	filename := fmt.Sprintf("%s_%s.pdf", project.Code, templateKey)
	path, err := s.storage.UploadFromBytes(pdfBytes, filename, "contracts")
	if err != nil {
		return nil, err
	}
	doc.PDFPath = &path

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Contract", doc.ID,
		fmt.Sprintf("Contrato generado: %s (plantilla %s)", doc.Title, templateKey), "", "")
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Contrato generado",
			fmt.Sprintf("Se ha generado el contrato del proyecto %s", project.Code),
			models.NotificationTypeContractGenerated)
	})

	// Email is best-effort; the document is already archived
	s.emailSvc.SendContractGenerated(ctx, client, project, doc)

	return doc, nil
}

// MarkSigned records the signature date and moves the project into the
// contrato phase when it is still in presupuesto.
func (s *ContractService) MarkSigned(ctx context.Context, id uint, signedAt time.Time, actorID uint) (*models.ContractDocument, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.IsSigned() {
		return nil, fmt.Errorf("%w: el contrato ya está firmado", ErrInvalidState)
	}
	doc.SignedAt = &signedAt
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, doc.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.MaySignContract() {
		if _, err := s.projectSvc.SignContract(ctx, project.ID, actorID); err != nil {
			return nil, err
		}
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Contract", id,
		fmt.Sprintf("Contrato firmado: %s", doc.Title), "", "")
	return doc, nil
}

func (s *ContractService) Delete(ctx context.Context, id uint, actorID uint) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.IsSigned() {
		return fmt.Errorf("%w: no se puede eliminar un contrato firmado", ErrInvalidState)
	}
	if doc.PDFPath != nil {
		s.storage.Delete(*doc.PDFPath)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Contract", id,
		fmt.Sprintf("Contrato eliminado: %s", doc.Title), "", "")
}

// DownloadPDF returns the stored PDF bytes path for a contract document
func (s *ContractService) PDFPath(ctx context.Context, id uint) (string, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if doc.PDFPath == nil || *doc.PDFPath == "" {
		return "", fmt.Errorf("el contrato no tiene PDF generado")
	}
	return s.storage.GetFullPath(*doc.PDFPath), nil
}

func (s *ContractService) htmlToPDF(html string) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(html)))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Bytes(), nil
}

func formatSpanishDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

func formatEuros(amount float64) string {
	return fmt.Sprintf("%.2f €", amount)
}
