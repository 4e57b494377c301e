package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/repository"
	"github.com/nomadecampers/nomade-api/pkg/logger"
)

// Days a tranche invoice has until it is due
const invoiceDueDays = 15

// BillingService issues and tracks the tranche invoices of a project
type BillingService struct {
	repo            repository.InvoiceRepository
	projectRepo     repository.ProjectRepository
	budgetRepo      repository.BudgetRepository
	userRepo        repository.UserRepository
	emailSvc        *EmailService
	auditSvc        *AuditService
	notificationSvc *NotificationService
}

func NewBillingService(
	repo repository.InvoiceRepository,
	projectRepo repository.ProjectRepository,
	budgetRepo repository.BudgetRepository,
	userRepo repository.UserRepository,
	emailSvc *EmailService,
	auditSvc *AuditService,
	notificationSvc *NotificationService,
) *BillingService {
	return &BillingService{
		repo:            repo,
		projectRepo:     projectRepo,
		budgetRepo:      budgetRepo,
		userRepo:        userRepo,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
	}
}

func (s *BillingService) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BillingService) FindByProject(ctx context.Context, projectID uint) ([]models.Invoice, error) {
	return s.repo.FindByProject(ctx, projectID)
}

func (s *BillingService) List(ctx context.Context, query *repository.ListQuery) ([]models.Invoice, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *BillingService) Stats(ctx context.Context, year int) (*repository.InvoiceStats, error) {
	return s.repo.Stats(ctx, year)
}

// GenerateTrancheInvoices issues the three tranche invoices of a project from
// its primary budget total: 40% at signature, 40% at production start and 20%
// at delivery. A project can only be invoiced once.
func (s *BillingService) GenerateTrancheInvoices(ctx context.Context, projectID uint, actorID uint) ([]models.Invoice, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, inv := range existing {
		if inv.Status != models.InvoiceStatusCancelled {
			return nil, fmt.Errorf("el proyecto %s ya tiene facturas emitidas", project.Code)
		}
	}

	budget, err := s.budgetRepo.FindPrimaryByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPrimaryBudget
		}
		return nil, err
	}

	tranches := []struct {
		Tranche string
		Pct     float64
		Concept string
	}{
		{models.InvoiceTrancheInitial, trancheInitialPct, "Pago inicial (40%) a la firma del contrato"},
		{models.InvoiceTrancheProduction, trancheProductionPct, "Pago intermedio (40%) al inicio de producción"},
		{models.InvoiceTrancheFinal, trancheFinalPct, "Pago final (20%) a la entrega del vehículo"},
	}

	now := time.Now()
	year := now.Year()
	seq, err := s.repo.NextSequence(ctx, year)
	if err != nil {
		return nil, err
	}

	invoices := make([]models.Invoice, 0, len(tranches))
	for i, t := range tranches {
		total := budget.Total * t.Pct
		base := total
		ivaAmount := 0.0
		if budget.IVARate > 0 {
			base = total / (1 + budget.IVARate/100)
			ivaAmount = total - base
		}
		invoice := models.Invoice{
			ProjectID:  projectID,
			Number:     models.NextInvoiceNumber(year, seq+i),
			Tranche:    t.Tranche,
			Concept:    fmt.Sprintf("%s - Proyecto %s", t.Concept, project.Code),
			BaseAmount: base,
			IVARate:    budget.IVARate,
			IVAAmount:  ivaAmount,
			Total:      total,
			Status:     models.InvoiceStatusPending,
			IssuedAt:   now,
			DueDate:    now.AddDate(0, 0, invoiceDueDays),
		}
		if err := s.repo.Create(ctx, &invoice); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Invoice", projectID,
		fmt.Sprintf("Facturas por tramos emitidas para el proyecto %s (total %.2f)", project.Code, budget.Total), "", "")
	return invoices, nil
}

// MarkPaid settles a pending invoice
func (s *BillingService) MarkPaid(ctx context.Context, id uint, actorID uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !invoice.MayMarkPaid() {
		return nil, fmt.Errorf("%w: la factura no está pendiente", ErrInvalidState)
	}
	now := time.Now()
	invoice.Status = models.InvoiceStatusPaid
	invoice.PaidAt = &now
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Invoice", id,
		fmt.Sprintf("Factura cobrada: %s (%.2f)", invoice.Number, invoice.Total), "", "")
	return invoice, nil
}

// Cancel voids a pending invoice
func (s *BillingService) Cancel(ctx context.Context, id uint, actorID uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !invoice.MayCancel() {
		return nil, fmt.Errorf("%w: la factura no está pendiente", ErrInvalidState)
	}
	invoice.Status = models.InvoiceStatusCancelled
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Invoice", id,
		fmt.Sprintf("Factura anulada: %s", invoice.Number), "", "")
	return invoice, nil
}

// CheckOverdueInvoices finds overdue invoices not reminded in the last week,
// emails the admins a digest and notifies each project's assignee. Returns
// the number of overdue invoices found.
func (s *BillingService) CheckOverdueInvoices(ctx context.Context) (int, error) {
	notRemindedSince := time.Now().AddDate(0, 0, -7)
	invoices, err := s.repo.FindOverdue(ctx, notRemindedSince)
	if err != nil {
		return 0, err
	}
	if len(invoices) == 0 {
		return 0, nil
	}

	admins, _, err := s.userRepo.List(ctx, &repository.ListQuery{
		Filters: map[string]string{"role": models.RoleAdmin},
	})
	if err != nil {
		return 0, err
	}
	for i := range admins {
		if err := s.emailSvc.SendOverdueInvoices(ctx, &admins[i], invoices); err != nil {
			logger.Error(fmt.Sprintf("Failed to send overdue digest to %s: %v", admins[i].Email, err))
		}
	}

	now := time.Now()
	for _, invoice := range invoices {
		s.repo.MarkReminderSent(ctx, invoice.ID, now)
		if invoice.Project.AssignedTo != nil {
			s.notificationSvc.NotifyUser(ctx, *invoice.Project.AssignedTo,
				"Factura vencida",
				fmt.Sprintf("La factura %s del proyecto %s lleva %d días vencida", invoice.Number, invoice.Project.Code, invoice.OverdueDays()),
				models.NotificationTypeInvoiceOverdue)
		}
	}

	return len(invoices), nil
}
