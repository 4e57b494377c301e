package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/pricing"
	"github.com/nomadecampers/nomade-api/internal/repository"
	"github.com/nomadecampers/nomade-api/internal/statemachine"
)

// BudgetDraft is the editable form of a budget as submitted by the editor:
// the selected configuration plus free-form custom and discount lines.
type BudgetDraft struct {
	Name               string                 `json:"name"`
	Selection          pricing.Selection      `json:"selection"`
	InteriorColorID    *uint                  `json:"interior_color_id"`
	DiscountPercentage float64                `json:"discount_percentage"`
	IVARate            float64                `json:"iva_rate"`
	CustomItems        []pricing.CustomItem   `json:"custom_items"`
	DiscountItems      []pricing.DiscountItem `json:"discount_items"`
}

// BudgetService handles quote computation and the budget lifecycle
type BudgetService struct {
	repo            repository.BudgetRepository
	projectRepo     repository.ProjectRepository
	clientRepo      repository.ClientRepository
	catalogSvc      *CatalogService
	projectSvc      *ProjectService
	emailSvc        *EmailService
	auditSvc        *AuditService
	notificationSvc *NotificationService
}

func NewBudgetService(
	repo repository.BudgetRepository,
	projectRepo repository.ProjectRepository,
	clientRepo repository.ClientRepository,
	catalogSvc *CatalogService,
	projectSvc *ProjectService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	notificationSvc *NotificationService,
) *BudgetService {
	return &BudgetService{
		repo:            repo,
		projectRepo:     projectRepo,
		clientRepo:      clientRepo,
		catalogSvc:      catalogSvc,
		projectSvc:      projectSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
	}
}

func (s *BudgetService) FindByID(ctx context.Context, id uint) (*models.Budget, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BudgetService) FindByProject(ctx context.Context, projectID uint) ([]models.Budget, error) {
	return s.repo.FindByProject(ctx, projectID)
}

// Compute runs the pricing engine against the current catalog without
// persisting anything. Used by the editor to recompute on every change.
func (s *BudgetService) Compute(ctx context.Context, draft *BudgetDraft) (*pricing.Breakdown, error) {
	catalogs, err := s.catalogSvc.LoadPricing(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := pricing.Compute(pricing.Input{
		Selection:          draft.Selection,
		Catalogs:           catalogs,
		DiscountPercentage: draft.DiscountPercentage,
		IVARate:            draft.IVARate,
		CustomItems:        draft.CustomItems,
		DiscountItems:      draft.DiscountItems,
	})
	return &breakdown, nil
}

// Save computes the draft against the catalog and persists the budget with its
// frozen breakdown. On update the full line-item set is replaced in one
// transaction. Only draft budgets can be saved.
func (s *BudgetService) Save(ctx context.Context, projectID uint, budgetID uint, draft *BudgetDraft, actorID uint) (*models.Budget, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("proyecto no encontrado: %w", err)
	}

	catalogs, err := s.catalogSvc.LoadPricing(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := pricing.Compute(pricing.Input{
		Selection:          draft.Selection,
		Catalogs:           catalogs,
		DiscountPercentage: draft.DiscountPercentage,
		IVARate:            draft.IVARate,
		CustomItems:        draft.CustomItems,
		DiscountItems:      draft.DiscountItems,
	})

	var budget *models.Budget
	if budgetID == 0 {
		budget = &models.Budget{ProjectID: projectID, Status: models.BudgetStatusDraft}
	} else {
		budget, err = s.repo.FindByID(ctx, budgetID)
		if err != nil {
			return nil, err
		}
		if budget.ProjectID != projectID {
			return nil, fmt.Errorf("el presupuesto no pertenece al proyecto")
		}
		if budget.Status != models.BudgetStatusDraft {
			return nil, fmt.Errorf("%w: solo se pueden editar presupuestos en borrador", ErrInvalidState)
		}
	}

	name := draft.Name
	if name == "" {
		name = "Presupuesto"
	}
	budget.Name = name
	applyDraftSelection(budget, draft)
	applyBreakdown(budget, &breakdown, draft)

	if budget.ID == 0 {
		if err := s.repo.Create(ctx, budget); err != nil {
			return nil, err
		}
	} else if err := s.repo.Update(ctx, budget); err != nil {
		return nil, err
	}

	items := buildItems(draft, catalogs)
	if err := s.repo.ReplaceItems(ctx, budget.ID, items); err != nil {
		return nil, err
	}
	budget.Items = items

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Budget", budget.ID, fmt.Sprintf("Presupuesto guardado: %s (total %.2f)", budget.Name, budget.Total), "", "")
	return budget, nil
}

func (s *BudgetService) Delete(ctx context.Context, id uint, actorID uint) error {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if budget.Status == models.BudgetStatusAccepted {
		return fmt.Errorf("%w: no se puede eliminar un presupuesto aceptado", ErrInvalidState)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Budget", id, fmt.Sprintf("Presupuesto eliminado: %s", budget.Name), "", "")
}

// SetPrimary marks one budget as the project's primary quote
func (s *BudgetService) SetPrimary(ctx context.Context, id uint, actorID uint) (*models.Budget, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetPrimary(ctx, budget.ProjectID, budget.ID); err != nil {
		return nil, err
	}
	budget.IsPrimary = true
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Budget", id, fmt.Sprintf("Presupuesto marcado como principal: %s", budget.Name), "", "")
	return budget, nil
}

// Send emails the budget to the client and advances a lead project into the
// presupuesto phase.
func (s *BudgetService) Send(ctx context.Context, id uint, actorID uint) (*models.Budget, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindByID(ctx, budget.ProjectID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, project.ClientID)
	if err != nil {
		return nil, err
	}

	machine := statemachine.NewBudgetFSM(budget)
	if err := machine.Send(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	now := time.Now()
	budget.SentAt = &now
	if err := s.repo.Update(ctx, budget); err != nil {
		return nil, err
	}

	if project.MaySendBudget() {
		if _, err := s.projectSvc.SendBudget(ctx, project.ID, actorID); err != nil {
			return nil, err
		}
	}

	// Email is best-effort; the budget is already sent
	s.emailSvc.SendBudget(ctx, client, project, budget)

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Budget", id, fmt.Sprintf("Presupuesto enviado a %s", client.FullName), "", "")
	s.notificationSvc.NotifyAdmins(ctx,
		"Presupuesto enviado",
		fmt.Sprintf("Presupuesto %s del proyecto %s enviado al cliente", budget.Name, project.Code),
		models.NotificationTypeBudgetSent)
	return budget, nil
}

// Accept marks a sent budget as accepted, promotes it to primary and moves a
// presupuesto-phase project towards contract.
func (s *BudgetService) Accept(ctx context.Context, id uint, actorID uint) (*models.Budget, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := statemachine.NewBudgetFSM(budget)
	if err := machine.Accept(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	now := time.Now()
	budget.AcceptedAt = &now
	if err := s.repo.Update(ctx, budget); err != nil {
		return nil, err
	}
	if err := s.repo.SetPrimary(ctx, budget.ProjectID, budget.ID); err != nil {
		return nil, err
	}
	budget.IsPrimary = true

	project, err := s.projectRepo.FindByID(ctx, budget.ProjectID)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Budget", id, fmt.Sprintf("Presupuesto aceptado: %s", budget.Name), "", "")
	s.notificationSvc.NotifyAdmins(ctx,
		"Presupuesto aceptado",
		fmt.Sprintf("El cliente ha aceptado el presupuesto %s del proyecto %s", budget.Name, project.Code),
		models.NotificationTypeBudgetAccepted)
	return budget, nil
}

// Reject marks a sent budget as rejected
func (s *BudgetService) Reject(ctx context.Context, id uint, actorID uint) (*models.Budget, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := statemachine.NewBudgetFSM(budget)
	if err := machine.Reject(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.repo.Update(ctx, budget); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Budget", id, fmt.Sprintf("Presupuesto rechazado: %s", budget.Name), "", "")
	s.notificationSvc.NotifyAdmins(ctx,
		"Presupuesto rechazado",
		fmt.Sprintf("El cliente ha rechazado el presupuesto %s", budget.Name),
		models.NotificationTypeBudgetRejected)
	return budget, nil
}

// Rework returns a rejected budget to draft so it can be edited again
func (s *BudgetService) Rework(ctx context.Context, id uint, actorID uint) (*models.Budget, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := statemachine.NewBudgetFSM(budget)
	if err := machine.Rework(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	budget.SentAt = nil
	if err := s.repo.Update(ctx, budget); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Budget", id, fmt.Sprintf("Presupuesto devuelto a borrador: %s", budget.Name), "", "")
	return budget, nil
}

func applyDraftSelection(budget *models.Budget, draft *BudgetDraft) {
	budget.EngineOptionID = draft.Selection.EngineID
	budget.VehicleModelID = draft.Selection.ModelID
	budget.ExteriorColorID = draft.Selection.ExteriorColorID
	budget.InteriorColorID = draft.InteriorColorID
	budget.ElectricSystemID = draft.Selection.ElectricSystemID
	budget.PackID = draft.Selection.PackID
}

func applyBreakdown(budget *models.Budget, b *pricing.Breakdown, draft *BudgetDraft) {
	budget.BasePrice = b.BasePrice
	budget.EnginePrice = b.EnginePrice
	budget.ColorModifier = b.ColorModifier
	budget.PackPrice = b.PackPrice
	budget.ElectricSystemPrice = b.ElectricSystemPrice
	budget.AdditionalItemsPrice = b.AdditionalItemsPrice
	budget.CustomItemsPrice = b.CustomItemsPrice
	budget.Subtotal = b.Subtotal
	budget.DiscountPercentage = draft.DiscountPercentage
	budget.DiscountAmount = b.DiscountPercentageAmount + b.DiscountItemsTotal
	budget.IVARate = draft.IVARate
	budget.IVAAmount = b.IVAAmount
	budget.Total = b.Total
}

// buildItems materializes the stored line items of a draft in display order:
// catalog extras first, then valid custom lines, then discounts. Custom lines
// without a name or a positive price are dropped. Discount lines are stored
// with a negative price so summing the rows yields the items' net effect.
func buildItems(draft *BudgetDraft, catalogs pricing.Catalogs) []models.BudgetItem {
	var items []models.BudgetItem
	index := 0

	for _, id := range draft.Selection.AdditionalItemIDs {
		itemID := id
		for i := range catalogs.AdditionalItems {
			if catalogs.AdditionalItems[i].ID == itemID {
				items = append(items, models.BudgetItem{
					Name:       catalogs.AdditionalItems[i].Name,
					Price:      catalogs.AdditionalItems[i].Price,
					Quantity:   1,
					OrderIndex: index,
					CatalogID:  &itemID,
				})
				index++
				break
			}
		}
	}

	for _, custom := range draft.CustomItems {
		if custom.Name == "" || custom.Price <= 0 {
			continue
		}
		qty := custom.Quantity
		if qty < 1 {
			qty = 1
		}
		items = append(items, models.BudgetItem{
			Name:       custom.Name,
			Price:      custom.Price,
			Quantity:   qty,
			IsCustom:   true,
			OrderIndex: index,
		})
		index++
	}

	for _, discount := range draft.DiscountItems {
		if discount.Concept == "" || discount.Amount <= 0 {
			continue
		}
		items = append(items, models.BudgetItem{
			Name:       discount.Concept,
			Price:      -discount.Amount,
			Quantity:   1,
			IsCustom:   true,
			IsDiscount: true,
			OrderIndex: index,
		})
		index++
	}

	return items
}
