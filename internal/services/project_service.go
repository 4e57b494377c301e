package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/repository"
	"github.com/nomadecampers/nomade-api/internal/statemachine"
)

// ProjectService handles the camperization project lifecycle
type ProjectService struct {
	repo            repository.ProjectRepository
	clientRepo      repository.ClientRepository
	auditSvc        *AuditService
	notificationSvc *NotificationService
}

func NewProjectService(repo repository.ProjectRepository, clientRepo repository.ClientRepository, auditSvc *AuditService, notificationSvc *NotificationService) *ProjectService {
	return &ProjectService{
		repo:            repo,
		clientRepo:      clientRepo,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
	}
}

func (s *ProjectService) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProjectService) FindByCode(ctx context.Context, code string) (*models.Project, error) {
	return s.repo.FindByCode(ctx, code)
}

func (s *ProjectService) List(ctx context.Context, query *repository.ListQuery) ([]models.Project, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ProjectService) CountByPhase(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByPhase(ctx)
}

func (s *ProjectService) Create(ctx context.Context, project *models.Project, actorID uint) error {
	if _, err := s.clientRepo.FindByID(ctx, project.ClientID); err != nil {
		return fmt.Errorf("cliente no encontrado: %w", err)
	}
	if project.Phase == "" {
		project.Phase = models.ProjectPhaseLead
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "Project", project.ID, fmt.Sprintf("Proyecto creado: %s (%s %s)", project.Code, project.VehicleBrand, project.VehicleModel), "", "")
}

func (s *ProjectService) Update(ctx context.Context, project *models.Project, actorID uint) error {
	if err := s.repo.Update(ctx, project); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Project", project.ID, fmt.Sprintf("Proyecto actualizado: %s", project.Code), "", "")
}

func (s *ProjectService) Delete(ctx context.Context, id uint, actorID uint) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project.Phase != models.ProjectPhaseLead {
		return fmt.Errorf("solo se pueden eliminar proyectos en fase lead")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Project", id, fmt.Sprintf("Proyecto eliminado: %s", project.Code), "", "")
}

// SendBudget moves the project into the presupuesto phase
func (s *ProjectService) SendBudget(ctx context.Context, id uint, actorID uint) (*models.Project, error) {
	return s.transition(ctx, id, actorID, func(m *statemachine.ProjectFSM, p *models.Project) error {
		if err := m.SendBudget(ctx); err != nil {
			return err
		}
		now := time.Now()
		p.BudgetSentAt = &now
		return nil
	})
}

// SignContract moves the project into the contrato phase
func (s *ProjectService) SignContract(ctx context.Context, id uint, actorID uint) (*models.Project, error) {
	return s.transition(ctx, id, actorID, func(m *statemachine.ProjectFSM, p *models.Project) error {
		if err := m.SignContract(ctx); err != nil {
			return err
		}
		now := time.Now()
		p.ContractSignedAt = &now
		return nil
	})
}

// StartProduction moves the project into the produccion phase
func (s *ProjectService) StartProduction(ctx context.Context, id uint, actorID uint) (*models.Project, error) {
	return s.transition(ctx, id, actorID, func(m *statemachine.ProjectFSM, p *models.Project) error {
		if err := m.StartProduction(ctx); err != nil {
			return err
		}
		now := time.Now()
		p.ProductionStartAt = &now
		return nil
	})
}

// Deliver moves the project into the entrega phase
func (s *ProjectService) Deliver(ctx context.Context, id uint, actorID uint) (*models.Project, error) {
	return s.transition(ctx, id, actorID, func(m *statemachine.ProjectFSM, p *models.Project) error {
		if err := m.Deliver(ctx); err != nil {
			return err
		}
		now := time.Now()
		p.DeliveredAt = &now
		return nil
	})
}

// Close closes a delivered project and promotes its client to customer
func (s *ProjectService) Close(ctx context.Context, id uint, actorID uint) (*models.Project, error) {
	project, err := s.transition(ctx, id, actorID, func(m *statemachine.ProjectFSM, p *models.Project) error {
		if err := m.Close(ctx); err != nil {
			return err
		}
		now := time.Now()
		p.ClosedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A closed project means a completed sale
	if client, cerr := s.clientRepo.FindByID(ctx, project.ClientID); cerr == nil && client.Status != models.ClientStatusCustomer {
		client.Status = models.ClientStatusCustomer
		s.clientRepo.Update(ctx, client)
	}
	return project, nil
}

// Cancel cancels a project from any non-final phase
func (s *ProjectService) Cancel(ctx context.Context, id uint, reason string, actorID uint) (*models.Project, error) {
	project, err := s.transition(ctx, id, actorID, func(m *statemachine.ProjectFSM, p *models.Project) error {
		if err := m.Cancel(ctx); err != nil {
			return err
		}
		now := time.Now()
		p.CancelledAt = &now
		if reason != "" {
			p.CancellationReason = &reason
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyAdmins(ctx,
		"Proyecto cancelado",
		fmt.Sprintf("El proyecto %s ha sido cancelado. Motivo: %s", project.Code, reason),
		models.NotificationTypeProjectCancelled)
	return project, nil
}

func (s *ProjectService) transition(ctx context.Context, id uint, actorID uint, apply func(*statemachine.ProjectFSM, *models.Project) error) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := project.Phase
	machine := statemachine.NewProjectFSM(project)
	if err := apply(machine, project); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "PHASE_CHANGE", "Project", project.ID, fmt.Sprintf("Proyecto %s: %s → %s", project.Code, previous, project.Phase), "", "")
	if project.AssignedTo != nil && *project.AssignedTo != actorID {
		s.notificationSvc.NotifyUser(ctx, *project.AssignedTo,
			"Cambio de fase",
			fmt.Sprintf("El proyecto %s ha pasado a la fase %s", project.Code, project.Phase),
			models.NotificationTypePhaseChanged)
	}

	return project, nil
}
