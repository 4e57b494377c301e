package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/repository"
)

// ClientService handles client (lead and customer) business logic
type ClientService struct {
	repo            repository.ClientRepository
	auditSvc        *AuditService
	notificationSvc *NotificationService
}

func NewClientService(repo repository.ClientRepository, auditSvc *AuditService, notificationSvc *NotificationService) *ClientService {
	return &ClientService{
		repo:            repo,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
	}
}

func (s *ClientService) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ClientService) List(ctx context.Context, query *repository.ListQuery) ([]models.Client, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ClientService) Create(ctx context.Context, client *models.Client, actorID uint) error {
	if client.DNI != nil && *client.DNI != "" {
		existing, err := s.repo.FindByDNI(ctx, *client.DNI)
		if err == nil && existing != nil {
			return fmt.Errorf("ya existe un cliente con el DNI %s", *client.DNI)
		}
	}
	if client.Status == "" {
		client.Status = models.ClientStatusLead
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "Client", client.ID, fmt.Sprintf("Cliente creado: %s", client.FullName), "", "")
}

func (s *ClientService) Update(ctx context.Context, client *models.Client, actorID uint) error {
	if err := s.repo.Update(ctx, client); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Client", client.ID, fmt.Sprintf("Cliente actualizado: %s", client.FullName), "", "")
}

func (s *ClientService) Delete(ctx context.Context, id uint, actorID uint) error {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if len(client.Projects) > 0 {
		return fmt.Errorf("no se puede eliminar un cliente con proyectos asociados")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Client", id, fmt.Sprintf("Cliente eliminado: %s", client.FullName), "", "")
}

// ChangeStatus moves a client along the lead funnel
func (s *ClientService) ChangeStatus(ctx context.Context, id uint, status string, actorID uint) (*models.Client, error) {
	if !isValidClientStatus(status) {
		return nil, fmt.Errorf("estado de cliente no válido: %s", status)
	}
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := client.Status
	client.Status = status
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Client", id, fmt.Sprintf("Estado cambiado de %s a %s", previous, status), "", "")
	return client, nil
}

// RegisterContact records that the client was contacted now
func (s *ClientService) RegisterContact(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.TouchContact(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Client", id, "Contacto registrado", "", "")
}

// NotifyStaleLeads finds leads without recent contact and notifies their assignees.
// Leads with no assignee are reported to admins. Returns the number of stale leads found.
func (s *ClientService) NotifyStaleLeads(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	leads, err := s.repo.FindStaleLeads(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, lead := range leads {
		title := "Lead sin seguimiento"
		message := fmt.Sprintf("El lead %s lleva más de %d días sin contacto", lead.FullName, int(olderThan.Hours()/24))
		if lead.AssignedTo != nil {
			s.notificationSvc.NotifyUser(ctx, *lead.AssignedTo, title, message, models.NotificationTypeStaleLead)
		} else {
			s.notificationSvc.NotifyAdmins(ctx, title, message, models.NotificationTypeStaleLead)
		}
	}
	return len(leads), nil
}

func isValidClientStatus(status string) bool {
	switch status {
	case models.ClientStatusLead, models.ClientStatusContacted, models.ClientStatusQualified,
		models.ClientStatusCustomer, models.ClientStatusDiscarded:
		return true
	}
	return false
}
