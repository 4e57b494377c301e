package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project represents a camperization project: one vehicle being configured,
// quoted, contracted and built for a client.
type Project struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Code          string  `gorm:"uniqueIndex;not null" json:"code"`
	ClientID      uint    `gorm:"not null;index" json:"client_id"`
	Phase         string  `gorm:"default:lead;not null;index" json:"phase"`
	VehicleBrand  string  `json:"vehicle_brand"`
	VehicleModel  string  `json:"vehicle_model"`
	ChassisNumber string  `gorm:"column:chassis_number" json:"chassis_number"`
	Plate         string  `json:"plate"`
	DeliveryWeeks int     `gorm:"default:12" json:"delivery_weeks"`
	Note          *string `gorm:"type:text" json:"note"`
	AssignedTo    *uint   `gorm:"index" json:"assigned_to"`

	BudgetSentAt       *time.Time `json:"budget_sent_at"`
	ContractSignedAt   *time.Time `json:"contract_signed_at"`
	ProductionStartAt  *time.Time `json:"production_start_at"`
	DeliveredAt        *time.Time `json:"delivered_at"`
	ClosedAt           *time.Time `json:"closed_at"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Client   Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Assignee *User    `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Budgets  []Budget `gorm:"foreignKey:ProjectID" json:"budgets,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns the project code
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.Code == "" {
		id := uuid.New()
		p.Code = fmt.Sprintf("NMD-%d-%s", time.Now().Year(), id.String()[:8])
	}
	return nil
}

// Project phase constants
const (
	ProjectPhaseLead       = "lead"
	ProjectPhaseBudget     = "presupuesto"
	ProjectPhaseContract   = "contrato"
	ProjectPhaseProduction = "produccion"
	ProjectPhaseDelivery   = "entrega"
	ProjectPhaseClosed     = "cerrado"
	ProjectPhaseCancelled  = "cancelado"
)

// MaySendBudget returns true if the project can move to the budget phase
func (p *Project) MaySendBudget() bool {
	return p.Phase == ProjectPhaseLead
}

// MaySignContract returns true if the project can move to the contract phase
func (p *Project) MaySignContract() bool {
	return p.Phase == ProjectPhaseBudget
}

// MayStartProduction returns true if production can begin
func (p *Project) MayStartProduction() bool {
	return p.Phase == ProjectPhaseContract
}

// MayDeliver returns true if the vehicle can be handed over
func (p *Project) MayDeliver() bool {
	return p.Phase == ProjectPhaseProduction
}

// MayClose returns true if the project can be closed
func (p *Project) MayClose() bool {
	return p.Phase == ProjectPhaseDelivery
}

// MayCancel returns true if the project can still be cancelled
func (p *Project) MayCancel() bool {
	return p.Phase != ProjectPhaseClosed && p.Phase != ProjectPhaseCancelled
}

// IsActive returns true while the project is in the pipeline
func (p *Project) IsActive() bool {
	return p.Phase != ProjectPhaseClosed && p.Phase != ProjectPhaseCancelled
}

// PrimaryBudget returns the budget marked as primary, or nil
func (p *Project) PrimaryBudget() *Budget {
	for i := range p.Budgets {
		if p.Budgets[i].IsPrimary {
			return &p.Budgets[i]
		}
	}
	return nil
}

// ProjectResponse is the JSON response format for projects
type ProjectResponse struct {
	ID            uint       `json:"id"`
	Code          string     `json:"code"`
	ClientID      uint       `json:"client_id"`
	ClientName    string     `json:"client_name,omitempty"`
	Phase         string     `json:"phase"`
	VehicleBrand  string     `json:"vehicle_brand"`
	VehicleModel  string     `json:"vehicle_model"`
	ChassisNumber string     `json:"chassis_number"`
	Plate         string     `json:"plate"`
	DeliveryWeeks int        `json:"delivery_weeks"`
	Note          *string    `json:"note"`
	AssignedTo    *uint      `json:"assigned_to"`
	AssigneeName  string     `json:"assignee_name,omitempty"`
	BudgetCount   int        `json:"budget_count"`
	TotalAmount   float64    `json:"total_amount"`
	DeliveredAt   *time.Time `json:"delivered_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToResponse converts Project to ProjectResponse
func (p *Project) ToResponse() ProjectResponse {
	resp := ProjectResponse{
		ID:            p.ID,
		Code:          p.Code,
		ClientID:      p.ClientID,
		Phase:         p.Phase,
		VehicleBrand:  p.VehicleBrand,
		VehicleModel:  p.VehicleModel,
		ChassisNumber: p.ChassisNumber,
		Plate:         p.Plate,
		DeliveryWeeks: p.DeliveryWeeks,
		Note:          p.Note,
		AssignedTo:    p.AssignedTo,
		BudgetCount:   len(p.Budgets),
		DeliveredAt:   p.DeliveredAt,
		CreatedAt:     p.CreatedAt,
	}

	if p.Client.ID != 0 {
		resp.ClientName = p.Client.FullName
	}
	if p.Assignee != nil && p.Assignee.ID != 0 {
		resp.AssigneeName = p.Assignee.FullName
	}
	if primary := p.PrimaryBudget(); primary != nil {
		resp.TotalAmount = primary.Total
	}

	return resp
}
