package models

import (
	"fmt"
	"strings"
	"time"
)

// Invoice represents one billing tranche of a project. Camperization work is
// invoiced in three tranches: signature, production start and delivery.
type Invoice struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ProjectID  uint       `gorm:"not null;index" json:"project_id"`
	Number     string     `gorm:"uniqueIndex;not null" json:"number"`
	Tranche    string     `gorm:"default:inicial;not null" json:"tranche"`
	Concept    string     `gorm:"not null" json:"concept"`
	BaseAmount float64    `gorm:"type:decimal(12,2);not null" json:"base_amount"`
	IVARate    float64    `gorm:"type:decimal(5,2);default:21" json:"iva_rate"`
	IVAAmount  float64    `gorm:"type:decimal(12,2);not null" json:"iva_amount"`
	Total      float64    `gorm:"type:decimal(12,2);not null" json:"total"`
	Status     string     `gorm:"default:pending;not null;index" json:"status"`
	IssuedAt   time.Time  `gorm:"type:date;not null" json:"issued_at"`
	DueDate    time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	PaidAt     *time.Time `gorm:"type:date" json:"paid_at"`

	// When the overdue reminder email was last sent
	OverdueReminderSentAt *time.Time `gorm:"column:overdue_reminder_sent_at" json:"-"`

	DocumentPath *string   `json:"-"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// Invoice status constants
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice tranche constants
const (
	InvoiceTrancheInitial    = "inicial"
	InvoiceTrancheProduction = "produccion"
	InvoiceTrancheFinal      = "final"
)

// MayMarkPaid returns true if the invoice can be settled
func (i *Invoice) MayMarkPaid() bool {
	return i.Status == InvoiceStatusPending
}

// MayCancel returns true if the invoice can be voided
func (i *Invoice) MayCancel() bool {
	return i.Status == InvoiceStatusPending
}

// IsOverdue returns true if the invoice is pending past its due date
func (i *Invoice) IsOverdue() bool {
	return i.Status == InvoiceStatusPending && time.Now().After(i.DueDate)
}

// OverdueDays returns the number of days overdue
func (i *Invoice) OverdueDays() int {
	if !i.IsOverdue() {
		return 0
	}
	return int(time.Since(i.DueDate).Hours() / 24)
}

// InvoiceResponse is the JSON response format for invoices
type InvoiceResponse struct {
	ID          uint       `json:"id"`
	ProjectID   uint       `json:"project_id"`
	ProjectCode string     `json:"project_code,omitempty"`
	ClientName  string     `json:"client_name,omitempty"`
	Number      string     `json:"number"`
	Tranche     string     `json:"tranche"`
	Concept     string     `json:"concept"`
	BaseAmount  float64    `json:"base_amount"`
	IVARate     float64    `json:"iva_rate"`
	IVAAmount   float64    `json:"iva_amount"`
	Total       float64    `json:"total"`
	Status      string     `json:"status"`
	OverdueDays int        `json:"overdue_days"`
	IssuedAt    time.Time  `json:"issued_at"`
	DueDate     time.Time  `json:"due_date"`
	PaidAt      *time.Time `json:"paid_at"`
	HasDocument bool       `json:"has_document"`
	IsPDF       bool       `json:"is_pdf"`
}

// ToResponse converts Invoice to InvoiceResponse
func (i *Invoice) ToResponse() InvoiceResponse {
	resp := InvoiceResponse{
		ID:          i.ID,
		ProjectID:   i.ProjectID,
		Number:      i.Number,
		Tranche:     i.Tranche,
		Concept:     i.Concept,
		BaseAmount:  i.BaseAmount,
		IVARate:     i.IVARate,
		IVAAmount:   i.IVAAmount,
		Total:       i.Total,
		Status:      i.Status,
		OverdueDays: i.OverdueDays(),
		IssuedAt:    i.IssuedAt,
		DueDate:     i.DueDate,
		PaidAt:      i.PaidAt,
		HasDocument: i.DocumentPath != nil && *i.DocumentPath != "",
		IsPDF:       i.DocumentPath != nil && strings.HasSuffix(strings.ToLower(*i.DocumentPath), ".pdf"),
	}

	if i.Project.ID != 0 {
		resp.ProjectCode = i.Project.Code
		if i.Project.Client.ID != 0 {
			resp.ClientName = i.Project.Client.FullName
		}
	}

	return resp
}

// NextInvoiceNumber formats a sequential invoice number for a year
func NextInvoiceNumber(year int, seq int) string {
	return fmt.Sprintf("F%d-%04d", year, seq)
}
