package models

import (
	"time"
)

// ContractDocument is a generated contract archived for a project: the
// rendered HTML plus the PDF path, frozen with the data used to fill it.
type ContractDocument struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProjectID    uint       `gorm:"not null;index" json:"project_id"`
	TemplateKey  string     `gorm:"not null" json:"template_key"`
	Title        string     `gorm:"not null" json:"title"`
	RenderedHTML string     `gorm:"type:text" json:"-"`
	PDFPath      *string    `json:"-"`
	GeneratedBy  uint       `gorm:"not null" json:"generated_by"`
	SignedAt     *time.Time `gorm:"type:date" json:"signed_at"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
	Author  User    `gorm:"foreignKey:GeneratedBy" json:"-"`
}

// TableName specifies the table name for ContractDocument
func (ContractDocument) TableName() string {
	return "contract_documents"
}

// Contract template keys
const (
	TemplateReservationContract   = "reservation_contract"
	TemplatePurchaseAgreement     = "purchase_agreement"
	TemplateSaleContract          = "sale_contract"
	TemplateCamperizationContract = "camperization_agreement"
)

// IsSigned returns true once the signed date has been recorded
func (c *ContractDocument) IsSigned() bool {
	return c.SignedAt != nil
}

// ContractDocumentResponse is the JSON response format for contract documents
type ContractDocumentResponse struct {
	ID          uint       `json:"id"`
	ProjectID   uint       `json:"project_id"`
	TemplateKey string     `json:"template_key"`
	Title       string     `json:"title"`
	HasPDF      bool       `json:"has_pdf"`
	GeneratedBy uint       `json:"generated_by"`
	AuthorName  string     `json:"author_name,omitempty"`
	SignedAt    *time.Time `json:"signed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToResponse converts ContractDocument to ContractDocumentResponse
func (c *ContractDocument) ToResponse() ContractDocumentResponse {
	resp := ContractDocumentResponse{
		ID:          c.ID,
		ProjectID:   c.ProjectID,
		TemplateKey: c.TemplateKey,
		Title:       c.Title,
		HasPDF:      c.PDFPath != nil && *c.PDFPath != "",
		GeneratedBy: c.GeneratedBy,
		SignedAt:    c.SignedAt,
		CreatedAt:   c.CreatedAt,
	}
	if c.Author.ID != 0 {
		resp.AuthorName = c.Author.FullName
	}
	return resp
}
