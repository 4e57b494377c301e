package models

import (
	"time"
)

// Client represents a lead or customer of the workshop
type Client struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	FullName      string     `gorm:"not null" json:"full_name"`
	DNI           *string    `gorm:"column:dni;index" json:"dni"`
	CIF           *string    `gorm:"column:cif" json:"cif"`
	Company       *string    `json:"company"`
	Phone         string     `json:"phone"`
	Email         string     `gorm:"index" json:"email"`
	Address       *string    `json:"address"`
	City          *string    `json:"city"`
	PostalCode    *string    `json:"postal_code"`
	Status        string     `gorm:"default:lead;index" json:"status"`
	Source        *string    `json:"source"` // feria, web, referido...
	Note          *string    `gorm:"type:text" json:"note"`
	AssignedTo    *uint      `gorm:"index" json:"assigned_to"`
	LastContactAt *time.Time `json:"last_contact_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Assignee *User     `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Projects []Project `gorm:"foreignKey:ClientID" json:"projects,omitempty"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// Client status constants
const (
	ClientStatusLead      = "lead"
	ClientStatusContacted = "contacted"
	ClientStatusQualified = "qualified"
	ClientStatusCustomer  = "customer"
	ClientStatusDiscarded = "discarded"
)

// IsLead returns true while the client has not bought anything yet
func (c *Client) IsLead() bool {
	return c.Status == ClientStatusLead || c.Status == ClientStatusContacted || c.Status == ClientStatusQualified
}

// ClientResponse is the JSON response format for clients
type ClientResponse struct {
	ID            uint       `json:"id"`
	FullName      string     `json:"full_name"`
	DNI           *string    `json:"dni"`
	CIF           *string    `json:"cif"`
	Company       *string    `json:"company"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	Address       *string    `json:"address"`
	City          *string    `json:"city"`
	PostalCode    *string    `json:"postal_code"`
	Status        string     `json:"status"`
	Source        *string    `json:"source"`
	Note          *string    `json:"note"`
	AssigneeName  string     `json:"assignee_name,omitempty"`
	LastContactAt *time.Time `json:"last_contact_at"`
	ProjectCount  int        `json:"project_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToResponse converts Client to ClientResponse
func (c *Client) ToResponse() ClientResponse {
	resp := ClientResponse{
		ID:            c.ID,
		FullName:      c.FullName,
		DNI:           c.DNI,
		CIF:           c.CIF,
		Company:       c.Company,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		City:          c.City,
		PostalCode:    c.PostalCode,
		Status:        c.Status,
		Source:        c.Source,
		Note:          c.Note,
		LastContactAt: c.LastContactAt,
		ProjectCount:  len(c.Projects),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Assignee != nil {
		resp.AssigneeName = c.Assignee.FullName
	}
	return resp
}
