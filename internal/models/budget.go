package models

import (
	"time"
)

// Budget is a stored quote: the selected configuration plus the computed
// price breakdown frozen at save time. A project can hold several budgets
// but at most one is primary.
type Budget struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"not null;index" json:"project_id"`
	Name      string `gorm:"not null" json:"name"`
	Status    string `gorm:"default:draft;not null;index" json:"status"`
	IsPrimary bool   `gorm:"default:false;index" json:"is_primary"`

	// Selected configuration
	EngineOptionID   *uint `json:"engine_option_id"`
	VehicleModelID   *uint `json:"vehicle_model_id"`
	ExteriorColorID  *uint `json:"exterior_color_id"`
	InteriorColorID  *uint `json:"interior_color_id"`
	PackID           *uint `json:"pack_id"`
	ElectricSystemID *uint `json:"electric_system_id"`

	// Frozen price breakdown
	BasePrice            float64 `gorm:"type:decimal(12,2);default:0" json:"base_price"`
	EnginePrice          float64 `gorm:"type:decimal(12,2);default:0" json:"engine_price"`
	ColorModifier        float64 `gorm:"type:decimal(12,2);default:0" json:"color_modifier"`
	PackPrice            float64 `gorm:"type:decimal(12,2);default:0" json:"pack_price"`
	ElectricSystemPrice  float64 `gorm:"type:decimal(12,2);default:0" json:"electric_system_price"`
	AdditionalItemsPrice float64 `gorm:"type:decimal(12,2);default:0" json:"additional_items_price"`
	CustomItemsPrice     float64 `gorm:"type:decimal(12,2);default:0" json:"custom_items_price"`
	Subtotal             float64 `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	DiscountPercentage   float64 `gorm:"type:decimal(5,2);default:0" json:"discount_percentage"`
	DiscountAmount       float64 `gorm:"type:decimal(12,2);default:0" json:"discount_amount"`
	IVARate              float64 `gorm:"type:decimal(5,2);default:21" json:"iva_rate"`
	IVAAmount            float64 `gorm:"type:decimal(12,2);default:0" json:"iva_amount"`
	Total                float64 `gorm:"type:decimal(12,2);default:0" json:"total"`

	SentAt     *time.Time `json:"sent_at"`
	AcceptedAt *time.Time `json:"accepted_at"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Associations
	Project Project      `gorm:"foreignKey:ProjectID" json:"-"`
	Items   []BudgetItem `gorm:"foreignKey:BudgetID" json:"items,omitempty"`
}

// TableName specifies the table name for Budget
func (Budget) TableName() string {
	return "budgets"
}

// Budget status constants
const (
	BudgetStatusDraft    = "draft"
	BudgetStatusSent     = "sent"
	BudgetStatusAccepted = "accepted"
	BudgetStatusRejected = "rejected"
)

// MaySend returns true if the budget can be sent to the client
func (b *Budget) MaySend() bool {
	return b.Status == BudgetStatusDraft
}

// MayAccept returns true if the budget can be accepted
func (b *Budget) MayAccept() bool {
	return b.Status == BudgetStatusSent
}

// MayReject returns true if the budget can be rejected
func (b *Budget) MayReject() bool {
	return b.Status == BudgetStatusSent
}

// BudgetItem is one stored line of a budget: additional equipment, a custom
// entry or a discount. Discount lines are stored with a negative Price, so
// summing LineTotal over a budget's rows gives the items' net contribution.
type BudgetItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	BudgetID   uint    `gorm:"not null;index" json:"budget_id"`
	Name       string  `gorm:"not null" json:"name"`
	Price      float64 `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity   int     `gorm:"default:1" json:"quantity"`
	IsCustom   bool    `gorm:"default:false" json:"is_custom"`
	IsDiscount bool    `gorm:"default:false" json:"is_discount"`
	OrderIndex int     `gorm:"default:0" json:"order_index"`
	CatalogID  *uint   `json:"catalog_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for BudgetItem
func (BudgetItem) TableName() string {
	return "budget_items"
}

// LineTotal returns price times quantity. Discount lines already carry a
// negative price, so no special casing is needed.
func (i *BudgetItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// BudgetResponse is the JSON response format for budgets
type BudgetResponse struct {
	ID                   uint         `json:"id"`
	ProjectID            uint         `json:"project_id"`
	Name                 string       `json:"name"`
	Status               string       `json:"status"`
	IsPrimary            bool         `json:"is_primary"`
	EngineOptionID       *uint        `json:"engine_option_id"`
	VehicleModelID       *uint        `json:"vehicle_model_id"`
	ExteriorColorID      *uint        `json:"exterior_color_id"`
	InteriorColorID      *uint        `json:"interior_color_id"`
	PackID               *uint        `json:"pack_id"`
	ElectricSystemID     *uint        `json:"electric_system_id"`
	BasePrice            float64      `json:"base_price"`
	EnginePrice          float64      `json:"engine_price"`
	ColorModifier        float64      `json:"color_modifier"`
	PackPrice            float64      `json:"pack_price"`
	ElectricSystemPrice  float64      `json:"electric_system_price"`
	AdditionalItemsPrice float64      `json:"additional_items_price"`
	CustomItemsPrice     float64      `json:"custom_items_price"`
	Subtotal             float64      `json:"subtotal"`
	DiscountPercentage   float64      `json:"discount_percentage"`
	DiscountAmount       float64      `json:"discount_amount"`
	IVARate              float64      `json:"iva_rate"`
	IVAAmount            float64      `json:"iva_amount"`
	Total                float64      `json:"total"`
	Items                []BudgetItem `json:"items"`
	SentAt               *time.Time   `json:"sent_at"`
	AcceptedAt           *time.Time   `json:"accepted_at"`
	CreatedAt            time.Time    `json:"created_at"`
}

// ToResponse converts Budget to BudgetResponse
func (b *Budget) ToResponse() BudgetResponse {
	items := b.Items
	if items == nil {
		items = []BudgetItem{}
	}
	return BudgetResponse{
		ID:                   b.ID,
		ProjectID:            b.ProjectID,
		Name:                 b.Name,
		Status:               b.Status,
		IsPrimary:            b.IsPrimary,
		EngineOptionID:       b.EngineOptionID,
		VehicleModelID:       b.VehicleModelID,
		ExteriorColorID:      b.ExteriorColorID,
		InteriorColorID:      b.InteriorColorID,
		PackID:               b.PackID,
		ElectricSystemID:     b.ElectricSystemID,
		BasePrice:            b.BasePrice,
		EnginePrice:          b.EnginePrice,
		ColorModifier:        b.ColorModifier,
		PackPrice:            b.PackPrice,
		ElectricSystemPrice:  b.ElectricSystemPrice,
		AdditionalItemsPrice: b.AdditionalItemsPrice,
		CustomItemsPrice:     b.CustomItemsPrice,
		Subtotal:             b.Subtotal,
		DiscountPercentage:   b.DiscountPercentage,
		DiscountAmount:       b.DiscountAmount,
		IVARate:              b.IVARate,
		IVAAmount:            b.IVAAmount,
		Total:                b.Total,
		Items:                items,
		SentAt:               b.SentAt,
		AcceptedAt:           b.AcceptedAt,
		CreatedAt:            b.CreatedAt,
	}
}
