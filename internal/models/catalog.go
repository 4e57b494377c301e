package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/nomadecampers/nomade-api/internal/pricing"
)

// EngineOption represents an engine/trim choice. The base vehicle price lives on
// the engine option; the model row always carries a zero modifier.
type EngineOption struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	Name                  string    `gorm:"not null" json:"name"`
	Power                 *string   `json:"power"`        // e.g. "140 CV"
	Transmission          *string   `json:"transmission"` // manual, automatica
	PriceModifier         float64   `gorm:"type:decimal(12,2);not null" json:"price_modifier"`
	RequiresExteriorColor bool      `gorm:"default:true" json:"requires_exterior_color"`
	Active                bool      `gorm:"default:true;index" json:"active"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName specifies the table name for EngineOption
func (EngineOption) TableName() string {
	return "engine_options"
}

// ToPricing converts the engine option to its pricing-engine form
func (e *EngineOption) ToPricing() pricing.Engine {
	return pricing.Engine{
		Option:                pricing.Option{ID: e.ID, Name: e.Name, Price: e.PriceModifier},
		RequiresExteriorColor: e.RequiresExteriorColor,
	}
}

// VehicleModel represents a camper model (e.g. "Nomade 540"). Its price modifier
// is zero by catalog policy; it exists so budgets can record which layout was sold.
type VehicleModel struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   *string   `gorm:"type:text" json:"description"`
	PriceModifier float64   `gorm:"type:decimal(12,2);default:0" json:"price_modifier"`
	Active        bool      `gorm:"default:true;index" json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for VehicleModel
func (VehicleModel) TableName() string {
	return "vehicle_models"
}

// ToPricing converts the model to its pricing-engine form
func (m *VehicleModel) ToPricing() pricing.Option {
	return pricing.Option{ID: m.ID, Name: m.Name, Price: m.PriceModifier}
}

// Color kind constants
const (
	ColorKindExterior = "exterior"
	ColorKindInterior = "interior"
)

// ColorOption represents an exterior or interior color choice
type ColorOption struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Kind          string    `gorm:"not null;index" json:"kind"` // exterior, interior
	Name          string    `gorm:"not null" json:"name"`
	HexCode       *string   `json:"hex_code"`
	PriceModifier float64   `gorm:"type:decimal(12,2);default:0" json:"price_modifier"`
	Active        bool      `gorm:"default:true;index" json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for ColorOption
func (ColorOption) TableName() string {
	return "color_options"
}

// ToPricing converts the color to its pricing-engine form
func (c *ColorOption) ToPricing() pricing.Option {
	return pricing.Option{ID: c.ID, Name: c.Name, Price: c.PriceModifier}
}

// Pack represents a bundled equipment option (e.g. "Pack Nomade")
type Pack struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	Active      bool      `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Pack
func (Pack) TableName() string {
	return "packs"
}

// ToPricing converts the pack to its pricing-engine form
func (p *Pack) ToPricing() pricing.Option {
	return pricing.Option{ID: p.ID, Name: p.Name, Price: p.Price}
}

// ElectricSystem represents an electrical configuration whose effective price can
// be overridden per selected pack through PackPricingRules.
type ElectricSystem struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Description      *string        `gorm:"type:text" json:"description"`
	Price            float64        `gorm:"type:decimal(12,2);not null" json:"price"`
	PackPricingRules datatypes.JSON `gorm:"column:pack_pricing_rules" json:"pack_pricing_rules"`
	Active           bool           `gorm:"default:true;index" json:"active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName specifies the table name for ElectricSystem
func (ElectricSystem) TableName() string {
	return "electric_systems"
}

// Rules decodes the JSON pack pricing rules. Malformed or empty JSON yields an
// empty rule set, which the pricing engine treats as "base price applies".
func (e *ElectricSystem) Rules() []pricing.PackRule {
	if len(e.PackPricingRules) == 0 {
		return nil
	}
	var rules []pricing.PackRule
	if err := json.Unmarshal(e.PackPricingRules, &rules); err != nil {
		return nil
	}
	return rules
}

// ToPricing converts the electric system to its pricing-engine form
func (e *ElectricSystem) ToPricing() pricing.ElectricSystem {
	return pricing.ElectricSystem{
		Option: pricing.Option{ID: e.ID, Name: e.Name, Price: e.Price},
		Rules:  e.Rules(),
	}
}

// AdditionalItem represents an optional extra (awning, solar panel, heater...)
type AdditionalItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Category  *string   `gorm:"index" json:"category"`
	Price     float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for AdditionalItem
func (AdditionalItem) TableName() string {
	return "additional_items"
}

// ToPricing converts the item to its pricing-engine form
func (a *AdditionalItem) ToPricing() pricing.Option {
	return pricing.Option{ID: a.ID, Name: a.Name, Price: a.Price}
}

// Catalog bundles every option family needed by the budget editor in one payload
type Catalog struct {
	Engines         []EngineOption   `json:"engines"`
	Models          []VehicleModel   `json:"models"`
	ExteriorColors  []ColorOption    `json:"exterior_colors"`
	InteriorColors  []ColorOption    `json:"interior_colors"`
	Packs           []Pack           `json:"packs"`
	ElectricSystems []ElectricSystem `json:"electric_systems"`
	AdditionalItems []AdditionalItem `json:"additional_items"`
}

// ToPricing converts the full catalog to its pricing-engine form
func (c *Catalog) ToPricing() pricing.Catalogs {
	out := pricing.Catalogs{}
	for i := range c.Engines {
		out.Engines = append(out.Engines, c.Engines[i].ToPricing())
	}
	for i := range c.Models {
		out.Models = append(out.Models, c.Models[i].ToPricing())
	}
	for i := range c.ExteriorColors {
		out.ExteriorColors = append(out.ExteriorColors, c.ExteriorColors[i].ToPricing())
	}
	for i := range c.Packs {
		out.Packs = append(out.Packs, c.Packs[i].ToPricing())
	}
	for i := range c.ElectricSystems {
		out.ElectricSystems = append(out.ElectricSystems, c.ElectricSystems[i].ToPricing())
	}
	for i := range c.AdditionalItems {
		out.AdditionalItems = append(out.AdditionalItems, c.AdditionalItems[i].ToPricing())
	}
	return out
}
