// Package pricing implements the budget price computation for a vehicle
// configuration: engine, model, colors, equipment pack, electric system,
// additional items, custom lines and discounts.
//
// Everything here is pure: unresolved or missing selections contribute zero
// instead of failing, because the budget editor recomputes on every change
// while the form is still half filled.
package pricing

import "fmt"

// Option is the common shape of a catalog entry as seen by the engine.
type Option struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Engine is an engine/trim option. The base vehicle price lives here; the
// model catalog always carries zero. RequiresExteriorColor is false for
// conversion-only trims, which skip the exterior color step entirely.
type Engine struct {
	Option
	RequiresExteriorColor bool `json:"requires_exterior_color"`
}

// ElectricSystem is an electrical configuration with optional per-pack rules.
type ElectricSystem struct {
	Option
	Rules []PackRule `json:"rules,omitempty"`
}

// Rule type constants
const (
	RuleFree     = "free"
	RuleDiscount = "discount"
)

// Discount type constants
const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

// PackRule associates a pack with a pricing treatment for one electric system.
// A rule may reference the pack by id, by name, or both; resolution prefers
// the id and falls back to the name.
type PackRule struct {
	PackID       *uint   `json:"pack_id,omitempty"`
	PackName     string  `json:"pack_name,omitempty"`
	Type         string  `json:"type"`
	DiscountType string  `json:"discount_type,omitempty"`
	Value        float64 `json:"value,omitempty"`
	Reason       string  `json:"reason,omitempty"`
}

// CustomItem is a user-entered budget line
type CustomItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// DiscountItem is a user-entered discount line; Amount is a positive magnitude
type DiscountItem struct {
	ID      string  `json:"id"`
	Concept string  `json:"concept"`
	Amount  float64 `json:"amount"`
}

// Catalogs holds the reference data the engine resolves selections against
type Catalogs struct {
	Engines         []Engine
	Models          []Option
	ExteriorColors  []Option
	Packs           []Option
	ElectricSystems []ElectricSystem
	AdditionalItems []Option
}

// Selection carries the user's choices. Nil means "not selected yet", which is
// distinct from an id that fails to resolve against the catalog.
type Selection struct {
	EngineID          *uint  `json:"engine_id"`
	ModelID           *uint  `json:"model_id"`
	ExteriorColorID   *uint  `json:"exterior_color_id"`
	PackID            *uint  `json:"pack_id"`
	ElectricSystemID  *uint  `json:"electric_system_id"`
	AdditionalItemIDs []uint `json:"additional_item_ids"`
}

// Input is everything Compute needs
type Input struct {
	Selection          Selection
	Catalogs           Catalogs
	DiscountPercentage float64
	IVARate            float64
	CustomItems        []CustomItem
	DiscountItems      []DiscountItem
}

// ElectricResolution is the outcome of applying pack rules to an electric system
type ElectricResolution struct {
	FinalPrice     float64 `json:"final_price"`
	DiscountAmount float64 `json:"discount_amount"`
	IsFree         bool    `json:"is_free"`
	DiscountReason string  `json:"discount_reason,omitempty"`
}

// Breakdown is the full price decomposition of a configuration
type Breakdown struct {
	BasePrice                float64 `json:"base_price"`
	EnginePrice              float64 `json:"engine_price"`
	ColorModifier            float64 `json:"color_modifier"`
	PackPrice                float64 `json:"pack_price"`
	ElectricSystemPrice      float64 `json:"electric_system_price"`
	AdditionalItemsPrice     float64 `json:"additional_items_price"`
	CustomItemsPrice         float64 `json:"custom_items_price"`
	Subtotal                 float64 `json:"subtotal"`
	DiscountPercentageAmount float64 `json:"discount_percentage_amount"`
	DiscountItemsTotal       float64 `json:"discount_items_total"`
	IVAAmount                float64 `json:"iva_amount"`
	Total                    float64 `json:"total"`

	// Resolved selections; nil when nothing (or an unknown id) was selected
	SelectedEngine         *Engine            `json:"selected_engine,omitempty"`
	SelectedModel          *Option            `json:"selected_model,omitempty"`
	SelectedExteriorColor  *Option            `json:"selected_exterior_color,omitempty"`
	SelectedPack           *Option            `json:"selected_pack,omitempty"`
	SelectedElectricSystem *ElectricSystem    `json:"selected_electric_system,omitempty"`
	Electric               ElectricResolution `json:"electric"`
}

// Compute derives the full price breakdown for a configuration. It never
// fails: unresolved ids contribute zero and leave the corresponding selected
// field nil.
func Compute(in Input) Breakdown {
	b := Breakdown{}

	if engine := findEngine(in.Catalogs.Engines, in.Selection.EngineID); engine != nil {
		b.SelectedEngine = engine
		b.EnginePrice = engine.Price
	}

	if model := findOption(in.Catalogs.Models, in.Selection.ModelID); model != nil {
		b.SelectedModel = model
		b.BasePrice = model.Price // zero by catalog policy
	}

	// Exterior color is skipped entirely for trims that do not require one
	// (conversion-only engines); the selection is neither priced nor surfaced.
	if b.SelectedEngine == nil || b.SelectedEngine.RequiresExteriorColor {
		if color := findOption(in.Catalogs.ExteriorColors, in.Selection.ExteriorColorID); color != nil {
			b.SelectedExteriorColor = color
			b.ColorModifier = color.Price
		}
	}

	if pack := findOption(in.Catalogs.Packs, in.Selection.PackID); pack != nil {
		b.SelectedPack = pack
		b.PackPrice = pack.Price
	}

	if es := findElectric(in.Catalogs.ElectricSystems, in.Selection.ElectricSystemID); es != nil {
		b.SelectedElectricSystem = es
		packName := ""
		if b.SelectedPack != nil {
			packName = b.SelectedPack.Name
		}
		b.Electric = ResolveElectricPrice(es.Price, es.Rules, in.Selection.PackID, packName)
		b.ElectricSystemPrice = b.Electric.FinalPrice
	}

	for _, id := range in.Selection.AdditionalItemIDs {
		itemID := id
		if item := findOption(in.Catalogs.AdditionalItems, &itemID); item != nil {
			b.AdditionalItemsPrice += item.Price
		}
	}

	for _, item := range in.CustomItems {
		b.CustomItemsPrice += item.Price * float64(item.Quantity)
	}

	b.Subtotal = b.EnginePrice + b.BasePrice + b.ColorModifier + b.PackPrice +
		b.ElectricSystemPrice + b.AdditionalItemsPrice + b.CustomItemsPrice

	b.DiscountPercentageAmount = b.Subtotal * (in.DiscountPercentage / 100)
	for _, d := range in.DiscountItems {
		b.DiscountItemsTotal += d.Amount
	}

	taxable := b.Subtotal - b.DiscountPercentageAmount - b.DiscountItemsTotal
	b.IVAAmount = taxable * (in.IVARate / 100)
	b.Total = taxable + b.IVAAmount

	return b
}

// ResolveElectricPrice applies the pack rules of an electric system to its
// base price. No selected pack or no rules leaves the base price unmodified.
// A matching free rule wins over a discount rule; discounts clamp at zero.
func ResolveElectricPrice(basePrice float64, rules []PackRule, packID *uint, packName string) ElectricResolution {
	res := ElectricResolution{FinalPrice: basePrice}
	if (packID == nil && packName == "") || len(rules) == 0 {
		return res
	}

	rule := matchRule(rules, packID, packName)
	if rule == nil {
		return res
	}

	switch rule.Type {
	case RuleFree:
		res.FinalPrice = 0
		res.DiscountAmount = basePrice
		res.IsFree = true
		res.DiscountReason = rule.Reason
	case RuleDiscount:
		amount := rule.Value
		if rule.DiscountType == DiscountPercentage {
			amount = basePrice * (rule.Value / 100)
		}
		if amount > basePrice {
			amount = basePrice
		}
		res.FinalPrice = basePrice - amount
		res.DiscountAmount = amount
		res.DiscountReason = rule.Reason
	}
	return res
}

// matchRule finds the applicable rule for a pack. Id matches take precedence
// over name matches; among rules with equal specificity a free rule wins.
func matchRule(rules []PackRule, packID *uint, packName string) *PackRule {
	var byName *PackRule
	var byID *PackRule
	for i := range rules {
		r := &rules[i]
		if packID != nil && r.PackID != nil && *r.PackID == *packID {
			if byID == nil || (byID.Type != RuleFree && r.Type == RuleFree) {
				byID = r
			}
			continue
		}
		if packName != "" && r.PackName == packName {
			if byName == nil || (byName.Type != RuleFree && r.Type == RuleFree) {
				byName = r
			}
		}
	}
	if byID != nil {
		return byID
	}
	return byName
}

// TotalLabel returns the label the total is shown under. With a zero IVA rate
// the total is the net price and carries a different caption.
func TotalLabel(ivaRate float64) string {
	if ivaRate == 0 {
		return "PRECIO NETO"
	}
	return fmt.Sprintf("TOTAL (IVA %.0f%%)", ivaRate)
}

func findOption(opts []Option, id *uint) *Option {
	if id == nil {
		return nil
	}
	for i := range opts {
		if opts[i].ID == *id {
			return &opts[i]
		}
	}
	return nil
}

func findEngine(engines []Engine, id *uint) *Engine {
	if id == nil {
		return nil
	}
	for i := range engines {
		if engines[i].ID == *id {
			return &engines[i]
		}
	}
	return nil
}

func findElectric(systems []ElectricSystem, id *uint) *ElectricSystem {
	if id == nil {
		return nil
	}
	for i := range systems {
		if systems[i].ID == *id {
			return &systems[i]
		}
	}
	return nil
}
