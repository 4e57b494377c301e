package services

import (
	"testing"

	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/pricing"
	"github.com/stretchr/testify/assert"
)

func draftCatalogs() pricing.Catalogs {
	return pricing.Catalogs{
		AdditionalItems: []pricing.Option{
			{ID: 1, Name: "Toldo lateral", Price: 850},
			{ID: 2, Name: "Placa solar 200W", Price: 620},
		},
	}
}

func TestBuildItems_OrderAndIndexes(t *testing.T) {
	draft := &BudgetDraft{
		Selection: pricing.Selection{AdditionalItemIDs: []uint{2, 1}},
		CustomItems: []pricing.CustomItem{
			{Name: "Vinilo personalizado", Price: 300, Quantity: 2},
		},
		DiscountItems: []pricing.DiscountItem{
			{Concept: "Promoción feria", Amount: 500},
		},
	}

	items := buildItems(draft, draftCatalogs())

	assert.Len(t, items, 4)

	// Catalog extras first, in selection order
	assert.Equal(t, "Placa solar 200W", items[0].Name)
	assert.False(t, items[0].IsCustom)
	assert.NotNil(t, items[0].CatalogID)
	assert.Equal(t, uint(2), *items[0].CatalogID)
	assert.Equal(t, "Toldo lateral", items[1].Name)

	// Then custom lines
	assert.Equal(t, "Vinilo personalizado", items[2].Name)
	assert.True(t, items[2].IsCustom)
	assert.False(t, items[2].IsDiscount)
	assert.Equal(t, 2, items[2].Quantity)

	// Discounts last, stored as negative prices
	assert.Equal(t, "Promoción feria", items[3].Name)
	assert.True(t, items[3].IsDiscount)
	assert.Equal(t, -500.0, items[3].Price)

	for i, item := range items {
		assert.Equal(t, i, item.OrderIndex)
	}
}

func TestBuildItems_DiscountsStoredNegative(t *testing.T) {
	draft := &BudgetDraft{
		DiscountItems: []pricing.DiscountItem{
			{Concept: "Promo", Amount: 500},
			{Concept: "Fidelidad", Amount: 250},
		},
	}

	items := buildItems(draft, draftCatalogs())

	assert.Len(t, items, 2)
	for _, item := range items {
		assert.True(t, item.IsDiscount)
	}
	assert.Equal(t, -500.0, items[0].Price)
	assert.Equal(t, -250.0, items[1].Price)
	assert.Equal(t, -500.0, items[0].LineTotal())
}

func TestBuildItems_SkipsInvalidLines(t *testing.T) {
	draft := &BudgetDraft{
		Selection: pricing.Selection{AdditionalItemIDs: []uint{99}}, // unknown id
		CustomItems: []pricing.CustomItem{
			{Name: "", Price: 100},
			{Name: "Sin precio", Price: 0},
			{Name: "Válido", Price: 50, Quantity: 0}, // quantity clamps to 1
		},
		DiscountItems: []pricing.DiscountItem{
			{Concept: "", Amount: 100},
			{Concept: "Sin importe", Amount: 0},
		},
	}

	items := buildItems(draft, draftCatalogs())

	assert.Len(t, items, 1)
	assert.Equal(t, "Válido", items[0].Name)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 0, items[0].OrderIndex)
}

func TestApplyBreakdown_FreezesComputation(t *testing.T) {
	budget := &models.Budget{}
	draft := &BudgetDraft{DiscountPercentage: 5, IVARate: 21}
	breakdown := &pricing.Breakdown{
		EnginePrice:              45000,
		PackPrice:                9000,
		Subtotal:                 54000,
		DiscountPercentageAmount: 2700,
		DiscountItemsTotal:       500,
		IVAAmount:                10668,
		Total:                    61468,
	}

	applyBreakdown(budget, breakdown, draft)

	assert.Equal(t, 45000.0, budget.EnginePrice)
	assert.Equal(t, 54000.0, budget.Subtotal)
	assert.Equal(t, 5.0, budget.DiscountPercentage)
	assert.Equal(t, 3200.0, budget.DiscountAmount)
	assert.Equal(t, 21.0, budget.IVARate)
	assert.Equal(t, 61468.0, budget.Total)
}

func TestTranchePercentagesCoverTotal(t *testing.T) {
	assert.InDelta(t, 1.0, trancheInitialPct+trancheProductionPct+trancheFinalPct, 1e-9)
}
