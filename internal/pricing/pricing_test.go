package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func testCatalogs() Catalogs {
	return Catalogs{
		Engines: []Engine{
			{Option: Option{ID: 1, Name: "2.0 TDI 140cv", Price: 45000}, RequiresExteriorColor: true},
			{Option: Option{ID: 2, Name: "Solo camperización", Price: 18000}, RequiresExteriorColor: false},
		},
		Models: []Option{
			{ID: 1, Name: "Nomade Sur", Price: 0},
		},
		ExteriorColors: []Option{
			{ID: 1, Name: "Blanco Candy", Price: 0},
			{ID: 2, Name: "Gris Indio Metalizado", Price: 850},
		},
		Packs: []Option{
			{ID: 1, Name: "Pack Aventura", Price: 3200},
		},
		ElectricSystems: []ElectricSystem{
			{Option: Option{ID: 1, Name: "Litio 200Ah", Price: 2400}, Rules: []PackRule{
				{PackID: uintPtr(1), Type: RuleFree, Reason: "Incluido en Pack Aventura"},
			}},
			{Option: Option{ID: 2, Name: "AGM 100Ah", Price: 900}, Rules: []PackRule{
				{PackName: "Pack Aventura", Type: RuleDiscount, DiscountType: DiscountPercentage, Value: 50},
			}},
		},
		AdditionalItems: []Option{
			{ID: 1, Name: "Toldo 3m", Price: 750},
			{ID: 2, Name: "Portabicis", Price: 420},
		},
	}
}

func TestComputeEngineOnlyWithIVA(t *testing.T) {
	in := Input{
		Selection: Selection{EngineID: uintPtr(1), ModelID: uintPtr(1)},
		Catalogs:  testCatalogs(),
		IVARate:   21,
	}

	b := Compute(in)

	assert.Equal(t, 45000.0, b.EnginePrice)
	assert.Equal(t, 0.0, b.BasePrice)
	assert.Equal(t, 45000.0, b.Subtotal)
	assert.InDelta(t, 9450.0, b.IVAAmount, 0.001)
	assert.InDelta(t, 54450.0, b.Total, 0.001)
}

func TestComputeEmptySelection(t *testing.T) {
	b := Compute(Input{Catalogs: testCatalogs(), IVARate: 21})

	assert.Equal(t, 0.0, b.Subtotal)
	assert.Equal(t, 0.0, b.Total)
	assert.Nil(t, b.SelectedEngine)
	assert.Nil(t, b.SelectedModel)
}

func TestComputeUnknownIDsContributeZero(t *testing.T) {
	in := Input{
		Selection: Selection{
			EngineID:          uintPtr(99),
			ModelID:           uintPtr(99),
			ExteriorColorID:   uintPtr(99),
			PackID:            uintPtr(99),
			ElectricSystemID:  uintPtr(99),
			AdditionalItemIDs: []uint{99},
		},
		Catalogs: testCatalogs(),
		IVARate:  21,
	}

	b := Compute(in)

	assert.Equal(t, 0.0, b.Subtotal)
	assert.Nil(t, b.SelectedEngine)
	assert.Nil(t, b.SelectedPack)
}

func TestComputeSkipsExteriorColorForConversionOnly(t *testing.T) {
	in := Input{
		Selection: Selection{
			EngineID:        uintPtr(2),
			ExteriorColorID: uintPtr(2),
		},
		Catalogs: testCatalogs(),
		IVARate:  21,
	}

	b := Compute(in)

	assert.Equal(t, 0.0, b.ColorModifier)
	assert.Nil(t, b.SelectedExteriorColor)
	assert.Equal(t, 18000.0, b.Subtotal)
}

func TestComputeFreeElectricSystemWithPack(t *testing.T) {
	in := Input{
		Selection: Selection{
			EngineID:         uintPtr(1),
			PackID:           uintPtr(1),
			ElectricSystemID: uintPtr(1),
		},
		Catalogs: testCatalogs(),
		IVARate:  21,
	}

	b := Compute(in)

	assert.True(t, b.Electric.IsFree)
	assert.Equal(t, 0.0, b.ElectricSystemPrice)
	assert.Equal(t, 2400.0, b.Electric.DiscountAmount)
	assert.Equal(t, "Incluido en Pack Aventura", b.Electric.DiscountReason)
	assert.Equal(t, 45000.0+3200.0, b.Subtotal)
}

func TestComputeFullConfiguration(t *testing.T) {
	in := Input{
		Selection: Selection{
			EngineID:          uintPtr(1),
			ModelID:           uintPtr(1),
			ExteriorColorID:   uintPtr(2),
			PackID:            uintPtr(1),
			ElectricSystemID:  uintPtr(2),
			AdditionalItemIDs: []uint{1, 2},
		},
		Catalogs:           testCatalogs(),
		IVARate:            21,
		DiscountPercentage: 10,
		CustomItems: []CustomItem{
			{Name: "Claraboya extra", Price: 300, Quantity: 2},
		},
		DiscountItems: []DiscountItem{
			{Concept: "Promoción feria", Amount: 500},
		},
	}

	b := Compute(in)

	// AGM gets a 50% name-matched discount with the pack selected
	assert.Equal(t, 450.0, b.ElectricSystemPrice)
	assert.Equal(t, 850.0, b.ColorModifier)
	assert.Equal(t, 1170.0, b.AdditionalItemsPrice)
	assert.Equal(t, 600.0, b.CustomItemsPrice)

	subtotal := 45000.0 + 850 + 3200 + 450 + 1170 + 600
	assert.InDelta(t, subtotal, b.Subtotal, 0.001)
	assert.InDelta(t, subtotal*0.10, b.DiscountPercentageAmount, 0.001)
	assert.Equal(t, 500.0, b.DiscountItemsTotal)

	taxable := subtotal - subtotal*0.10 - 500
	assert.InDelta(t, taxable*0.21, b.IVAAmount, 0.001)
	assert.InDelta(t, taxable*1.21, b.Total, 0.001)
}

func TestComputeIsDeterministic(t *testing.T) {
	in := Input{
		Selection: Selection{
			EngineID:         uintPtr(1),
			PackID:           uintPtr(1),
			ElectricSystemID: uintPtr(1),
		},
		Catalogs: testCatalogs(),
		IVARate:  21,
	}

	first := Compute(in)
	second := Compute(in)

	assert.Equal(t, first, second)
}

func TestResolveElectricPriceNoPackSelected(t *testing.T) {
	rules := []PackRule{{PackID: uintPtr(1), Type: RuleFree}}

	res := ResolveElectricPrice(2400, rules, nil, "")

	assert.Equal(t, 2400.0, res.FinalPrice)
	assert.False(t, res.IsFree)
}

func TestResolveElectricPriceFixedDiscountClampsAtZero(t *testing.T) {
	rules := []PackRule{
		{PackID: uintPtr(1), Type: RuleDiscount, DiscountType: DiscountFixed, Value: 1500},
	}

	res := ResolveElectricPrice(900, rules, uintPtr(1), "Pack Aventura")

	assert.Equal(t, 0.0, res.FinalPrice)
	assert.Equal(t, 900.0, res.DiscountAmount)
}

func TestResolveElectricPriceIDBeatsName(t *testing.T) {
	rules := []PackRule{
		{PackName: "Pack Aventura", Type: RuleDiscount, DiscountType: DiscountFixed, Value: 100},
		{PackID: uintPtr(1), Type: RuleFree, Reason: "incluido"},
	}

	res := ResolveElectricPrice(900, rules, uintPtr(1), "Pack Aventura")

	assert.True(t, res.IsFree)
	assert.Equal(t, "incluido", res.DiscountReason)
}

func TestResolveElectricPriceFreeBeatsDiscount(t *testing.T) {
	rules := []PackRule{
		{PackID: uintPtr(1), Type: RuleDiscount, DiscountType: DiscountFixed, Value: 100},
		{PackID: uintPtr(1), Type: RuleFree},
	}

	res := ResolveElectricPrice(900, rules, uintPtr(1), "")

	assert.True(t, res.IsFree)
}

func TestTotalLabel(t *testing.T) {
	assert.Equal(t, "PRECIO NETO", TotalLabel(0))
	assert.Equal(t, "TOTAL (IVA 21%)", TotalLabel(21))
}
