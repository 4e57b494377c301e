package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessTemplateSubstitutesValues(t *testing.T) {
	data := Data{
		FieldClientName: "Ana",
		FieldDNI:        "123",
	}

	out := ProcessTemplate("Hola {{nombre_cliente}}, tu DNI es {{DNI}}", data)

	assert.Equal(t, "Hola Ana, tu DNI es 123", out)
}

func TestProcessTemplateKnownFieldWithoutValue(t *testing.T) {
	out := ProcessTemplate("Tel: {{telefono}}", Data{})

	assert.Equal(t, "Tel: No especificado", out)
}

func TestProcessTemplateUnknownTokenStaysVerbatim(t *testing.T) {
	out := ProcessTemplate("{{unknown_key}}", Data{})

	assert.Equal(t, "{{unknown_key}}", out)
}

func TestProcessTemplateAliases(t *testing.T) {
	data := Data{
		FieldClientName: "Ana García",
		FieldPhone:      "600123123",
		FieldTotalPrice: "54.450,00 €",
	}

	cases := map[string]string{
		"{{client_name}}":  "Ana García",
		"{{clients.name}}": "Ana García",
		"{{telefono}}":     "600123123",
		"{{télefono}}":     "600123123",
		"{{phone}}":        "600123123",
		"{{client_phone}}": "600123123",
		"{{total_amount}}": "54.450,00 €",
		"{{precio_total}}": "54.450,00 €",
	}

	for tmpl, want := range cases {
		assert.Equal(t, want, ProcessTemplate(tmpl, data), "template %s", tmpl)
	}
}

func TestProcessTemplateReplacesAllOccurrences(t *testing.T) {
	out := ProcessTemplate("{{fecha}} y {{fecha}}", Data{FieldDate: "01/09/2026"})

	assert.Equal(t, "01/09/2026 y 01/09/2026", out)
}

func TestProcessTemplateIsDeterministic(t *testing.T) {
	data := Data{FieldClientName: "Ana", FieldDNI: "123"}
	tmpl := "{{clients.name}} {{client_dni}} {{nombre_cliente}}"

	first := ProcessTemplate(tmpl, data)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ProcessTemplate(tmpl, data))
	}
}

func TestProcessTemplateFullCoverageLeavesNoTokens(t *testing.T) {
	tmpl, err := Template("camperization_agreement")
	assert.NoError(t, err)

	data := Data{}
	for _, canonical := range []string{
		FieldDate, FieldClientName, FieldDNI, FieldPhone, FieldEmail,
		FieldAddress, FieldCity, FieldPostalCode, FieldCIF, FieldCompany,
		FieldVehicleBrand, FieldVehicleModel, FieldNomadeModel, FieldEngine,
		FieldPower, FieldChassisNumber, FieldPlate, FieldTotalPrice,
		FieldTotalInWords, FieldInitialPay, FieldProductionPay, FieldFinalPay,
		FieldDeliveryTerm, FieldIBAN, FieldInteriorColor, FieldExteriorColor,
		FieldProjectCode,
	} {
		data[canonical] = "x"
	}

	out := ProcessTemplate(tmpl, data)

	assert.False(t, HasUnresolvedTokens(out))
	assert.Empty(t, UnresolvedTokens(out))
}

func TestUnresolvedTokens(t *testing.T) {
	s := "Hola {{nombre_cliente}}, código {{ref_interna}} y otra vez {{ref_interna}}"

	tokens := UnresolvedTokens(s)

	assert.Equal(t, []string{"nombre_cliente", "ref_interna"}, tokens)
	assert.True(t, HasUnresolvedTokens(s))
	assert.False(t, HasUnresolvedTokens("sin tokens"))
}

func TestTemplateKeys(t *testing.T) {
	keys := TemplateKeys()

	assert.Contains(t, keys, "reservation_contract")
	assert.Contains(t, keys, "purchase_agreement")
	assert.Contains(t, keys, "sale_contract")
	assert.Contains(t, keys, "camperization_agreement")
}

func TestTemplateUnknownKey(t *testing.T) {
	_, err := Template("nonexistent")

	assert.Error(t, err)
}
