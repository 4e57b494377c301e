// Package contracts turns plain-text contract templates into print-ready
// HTML: placeholder substitution against client/project/budget data, then
// paragraph classification and formatting.
package contracts

import (
	"regexp"
	"sort"
	"strings"
)

// NotSpecified is substituted for known fields with no value.
const NotSpecified = "No especificado"

// Data maps canonical field names to their string values for one document.
type Data map[string]string

// Canonical field names
const (
	FieldDate          = "fecha"
	FieldClientName    = "nombre_cliente"
	FieldDNI           = "dni"
	FieldPhone         = "telefono"
	FieldEmail         = "email_cliente"
	FieldAddress       = "direccion_cliente"
	FieldCity          = "ciudad_cliente"
	FieldPostalCode    = "cp_cliente"
	FieldCIF           = "cif_cliente"
	FieldCompany       = "empresa_cliente"
	FieldVehicleBrand  = "marca_vehiculo"
	FieldVehicleModel  = "modelo_vehiculo"
	FieldNomadeModel   = "modelo_nomade"
	FieldEngine        = "motorizacion"
	FieldPower         = "power"
	FieldChassisNumber = "numero_bastidor"
	FieldPlate         = "matricula"
	FieldTotalPrice    = "precio_total"
	FieldTotalInWords  = "precio_total_letras"
	FieldInitialPay    = "pago_inicial"
	FieldProductionPay = "pago_produccion"
	FieldFinalPay      = "pago_final"
	FieldDeliveryTerm  = "plazo_entrega"
	FieldIBAN          = "iban"
	FieldInteriorColor = "interior_color"
	FieldExteriorColor = "exterior_color"
	FieldProjectCode   = "project_code"
)

// fieldAliases maps every accepted placeholder token to its canonical field.
// Templates accumulated several spellings over the years (generic English
// names, dotted table-prefixed forms and one misspelling); all of them stay
// valid so old templates keep rendering.
var fieldAliases = map[string]string{
	FieldDate:      FieldDate,
	"current_date": FieldDate,

	FieldClientName: FieldClientName,
	"client_name":   FieldClientName,
	"clients.name":  FieldClientName,

	FieldDNI:      FieldDNI,
	"DNI":         FieldDNI,
	"client_dni":  FieldDNI,
	"clients.dni": FieldDNI,

	FieldPhone:      FieldPhone,
	"télefono":      FieldPhone, // historical misspelling, kept for template compatibility
	"phone":         FieldPhone,
	"client_phone":  FieldPhone,
	"clients.phone": FieldPhone,

	FieldEmail:      FieldEmail,
	"client_email":  FieldEmail,
	"clients.email": FieldEmail,

	FieldAddress:      FieldAddress,
	"client_address":  FieldAddress,
	"clients.address": FieldAddress,

	FieldCity:       FieldCity,
	FieldPostalCode: FieldPostalCode,
	FieldCIF:        FieldCIF,
	FieldCompany:    FieldCompany,

	FieldVehicleBrand: FieldVehicleBrand,
	FieldVehicleModel: FieldVehicleModel,
	FieldNomadeModel:  FieldNomadeModel,
	"model":           FieldNomadeModel,

	FieldEngine: FieldEngine,
	FieldPower:  FieldPower,

	FieldChassisNumber: FieldChassisNumber,
	FieldPlate:         FieldPlate,

	FieldTotalPrice:   FieldTotalPrice,
	"total_amount":    FieldTotalPrice,
	FieldTotalInWords: FieldTotalInWords,

	FieldInitialPay:    FieldInitialPay,
	FieldProductionPay: FieldProductionPay,
	FieldFinalPay:      FieldFinalPay,
	FieldDeliveryTerm:  FieldDeliveryTerm,
	FieldIBAN:          FieldIBAN,

	FieldInteriorColor: FieldInteriorColor,
	FieldExteriorColor: FieldExteriorColor,
	FieldProjectCode:   FieldProjectCode,
}

// sortedAliases holds the alias tokens in a fixed order so substitution is
// deterministic run to run.
var sortedAliases = func() []string {
	keys := make([]string, 0, len(fieldAliases))
	for k := range fieldAliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

var tokenPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// ProcessTemplate replaces every known {{token}} in the template with its
// value from data, or with "No especificado" when the field is known but
// absent. Tokens that match no known field are left verbatim; callers can
// scan for them with UnresolvedTokens to detect incomplete data.
func ProcessTemplate(template string, data Data) string {
	out := template
	for _, alias := range sortedAliases {
		token := "{{" + alias + "}}"
		if !strings.Contains(out, token) {
			continue
		}
		value, ok := data[fieldAliases[alias]]
		if !ok || value == "" {
			value = NotSpecified
		}
		out = strings.ReplaceAll(out, token, value)
	}
	return out
}

// UnresolvedTokens returns the distinct {{...}} tokens still present in a
// processed document, in order of first appearance.
func UnresolvedTokens(s string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			tokens = append(tokens, m[1])
		}
	}
	return tokens
}

// HasUnresolvedTokens reports whether any {{...}} token survived substitution.
func HasUnresolvedTokens(s string) bool {
	return tokenPattern.MatchString(s)
}
