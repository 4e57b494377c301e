package contracts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBodyMainTitle(t *testing.T) {
	out := RenderBody("CONTRATO DE RESERVA DE VEHÍCULO")

	assert.Equal(t, `<h1 class="doc-title">CONTRATO DE RESERVA DE VEHÍCULO</h1>`, out)
}

func TestRenderBodyTitleWithTokenIsNotATitle(t *testing.T) {
	out := RenderBody("CONTRATO DE {{tipo}} DE VEHÍCULO QUE NO ES TÍTULO")

	assert.NotContains(t, out, "doc-title")
}

func TestRenderBodySectionHeaders(t *testing.T) {
	for _, p := range []string{"REUNIDOS", "EXPONEN", "ESTIPULACIONES", "PRIMERA."} {
		out := RenderBody(p)
		assert.Contains(t, out, `<h2 class="section-header">`, "paragraph %q", p)
	}
}

func TestRenderBodyNumberedClause(t *testing.T) {
	out := RenderBody("PRIMERA. Objeto. El Taller realizará la camperización del vehículo.")

	assert.Contains(t, out, `<p class="clause">`)
	assert.Contains(t, out, "<strong>PRIMERA. Objeto.</strong>")
	assert.Contains(t, out, "El Taller realizará la camperización del vehículo.")
}

func TestRenderBodySignatureLine(t *testing.T) {
	out := RenderBody("En Madrid a 1 de septiembre de 2026")

	assert.Contains(t, out, `<p class="place-date">`)
}

func TestRenderBodyOrderedList(t *testing.T) {
	out := RenderBody("1. First item\n2. Second item")

	assert.Contains(t, out, "<ol>")
	assert.Equal(t, 2, strings.Count(out, "<li>"))
	assert.Contains(t, out, "<li>First item</li>")
	assert.Contains(t, out, "<li>Second item</li>")
	assert.NotContains(t, out, "1.")
	assert.NotContains(t, out, "2.")
}

func TestRenderBodyListContinuationLines(t *testing.T) {
	out := RenderBody("1. Primer plazo\ntransferencia bancaria\n2. Segundo plazo")

	assert.Equal(t, 2, strings.Count(out, "<li>"))
	assert.Contains(t, out, "Primer plazo<br>transferencia bancaria")
}

func TestRenderBodyBulletedList(t *testing.T) {
	out := RenderBody("- Toldo lateral\n- Batería auxiliar\n- Claraboya")

	assert.Contains(t, out, "<ul>")
	assert.Equal(t, 3, strings.Count(out, "<li>"))
}

func TestRenderBodySingleNumberedLineIsAParagraph(t *testing.T) {
	out := RenderBody("1. Única línea numerada")

	assert.NotContains(t, out, "<ol>")
	assert.Contains(t, out, `<p class="justified">`)
}

func TestRenderBodyTable(t *testing.T) {
	out := RenderBody("| CONCEPTO | DETALLE | IMPORTE |\n| Pack | Aventura | 3.200 € |")

	assert.Contains(t, out, `<table class="doc-table">`)
	assert.Equal(t, 3, strings.Count(out, "<th>"))
	assert.Equal(t, 3, strings.Count(out, "<td>"))
	assert.Contains(t, out, "<th>CONCEPTO</th>")
	assert.Contains(t, out, "<td>Pack</td>")
}

func TestRenderBodyDefaultParagraph(t *testing.T) {
	out := RenderBody("Ambas partes acuerdan lo siguiente.")

	assert.Equal(t, `<p class="justified">Ambas partes acuerdan lo siguiente.</p>`, out)
}

func TestRenderBodyInlineFormatting(t *testing.T) {
	out := RenderBody("Garantía de **dos años** según *condiciones* para {{nombre_cliente}}.")

	assert.Contains(t, out, "<strong>dos años</strong>")
	assert.Contains(t, out, "<em>condiciones</em>")
	assert.Contains(t, out, `<strong class="token">{{nombre_cliente}}</strong>`)
}

func TestRenderBodyEscapesHTML(t *testing.T) {
	out := RenderBody("Cláusula con <script> y 5 < 10.")

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderBodyDropsEmptyParagraphs(t *testing.T) {
	out := RenderBody("Primero.\n\n\n  \n\nSegundo.")

	assert.Equal(t, 2, strings.Count(out, "<p"))
}

func TestRenderFullDocumentShell(t *testing.T) {
	out := Render("CONTRATO DE RESERVA DE VEHÍCULO\n\nAmbas partes acuerdan.", "Ana García")

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "NOMADE CAMPERS")
	assert.Contains(t, out, "EL VENDEDOR")
	assert.Contains(t, out, "EL COMPRADOR<br>Ana García")
	assert.Contains(t, out, `<div class="doc-footer">`)
}

func TestRenderWithoutBuyerName(t *testing.T) {
	out := Render("Texto.", "")

	assert.Contains(t, out, "EL COMPRADOR<br>"+NotSpecified)
}

func TestRenderProcessedTemplateEndToEnd(t *testing.T) {
	tmpl, err := Template("reservation_contract")
	assert.NoError(t, err)

	data := Data{
		FieldClientName: "Ana García",
		FieldDNI:        "12345678Z",
		FieldCity:       "Madrid",
		FieldDate:       "01/09/2026",
	}

	out := Render(ProcessTemplate(tmpl, data), data[FieldClientName])

	assert.Contains(t, out, "Ana García")
	assert.Contains(t, out, "12345678Z")
	// fields without values render as "No especificado", never raw tokens
	assert.Contains(t, out, NotSpecified)
	assert.NotContains(t, out, "{{nombre_cliente}}")
}
