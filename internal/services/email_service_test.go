package services

import (
	"testing"

	"github.com/nomadecampers/nomade-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestEmailService_renderTemplate_AccountCreated(t *testing.T) {
	service := NewEmailService(&config.Config{AppURL: "https://crm.example.es"})

	body, err := service.renderTemplate("account_created.html", struct {
		Name   string
		AppURL string
	}{Name: "Ana García", AppURL: "https://crm.example.es"})

	assert.NoError(t, err)
	assert.Contains(t, body, "Ana García")
	assert.Contains(t, body, "https://crm.example.es")
}

func TestEmailService_renderTemplate_OverdueInvoices(t *testing.T) {
	service := NewEmailService(&config.Config{})

	body, err := service.renderTemplate("overdue_invoices.html", struct {
		Name     string
		Invoices []OverdueInvoiceData
		AppURL   string
	}{
		Name: "Admin",
		Invoices: []OverdueInvoiceData{
			{Number: "F2026-0001", ClientName: "Ana García", Total: "12100.00 €", DueDate: "15/08/2026"},
			{Number: "F2026-0002", ClientName: "Luis Pérez", Total: "6050.00 €", DueDate: "20/08/2026"},
		},
		AppURL: "https://crm.example.es",
	})

	assert.NoError(t, err)
	assert.Contains(t, body, "F2026-0001")
	assert.Contains(t, body, "Luis Pérez")
}

func TestEmailService_renderTemplate_Unknown(t *testing.T) {
	service := NewEmailService(&config.Config{})

	_, err := service.renderTemplate("missing.html", nil)
	assert.Error(t, err)
}
