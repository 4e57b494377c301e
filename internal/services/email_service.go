package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/nomadecampers/nomade-api/internal/config"
	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	data := struct {
		Name   string
		AppURL string
	}{
		Name:   user.FullName,
		AppURL: s.config.AppURL,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, "Bienvenido a Nomade CRM", body)
}

// SendBudget emails a quote summary to the client
func (s *EmailService) SendBudget(ctx context.Context, client *models.Client, project *models.Project, budget *models.Budget) error {
	if client.Email == "" {
		return fmt.Errorf("el cliente no tiene correo electrónico")
	}

	data := struct {
		Name         string
		ProjectCode  string
		BudgetName   string
		VehicleBrand string
		VehicleModel string
		Subtotal     string
		IVAAmount    string
		Total        string
		AppURL       string
	}{
		Name:         client.FullName,
		ProjectCode:  project.Code,
		BudgetName:   budget.Name,
		VehicleBrand: project.VehicleBrand,
		VehicleModel: project.VehicleModel,
		Subtotal:     fmt.Sprintf("%.2f €", budget.Subtotal),
		IVAAmount:    fmt.Sprintf("%.2f €", budget.IVAAmount),
		Total:        fmt.Sprintf("%.2f €", budget.Total),
		AppURL:       s.config.AppURL,
	}

	body, err := s.renderTemplate("budget_sent.html", data)
	if err != nil {
		return err
	}

	return s.send(client.Email, fmt.Sprintf("Tu presupuesto Nomade %s", project.Code), body)
}

// SendContractGenerated notifies the client that a contract is ready to sign
func (s *EmailService) SendContractGenerated(ctx context.Context, client *models.Client, project *models.Project, doc *models.ContractDocument) error {
	if client.Email == "" {
		return fmt.Errorf("el cliente no tiene correo electrónico")
	}

	data := struct {
		Name        string
		ProjectCode string
		Title       string
		AppURL      string
	}{
		Name:        client.FullName,
		ProjectCode: project.Code,
		Title:       doc.Title,
		AppURL:      s.config.AppURL,
	}

	body, err := s.renderTemplate("contract_generated.html", data)
	if err != nil {
		return err
	}

	return s.send(client.Email, "Tu contrato está listo para firmar", body)
}

type OverdueInvoiceData struct {
	Number     string
	ClientName string
	Total      string
	DueDate    string
}

// SendOverdueInvoices sends a digest of overdue invoices to a staff user
func (s *EmailService) SendOverdueInvoices(ctx context.Context, user *models.User, invoices []models.Invoice) error {
	var rows []OverdueInvoiceData
	for _, inv := range invoices {
		clientName := ""
		if inv.Project.Client.ID != 0 {
			clientName = inv.Project.Client.FullName
		}
		rows = append(rows, OverdueInvoiceData{
			Number:     inv.Number,
			ClientName: clientName,
			Total:      fmt.Sprintf("%.2f €", inv.Total),
			DueDate:    inv.DueDate.Format("02/01/2006"),
		})
	}

	data := struct {
		Name     string
		Invoices []OverdueInvoiceData
		AppURL   string
	}{
		Name:     user.FullName,
		Invoices: rows,
		AppURL:   s.config.AppURL,
	}

	body, err := s.renderTemplate("overdue_invoices.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, fmt.Sprintf("Facturas vencidas (%d)", len(invoices)), body)
}

func (s *EmailService) send(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
