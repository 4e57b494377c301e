package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nomadecampers/nomade-api/internal/middleware"
	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/repository"
	"github.com/nomadecampers/nomade-api/internal/services"
)

type BillingHandler struct {
	billingService *services.BillingService
}

func NewBillingHandler(billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// @Summary List Invoices
// @Description Get a paginated list of invoices
// @Tags Billing
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by number or concept"
// @Param status query string false "Filter by status"
// @Param project_id query int false "Filter by project"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices [get]
func (h *BillingHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["status"] = c.Query("status")
	query.Filters["project_id"] = c.Query("project_id")

	invoices, total, err := h.billingService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.InvoiceResponse
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"invoices": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Invoice
// @Description Get an invoice by ID
// @Tags Billing
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id} [get]
func (h *BillingHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	invoice, err := h.billingService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Factura no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

// @Summary List Project Invoices
// @Description Get every invoice of a project
// @Tags Billing
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{project_id}/invoices [get]
func (h *BillingHandler) ByProject(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	invoices, err := h.billingService.FindByProject(c.Request.Context(), uint(projectID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.InvoiceResponse
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"invoices": responses})
}

// @Summary Generate Tranche Invoices
// @Description Issue the three payment tranche invoices from the primary budget
// @Tags Billing
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{project_id}/invoices [post]
func (h *BillingHandler) GenerateTranches(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	actorID := middleware.GetUserID(c)

	invoices, err := h.billingService.GenerateTrancheInvoices(c.Request.Context(), uint(projectID), actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var responses []models.InvoiceResponse
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}
	c.JSON(http.StatusCreated, gin.H{"invoices": responses, "message": "Facturas emitidas"})
}

// @Summary Mark Invoice Paid
// @Description Register the payment of an invoice
// @Tags Billing
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /invoices/{invoice_id}/mark_paid [post]
func (h *BillingHandler) MarkPaid(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	actorID := middleware.GetUserID(c)

	invoice, err := h.billingService.MarkPaid(c.Request.Context(), uint(id), actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse(), "message": "Factura marcada como pagada"})
}

// @Summary Cancel Invoice
// @Description Cancel an unpaid invoice
// @Tags Billing
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /invoices/{invoice_id}/cancel [post]
func (h *BillingHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	actorID := middleware.GetUserID(c)

	invoice, err := h.billingService.Cancel(c.Request.Context(), uint(id), actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse(), "message": "Factura anulada"})
}

// @Summary Billing Stats
// @Description Get invoice totals for a year
// @Tags Billing
// @Produce json
// @Param year query int false "Year (defaults to current)"
// @Success 200 {object} repository.InvoiceStats
// @Security BearerAuth
// @Router /invoices/stats [get]
func (h *BillingHandler) Stats(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	if year == 0 {
		year = time.Now().Year()
	}

	stats, err := h.billingService.Stats(c.Request.Context(), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
