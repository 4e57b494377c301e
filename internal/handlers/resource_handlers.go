package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nomadecampers/nomade-api/internal/middleware"
	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/repository"
	"github.com/nomadecampers/nomade-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// @Summary List Projects
// @Description Get a paginated list of camperization projects
// @Tags Projects
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by code, plate or vehicle"
// @Param phase query string false "Filter by phase"
// @Param client_id query int false "Filter by client"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["phase"] = c.Query("phase")
	query.Filters["client_id"] = c.Query("client_id")
	query.Filters["assigned_to"] = c.Query("assigned_to")

	projects, total, err := h.projectService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.ProjectResponse
	for _, p := range projects {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"projects": responses, "pagination": gin.H{"total": total}})
}

// @Summary Pipeline Summary
// @Description Get project counts grouped by phase
// @Tags Projects
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /projects/pipeline [get]
func (h *ProjectHandler) Pipeline(c *gin.Context) {
	counts, err := h.projectService.CountByPhase(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pipeline": counts})
}

// @Summary Get Project
// @Description Get a project by ID
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} models.ProjectResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{project_id} [get]
func (h *ProjectHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	project, err := h.projectService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proyecto no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse()})
}

type CreateProjectRequest struct {
	ClientID      uint    `json:"client_id" binding:"required"`
	VehicleBrand  string  `json:"vehicle_brand"`
	VehicleModel  string  `json:"vehicle_model"`
	ChassisNumber string  `json:"chassis_number"`
	Plate         string  `json:"plate"`
	DeliveryWeeks int     `json:"delivery_weeks"`
	Note          *string `json:"note"`
	AssignedTo    *uint   `json:"assigned_to"`
}

// @Summary Create Project
// @Description Create a new camperization project for a client
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body CreateProjectRequest true "Project Data"
// @Success 201 {object} models.ProjectResponse
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := BindNestedOrFlat(c, "project", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ClientID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El cliente es requerido"})
		return
	}

	actorID := middleware.GetUserID(c)
	project := models.Project{
		ClientID:      req.ClientID,
		VehicleBrand:  req.VehicleBrand,
		VehicleModel:  req.VehicleModel,
		ChassisNumber: req.ChassisNumber,
		Plate:         req.Plate,
		DeliveryWeeks: req.DeliveryWeeks,
		Note:          req.Note,
		AssignedTo:    req.AssignedTo,
	}

	if err := h.projectService.Create(c.Request.Context(), &project, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project.ToResponse()})
}

// @Summary Update Project
// @Description Update vehicle details and assignment of a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body CreateProjectRequest true "Project Data"
// @Success 200 {object} models.ProjectResponse
// @Security BearerAuth
// @Router /projects/{project_id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	project, err := h.projectService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proyecto no encontrado"})
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project.VehicleBrand = req.VehicleBrand
	project.VehicleModel = req.VehicleModel
	project.ChassisNumber = req.ChassisNumber
	project.Plate = req.Plate
	if req.DeliveryWeeks > 0 {
		project.DeliveryWeeks = req.DeliveryWeeks
	}
	project.Note = req.Note
	project.AssignedTo = req.AssignedTo

	actorID := middleware.GetUserID(c)
	if err := h.projectService.Update(c.Request.Context(), project, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse()})
}

// @Summary Delete Project
// @Description Delete a project (only while in lead phase)
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{project_id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.projectService.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proyecto eliminado"})
}

// transition runs one phase change and renders the updated project
func (h *ProjectHandler) transition(c *gin.Context, fn func(ctx *gin.Context, id, actorID uint) (*models.Project, error)) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	actorID := middleware.GetUserID(c)

	project, err := fn(c, uint(id), actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse(), "message": "Fase actualizada"})
}

// @Summary Start Production
// @Description Move a project to the production phase
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} models.ProjectResponse
// @Security BearerAuth
// @Router /projects/{project_id}/start_production [post]
func (h *ProjectHandler) StartProduction(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id, actorID uint) (*models.Project, error) {
		return h.projectService.StartProduction(ctx.Request.Context(), id, actorID)
	})
}

// @Summary Deliver Project
// @Description Mark the vehicle as handed over to the client
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} models.ProjectResponse
// @Security BearerAuth
// @Router /projects/{project_id}/deliver [post]
func (h *ProjectHandler) Deliver(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id, actorID uint) (*models.Project, error) {
		return h.projectService.Deliver(ctx.Request.Context(), id, actorID)
	})
}

// @Summary Close Project
// @Description Close a delivered project and promote its client to customer
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} models.ProjectResponse
// @Security BearerAuth
// @Router /projects/{project_id}/close [post]
func (h *ProjectHandler) Close(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id, actorID uint) (*models.Project, error) {
		return h.projectService.Close(ctx.Request.Context(), id, actorID)
	})
}

type CancelProjectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// @Summary Cancel Project
// @Description Cancel a project at any phase before closing
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body CancelProjectRequest true "Cancellation Reason"
// @Success 200 {object} models.ProjectResponse
// @Security BearerAuth
// @Router /projects/{project_id}/cancel [post]
func (h *ProjectHandler) Cancel(c *gin.Context) {
	var req CancelProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El motivo de cancelación es requerido"})
		return
	}

	h.transition(c, func(ctx *gin.Context, id, actorID uint) (*models.Project, error) {
		return h.projectService.Cancel(ctx.Request.Context(), id, req.Reason, actorID)
	})
}

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// @Summary List Notifications
// @Description Get notifications for the current user
// @Tags Notifications
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)

	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	notifications, total, err := h.notificationService.FindByUser(c.Request.Context(), userID, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.NotificationResponse
	for _, n := range notifications {
		responses = append(responses, n.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"notifications": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Notification
// @Description Get a notification by ID
// @Tags Notifications
// @Accept json
// @Produce json
// @Param notification_id path int true "Notification ID"
// @Success 200 {object} models.NotificationResponse
// @Security BearerAuth
// @Router /notifications/{notification_id} [get]
func (h *NotificationHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("notification_id"), 10, 32)
	notification, err := h.notificationService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notificación no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": notification.ToResponse()})
}

// @Summary Mark Notification Read
// @Description Mark a notification as read
// @Tags Notifications
// @Accept json
// @Produce json
// @Param notification_id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/{notification_id} [put]
func (h *NotificationHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("notification_id"), 10, 32)
	if err := h.notificationService.MarkAsRead(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notificación marcada como leída"})
}

// @Summary Delete Notification
// @Description Delete a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param notification_id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/{notification_id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("notification_id"), 10, 32)
	if err := h.notificationService.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notificación eliminada"})
}

// @Summary Mark All Notifications Read
// @Description Mark all notifications as read for current user
// @Tags Notifications
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/mark_all_as_read [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todas las notificaciones marcadas como leídas"})
}

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// @Summary Projects Report
// @Description Download the full project list as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} file "proyectos.csv"
// @Security BearerAuth
// @Router /reports/projects_csv [get]
func (h *ReportHandler) ProjectsCSV(c *gin.Context) {
	data, filename, err := h.reportService.ProjectsCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Invoices Report
// @Description Download invoices for a year as CSV
// @Tags Reports
// @Produce text/csv
// @Param year query int false "Year (defaults to current)"
// @Success 200 {file} file "facturas.csv"
// @Security BearerAuth
// @Router /reports/invoices_csv [get]
func (h *ReportHandler) InvoicesCSV(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	if year == 0 {
		year = time.Now().Year()
	}

	data, filename, err := h.reportService.InvoicesCSV(c.Request.Context(), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Pipeline Report
// @Description Download the sales pipeline as an Excel workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "pipeline.xlsx"
// @Security BearerAuth
// @Router /reports/pipeline_xlsx [get]
func (h *ReportHandler) PipelineXLSX(c *gin.Context) {
	data, filename, err := h.reportService.PipelineXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Billing Summary PDF
// @Description Download the billing summary for a year as PDF
// @Tags Reports
// @Produce application/pdf
// @Param year query int false "Year (defaults to current)"
// @Success 200 {file} file "facturacion.pdf"
// @Security BearerAuth
// @Router /reports/billing_summary_pdf [get]
func (h *ReportHandler) BillingSummaryPDF(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	if year == 0 {
		year = time.Now().Year()
	}

	data, filename, err := h.reportService.BillingSummaryPDF(c.Request.Context(), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get a paginated list of system audit logs
// @Tags Audit
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(50)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	offset := (page - 1) * perPage

	logs, total, err := h.auditService.List(c.Request.Context(), perPage, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audits": logs, "pagination": gin.H{"total": total, "page": page, "per_page": perPage}})
}
