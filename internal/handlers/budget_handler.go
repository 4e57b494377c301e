package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nomadecampers/nomade-api/internal/middleware"
	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/services"
)

type BudgetHandler struct {
	budgetService *services.BudgetService
}

func NewBudgetHandler(budgetService *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// @Summary List Project Budgets
// @Description Get every budget of a project
// @Tags Budgets
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{project_id}/budgets [get]
func (h *BudgetHandler) Index(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	budgets, err := h.budgetService.FindByProject(c.Request.Context(), uint(projectID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.BudgetResponse
	for _, b := range budgets {
		responses = append(responses, b.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"budgets": responses})
}

// @Summary Get Budget
// @Description Get a budget with its stored lines
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} models.BudgetResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /budgets/{budget_id} [get]
func (h *BudgetHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("budget_id"), 10, 32)
	budget, err := h.budgetService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Presupuesto no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget.ToResponse()})
}

// @Summary Compute Budget
// @Description Price a configuration without persisting anything
// @Tags Budgets
// @Accept json
// @Produce json
// @Param request body services.BudgetDraft true "Draft Configuration"
// @Success 200 {object} pricing.Breakdown
// @Security BearerAuth
// @Router /budgets/compute [post]
func (h *BudgetHandler) Compute(c *gin.Context) {
	var draft services.BudgetDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	breakdown, err := h.budgetService.Compute(c.Request.Context(), &draft)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

// @Summary Create Budget
// @Description Save a new budget for a project, freezing the computed breakdown
// @Tags Budgets
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body services.BudgetDraft true "Draft Configuration"
// @Success 201 {object} models.BudgetResponse
// @Security BearerAuth
// @Router /projects/{project_id}/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	var draft services.BudgetDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	budget, err := h.budgetService.Save(c.Request.Context(), uint(projectID), 0, &draft, actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"budget": budget.ToResponse(), "message": "Presupuesto guardado"})
}

// @Summary Update Budget
// @Description Re-save a draft budget with a new configuration
// @Tags Budgets
// @Accept json
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Param request body services.BudgetDraft true "Draft Configuration"
// @Success 200 {object} models.BudgetResponse
// @Security BearerAuth
// @Router /budgets/{budget_id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("budget_id"), 10, 32)
	budget, err := h.budgetService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Presupuesto no encontrado"})
		return
	}

	var draft services.BudgetDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	updated, err := h.budgetService.Save(c.Request.Context(), budget.ProjectID, budget.ID, &draft, actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": updated.ToResponse(), "message": "Presupuesto actualizado"})
}

// @Summary Delete Budget
// @Description Delete a budget that has not been accepted
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /budgets/{budget_id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("budget_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.budgetService.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Presupuesto eliminado"})
}

// lifecycle runs one budget status change and renders the updated budget
func (h *BudgetHandler) lifecycle(c *gin.Context, message string, fn func(ctx *gin.Context, id, actorID uint) (*models.Budget, error)) {
	id, _ := strconv.ParseUint(c.Param("budget_id"), 10, 32)
	actorID := middleware.GetUserID(c)

	budget, err := fn(c, uint(id), actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget.ToResponse(), "message": message})
}

// @Summary Send Budget
// @Description Send a draft budget to the client and advance the project phase
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} models.BudgetResponse
// @Security BearerAuth
// @Router /budgets/{budget_id}/send [post]
func (h *BudgetHandler) Send(c *gin.Context) {
	h.lifecycle(c, "Presupuesto enviado al cliente", func(ctx *gin.Context, id, actorID uint) (*models.Budget, error) {
		return h.budgetService.Send(ctx.Request.Context(), id, actorID)
	})
}

// @Summary Accept Budget
// @Description Mark a sent budget as accepted by the client
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} models.BudgetResponse
// @Security BearerAuth
// @Router /budgets/{budget_id}/accept [post]
func (h *BudgetHandler) Accept(c *gin.Context) {
	h.lifecycle(c, "Presupuesto aceptado", func(ctx *gin.Context, id, actorID uint) (*models.Budget, error) {
		return h.budgetService.Accept(ctx.Request.Context(), id, actorID)
	})
}

// @Summary Reject Budget
// @Description Mark a sent budget as rejected by the client
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} models.BudgetResponse
// @Security BearerAuth
// @Router /budgets/{budget_id}/reject [post]
func (h *BudgetHandler) Reject(c *gin.Context) {
	h.lifecycle(c, "Presupuesto rechazado", func(ctx *gin.Context, id, actorID uint) (*models.Budget, error) {
		return h.budgetService.Reject(ctx.Request.Context(), id, actorID)
	})
}

// @Summary Rework Budget
// @Description Return a sent budget to draft for further editing
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} models.BudgetResponse
// @Security BearerAuth
// @Router /budgets/{budget_id}/rework [post]
func (h *BudgetHandler) Rework(c *gin.Context) {
	h.lifecycle(c, "Presupuesto devuelto a borrador", func(ctx *gin.Context, id, actorID uint) (*models.Budget, error) {
		return h.budgetService.Rework(ctx.Request.Context(), id, actorID)
	})
}

// @Summary Set Primary Budget
// @Description Mark a budget as the primary one of its project
// @Tags Budgets
// @Produce json
// @Param budget_id path int true "Budget ID"
// @Success 200 {object} models.BudgetResponse
// @Security BearerAuth
// @Router /budgets/{budget_id}/set_primary [post]
func (h *BudgetHandler) SetPrimary(c *gin.Context) {
	h.lifecycle(c, "Presupuesto marcado como principal", func(ctx *gin.Context, id, actorID uint) (*models.Budget, error) {
		return h.budgetService.SetPrimary(ctx.Request.Context(), id, actorID)
	})
}
