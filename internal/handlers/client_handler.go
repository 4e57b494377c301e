package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nomadecampers/nomade-api/internal/middleware"
	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/repository"
	"github.com/nomadecampers/nomade-api/internal/services"
)

type ClientHandler struct {
	clientService *services.ClientService
}

func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// @Summary List Clients
// @Description Get a paginated list of clients and leads
// @Tags Clients
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name, DNI, email or phone"
// @Param status query string false "Filter by status"
// @Param assigned_to query int false "Filter by assigned seller"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["status"] = c.Query("status")
	query.Filters["assigned_to"] = c.Query("assigned_to")

	clients, total, err := h.clientService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.ClientResponse
	for _, cl := range clients {
		responses = append(responses, cl.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": responses,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get Client
// @Description Get a client by ID, including its projects
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} models.ClientResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id} [get]
func (h *ClientHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	client, err := h.clientService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}

	var projects []models.ProjectResponse
	for _, p := range client.Projects {
		projects = append(projects, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse(), "projects": projects})
}

type ClientRequest struct {
	FullName   string  `json:"full_name" binding:"required"`
	DNI        *string `json:"dni"`
	CIF        *string `json:"cif"`
	Company    *string `json:"company"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"postal_code"`
	Source     *string `json:"source"`
	Note       *string `json:"note"`
	AssignedTo *uint   `json:"assigned_to"`
}

// @Summary Create Client
// @Description Register a new lead or client
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body ClientRequest true "Client Data"
// @Success 201 {object} models.ClientResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := BindNestedOrFlat(c, "client", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre del cliente es requerido"})
		return
	}

	actorID := middleware.GetUserID(c)
	client := models.Client{
		FullName:   req.FullName,
		DNI:        req.DNI,
		CIF:        req.CIF,
		Company:    req.Company,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Source:     req.Source,
		Note:       req.Note,
		AssignedTo: req.AssignedTo,
	}
	if client.AssignedTo == nil {
		client.AssignedTo = &actorID
	}

	if err := h.clientService.Create(c.Request.Context(), &client, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client.ToResponse(), "message": "Cliente creado exitosamente"})
}

// @Summary Update Client
// @Description Update client details
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Param request body ClientRequest true "Client Data"
// @Success 200 {object} models.ClientResponse
// @Security BearerAuth
// @Router /clients/{client_id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	client, err := h.clientService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}

	var req ClientRequest
	if err := BindNestedOrFlat(c, "client", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre del cliente es requerido"})
		return
	}

	client.FullName = req.FullName
	client.DNI = req.DNI
	client.CIF = req.CIF
	client.Company = req.Company
	client.Phone = req.Phone
	client.Email = req.Email
	client.Address = req.Address
	client.City = req.City
	client.PostalCode = req.PostalCode
	client.Source = req.Source
	client.Note = req.Note
	client.AssignedTo = req.AssignedTo

	actorID := middleware.GetUserID(c)
	if err := h.clientService.Update(c.Request.Context(), client, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse(), "message": "Cliente actualizado exitosamente"})
}

// @Summary Delete Client
// @Description Delete a client without projects
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.clientService.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}

type ChangeClientStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Change Client Status
// @Description Move a client through the lead funnel
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Param request body ChangeClientStatusRequest true "New Status"
// @Success 200 {object} models.ClientResponse
// @Security BearerAuth
// @Router /clients/{client_id}/status [put]
func (h *ClientHandler) ChangeStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	var req ChangeClientStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	client, err := h.clientService.ChangeStatus(c.Request.Context(), uint(id), req.Status, actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse(), "message": "Estado actualizado"})
}

// @Summary Register Contact
// @Description Record that the client was contacted today
// @Tags Clients
// @Accept json
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id}/register_contact [post]
func (h *ClientHandler) RegisterContact(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.clientService.RegisterContact(c.Request.Context(), uint(id), actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contacto registrado"})
}
