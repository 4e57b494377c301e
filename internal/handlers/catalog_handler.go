package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nomadecampers/nomade-api/internal/middleware"
	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/services"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// @Summary Get Catalog
// @Description Get every option family used by the budget editor
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.Catalog
// @Security BearerAuth
// @Router /catalog [get]
func (h *CatalogHandler) Index(c *gin.Context) {
	catalog, err := h.catalogService.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog": catalog})
}

// @Summary Save Engine Option
// @Description Create or update an engine option
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.EngineOption true "Engine Data"
// @Success 200 {object} models.EngineOption
// @Security BearerAuth
// @Router /catalog/engines [post]
func (h *CatalogHandler) SaveEngine(c *gin.Context) {
	var engine models.EngineOption
	if err := c.ShouldBindJSON(&engine); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	if err := h.catalogService.SaveEngine(c.Request.Context(), &engine, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"engine": engine, "message": "Motorización guardada"})
}

// @Summary Save Vehicle Model
// @Description Create or update a camper model
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.VehicleModel true "Model Data"
// @Success 200 {object} models.VehicleModel
// @Security BearerAuth
// @Router /catalog/models [post]
func (h *CatalogHandler) SaveModel(c *gin.Context) {
	var model models.VehicleModel
	if err := c.ShouldBindJSON(&model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	if err := h.catalogService.SaveModel(c.Request.Context(), &model, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": model, "message": "Modelo guardado"})
}

// @Summary Save Color Option
// @Description Create or update an exterior or interior color
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.ColorOption true "Color Data"
// @Success 200 {object} models.ColorOption
// @Security BearerAuth
// @Router /catalog/colors [post]
func (h *CatalogHandler) SaveColor(c *gin.Context) {
	var color models.ColorOption
	if err := c.ShouldBindJSON(&color); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	if err := h.catalogService.SaveColor(c.Request.Context(), &color, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"color": color, "message": "Color guardado"})
}

// @Summary Save Pack
// @Description Create or update an equipment pack
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.Pack true "Pack Data"
// @Success 200 {object} models.Pack
// @Security BearerAuth
// @Router /catalog/packs [post]
func (h *CatalogHandler) SavePack(c *gin.Context) {
	var pack models.Pack
	if err := c.ShouldBindJSON(&pack); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	if err := h.catalogService.SavePack(c.Request.Context(), &pack, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pack": pack, "message": "Pack guardado"})
}

// @Summary Save Electric System
// @Description Create or update an electric system, including its pack pricing rules
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.ElectricSystem true "Electric System Data"
// @Success 200 {object} models.ElectricSystem
// @Security BearerAuth
// @Router /catalog/electric_systems [post]
func (h *CatalogHandler) SaveElectricSystem(c *gin.Context) {
	var system models.ElectricSystem
	if err := c.ShouldBindJSON(&system); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	if err := h.catalogService.SaveElectricSystem(c.Request.Context(), &system, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"electric_system": system, "message": "Sistema eléctrico guardado"})
}

// @Summary Save Additional Item
// @Description Create or update an additional equipment item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.AdditionalItem true "Item Data"
// @Success 200 {object} models.AdditionalItem
// @Security BearerAuth
// @Router /catalog/additional_items [post]
func (h *CatalogHandler) SaveAdditionalItem(c *gin.Context) {
	var item models.AdditionalItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	if err := h.catalogService.SaveAdditionalItem(c.Request.Context(), &item, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"additional_item": item, "message": "Artículo guardado"})
}
