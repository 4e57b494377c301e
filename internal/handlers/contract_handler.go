package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nomadecampers/nomade-api/internal/contracts"
	"github.com/nomadecampers/nomade-api/internal/middleware"
	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/services"
	"github.com/nomadecampers/nomade-api/internal/storage"
)

type ContractHandler struct {
	contractService *services.ContractService
	storage         *storage.LocalStorage
}

func NewContractHandler(contractService *services.ContractService, storage *storage.LocalStorage) *ContractHandler {
	return &ContractHandler{contractService: contractService, storage: storage}
}

// @Summary List Contract Templates
// @Description Get the available contract template keys
// @Tags Contracts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts/templates [get]
func (h *ContractHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": contracts.TemplateKeys()})
}

// @Summary List Project Contracts
// @Description Get every generated contract of a project
// @Tags Contracts
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{project_id}/contracts [get]
func (h *ContractHandler) Index(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	documents, err := h.contractService.FindByProject(c.Request.Context(), uint(projectID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.ContractDocumentResponse
	for _, doc := range documents {
		responses = append(responses, doc.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"contracts": responses})
}

// @Summary Get Contract
// @Description Get a generated contract by ID
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.ContractDocumentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id} [get]
func (h *ContractHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	document, err := h.contractService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrato no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": document.ToResponse()})
}

// @Summary Preview Contract Data
// @Description Get the field values that would fill a contract for a project
// @Tags Contracts
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} contracts.Data
// @Security BearerAuth
// @Router /projects/{project_id}/contracts/preview [get]
func (h *ContractHandler) Preview(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	data, err := h.contractService.BuildContractData(c.Request.Context(), uint(projectID))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

type GenerateContractRequest struct {
	TemplateKey string `json:"template_key" binding:"required"`
}

// @Summary Generate Contract
// @Description Render a contract template for a project and archive it as PDF
// @Tags Contracts
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body GenerateContractRequest true "Template Key"
// @Success 201 {object} models.ContractDocumentResponse
// @Security BearerAuth
// @Router /projects/{project_id}/contracts [post]
func (h *ContractHandler) Generate(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	var req GenerateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	document, err := h.contractService.Generate(c.Request.Context(), uint(projectID), req.TemplateKey, actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contract": document.ToResponse(), "message": "Contrato generado"})
}

type SignContractRequest struct {
	SignedAt string `json:"signed_at"` // YYYY-MM-DD, defaults to today
}

// @Summary Sign Contract
// @Description Record the signature date and advance the project phase
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Param request body SignContractRequest true "Signature Date"
// @Success 200 {object} models.ContractDocumentResponse
// @Security BearerAuth
// @Router /contracts/{contract_id}/sign [post]
func (h *ContractHandler) Sign(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	var req SignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signedAt := time.Now()
	if req.SignedAt != "" {
		parsed, err := time.Parse("2006-01-02", req.SignedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de firma inválida, formato esperado YYYY-MM-DD"})
			return
		}
		signedAt = parsed
	}

	actorID := middleware.GetUserID(c)
	document, err := h.contractService.MarkSigned(c.Request.Context(), uint(id), signedAt, actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": document.ToResponse(), "message": "Contrato firmado"})
}

// @Summary Download Contract PDF
// @Description Download the archived PDF of a generated contract
// @Tags Contracts
// @Produce application/pdf
// @Param contract_id path int true "Contract ID"
// @Success 200 {file} file "contrato.pdf"
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id}/pdf [get]
func (h *ContractHandler) DownloadPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	relativePath, err := h.contractService.PDFPath(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if !h.storage.Exists(relativePath) {
		c.JSON(http.StatusNotFound, gin.H{"error": "El archivo PDF no está disponible"})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=contrato_%d.pdf", id))
	c.File(h.storage.GetFullPath(relativePath))
}

// @Summary Delete Contract
// @Description Delete an unsigned contract and its PDF
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id} [delete]
func (h *ContractHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.contractService.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contrato eliminado"})
}
