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

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary List Users
// @Description Get a paginated list of staff users
// @Tags Users
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name or email"
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["role"] = c.Query("role")

	status := c.Query("status")
	if status == "" {
		status = models.StatusActive
	} else if status == "all" {
		status = ""
	}
	query.Filters["status"] = status

	users, total, err := h.userService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.UserResponse
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"users": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get User
// @Description Get a user by ID
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id} [get]
func (h *UserHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	user, err := h.userService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// @Summary Create User
// @Description Create a new staff user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User Data"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creatorID := middleware.GetUserID(c)
	user := &models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	}

	if err := h.userService.Create(c.Request.Context(), user, req.Password, creatorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.ToResponse(), "message": "Usuario creado exitosamente"})
}

// @Summary Update User
// @Description Update user details (admin: any field; owner: full_name, phone, locale only)
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param request body map[string]string true "User Fields"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	user, err := h.userService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if v, ok := req["full_name"].(string); ok {
		user.FullName = v
	}
	if v, ok := req["phone"].(string); ok {
		user.Phone = v
	}
	if v, ok := req["locale"].(string); ok {
		user.Locale = v
	}

	// Only admin may change role, status, or email
	if middleware.IsAdmin(c) {
		if v, ok := req["role"].(string); ok {
			user.Role = v
		}
		if v, ok := req["status"].(string); ok {
			user.Status = v
		}
		if v, ok := req["email"].(string); ok {
			user.Email = v
		}
	}

	actorID := middleware.GetUserID(c)
	if err := h.userService.Update(c.Request.Context(), user, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse(), "message": "Usuario actualizado exitosamente"})
}

// @Summary Delete User
// @Description Soft delete a user
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.userService.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuario eliminado exitosamente"})
}

// @Summary Restore User
// @Description Restore a soft-deleted user
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id}/restore [post]
func (h *UserHandler) Restore(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.userService.Restore(c.Request.Context(), uint(id), actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuario restaurado exitosamente"})
}

// @Summary Toggle User Status
// @Description Enable or disable a user
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Security BearerAuth
// @Router /users/{user_id}/toggle_status [put]
func (h *UserHandler) ToggleStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	user, err := h.userService.ToggleStatus(c.Request.Context(), uint(id), actorID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse(), "message": "Estado actualizado"})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// @Summary Change Password
// @Description Change current user's password
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param request body ChangePasswordRequest true "Password Data"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id}/change_password [patch]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUserID := middleware.GetUserID(c)
	currentUserRole := middleware.GetUserRole(c)

	// Admin changing another user's password does not need the old one
	if currentUserRole == models.RoleAdmin && uint(id) != currentUserID {
		if err := h.userService.ForceChangePassword(c.Request.Context(), uint(id), req.NewPassword, currentUserID); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	} else {
		if req.CurrentPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "La contraseña actual es requerida"})
			return
		}
		if err := h.userService.ChangePassword(c.Request.Context(), uint(id), req.CurrentPassword, req.NewPassword, currentUserID); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contraseña actualizada exitosamente"})
}

type UpdateLocaleRequest struct {
	Locale string `json:"locale" binding:"required"`
}

// @Summary Update Locale
// @Description Update user's locale preference
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param request body UpdateLocaleRequest true "Locale Data"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id}/update_locale [patch]
func (h *UserHandler) UpdateLocale(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	var req UpdateLocaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdateLocale(c.Request.Context(), uint(id), req.Locale); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Idioma actualizado"})
}

// @Summary Resend Confirmation
// @Description Resend the account welcome email
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id}/resend_confirmation [post]
func (h *UserHandler) ResendConfirmation(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	currentUserID := middleware.GetUserID(c)
	if uint(userID) != currentUserID && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tienes permiso para reenviar la confirmación de este usuario"})
		return
	}

	if err := h.userService.ResendConfirmation(c.Request.Context(), uint(userID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al reenviar el email de confirmación"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email de confirmación reenviado"})
}

// @Summary Upload Avatar
// @Description Upload a profile picture for the current user
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param user_id path int true "User ID"
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} models.UserResponse
// @Security BearerAuth
// @Router /users/{user_id}/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	currentUserID := middleware.GetUserID(c)
	if uint(id) != currentUserID && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tienes permiso para modificar este usuario"})
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo de imagen requerido"})
		return
	}
	defer file.Close()

	user, err := h.userService.UpdateAvatar(c.Request.Context(), uint(id), file, header)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse(), "message": "Avatar actualizado"})
}
