package handler

import (
	"errors"
	"net/http"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/model/response/wrapper"
	service "github.com/dinerozz/focus-session-backend/internal/service/extension_user"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type ExtensionUserHandler struct {
	service service.ExtensionUserService
}

func NewExtensionUserHandler(service service.ExtensionUserService) *ExtensionUserHandler {
	return &ExtensionUserHandler{
		service: service,
	}
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrUserInactive):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidAPIKey):
		status = http.StatusUnauthorized
	}

	c.JSON(status, wrapper.ErrorWrapper{
		Message: err.Error(),
		Success: false,
	})
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	if !utils.ValidateUUID(idStr) {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid UUID format",
			Success: false,
		})
		return uuid.Nil, false
	}
	return uuid.FromStringOrNil(idStr), true
}

// CreateExtensionUser godoc
// @Summary      Create extension user
// @Description  Create a new extension user with an API key. The key is only returned here and on regeneration.
// @Tags         /api/v1/admin/extension
// @Accept       json
// @Produce      json
// @Param        user  body      entity.CreateExtensionUserRequest  true  "User data"
// @Success      201   {object}  wrapper.ResponseWrapper{data=entity.ExtensionUser}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Failure      500   {object}  wrapper.ErrorWrapper
// @Router       /admin/extension/users/generate [post]
func (h *ExtensionUserHandler) CreateExtensionUser(c *gin.Context) {
	var req entity.CreateExtensionUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, wrapper.ResponseWrapper{
		Data:    user,
		Success: true,
	})
}

// GetExtensionUserByID godoc
// @Summary      Get extension user by ID
// @Tags         /api/v1/admin/extension
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.ExtensionUserPublic}
// @Failure      400  {object}  wrapper.ErrorWrapper
// @Failure      404  {object}  wrapper.ErrorWrapper
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /admin/extension/users/{id} [get]
func (h *ExtensionUserHandler) GetExtensionUserByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    user,
		Success: true,
	})
}

// GetAllExtensionUsers godoc
// @Summary      Get all extension users
// @Description  Get list of extension users with optional filters
// @Tags         /api/v1/admin/extension
// @Produce      json
// @Param        username   query     string  false  "Filter by username"
// @Param        isActive   query     bool    false  "Filter by active status"
// @Param        limit      query     int     false  "Limit (default: 50, max: 200)"
// @Param        offset     query     int     false  "Offset (default: 0)"
// @Success      200        {object}  wrapper.ResponseWrapper{data=[]entity.ExtensionUserPublic}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Router       /admin/extension/users [get]
func (h *ExtensionUserHandler) GetAllExtensionUsers(c *gin.Context) {
	var filter entity.ExtensionUserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid query parameters: " + err.Error(),
			Success: false,
		})
		return
	}

	users, err := h.service.GetAllUsers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    users,
		Success: true,
	})
}

// UpdateExtensionUser godoc
// @Summary      Update extension user
// @Tags         /api/v1/admin/extension
// @Accept       json
// @Produce      json
// @Param        id    path      string                             true  "User ID"
// @Param        user  body      entity.UpdateExtensionUserRequest  true  "Update user data"
// @Success      200   {object}  wrapper.ResponseWrapper{data=entity.ExtensionUserPublic}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Failure      404   {object}  wrapper.ErrorWrapper
// @Failure      500   {object}  wrapper.ErrorWrapper
// @Router       /admin/extension/users/{id} [put]
func (h *ExtensionUserHandler) UpdateExtensionUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req entity.UpdateExtensionUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    user,
		Success: true,
	})
}

// RegenerateAPIKey godoc
// @Summary      Regenerate API key
// @Description  Issue a new API key. The old key stops working immediately.
// @Tags         /api/v1/admin/extension
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.RegenerateAPIKeyResponse}
// @Failure      400  {object}  wrapper.ErrorWrapper
// @Failure      404  {object}  wrapper.ErrorWrapper
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /admin/extension/users/{id}/regenerate-key [post]
func (h *ExtensionUserHandler) RegenerateAPIKey(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	response, err := h.service.RegenerateAPIKey(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    response,
		Success: true,
	})
}

// DeleteExtensionUser godoc
// @Summary      Delete extension user
// @Description  Delete an extension user together with its focus session archive
// @Tags         /api/v1/admin/extension
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  wrapper.SuccessWrapper
// @Failure      400  {object}  wrapper.ErrorWrapper
// @Failure      404  {object}  wrapper.ErrorWrapper
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /admin/extension/users/{id} [delete]
func (h *ExtensionUserHandler) DeleteExtensionUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.SuccessWrapper{
		Message: "Extension user deleted successfully",
		Success: true,
	})
}

// GetExtensionUserStats godoc
// @Summary      Extension user statistics
// @Tags         /api/v1/admin/extension
// @Produce      json
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.ExtensionUserStats}
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /admin/extension/users/stats [get]
func (h *ExtensionUserHandler) GetExtensionUserStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    stats,
		Success: true,
	})
}

// ValidateAPIKey godoc
// @Summary      Validate API key
// @Description  Lets the extension check its key before starting a session
// @Tags         /api/v1/extension
// @Produce      json
// @Param        X-API-Key  header    string  true  "API Key"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.ExtensionUserPublic}
// @Failure      401        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Router       /extension/users/auth [post]
func (h *ExtensionUserHandler) ValidateAPIKey(c *gin.Context) {
	user, err := h.service.ValidateAPIKey(c.Request.Context(), c.GetHeader("X-API-Key"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data: entity.ExtensionUserPublic{
			ID:         user.ID,
			Username:   user.Username,
			IsActive:   user.IsActive,
			CreatedAt:  user.CreatedAt,
			UpdatedAt:  user.UpdatedAt,
			LastUsedAt: user.LastUsedAt,
		},
		Success: true,
	})
}

// RegisterAdminRoutes expects a group already guarded by the admin JWT middleware.
func (h *ExtensionUserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	users := router.Group("/extension/users")
	{
		users.POST("/generate", h.CreateExtensionUser)
		users.GET("", h.GetAllExtensionUsers)
		users.GET("/stats", h.GetExtensionUserStats)
		users.GET("/:id", h.GetExtensionUserByID)
		users.PUT("/:id", h.UpdateExtensionUser)
		users.POST("/:id/regenerate-key", h.RegenerateAPIKey)
		users.DELETE("/:id", h.DeleteExtensionUser)
	}
}

func (h *ExtensionUserHandler) RegisterExtensionRoutes(router *gin.RouterGroup) {
	router.POST("/users/auth", h.ValidateAPIKey)
}
