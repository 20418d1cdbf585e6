package user

import (
	"errors"
	"net/http"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/model/response/wrapper"
	"github.com/dinerozz/focus-session-backend/internal/service/user"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const tokenMaxAge = 3600 * 24

type UserHandler struct {
	srv *user.UserService
}

func NewUserHandler(srv *user.UserService) *UserHandler {
	return &UserHandler{
		srv: srv,
	}
}

// Authenticate godoc
// @Summary Sign in as admin
// @Description Authenticate an admin with password and set the token cookie. The first sign-in creates the admin.
// @Tags users
// @Accept json
// @Produce json
// @Param user body entity.AdminAuthRequest true "Credentials"
// @Success 200 {object} wrapper.ResponseWrapper{data=response.User}
// @Failure 400 {object} wrapper.ErrorWrapper
// @Failure 401 {object} wrapper.ErrorWrapper
// @Failure 500 {object} wrapper.ErrorWrapper
// @Router /admin/users/auth [post]
func (h *UserHandler) Authenticate(c *gin.Context) {
	var req entity.AdminAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	admin, token, err := h.srv.Authenticate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
			return
		}
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	c.SetCookie("token", token, tokenMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: admin, Success: true})
}

// GetProfile godoc
// @Summary Admin profile
// @Description Get the signed-in admin
// @Tags users
// @Produce json
// @Success 200 {object} wrapper.ResponseWrapper{data=response.User}
// @Failure 401 {object} wrapper.ErrorWrapper
// @Failure 500 {object} wrapper.ErrorWrapper
// @Router /admin/users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := uuid.FromStringOrNil(c.GetString("user_id"))
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	admin, err := h.srv.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
			return
		}
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: admin, Success: true})
}

// Logout godoc
// @Summary Logout user
// @Description Logout user by clearing authentication cookie
// @Tags users
// @Produce json
// @Success 200 {object} wrapper.SuccessWrapper
// @Router /admin/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, wrapper.SuccessWrapper{
		Message: "Successfully logged out",
		Success: true,
	})
}

// RegisterRoutes mounts sign-in on public and the rest on protected.
func (h *UserHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/users/auth", h.Authenticate)

	protected.GET("/users/profile", h.GetProfile)
	protected.POST("/users/logout", h.Logout)
}
