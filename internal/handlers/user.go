package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-api/internal/dto"
	apierrors "github.com/yukikurage/task-api/internal/errors"
	"github.com/yukikurage/task-api/internal/middleware"
	"github.com/yukikurage/task-api/internal/services"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// UpdateUser replaces the caller's profile and returns the updated user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateUserRequest struct {
		Name     string  `json:"name" binding:"required"`
		Email    string  `json:"email" binding:"required"`
		Password string  `json:"password" binding:"required"`
		Image    *string `json:"image"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateUser(services.UpdateUserInput{
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    req.Image,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.ToUserDTO(*user))
}

// DeleteUser removes the caller's account and returns the deleted user.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.DeleteUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.ToUserDTO(*user))
}
