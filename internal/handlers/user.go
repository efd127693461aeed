package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/j-bridge/volunteerhub.com/internal/dto"
	"github.com/j-bridge/volunteerhub.com/internal/services"
	"github.com/j-bridge/volunteerhub.com/internal/utils"
)

// UserHandler serves account endpoints.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService) *UserHandler {
	return &UserHandler{authService: authService, userService: userService}
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateMe changes the authenticated user's profile.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		Name *string `json:"name"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ListUsers returns a page of accounts to site admins.
func (h *UserHandler) ListUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.ListUsers(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Users:      dto.ToUserDTOs(users),
		Pagination: params.Response(total),
	})
}

// GetUser returns an account to itself or a site admin.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := idParam(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID, targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ChangeRole sets a user's global role.
func (h *UserHandler) ChangeRole(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := idParam(c, "id", "user")
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), userID, targetID, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// SetActive activates or deactivates a user.
func (h *UserHandler) SetActive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := idParam(c, "id", "user")
	if !ok {
		return
	}

	type SetActiveRequest struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.SetActive(c.Request.Context(), userID, targetID, *req.IsActive)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
