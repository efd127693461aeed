package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/j-bridge/volunteerhub.com/internal/dto"
	"github.com/j-bridge/volunteerhub.com/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an account and returns a token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email            string `json:"email" binding:"required"`
		Password         string `json:"password" binding:"required"`
		Name             string `json:"name" binding:"max=255"`
		Role             string `json:"role"`
		OrganizationName string `json:"organization_name" binding:"max=255"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		Name:             req.Name,
		Role:             req.Role,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAuthResponse(result))
}

// Login authenticates a user and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAuthResponse(result))
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	type RefreshRequest struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	access, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": access,
		"token_type":   "Bearer",
	})
}

// ForgotPassword starts a password reset. The response never reveals whether the address is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	type ForgotPasswordRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	h.authService.RequestPasswordReset(c.Request.Context(), req.Email)

	c.JSON(http.StatusOK, gin.H{
		"message": "If that email is registered, a reset link has been sent",
	})
}

// ResetPassword sets a new password using a reset token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetPasswordRequest struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated",
	})
}

func toAuthResponse(result *services.AuthResult) dto.AuthResponse {
	resp := dto.AuthResponse{
		User: dto.ToUserDTO(*result.User),
		Pair: result.Tokens,
	}
	if result.Organization != nil {
		org := dto.ToOrganizationDTO(*result.Organization)
		resp.Organization = &org
	}
	return resp
}
