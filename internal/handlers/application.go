package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/j-bridge/volunteerhub.com/internal/dto"
	"github.com/j-bridge/volunteerhub.com/internal/services"
)

// ApplicationHandler serves the application lifecycle.
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// CreateApplication applies the caller to an opportunity.
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateApplicationRequest struct {
		OpportunityID uint64 `json:"opportunity_id" binding:"required"`
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	app, err := h.appService.Create(c.Request.Context(), userID, req.OpportunityID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToApplicationDTO(*app))
}

// ListMyApplications returns the caller's applications.
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	apps, err := h.appService.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": dto.ToApplicationDTOs(apps)})
}

// ReviewApplication accepts or rejects an application.
func (h *ApplicationHandler) ReviewApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "application")
	if !ok {
		return
	}

	type ReviewRequest struct {
		Decision string `json:"decision" binding:"required"`
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	app, err := h.appService.Review(c.Request.Context(), userID, id, req.Decision)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationDTO(*app))
}

// WithdrawApplication retracts the caller's application.
func (h *ApplicationHandler) WithdrawApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "application")
	if !ok {
		return
	}

	app, err := h.appService.Withdraw(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationDTO(*app))
}
