package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/j-bridge/volunteerhub.com/internal/dto"
	apierrors "github.com/j-bridge/volunteerhub.com/internal/errors"
	"github.com/j-bridge/volunteerhub.com/internal/services"
)

// OpportunityHandler serves the opportunity catalog.
type OpportunityHandler struct {
	oppService *services.OpportunityService
	appService *services.ApplicationService
}

// NewOpportunityHandler creates a new OpportunityHandler.
func NewOpportunityHandler(oppService *services.OpportunityService, appService *services.ApplicationService) *OpportunityHandler {
	return &OpportunityHandler{oppService: oppService, appService: appService}
}

// ListOpportunities returns opportunities newest first.
// Query: location, organization_id, include_inactive.
func (h *OpportunityHandler) ListOpportunities(c *gin.Context) {
	orgID, ok := optionalUintQuery(c, "organization_id")
	if !ok {
		return
	}

	filter := services.OpportunityListFilter{
		Location:       c.Query("location"),
		OrganizationID: orgID,
	}
	if raw := c.Query("include_inactive"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid include_inactive")
			return
		}
		activeOnly := !include
		filter.ActiveOnly = &activeOnly
	}

	out := []dto.OpportunityDTO{}
	for opp, err := range h.oppService.List(c.Request.Context(), filter) {
		if err != nil {
			respondServiceError(c, err)
			return
		}
		out = append(out, dto.ToOpportunityDTO(opp))
	}

	c.JSON(http.StatusOK, dto.OpportunityListResponse{Opportunities: out, Count: len(out)})
}

// GetOpportunity returns a single opportunity.
func (h *OpportunityHandler) GetOpportunity(c *gin.Context) {
	id, ok := idParam(c, "id", "opportunity")
	if !ok {
		return
	}

	opp, err := h.oppService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOpportunityDTO(*opp))
}

// CreateOpportunity adds an opportunity to an organization.
func (h *OpportunityHandler) CreateOpportunity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateOpportunityRequest struct {
		Title          string  `json:"title" binding:"required,max=255"`
		Description    string  `json:"description"`
		Location       string  `json:"location" binding:"max=255"`
		StartDate      *string `json:"start_date"`
		EndDate        *string `json:"end_date"`
		OrganizationID *uint64 `json:"organization_id"`
		IsActive       *bool   `json:"is_active"`
	}

	var req CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	start, err := parseTime(req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid start_date")
		return
	}
	end, err := parseTime(req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid end_date")
		return
	}

	opp, err := h.oppService.Create(c.Request.Context(), userID, services.CreateOpportunityInput{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartDate:      start,
		EndDate:        end,
		OrganizationID: req.OrganizationID,
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOpportunityDTO(*opp))
}

// UpdateOpportunity applies a partial update.
func (h *OpportunityHandler) UpdateOpportunity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "opportunity")
	if !ok {
		return
	}

	type UpdateOpportunityRequest struct {
		Title          *string `json:"title" binding:"omitempty,max=255"`
		Description    *string `json:"description"`
		Location       *string `json:"location" binding:"omitempty,max=255"`
		StartDate      *string `json:"start_date"`
		EndDate        *string `json:"end_date"`
		ClearStartDate bool    `json:"clear_start_date"`
		ClearEndDate   bool    `json:"clear_end_date"`
		OrganizationID *uint64 `json:"organization_id"`
		IsActive       *bool   `json:"is_active"`
	}

	var req UpdateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	start, err := parseTime(req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid start_date")
		return
	}
	end, err := parseTime(req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid end_date")
		return
	}

	opp, err := h.oppService.Update(c.Request.Context(), userID, id, services.UpdateOpportunityInput{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartDate:      start,
		EndDate:        end,
		ClearStartDate: req.ClearStartDate,
		ClearEndDate:   req.ClearEndDate,
		OrganizationID: req.OrganizationID,
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOpportunityDTO(*opp))
}

// DeleteOpportunity removes an opportunity from the catalog.
func (h *OpportunityHandler) DeleteOpportunity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "opportunity")
	if !ok {
		return
	}

	if err := h.oppService.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Opportunity deleted successfully",
	})
}

// ListApplications returns the applications of an opportunity to its organization admins.
func (h *OpportunityHandler) ListApplications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "opportunity")
	if !ok {
		return
	}

	apps, err := h.appService.ListForOpportunity(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": dto.ToApplicationDTOs(apps)})
}
