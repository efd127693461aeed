package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/j-bridge/volunteerhub.com/internal/dto"
	"github.com/j-bridge/volunteerhub.com/internal/services"
)

// OrganizationHandler serves organization and membership endpoints.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// ListOrganizations returns active organizations
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.orgService.ListOrganizations(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": dto.ToOrganizationDTOs(orgs)})
}

// ListMyOrganizations returns the organizations the caller belongs to, with their role
func (h *OrganizationHandler) ListMyOrganizations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	memberships, err := h.orgService.ListOrganizationsForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]dto.OrganizationWithRoleDTO, len(memberships))
	for i, m := range memberships {
		out[i] = dto.ToOrganizationWithRoleDTO(m)
	}
	c.JSON(http.StatusOK, gin.H{"organizations": out})
}

// CreateOrganization creates a new organization
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateOrgRequest struct {
		Name         string  `json:"name" binding:"required,max=255"`
		ContactEmail string  `json:"contact_email" binding:"max=255"`
		Description  string  `json:"description"`
		OwnerID      *uint64 `json:"owner_id"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), userID, services.CreateOrganizationInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Description:  req.Description,
		OwnerID:      req.OwnerID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// GetOrganization returns organization details
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	orgID, ok := idParam(c, "id", "organization")
	if !ok {
		return
	}

	org, err := h.orgService.GetOrganization(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// UpdateOrganization applies a partial update
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orgID, ok := idParam(c, "id", "organization")
	if !ok {
		return
	}

	type UpdateOrgRequest struct {
		Name         *string `json:"name" binding:"omitempty,max=255"`
		ContactEmail *string `json:"contact_email" binding:"omitempty,max=255"`
		Description  *string `json:"description"`
		IsActive     *bool   `json:"is_active"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := h.orgService.UpdateOrganization(c.Request.Context(), userID, orgID, services.UpdateOrganizationInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Description:  req.Description,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// ListMembers returns the members of an organization
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orgID, ok := idParam(c, "id", "organization")
	if !ok {
		return
	}

	members, err := h.orgService.ListMembers(c.Request.Context(), userID, orgID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToOrganizationMemberDTOs(members)})
}

// AddMember adds a user to an organization
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orgID, ok := idParam(c, "id", "organization")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		Role   string `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	member, err := h.orgService.AddMember(c.Request.Context(), userID, orgID, req.UserID, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationMemberDTO(*member))
}

// RemoveMember removes a member from an organization
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orgID, ok := idParam(c, "id", "organization")
	if !ok {
		return
	}
	targetID, ok := idParam(c, "user_id", "user")
	if !ok {
		return
	}

	if err := h.orgService.RemoveMember(c.Request.Context(), userID, orgID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}
