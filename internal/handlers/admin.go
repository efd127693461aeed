package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/j-bridge/volunteerhub.com/internal/dto"
	"github.com/j-bridge/volunteerhub.com/internal/services"
)

// AdminHandler serves the admin dashboard and the public contact form.
type AdminHandler struct {
	adminService   *services.AdminService
	contactService *services.ContactService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService, contactService *services.ContactService) *AdminHandler {
	return &AdminHandler{adminService: adminService, contactService: contactService}
}

// Summary returns site-wide counts and recent activity.
func (h *AdminHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.adminService.Summary(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	users := make([]dto.UserDTO, len(summary.RecentUsers))
	for i, u := range summary.RecentUsers {
		users[i] = dto.ToUserDTO(u)
	}
	opps := make([]dto.OpportunityDTO, len(summary.RecentOpportunities))
	for i, o := range summary.RecentOpportunities {
		opps[i] = dto.ToOpportunityDTO(o)
	}

	c.JSON(http.StatusOK, gin.H{
		"counts":               summary.Counts,
		"recent_users":         users,
		"recent_opportunities": opps,
		"recent_applications":  dto.ToApplicationDTOs(summary.RecentApplications),
		"recent_videos":        dto.ToVideoDTOs(summary.RecentVideos),
	})
}

// Contact forwards a contact form submission.
func (h *AdminHandler) Contact(c *gin.Context) {
	type ContactRequest struct {
		Name         string `json:"name" binding:"required,max=255"`
		Email        string `json:"email" binding:"required,max=255"`
		Organization string `json:"organization" binding:"max=255"`
		Message      string `json:"message" binding:"required,max=5000"`
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.contactService.Submit(services.ContactInput{
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
		Message:      req.Message,
	}); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Inquiry received",
	})
}
