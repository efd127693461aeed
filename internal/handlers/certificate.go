package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/j-bridge/volunteerhub.com/internal/certpdf"
	"github.com/j-bridge/volunteerhub.com/internal/dto"
	apierrors "github.com/j-bridge/volunteerhub.com/internal/errors"
	"github.com/j-bridge/volunteerhub.com/internal/middleware"
	"github.com/j-bridge/volunteerhub.com/internal/services"
)

// CertificateHandler serves certificate issuance and downloads.
type CertificateHandler struct {
	certService *services.CertificateService
}

// NewCertificateHandler creates a new CertificateHandler.
func NewCertificateHandler(certService *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certService: certService}
}

// IssueCertificate records volunteer hours and returns the certificate.
// A document rendering failure is reported in warnings with status 201.
func (h *CertificateHandler) IssueCertificate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type IssueRequest struct {
		OrganizationID uint64  `json:"organization_id"`
		VolunteerID    *uint64 `json:"volunteer_id"`
		VolunteerEmail string  `json:"volunteer_email"`
		Hours          float64 `json:"hours"`
		OpportunityID  *uint64 `json:"opportunity_id"`
		CompletedAt    *string `json:"completed_at"`
		Notes          string  `json:"notes"`
	}

	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	completedAt, err := parseTime(req.CompletedAt)
	if err != nil {
		apierrors.BadRequest(c, "Invalid completed_at")
		return
	}

	result, err := h.certService.Issue(c.Request.Context(), userID, services.IssueCertificateInput{
		OrganizationID: req.OrganizationID,
		VolunteerID:    req.VolunteerID,
		VolunteerEmail: req.VolunteerEmail,
		Hours:          req.Hours,
		OpportunityID:  req.OpportunityID,
		CompletedAt:    completedAt,
		Notes:          req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.IssueCertificateResponse{
		Certificate: dto.ToCertificateDTO(*result.Certificate),
		DownloadURL: result.DownloadURL,
		Warnings:    result.Warnings,
	})
}

// ListCertificates returns certificates visible to the caller.
// Query: organization_id, volunteer_id.
func (h *CertificateHandler) ListCertificates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orgID, ok := optionalUintQuery(c, "organization_id")
	if !ok {
		return
	}
	volunteerID, ok := optionalUintQuery(c, "volunteer_id")
	if !ok {
		return
	}

	certs, err := h.certService.List(c.Request.Context(), userID, services.CertificateListFilter{
		OrganizationID: orgID,
		VolunteerID:    volunteerID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificates": dto.ToCertificateDTOs(certs)})
}

// GetCertificate returns a single certificate.
func (h *CertificateHandler) GetCertificate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "certificate")
	if !ok {
		return
	}

	cert, err := h.certService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCertificateDTO(*cert))
}

// DownloadCertificate streams the PDF. Callers authenticate with a bearer
// token or with the ?token= link sent by email.
func (h *CertificateHandler) DownloadCertificate(c *gin.Context) {
	id, ok := idParam(c, "id", "certificate")
	if !ok {
		return
	}

	req := services.DownloadRequest{Token: c.Query("token")}
	if userID, ok := middleware.GetUserID(c); ok {
		req.ActorID = userID
	}
	if req.ActorID == 0 && req.Token == "" {
		apierrors.Unauthorized(c, "")
		return
	}

	path, _, err := h.certService.Download(c.Request.Context(), req, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(path, certpdf.FileName(id))
}
