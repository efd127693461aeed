package dto

import (
	"time"

	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// CertificateDTO represents a certificate in API responses. The file path stays server side.
type CertificateDTO struct {
	ID             uint64                   `json:"id"`
	VolunteerID    uint64                   `json:"volunteer_id"`
	OrganizationID uint64                   `json:"organization_id"`
	IssuedByID     uint64                   `json:"issued_by_id"`
	OpportunityID  *uint64                  `json:"opportunity_id"`
	Hours          float64                  `json:"hours"`
	IssuedAt       time.Time                `json:"issued_at"`
	CompletedAt    *time.Time               `json:"completed_at"`
	Status         models.CertificateStatus `json:"status"`
	Notes          string                   `json:"notes"`
	HasPDF         bool                     `json:"has_pdf"`
}

// IssueCertificateResponse is returned when a certificate is issued
type IssueCertificateResponse struct {
	Certificate CertificateDTO `json:"certificate"`
	DownloadURL string         `json:"download_url,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// ToCertificateDTO converts a certificate model to DTO
func ToCertificateDTO(cert models.Certificate) CertificateDTO {
	return CertificateDTO{
		ID:             cert.ID,
		VolunteerID:    cert.VolunteerID,
		OrganizationID: cert.OrganizationID,
		IssuedByID:     cert.IssuedByID,
		OpportunityID:  cert.OpportunityID,
		Hours:          cert.Hours,
		IssuedAt:       cert.IssuedAt,
		CompletedAt:    cert.CompletedAt,
		Status:         cert.Status,
		Notes:          cert.Notes,
		HasPDF:         cert.PDFPath != "",
	}
}

// ToCertificateDTOs converts a slice of certificates
func ToCertificateDTOs(certs []models.Certificate) []CertificateDTO {
	out := make([]CertificateDTO, len(certs))
	for i, cert := range certs {
		out[i] = ToCertificateDTO(cert)
	}
	return out
}
