// Package certpdf renders volunteer-hour certificates as PDF documents.
package certpdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const maxNotesOnPage = 120

// CertificateView is the data printed on a certificate.
type CertificateView struct {
	ID               uint64
	VolunteerName    string
	OrganizationName string
	OpportunityTitle string
	IssuerName       string
	Hours            float64
	IssuedAt         time.Time
	CompletedAt      *time.Time
	Notes            string
}

// Renderer draws certificates on a landscape Letter page.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// FileName is the name of the PDF for a certificate.
func FileName(id uint64) string {
	return fmt.Sprintf("certificate-%d.pdf", id)
}

// FormatHours prints hours with at most two decimals and no trailing zeros.
func FormatHours(hours float64) string {
	s := strconv.FormatFloat(hours, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Generate writes the certificate into outputDir and returns the file path.
func (r *Renderer) Generate(view CertificateView, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create certificate directory: %w", err)
	}

	var buf bytes.Buffer
	if err := r.Render(view, &buf); err != nil {
		return "", err
	}

	path := filepath.Join(outputDir, FileName(view.ID))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write certificate: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to move certificate into place: %w", err)
	}
	return path, nil
}

// Render writes the PDF bytes to w. Output is identical for identical views.
func (r *Renderer) Render(view CertificateView, w io.Writer) error {
	pdf := fpdf.New("L", "pt", "Letter", "")
	pdf.SetCreationDate(view.IssuedAt)
	pdf.SetModificationDate(view.IssuedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(fmt.Sprintf("Certificate #%d", view.ID), true)
	pdf.SetAuthor(orDefault(view.OrganizationName, "VolunteerHub"), true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width, height := pdf.GetPageSize()

	centered := func(y, h float64, text string) {
		pdf.SetXY(0, y)
		pdf.CellFormat(width, h, tr(text), "", 0, "C", false, 0, "")
	}

	// Background and frame
	pdf.SetFillColor(0xf9, 0xfa, 0xfb)
	pdf.Rect(0, 0, width, height, "F")
	pdf.SetDrawColor(0x0f, 0x17, 0x2a)
	pdf.SetLineWidth(3)
	pdf.Rect(36, 36, width-72, height-72, "D")
	pdf.SetFillColor(0xe0, 0xf2, 0xfe)
	pdf.Rect(36, 60, width-72, 80, "F")

	// Title and recipient
	pdf.SetTextColor(0x0f, 0x17, 0x2a)
	pdf.SetFont("Helvetica", "B", 28)
	centered(80, 40, "Certificate of Service")
	pdf.SetFont("Helvetica", "", 14)
	centered(155, 20, "Presented to")

	pdf.SetFont("Times", "BI", 42)
	pdf.SetTextColor(0x0b, 0x3d, 0x2e)
	centered(180, 50, orDefault(view.VolunteerName, "Volunteer"))

	pdf.SetTextColor(0x0f, 0x17, 0x2a)
	pdf.SetFont("Helvetica", "", 14)
	centered(240, 20, fmt.Sprintf("For contributing %s volunteer hours", FormatHours(view.Hours)))
	centered(260, 20, "with "+orDefault(view.OrganizationName, "your organization"))

	y := 280.0
	if view.OpportunityTitle != "" {
		centered(y, 20, "Opportunity: "+view.OpportunityTitle)
		y += 20
	}
	completed := view.IssuedAt
	if view.CompletedAt != nil {
		completed = *view.CompletedAt
	}
	centered(y, 20, "Service completed on "+completed.Format("January 02, 2006"))
	centered(y+20, 20, "Issued on "+view.IssuedAt.Format("January 02, 2006"))

	// Signature block
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(80, height-130, tr(orDefault(view.IssuerName, "Authorized signer")))
	pdf.SetLineWidth(1)
	pdf.Line(76, height-126, 280, height-126)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(80, height-110, "Organization Representative")

	if view.Notes != "" {
		notes := []rune(view.Notes)
		if len(notes) > maxNotesOnPage {
			notes = notes[:maxNotesOnPage]
		}
		pdf.SetTextColor(0x33, 0x41, 0x55)
		pdf.Text(80, height-90, tr(string(notes)))
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0x6b, 0x72, 0x80)
	pdf.SetXY(0, height-98)
	pdf.CellFormat(width-80, 10, fmt.Sprintf("Certificate #%d", view.ID), "", 0, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render certificate: %w", err)
	}
	return nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
