package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/certpdf"
	"github.com/j-bridge/volunteerhub.com/internal/constants"
	"github.com/j-bridge/volunteerhub.com/internal/metrics"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/notify"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
	"github.com/j-bridge/volunteerhub.com/internal/tokens"
)

// WarningPDFGenerationFailed is reported when a certificate was stored but its document could not be rendered.
const WarningPDFGenerationFailed = "pdf_generation_failed"

// CertificateService issues volunteer-hour certificates and serves their documents.
type CertificateService struct {
	store     *repository.Store
	tokens    *tokens.Manager
	renderer  PDFRenderer
	notifier  Notifications
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	outputDir string
	baseURL   string
}

// CertificateOptions carries the settings of CertificateService.
type CertificateOptions struct {
	OutputDir     string
	PublicBaseURL string
	Metrics       *metrics.Metrics
	Logger        logrus.FieldLogger
}

// NewCertificateService creates a new CertificateService.
func NewCertificateService(store *repository.Store, tm *tokens.Manager, renderer PDFRenderer, notifier Notifications, opts CertificateOptions) *CertificateService {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &CertificateService{
		store:     store,
		tokens:    tm,
		renderer:  renderer,
		notifier:  notifier,
		metrics:   opts.Metrics,
		log:       opts.Logger.WithField("service", "certificates"),
		outputDir: opts.OutputDir,
		baseURL:   strings.TrimRight(opts.PublicBaseURL, "/"),
	}
}

// IssueCertificateInput represents parameters to issue a certificate.
// The volunteer is identified by VolunteerID or, when that is nil, VolunteerEmail.
type IssueCertificateInput struct {
	OrganizationID uint64
	VolunteerID    *uint64
	VolunteerEmail string
	Hours          float64
	OpportunityID  *uint64
	CompletedAt    *time.Time
	Notes          string
}

// IssueResult is a stored certificate together with the outcome of its side effects.
type IssueResult struct {
	Certificate *models.Certificate
	DownloadURL string
	Warnings    []string
}

type certificateParties struct {
	volunteer   *models.User
	issuer      *models.User
	org         *models.Organization
	opportunity *models.Opportunity
}

// Issue stores a certificate, renders its document and mails a download link.
// A rendering failure does not undo the stored row; it is reported in Warnings.
func (s *CertificateService) Issue(ctx context.Context, issuerID uint64, input IssueCertificateInput) (*IssueResult, error) {
	if !(input.Hours > 0) || math.IsInf(input.Hours, 0) {
		return nil, ErrInvalidHours
	}
	email := NormalizeEmail(input.VolunteerEmail)
	if input.VolunteerID == nil && email == "" {
		return nil, ErrVolunteerRequired
	}
	notes := strings.TrimSpace(input.Notes)
	if utf8.RuneCountInString(notes) > constants.MaxNotesLength {
		return nil, ErrNotesTooLong
	}

	var (
		cert    *models.Certificate
		parties certificateParties
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		parties.issuer, err = loadActor(ctx, tx.Users, issuerID)
		if err != nil {
			return err
		}
		parties.org, err = NewAuthorizer(tx.Organizations).RequireOrgAdmin(ctx, parties.issuer, input.OrganizationID)
		if err != nil {
			return err
		}

		parties.volunteer, err = s.resolveVolunteer(ctx, tx.Users, input.VolunteerID, email)
		if err != nil {
			return err
		}

		if input.OpportunityID != nil {
			parties.opportunity, err = findOpportunity(ctx, tx.Opportunities, *input.OpportunityID)
			if err != nil {
				return err
			}
			if parties.opportunity.OrganizationID != parties.org.ID {
				return ErrOpportunityMismatch
			}
		}

		cert = &models.Certificate{
			VolunteerID:    parties.volunteer.ID,
			OrganizationID: parties.org.ID,
			IssuedByID:     parties.issuer.ID,
			OpportunityID:  input.OpportunityID,
			Hours:          input.Hours,
			IssuedAt:       time.Now().UTC().Truncate(time.Second),
			CompletedAt:    input.CompletedAt,
			Status:         models.CertificateIssued,
			Notes:          notes,
		}
		if err := tx.Certificates.Create(ctx, cert); err != nil {
			return fmt.Errorf("failed to create certificate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CertificateIssued()
	logger := s.log.WithFields(logrus.Fields{"certificate_id": cert.ID, "organization_id": cert.OrganizationID, "volunteer_id": cert.VolunteerID})
	logger.Info("Certificate issued")

	result := &IssueResult{Certificate: cert}

	if path, err := s.render(ctx, cert, parties); err != nil {
		s.metrics.SideEffectFailed("pdf")
		logger.WithError(err).Error("Failed to generate certificate PDF")
		result.Warnings = append(result.Warnings, WarningPDFGenerationFailed)
	} else {
		cert.PDFPath = path
	}

	token, err := s.tokens.IssueDownload(cert.VolunteerID, cert.ID)
	if err != nil {
		s.metrics.SideEffectFailed("download_token")
		logger.WithError(err).Error("Failed to issue download token")
		return result, nil
	}
	result.DownloadURL = s.downloadURL(cert.ID, token)

	s.notifier.Enqueue("Your volunteer certificate from "+parties.org.Name, []string{parties.volunteer.Email}, notify.TemplateCertificateIssued, notify.CertificateData{
		VolunteerName:    parties.volunteer.DisplayName(),
		OrganizationName: parties.org.Name,
		Hours:            certpdf.FormatHours(cert.Hours),
		DownloadURL:      result.DownloadURL,
		ValidFor:         humanDuration(s.tokens.TTL(tokens.PurposeCertificateDownload)),
	})

	return result, nil
}

func (s *CertificateService) resolveVolunteer(ctx context.Context, users repository.UserRepository, id *uint64, email string) (*models.User, error) {
	var (
		volunteer *models.User
		err       error
	)
	if id != nil {
		volunteer, err = users.FindByID(ctx, *id)
	} else {
		volunteer, err = users.FindByEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("failed to find volunteer: %w", err)
	}
	if !volunteer.IsActive {
		return nil, ErrVolunteerNotFound
	}
	if volunteer.Role == models.RoleAdmin {
		return nil, ErrInvalidRecipient
	}
	return volunteer, nil
}

// render writes the document and records its path on the row.
func (s *CertificateService) render(ctx context.Context, cert *models.Certificate, parties certificateParties) (string, error) {
	view := certpdf.CertificateView{
		ID:               cert.ID,
		VolunteerName:    parties.volunteer.DisplayName(),
		OrganizationName: parties.org.Name,
		IssuerName:       parties.issuer.DisplayName(),
		Hours:            cert.Hours,
		IssuedAt:         cert.IssuedAt,
		CompletedAt:      cert.CompletedAt,
		Notes:            cert.Notes,
	}
	if parties.opportunity != nil {
		view.OpportunityTitle = parties.opportunity.Title
	}

	path, err := s.renderer.Generate(view, s.outputDir)
	if err != nil {
		return "", err
	}
	if err := s.store.Certificates.UpdatePDFPath(ctx, cert.ID, path); err != nil {
		return "", fmt.Errorf("failed to record certificate path: %w", err)
	}
	return path, nil
}

func (s *CertificateService) downloadURL(id uint64, token string) string {
	return fmt.Sprintf("%s/api/certificates/%d/pdf?token=%s", s.baseURL, id, url.QueryEscape(token))
}

// Get returns a certificate the actor may access.
func (s *CertificateService) Get(ctx context.Context, actorID, id uint64) (*models.Certificate, error) {
	actor, err := loadActor(ctx, s.store.Users, actorID)
	if err != nil {
		return nil, err
	}
	cert, err := s.findCertificate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// CertificateListFilter narrows a certificate listing.
type CertificateListFilter struct {
	OrganizationID *uint64
	VolunteerID    *uint64
}

// List returns certificates visible to the actor. Site admins see everything,
// organization admins see their organization and everyone else sees their own.
func (s *CertificateService) List(ctx context.Context, actorID uint64, filter CertificateListFilter) ([]models.Certificate, error) {
	actor, err := loadActor(ctx, s.store.Users, actorID)
	if err != nil {
		return nil, err
	}

	query := repository.CertificateFilter{
		OrganizationID: filter.OrganizationID,
		VolunteerID:    filter.VolunteerID,
	}
	switch {
	case IsSiteAdmin(actor):
	case filter.OrganizationID != nil:
		if _, err := NewAuthorizer(s.store.Organizations).RequireOrgAdmin(ctx, actor, *filter.OrganizationID); err != nil {
			return nil, err
		}
	default:
		if filter.VolunteerID != nil && *filter.VolunteerID != actor.ID {
			return nil, ErrCertificateAccess
		}
		query.VolunteerID = &actor.ID
	}

	certs, err := s.store.Certificates.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certs, nil
}

// DownloadRequest identifies the caller of Download by session or by download token.
type DownloadRequest struct {
	ActorID uint64
	Token   string
}

func (s *CertificateService) checkDownloadToken(raw string, cert *models.Certificate) error {
	claims, err := s.tokens.Parse(raw, tokens.PurposeCertificateDownload)
	if err != nil {
		return ErrInvalidToken
	}
	volunteerID, err := claims.UserID()
	if err != nil {
		return ErrInvalidToken
	}
	if volunteerID != cert.VolunteerID || claims.CertificateID != cert.ID {
		return ErrCertificateAccess
	}
	return nil
}

// Download returns the path of the certificate document, rendering it again
// when the file is missing.
func (s *CertificateService) Download(ctx context.Context, req DownloadRequest, id uint64) (string, *models.Certificate, error) {
	cert, err := s.findCertificate(ctx, id)
	if err != nil {
		return "", nil, err
	}

	// A link token that fails still lets an authenticated caller through on
	// their own access rights.
	if req.Token == "" && req.ActorID == 0 {
		return "", nil, ErrUnauthorized
	}
	var accessErr error = ErrInvalidToken
	if req.Token != "" {
		accessErr = s.checkDownloadToken(req.Token, cert)
	}
	if accessErr != nil && req.ActorID != 0 {
		actor, err := loadActor(ctx, s.store.Users, req.ActorID)
		if err != nil {
			return "", nil, err
		}
		accessErr = s.authorize(ctx, actor, cert)
	}
	if accessErr != nil {
		return "", nil, accessErr
	}

	if cert.PDFPath != "" {
		if _, err := os.Stat(cert.PDFPath); err == nil {
			return cert.PDFPath, cert, nil
		}
	}

	parties, err := s.loadParties(ctx, cert)
	if err != nil {
		return "", nil, err
	}
	path, err := s.render(ctx, cert, parties)
	if err != nil {
		s.metrics.SideEffectFailed("pdf")
		s.log.WithError(err).WithField("certificate_id", cert.ID).Error("Failed to regenerate certificate PDF")
		return "", nil, fmt.Errorf("%w: %w", ErrPDFGenerationFailed, err)
	}
	cert.PDFPath = path
	return path, cert, nil
}

func (s *CertificateService) loadParties(ctx context.Context, cert *models.Certificate) (certificateParties, error) {
	var (
		parties certificateParties
		err     error
	)
	if parties.volunteer, err = s.store.Users.FindByID(ctx, cert.VolunteerID); err != nil {
		return parties, ErrCertificateFileGone
	}
	if parties.issuer, err = s.store.Users.FindByID(ctx, cert.IssuedByID); err != nil {
		return parties, ErrCertificateFileGone
	}
	if parties.org, err = s.store.Organizations.FindByID(ctx, cert.OrganizationID); err != nil {
		return parties, ErrCertificateFileGone
	}
	if cert.OpportunityID != nil {
		// A deleted opportunity only drops its title from the document.
		if opp, err := s.store.Opportunities.FindByID(ctx, *cert.OpportunityID); err == nil {
			parties.opportunity = opp
		}
	}
	return parties, nil
}

// authorize allows the issuer, the volunteer, site admins and admins of the owning organization.
func (s *CertificateService) authorize(ctx context.Context, actor *models.User, cert *models.Certificate) error {
	if actor.ID == cert.IssuedByID || actor.ID == cert.VolunteerID || IsSiteAdmin(actor) {
		return nil
	}
	org, err := findOrganization(ctx, s.store.Organizations, cert.OrganizationID)
	if err != nil {
		return err
	}
	ok, err := NewAuthorizer(s.store.Organizations).IsOrgAdminOrSiteAdmin(ctx, actor, org)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCertificateAccess
	}
	return nil
}

func (s *CertificateService) findCertificate(ctx context.Context, id uint64) (*models.Certificate, error) {
	cert, err := s.store.Certificates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to find certificate: %w", err)
	}
	return cert, nil
}
