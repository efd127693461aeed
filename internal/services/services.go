package services

//go:generate mockgen -source=services.go -destination=mocks/mocks.go -package=mocks Notifications,PDFRenderer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/certpdf"
	"github.com/j-bridge/volunteerhub.com/internal/constants"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
)

// Notifications schedules outgoing email. Delivery failures never reach the caller.
type Notifications interface {
	Enqueue(subject string, recipients []string, templateName string, data any) bool
}

// PDFRenderer writes a certificate document and returns its path.
type PDFRenderer interface {
	Generate(view certpdf.CertificateView, outputDir string) (string, error)
}

var validate = validator.New()

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email,max=255") == nil
}

func validHTTPURL(raw string) bool {
	if validate.Var(raw, "required,url,max=512") != nil {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// CheckPassword enforces the password policy.
func CheckPassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return ErrWeakPassword
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return ErrWeakPassword
	}
	return nil
}

// loadActor resolves the authenticated caller. Deleted or deactivated accounts are rejected.
func loadActor(ctx context.Context, users repository.UserRepository, id uint64) (*models.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInactiveAccount
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}
	return user, nil
}

func findOrganization(ctx context.Context, orgs repository.OrganizationRepository, id uint64) (*models.Organization, error) {
	org, err := orgs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

func findOpportunity(ctx context.Context, opps repository.OpportunityRepository, id uint64) (*models.Opportunity, error) {
	opp, err := opps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to find opportunity: %w", err)
	}
	return opp, nil
}
