package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrPDFGenerationFailed = errors.New("pdf generation failed")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func validationf(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

// Identity
var (
	ErrInvalidEmail       = newError(ErrValidation, "a valid email address is required")
	ErrWeakPassword       = newError(ErrValidation, "password must be at least 8 characters and contain a letter and a digit")
	ErrRoleNotAllowed     = newError(ErrValidation, "role must be volunteer or organization")
	ErrInvalidRole        = newError(ErrValidation, "role must be volunteer, organization or admin")
	ErrEmailTaken         = newError(ErrConflict, "email already registered")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid email or password")
	ErrInvalidToken       = newError(ErrUnauthorized, "invalid or expired token")
	ErrInactiveAccount    = newError(ErrUnauthorized, "account is inactive or no longer exists")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrAdminRequired      = newError(ErrForbidden, "admin access required")
	ErrLastAdmin          = newError(ErrConflict, "cannot remove the last active admin")
)

// Organizations
var (
	ErrOrganizationNotFound     = newError(ErrNotFound, "organization not found")
	ErrInvalidOrganizationName  = newError(ErrValidation, "organization name cannot be empty")
	ErrOrganizationRoleRequired = newError(ErrForbidden, "organization or admin role required")
	ErrOwnerAssignment          = newError(ErrForbidden, "only site admins may assign another owner")
	ErrAlreadyOwnsOrganization  = newError(ErrConflict, "user already owns an organization")
	ErrOwnerRequired            = newError(ErrForbidden, "only the organization owner or a site admin may manage members")
	ErrInvalidMemberRole        = newError(ErrValidation, "member role must be member or admin")
	ErrAlreadyMember            = newError(ErrConflict, "user is already a member of this organization")
	ErrNotAMember               = newError(ErrNotFound, "user is not a member of this organization")
	ErrCannotRemoveOwner        = newError(ErrValidation, "the organization owner cannot be removed")
	ErrNotOrganizationMember    = newError(ErrForbidden, "organization membership required")
	ErrNotOrganizationAdmin     = newError(ErrForbidden, "organization admin rights required")
	ErrMissingOrganizationID    = newError(ErrValidation, "organization_id is required")
)

// Opportunities and applications
var (
	ErrOpportunityNotFound  = newError(ErrNotFound, "opportunity not found")
	ErrTitleRequired        = newError(ErrValidation, "title is required")
	ErrInvalidSchedule      = newError(ErrValidation, "end date must not be before start date")
	ErrApplicationNotFound  = newError(ErrNotFound, "application not found")
	ErrDuplicateApplication = newError(ErrConflict, "application already exists")
	ErrInvalidDecision      = newError(ErrValidation, "decision must be accept or reject")
	ErrNotApplicant         = newError(ErrForbidden, "only the applicant may withdraw an application")
	ErrApplicationFinal     = newError(ErrInvalidTransition, "application has already been decided or withdrawn")
)

// Certificates
var (
	ErrCertificateNotFound = newError(ErrNotFound, "certificate not found")
	ErrInvalidHours        = newError(ErrValidation, "hours must be greater than zero")
	ErrVolunteerRequired   = newError(ErrValidation, "volunteer_id or volunteer_email is required")
	ErrVolunteerNotFound   = newError(ErrNotFound, "volunteer not found")
	ErrInvalidRecipient    = newError(ErrValidation, "cannot issue certificates to admin accounts")
	ErrOpportunityMismatch = newError(ErrValidation, "opportunity does not belong to this organization")
	ErrNotesTooLong        = newError(ErrValidation, "notes must be at most 500 characters")
	ErrCertificateAccess   = newError(ErrForbidden, "not allowed to access this certificate")
	ErrCertificateFileGone = newError(ErrNotFound, "certificate file not available")
)

// Videos and contact
var (
	ErrVideoNotFound      = newError(ErrNotFound, "video submission not found")
	ErrInvalidVideoTitle  = newError(ErrValidation, "title must be between 3 and 255 characters")
	ErrInvalidVideoURL    = newError(ErrValidation, "video_url must be an http or https URL")
	ErrInvalidVideoStatus = newError(ErrValidation, "status must be submitted, approved or rejected")
	ErrInvalidContact     = newError(ErrValidation, "name, a valid email and a message are required")
)
