package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/metrics"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/notify"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
	"github.com/j-bridge/volunteerhub.com/internal/tokens"
)

// AuthService handles registration, credentials and tokens.
type AuthService struct {
	store    *repository.Store
	tokens   *tokens.Manager
	notifier Notifications
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
	resetURL string
	cost     int
}

// AuthOptions carries the optional collaborators of AuthService.
type AuthOptions struct {
	Metrics *metrics.Metrics
	Logger  logrus.FieldLogger
	// ResetURL is the frontend page that receives ?token=...
	ResetURL string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(store *repository.Store, tm *tokens.Manager, notifier Notifications, opts AuthOptions) *AuthService {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		store:    store,
		tokens:   tm,
		notifier: notifier,
		metrics:  opts.Metrics,
		log:      opts.Logger.WithField("service", "auth"),
		resetURL: opts.ResetURL,
		cost:     opts.BcryptCost,
	}
}

// RegisterInput represents the information needed to create an account.
type RegisterInput struct {
	Email            string
	Password         string
	Name             string
	Role             string
	OrganizationName string
}

// AuthResult is an authenticated user with a fresh token pair.
type AuthResult struct {
	User         *models.User
	Organization *models.Organization
	Tokens       tokens.Pair
}

// Register creates an account. Organization accounts that supply an
// organization name get that organization and an owner membership in the same
// transaction.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := NormalizeEmail(input.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := CheckPassword(input.Password); err != nil {
		return nil, err
	}

	role := models.RoleVolunteer
	if strings.TrimSpace(input.Role) != "" {
		parsed, err := models.ParseRole(input.Role)
		if err != nil || parsed == models.RoleAdmin {
			return nil, ErrRoleNotAllowed
		}
		role = parsed
	}

	if _, err := s.store.Users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
		IsActive:     true,
	}

	var org *models.Organization
	orgName := strings.TrimSpace(input.OrganizationName)
	if role == models.RoleOrganization && orgName != "" {
		org = &models.Organization{
			Name:         orgName,
			ContactEmail: email,
			IsActive:     true,
		}
		member := &models.OrganizationMember{
			Role:     models.MemberRoleOwner,
			JoinedAt: time.Now(),
		}
		if err := s.store.Users.CreateWithOrganization(ctx, user, org, member); err != nil {
			switch {
			case errors.Is(err, repository.ErrCreateUser) && errors.Is(err, repository.ErrDuplicate):
				return nil, ErrEmailTaken
			default:
				return nil, fmt.Errorf("failed to complete registration: %w", err)
			}
		}
	} else {
		if err := s.store.Users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, ErrEmailTaken
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.metrics.UserRegistered()
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")

	return &AuthResult{User: user, Organization: org, Tokens: pair}, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials. Unknown email, wrong password and inactive
// accounts are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.store.Users.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new access token with the same
// identity and role claim.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(refreshToken, tokens.PurposeRefresh)
	if err != nil {
		return "", ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", ErrInvalidToken
	}
	if _, err := loadActor(ctx, s.store.Users, userID); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	access, err := s.tokens.IssueAccess(userID, claims.Role)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return access, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the caller's display name.
func (s *AuthService) UpdateProfile(ctx context.Context, actorID uint64, name *string) (*models.User, error) {
	user, err := loadActor(ctx, s.store.Users, actorID)
	if err != nil {
		return nil, err
	}
	if name == nil {
		return user, nil
	}
	trimmed := strings.TrimSpace(*name)
	if len(trimmed) > 255 {
		return nil, validationf("name must be at most 255 characters")
	}
	user.Name = trimmed
	if err := s.store.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// RequestPasswordReset emails a reset link when the address belongs to an
// active account. The outcome is never reported to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) {
	entry := s.log.WithField("operation", "password_reset")

	user, err := s.store.Users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			entry.WithError(err).Error("Failed to look up user for password reset")
		}
		return
	}
	if !user.IsActive {
		return
	}

	token, err := s.tokens.IssueReset(user.ID)
	if err != nil {
		entry.WithError(err).Error("Failed to issue reset token")
		return
	}

	link := s.resetURL
	if link != "" {
		link += "?token=" + url.QueryEscape(token)
	} else {
		link = token
	}

	s.notifier.Enqueue("Reset your VolunteerHub password", []string{user.Email}, notify.TemplatePasswordReset, notify.PasswordResetData{
		Name:     user.DisplayName(),
		ResetURL: link,
		ValidFor: humanDuration(s.tokens.TTL(tokens.PurposePasswordReset)),
	})
}

// ResetPassword sets a new password for the holder of a valid reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Parse(token, tokens.PurposePasswordReset)
	if err != nil {
		return ErrInvalidToken
	}
	if err := CheckPassword(newPassword); err != nil {
		return err
	}
	userID, err := claims.UserID()
	if err != nil {
		return ErrInvalidToken
	}

	user, err := loadActor(ctx, s.store.Users, userID)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return ErrInvalidToken
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.store.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("Password reset")
	return nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= 48*time.Hour:
		return fmt.Sprintf("%d days", int(d.Hours()/24))
	case d >= 2*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d >= time.Hour:
		return "1 hour"
	default:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
}
