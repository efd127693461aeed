package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
	"github.com/j-bridge/volunteerhub.com/internal/utils"
)

// UserService provides admin operations over accounts.
type UserService struct {
	store *repository.Store
	log   logrus.FieldLogger
}

// NewUserService creates a new UserService.
func NewUserService(store *repository.Store, log logrus.FieldLogger) *UserService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &UserService{store: store, log: log.WithField("service", "users")}
}

func (s *UserService) requireAdmin(ctx context.Context, users repository.UserRepository, actorID uint64) (*models.User, error) {
	actor, err := loadActor(ctx, users, actorID)
	if err != nil {
		return nil, err
	}
	if !IsSiteAdmin(actor) {
		return nil, ErrAdminRequired
	}
	return actor, nil
}

// ListUsers returns all accounts newest first.
func (s *UserService) ListUsers(ctx context.Context, actorID uint64, params utils.PaginationParams) ([]models.User, int64, error) {
	if _, err := s.requireAdmin(ctx, s.store.Users, actorID); err != nil {
		return nil, 0, err
	}
	users, total, err := s.store.Users.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser returns an account. Users may read themselves; admins may read anyone.
func (s *UserService) GetUser(ctx context.Context, actorID, targetID uint64) (*models.User, error) {
	actor, err := loadActor(ctx, s.store.Users, actorID)
	if err != nil {
		return nil, err
	}
	if actor.ID == targetID {
		return actor, nil
	}
	if !IsSiteAdmin(actor) {
		return nil, ErrAdminRequired
	}
	return s.findTarget(ctx, s.store.Users, targetID)
}

// ChangeRole overwrites a user's global role. Demoting the last active admin is refused.
func (s *UserService) ChangeRole(ctx context.Context, actorID, targetID uint64, role string) (*models.User, error) {
	newRole, err := models.ParseRole(role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	var target *models.User
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := s.requireAdmin(ctx, tx.Users, actorID); err != nil {
			return err
		}

		var err error
		target, err = s.findTarget(ctx, tx.Users, targetID)
		if err != nil {
			return err
		}

		if target.Role == models.RoleAdmin && newRole != models.RoleAdmin && target.IsActive {
			if err := s.ensureAnotherAdmin(ctx, tx.Users); err != nil {
				return err
			}
		}

		target.Role = newRole
		if err := tx.Users.Update(ctx, target); err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"actor_id": actorID, "user_id": targetID, "role": newRole}).Info("User role changed")
	return target, nil
}

// SetActive activates or deactivates an account.
func (s *UserService) SetActive(ctx context.Context, actorID, targetID uint64, active bool) (*models.User, error) {
	var target *models.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := s.requireAdmin(ctx, tx.Users, actorID); err != nil {
			return err
		}

		var err error
		target, err = s.findTarget(ctx, tx.Users, targetID)
		if err != nil {
			return err
		}

		if !active && target.IsActive && target.Role == models.RoleAdmin {
			if err := s.ensureAnotherAdmin(ctx, tx.Users); err != nil {
				return err
			}
		}

		target.IsActive = active
		if err := tx.Users.Update(ctx, target); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"actor_id": actorID, "user_id": targetID, "active": active}).Info("User activation changed")
	return target, nil
}

func (s *UserService) findTarget(ctx context.Context, users repository.UserRepository, id uint64) (*models.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *UserService) ensureAnotherAdmin(ctx context.Context, users repository.UserRepository) error {
	admins, err := users.CountActiveByRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}
