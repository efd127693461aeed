package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
	"github.com/j-bridge/volunteerhub.com/internal/services"
)

var errUnknownCommand = errors.New("unknown command")

type cli struct {
	store *repository.Store
	log   logrus.FieldLogger
	out   io.Writer
	// cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	cost int
}

func (c *cli) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "create-user":
		return c.createUser(ctx, args)
	case "set-role":
		return c.setRole(ctx, args)
	case "seed":
		return c.seed(ctx)
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, name)
	}
}

func (c *cli) createUser(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("create-user", pflag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	role := fs.String("role", string(models.RoleVolunteer), "volunteer, organization or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parsed, err := models.ParseRole(*role)
	if err != nil {
		return err
	}
	user, err := c.insertUser(ctx, *email, *password, *name, parsed)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created user %d <%s> role=%s\n", user.ID, user.Email, user.Role)
	return nil
}

func (c *cli) insertUser(ctx context.Context, email, password, name string, role models.Role) (*models.User, error) {
	email = services.NormalizeEmail(email)
	if email == "" {
		return nil, services.ErrInvalidEmail
	}
	if err := services.CheckPassword(password); err != nil {
		return nil, err
	}
	cost := c.cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := c.store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, services.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (c *cli) setRole(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("set-role", pflag.ContinueOnError)
	email := fs.String("email", "", "account email")
	role := fs.String("role", "", "volunteer, organization or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parsed, err := models.ParseRole(*role)
	if err != nil {
		return err
	}

	return c.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.FindByEmail(ctx, services.NormalizeEmail(*email))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrUserNotFound
		} else if err != nil {
			return err
		}
		if user.Role == models.RoleAdmin && parsed != models.RoleAdmin && user.IsActive {
			admins, err := tx.Users.CountActiveByRole(ctx, models.RoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return services.ErrLastAdmin
			}
		}

		user.Role = parsed
		if err := tx.Users.Update(ctx, user); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "user %d <%s> role=%s\n", user.ID, user.Email, user.Role)
		return nil
	})
}

// seed inserts a site admin, an organization with an owner, and a few
// opportunities. Running it again leaves existing rows alone.
func (c *cli) seed(ctx context.Context) error {
	const password = "ChangeMe123"

	admin, err := c.ensureUser(ctx, "admin@volunteerhub.local", password, "Site Admin", models.RoleAdmin)
	if err != nil {
		return err
	}
	owner, err := c.ensureUser(ctx, "coordinator@volunteerhub.local", password, "Demo Coordinator", models.RoleOrganization)
	if err != nil {
		return err
	}
	if _, err := c.ensureUser(ctx, "volunteer@volunteerhub.local", password, "Demo Volunteer", models.RoleVolunteer); err != nil {
		return err
	}

	orgs := services.NewOrganizationService(c.store, c.log)
	org, err := c.store.Organizations.FindByOwnerID(ctx, owner.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		org, err = orgs.CreateOrganization(ctx, owner.ID, services.CreateOrganizationInput{
			Name:        "Riverside Food Bank",
			Description: "Weekly food distribution for the neighborhood.",
		})
	}
	if err != nil {
		return err
	}

	opps := services.NewOpportunityService(c.store, c.log)
	existing := 0
	for _, err := range opps.List(ctx, services.OpportunityListFilter{OrganizationID: &org.ID}) {
		if err != nil {
			return err
		}
		existing++
	}
	if existing == 0 {
		start := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
		end := start.Add(4 * time.Hour)
		for _, in := range []services.CreateOpportunityInput{
			{Title: "Sort donations", Location: "Riverside warehouse", StartDate: &start, EndDate: &end},
			{Title: "Deliver groceries", Location: "Riverside", Description: "Drivers with their own car."},
		} {
			in.OrganizationID = &org.ID
			if _, err := opps.Create(ctx, owner.ID, in); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(c.out, "seeded admin=%d organization=%d (password %q)\n", admin.ID, org.ID, password)
	return nil
}

func (c *cli) ensureUser(ctx context.Context, email, password, name string, role models.Role) (*models.User, error) {
	user, err := c.store.Users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return c.insertUser(ctx, email, password, name, role)
}
