// Package router assembles the HTTP API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/j-bridge/volunteerhub.com/internal/handlers"
	"github.com/j-bridge/volunteerhub.com/internal/metrics"
	"github.com/j-bridge/volunteerhub.com/internal/middleware"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/services"
	"github.com/j-bridge/volunteerhub.com/internal/tokens"
)

// Services is the set of use cases served over HTTP.
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Organizations *services.OrganizationService
	Opportunities *services.OpportunityService
	Applications  *services.ApplicationService
	Certificates  *services.CertificateService
	Videos        *services.VideoService
	Admin         *services.AdminService
	Contact       *services.ContactService
}

// Options configures the engine.
type Options struct {
	Services Services
	Tokens   *tokens.Manager
	Metrics  *metrics.Metrics
	Logger   logrus.FieldLogger
	// AuthLimiter throttles credential endpoints. Nil disables throttling.
	AuthLimiter *middleware.IPRateLimiter
}

// New builds the gin engine with every route registered.
func New(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}

	svc := opts.Services
	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.Auth, svc.Users)
	orgHandler := handlers.NewOrganizationHandler(svc.Organizations)
	oppHandler := handlers.NewOpportunityHandler(svc.Opportunities, svc.Applications)
	appHandler := handlers.NewApplicationHandler(svc.Applications)
	certHandler := handlers.NewCertificateHandler(svc.Certificates)
	videoHandler := handlers.NewVideoHandler(svc.Videos)
	adminHandler := handlers.NewAdminHandler(svc.Admin, svc.Contact)

	requireAuth := middleware.RequireAuth(opts.Tokens)
	optionalAuth := middleware.OptionalAuth(opts.Tokens)
	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.AuthLimiter != nil {
		throttle = opts.AuthLimiter.Middleware()
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "VolunteerHub API is running",
		})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", throttle, authHandler.Register)
			auth.POST("/login", throttle, authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/forgot-password", throttle, authHandler.ForgotPassword)
			auth.POST("/reset-password", throttle, authHandler.ResetPassword)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/me", userHandler.Me)
			users.PATCH("/me", userHandler.UpdateMe)
			users.GET("", middleware.RequireRole(models.RoleAdmin), userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.POST("/:id/role", middleware.RequireRole(models.RoleAdmin), userHandler.ChangeRole)
			users.PATCH("/:id/active", middleware.RequireRole(models.RoleAdmin), userHandler.SetActive)
		}

		orgs := api.Group("/orgs")
		{
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/mine", requireAuth, orgHandler.ListMyOrganizations)
			orgs.POST("", requireAuth, orgHandler.CreateOrganization)
			orgs.GET("/:id", orgHandler.GetOrganization)
			orgs.PATCH("/:id", requireAuth, orgHandler.UpdateOrganization)
			orgs.GET("/:id/members", requireAuth, orgHandler.ListMembers)
			orgs.POST("/:id/members", requireAuth, orgHandler.AddMember)
			orgs.DELETE("/:id/members/:user_id", requireAuth, orgHandler.RemoveMember)
		}

		opps := api.Group("/opportunities")
		{
			opps.GET("", oppHandler.ListOpportunities)
			opps.GET("/:id", oppHandler.GetOpportunity)
			opps.POST("", requireAuth, oppHandler.CreateOpportunity)
			opps.PATCH("/:id", requireAuth, oppHandler.UpdateOpportunity)
			opps.DELETE("/:id", requireAuth, oppHandler.DeleteOpportunity)
			opps.GET("/:id/applications", requireAuth, oppHandler.ListApplications)
		}

		apps := api.Group("/applications")
		apps.Use(requireAuth)
		{
			apps.POST("", appHandler.CreateApplication)
			apps.GET("/my", appHandler.ListMyApplications)
			apps.PATCH("/:id/review", appHandler.ReviewApplication)
			apps.PATCH("/:id/withdraw", appHandler.WithdrawApplication)
		}

		certs := api.Group("/certificates")
		{
			certs.POST("", requireAuth, certHandler.IssueCertificate)
			certs.GET("", requireAuth, certHandler.ListCertificates)
			certs.GET("/:id", requireAuth, certHandler.GetCertificate)
			certs.GET("/:id/pdf", optionalAuth, certHandler.DownloadCertificate)
		}

		videos := api.Group("/videos")
		{
			videos.GET("", optionalAuth, videoHandler.ListVideos)
			videos.GET("/my", requireAuth, videoHandler.ListMyVideos)
			videos.POST("", requireAuth, videoHandler.CreateVideo)
			videos.PATCH("/:id/status", requireAuth, middleware.RequireRole(models.RoleAdmin), videoHandler.UpdateVideoStatus)
		}

		api.GET("/admin/summary", requireAuth, middleware.RequireRole(models.RoleAdmin), adminHandler.Summary)
		api.POST("/contact", throttle, adminHandler.Contact)
	}

	return r
}
