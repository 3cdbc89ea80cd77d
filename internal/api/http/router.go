package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/internal/api/http/handlers"
	"github.com/spec-kit/cms-service/internal/auth"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

const msgRouteNotFound = "Route not found"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Projects    *handlers.ProjectsHandler
	Team        *handlers.TeamHandler
	Contact     *handlers.ContactHandler
	AccessGate  *auth.Middleware
	RateLimiter *RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Handle)
	}

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AccessGate.Handle)
	authProtected.Get("/user", cfg.Auth.GetUser)
	authProtected.Patch("/edit-profile", cfg.Auth.EditProfile)
	authProtected.Post("/reset-password", cfg.Auth.ResetPassword)
	authProtected.Get("/signed-url", cfg.Auth.SignedURL)

	projectGroup := api.Group("/project")
	projectGroup.Get("/", cfg.Projects.List)
	projectGroup.Get("/:id", cfg.Projects.GetByID)
	projectGroup.Post("/", cfg.AccessGate.Handle, cfg.Projects.Create)
	projectGroup.Patch("/:id", cfg.AccessGate.Handle, cfg.Projects.Update)
	projectGroup.Delete("/:id", cfg.AccessGate.Handle, cfg.Projects.Delete)

	teamGroup := api.Group("/team")
	teamGroup.Get("/", cfg.Team.List)
	teamGroup.Get("/:id", cfg.Team.GetByID)
	teamGroup.Post("/", cfg.AccessGate.Handle, cfg.Team.Create)
	teamGroup.Patch("/:id", cfg.AccessGate.Handle, cfg.Team.Update)
	teamGroup.Delete("/:id", cfg.AccessGate.Handle, cfg.Team.Delete)

	contactGroup := api.Group("/contact")
	contactGroup.Post("/", cfg.Contact.Create)
	contactGroup.Get("/", cfg.AccessGate.Handle, cfg.Contact.List)
	contactGroup.Get("/:id", cfg.AccessGate.Handle, cfg.Contact.GetByID)

	app.Use(func(c *fiber.Ctx) error {
		return envelope.Fail(c, msgRouteNotFound, http.StatusNotFound, map[string]any{
			"path": c.OriginalURL(),
		})
	})
}
