package routes

import (
	"net/http"

	"github.com/BradenHooton/egaming/internal/auth"
	"github.com/BradenHooton/egaming/internal/handlers"
	"github.com/BradenHooton/egaming/internal/middleware"
	"github.com/BradenHooton/egaming/internal/models"
	"github.com/go-chi/chi/v5"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Auth   *handlers.AuthHandler
	Users  *handlers.UserHandler
	Games  *handlers.GameHandler
	Health http.HandlerFunc
}

// RegisterRoutes registers all application routes. Every route declares its
// access policy; the guard enforces it before the handler runs.
func RegisterRoutes(router chi.Router, h Handlers, guard *auth.Guard, authLimit middleware.RateLimitConfig) {
	public := guard.Protect(auth.Public())
	authenticated := guard.Protect(auth.Authenticated())
	admin := guard.Protect(auth.RequireRoles(models.RoleAdmin))

	router.With(public).Get("/health", h.Health)

	router.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(authLimit))

		r.With(public).Post("/register", h.Auth.Register)
		r.With(public).Post("/verify-email", h.Auth.VerifyEmail)
		r.With(public).Post("/login", h.Auth.Login)
		r.With(public).Post("/verify-login", h.Auth.VerifyLogin)
		r.With(public).Post("/request-password-reset", h.Auth.RequestPasswordReset)
		r.With(public).Post("/reset-password", h.Auth.ResetPassword)
		r.With(public).Post("/refresh", h.Auth.RefreshToken)
		r.With(authenticated).Get("/me", h.Auth.Me)
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(admin)

		r.Get("/", h.Users.ListUsers)
		r.Get("/auth-logs", h.Users.ListAuthLogs)
		r.Patch("/{id}/role", h.Users.UpdateRole)
		r.Get("/{id}/auth-logs", h.Users.ListUserAuthLogs)
	})

	router.Route("/games", func(r chi.Router) {
		r.With(public).Get("/", h.Games.ListActive)

		r.Group(func(r chi.Router) {
			r.Use(admin)

			r.Get("/admin", h.Games.ListAll)
			r.Post("/", h.Games.Create)
			r.Get("/{id}", h.Games.Get)
			r.Patch("/{id}", h.Games.Update)
			r.Delete("/{id}", h.Games.Delete)
		})
	})
}
