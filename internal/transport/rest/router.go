package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	internal "github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/audit"
	"github.com/skillz-hq/skillz/internal/auth"
	"github.com/skillz-hq/skillz/internal/catalog"
	"github.com/skillz-hq/skillz/internal/skills"
	"github.com/skillz-hq/skillz/internal/transport/middleware"
	"github.com/skillz-hq/skillz/internal/transport/swagger"
	"github.com/skillz-hq/skillz/internal/user"
)

// RegisterAllRoutes wires every page and endpoint onto the router. Paths are
// root-level because the pages link to each other by absolute path.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, gate *auth.Gate, authHandler *auth.Handler, userHandler *user.Handler, catalogHandler *catalog.Handler, skillsHandler *skills.Handler, auditHandler *audit.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	// Public routes
	router.Get("/install", userHandler.Install)
	router.Get("/login", authHandler.GetLogin)
	router.Post("/login", authHandler.Login)
	router.Get("/logout", authHandler.Logout)

	// Public catalog browsing; the session is optional here
	router.Group(func(r chi.Router) {
		r.Use(gate.Optional())
		r.Get("/search", catalogHandler.Search)
		r.Get("/skill_details/{skill_id}", skillsHandler.SkillDetails)
	})

	// Privacy pages stay reachable before consent is given
	router.Group(func(r chi.Router) {
		r.Use(gate.RequireNoConsent(internal.RoleUser, internal.RoleAdmin))
		r.Get("/privacy", authHandler.GetPrivacy)
		r.Post("/privacy", authHandler.AcceptPrivacy)
	})

	// Routes for any authenticated, consenting user
	router.Group(func(r chi.Router) {
		r.Use(gate.Require(internal.RoleUser, internal.RoleAdmin))
		r.Get("/", skillsHandler.MySkills)
		r.Get("/skills", skillsHandler.BrowseSkills)
		r.Post("/set_skill", skillsHandler.SetSkill)
		r.Get("/removeprivacy", authHandler.GetRemovePrivacy)
		r.Post("/removeprivacy", authHandler.RevokePrivacy)
	})

	// Admin-only routes
	router.Group(func(r chi.Router) {
		r.Use(gate.Require(internal.RoleAdmin))

		r.Get("/users", userHandler.ListUsers)
		r.Get("/create_user", userHandler.GetCreateUser)
		r.Post("/create_user", userHandler.CreateUser)
		r.Post("/toggle_senior", userHandler.ToggleSenior)

		r.Get("/categories", catalogHandler.GetCategories)
		r.Get("/create_category", catalogHandler.GetCreateCategory)
		r.Post("/create_category", catalogHandler.CreateCategory)
		r.Post("/delete_category", catalogHandler.DeleteCategory)
		r.Get("/showskills/{category_id}", catalogHandler.ShowSkills)
		r.Post("/createskill/{category_id}", catalogHandler.CreateSkill)
		r.Post("/deleteskill", catalogHandler.DeleteSkill)

		r.Get("/audit", auditHandler.List)
	})
}
