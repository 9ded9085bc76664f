package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"notesapi/internal/http/middleware"
	"notesapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, authSvc service.AuthService, noteSvc service.NoteService, jwtSecret string) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	auth := app.Group("/auth")
	auth.Post("/signup", Signup(authSvc))
	auth.Post("/login", Login(authSvc))
	auth.Post("/logout", Logout())
	auth.Get("/me", middleware.RequireAuth(jwtSecret), Me(authSvc))

	notes := app.Group("/notes")
	notes.Get("/", ListNotes(noteSvc))
	notes.Get("/stats", middleware.OptionalAuth(jwtSecret), NoteStats(noteSvc))
	// Server-rendered browse page; must be registered before the :id route.
	notes.Get("/view", middleware.OptionalAuth(jwtSecret), NotesPage(noteSvc))
	notes.Post("/", middleware.RequireAuth(jwtSecret), UploadNote(noteSvc))
	notes.Get("/:id", GetNote(noteSvc))

	app.Get("/", middleware.OptionalAuth(jwtSecret), NotesPage(noteSvc))
}
