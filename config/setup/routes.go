package setup

import (
	"priority-notes/app"
	"priority-notes/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	fiberApp.Get("/", handlers.HomePage(application))
	fiberApp.Get("/health", handlers.Health(application))

	api := fiberApp.Group("/api")

	api.Get("/notes/stream", handlers.StreamNotes(application))
	api.Get("/notes", handlers.GetNotes(application))
	api.Get("/notes/:id<int>", handlers.GetNote(application))
	api.Post("/notes", handlers.CreateNote(application))
	api.Put("/notes/:id<int>", handlers.UpdateNote(application))
	api.Delete("/notes/:id<int>", handlers.DeleteNote(application))
	api.Delete("/notes", handlers.DeleteAllNotes(application))
}
