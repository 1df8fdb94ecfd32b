package handlers

import (
	"priority-notes/app"
	"priority-notes/config"
	"priority-notes/views"

	"github.com/gofiber/fiber/v2"
)

func HomePage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := a.ViewModel.AllNotes().Current(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch notes", err)
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return views.NotesPage(notes, config.AppConfig.Env).Render(c.UserContext(), c.Response().BodyWriter())
	}
}

// Health reports liveness and the number of stored notes
func Health(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := a.Store.Count(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Database unavailable", err)
		}
		return success(c, fiber.Map{"status": "ok", "notes": count})
	}
}
