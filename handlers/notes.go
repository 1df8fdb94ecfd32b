package handlers

import (
	"errors"

	"priority-notes/app"
	"priority-notes/editor"
	"priority-notes/models"
	"priority-notes/services"
	"priority-notes/validator"

	"github.com/gofiber/fiber/v2"
)

const (
	msgSaved      = "Note Saved"
	msgUpdated    = "Note Updated"
	msgDeleted    = "Note deleted"
	msgAllDeleted = "All Notes Deleted"
	msgNotUpdated = "Note can't be updated"
)

// GetNotes returns the current note list ordered by priority
func GetNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := a.ViewModel.AllNotes().Current(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch notes", err)
		}

		return success(c, fiber.Map{"notes": notes})
	}
}

// GetNote returns one note from the current list, for pre-filling the editor
func GetNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Invalid note id")
		}

		note, err := a.ViewModel.Find(c.UserContext(), int64(id))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch note", err)
		}
		if note == nil {
			return notFound(c, services.ErrNoteNotFound.Error())
		}

		return success(c, fiber.Map{"note": note})
	}
}

// CreateNote runs the add flow. The note is queued and the response does not
// wait for it to be stored.
func CreateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseNoteRequest(c)
		if err != nil {
			return badRequest(c, "Invalid request body")
		}

		form := editor.NewAddForm()
		form.Fill(req)

		note, err := editor.Submit(form, a.ViewModel)
		if err != nil {
			return rejected(c, err)
		}

		return accepted(c, fiber.Map{"message": msgSaved, "note": note})
	}
}

// UpdateNote runs the edit flow for the note in the path, replacing every field
func UpdateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Invalid note id")
		}

		req, err := parseNoteRequest(c)
		if err != nil {
			return badRequest(c, "Invalid request body")
		}

		form := editor.NewEditForm(models.Note{ID: int64(id)})
		form.Fill(req)

		note, err := editor.Submit(form, a.ViewModel)
		if err != nil {
			return rejected(c, err)
		}

		return accepted(c, fiber.Map{"message": msgUpdated, "note": note})
	}
}

// DeleteNote removes the note in the path. An unknown id is not an error.
func DeleteNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Invalid note id")
		}

		a.ViewModel.Delete(models.Note{ID: int64(id)})

		return accepted(c, fiber.Map{"message": msgDeleted})
	}
}

func DeleteAllNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a.ViewModel.DeleteAll()
		return accepted(c, fiber.Map{"message": msgAllDeleted})
	}
}

// parseNoteRequest reads the body. An omitted priority keeps the picker's
// default.
func parseNoteRequest(c *fiber.Ctx) (models.NoteRequest, error) {
	req := models.NoteRequest{Priority: models.MinPriority}
	if err := c.BodyParser(&req); err != nil {
		return models.NoteRequest{}, err
	}
	return req, nil
}

func rejected(c *fiber.Ctx, err error) error {
	var errs validator.ValidationErrors
	switch {
	case errors.Is(err, editor.ErrEmptyFields):
		return badRequest(c, editor.NoticeEmptyFields)
	case errors.Is(err, editor.ErrMissingID):
		return badRequest(c, msgNotUpdated)
	case errors.As(err, &errs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": errs,
		})
	default:
		return serverErrorWithDetails(c, "Failed to save note", err)
	}
}
