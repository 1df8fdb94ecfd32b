package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"priority-notes/app"
	"priority-notes/middleware"
	"priority-notes/models"

	"github.com/gofiber/fiber/v2"
)

// keepAlive is how often an idle stream writes a comment line. A failed
// write is how a disconnected client is noticed.
const keepAlive = 15 * time.Second

// StreamNotes sends the note list as server-sent events: once on connect and
// again after every change. The subscription lives as long as the connection.
func StreamNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		requestID := middleware.RequestID(c)

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			owner, cancel := context.WithCancel(context.Background())
			defer cancel()

			updates := make(chan []models.Note)
			sub := a.ViewModel.Observe(owner, func(notes []models.Note) {
				select {
				case updates <- notes:
				case <-owner.Done():
				}
			})

			a.Logger.Debug("note stream opened", "request_id", requestID)
			err := writeEvents(w, updates, sub.Done(), keepAlive)
			a.Logger.Debug("note stream closed", "request_id", requestID, "reason", err)
		})

		return nil
	}
}

// writeEvents copies note lists to w until done closes or a write fails.
// A list equal to the last one sent is skipped.
func writeEvents(w *bufio.Writer, updates <-chan []models.Note, done <-chan struct{}, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last []models.Note
	sent := false

	for {
		select {
		case <-done:
			return nil

		case notes := <-updates:
			if sent && models.SameList(last, notes) {
				continue
			}
			payload, err := json.Marshal(notes)
			if err != nil {
				return fmt.Errorf("failed to encode notes: %w", err)
			}
			if _, err := fmt.Fprintf(w, "event: notes\ndata: %s\n\n", payload); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
			last, sent = notes, true

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
}
