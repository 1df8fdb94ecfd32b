package services

import (
	"context"

	"priority-notes/database"
	"priority-notes/models"
	"priority-notes/worker"
)

// NoteStore defines the data access the repository needs.
// Production uses database.NoteStore.
type NoteStore interface {
	Insert(ctx context.Context, note *models.Note) error
	Update(ctx context.Context, note models.Note) error
	Delete(ctx context.Context, note models.Note) error
	DeleteAll(ctx context.Context) error
	Live() *database.LiveQuery
}

// Dispatcher runs work off the caller's goroutine.
// Production uses worker.Worker.
type Dispatcher interface {
	Submit(name string, task worker.Task)
	Flush(ctx context.Context) error
}
