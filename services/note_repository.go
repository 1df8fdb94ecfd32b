package services

import (
	"context"
	"fmt"

	"priority-notes/database"
	"priority-notes/models"
)

// faultBuffer is how many unread storage faults are kept before new ones are
// dropped
const faultBuffer = 16

// NoteRepository is the single entry point for note reads and writes. Every
// mutation is handed to the dispatcher and the call returns at once; the only
// sign of completion is the next emission of the live query.
type NoteRepository struct {
	store      NoteStore
	dispatcher Dispatcher
	faults     chan error
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(store NoteStore, dispatcher Dispatcher) *NoteRepository {
	return &NoteRepository{
		store:      store,
		dispatcher: dispatcher,
		faults:     make(chan error, faultBuffer),
	}
}

// Insert schedules a new note. The id is assigned by the store.
func (r *NoteRepository) Insert(note models.Note) {
	r.dispatch(fmt.Sprintf("insert note %q", note.Title), func(ctx context.Context) error {
		return r.store.Insert(ctx, &note)
	})
}

// Update schedules a full-row replace of the note with note.ID
func (r *NoteRepository) Update(note models.Note) {
	r.dispatch(fmt.Sprintf("update note %d", note.ID), func(ctx context.Context) error {
		return r.store.Update(ctx, note)
	})
}

// Delete schedules removal of the note with note.ID
func (r *NoteRepository) Delete(note models.Note) {
	r.dispatch(fmt.Sprintf("delete note %d", note.ID), func(ctx context.Context) error {
		return r.store.Delete(ctx, note)
	})
}

// DeleteAll schedules clearing every note
func (r *NoteRepository) DeleteAll() {
	r.dispatch("delete all notes", func(ctx context.Context) error {
		return r.store.DeleteAll(ctx)
	})
}

// GetAll returns the live list of notes ordered by priority
func (r *NoteRepository) GetAll() *database.LiveQuery {
	return r.store.Live()
}

// Flush waits until every mutation scheduled so far has been applied
func (r *NoteRepository) Flush(ctx context.Context) error {
	return r.dispatcher.Flush(ctx)
}

// Faults delivers storage errors from scheduled mutations. Reading it is
// optional; when nobody keeps up, the oldest unread faults are kept and newer
// ones dropped.
func (r *NoteRepository) Faults() <-chan error {
	return r.faults
}

func (r *NoteRepository) dispatch(name string, fn func(ctx context.Context) error) {
	r.dispatcher.Submit(name, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil {
			select {
			case r.faults <- fmt.Errorf("%s: %w", name, err):
			default:
			}
		}
		return err
	})
}
