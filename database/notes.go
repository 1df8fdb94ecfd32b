package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"priority-notes/models"
)

// NoteStore is the data access object for note_table. Every successful
// mutation invalidates the live "all notes by priority" query.
type NoteStore struct {
	db   *DB
	live *LiveQuery
}

// NewNoteStore wraps db. onQueryError receives failures of the live query
// refresh and may be nil.
func NewNoteStore(db *DB, logger *slog.Logger, onQueryError func(error)) *NoteStore {
	s := &NoteStore{db: db}
	s.live = NewLiveQuery(s.AllByPriority, logger, onQueryError)
	return s
}

// ==================== NOTE OPERATIONS ====================

// Insert stores a new row and assigns note.ID
func (s *NoteStore) Insert(ctx context.Context, note *models.Note) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO note_table (title, description, priority)
		VALUES (?, ?, ?)
	`, note.Title, note.Description, note.Priority)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted note id: %w", err)
	}
	note.ID = id

	s.live.Invalidate()
	return nil
}

// Update replaces every column of the row with note.ID. A missing row is not
// an error.
func (s *NoteStore) Update(ctx context.Context, note models.Note) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE note_table
		SET title = ?, description = ?, priority = ?
		WHERE id = ?
	`, note.Title, note.Description, note.Priority, note.ID)
	if err != nil {
		return fmt.Errorf("failed to update note %d: %w", note.ID, err)
	}

	s.invalidateIfChanged(res)
	return nil
}

// Delete removes the row with note.ID. A missing row is not an error.
func (s *NoteStore) Delete(ctx context.Context, note models.Note) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM note_table WHERE id = ?`, note.ID)
	if err != nil {
		return fmt.Errorf("failed to delete note %d: %w", note.ID, err)
	}

	s.invalidateIfChanged(res)
	return nil
}

// DeleteAll clears the table
func (s *NoteStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM note_table`); err != nil {
		return fmt.Errorf("failed to delete all notes: %w", err)
	}

	s.live.Invalidate()
	return nil
}

// AllByPriority returns every note, lowest priority first. Equal priorities
// keep insertion order.
func (s *NoteStore) AllByPriority(ctx context.Context) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, priority
		FROM note_table
		ORDER BY priority ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Description, &note.Priority); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// Count returns the number of stored notes
func (s *NoteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM note_table`).Scan(&n)
	return n, err
}

// Live returns the observable "all notes by priority" query
func (s *NoteStore) Live() *LiveQuery {
	return s.live
}

// Close stops the live query. The database itself is left open.
func (s *NoteStore) Close() {
	s.live.Close()
}

func (s *NoteStore) invalidateIfChanged(res sql.Result) {
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return
	}
	s.live.Invalidate()
}
