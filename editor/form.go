// Package editor implements the add/edit note flow: a form pre-filled from an
// optional existing note that only produces a note when its input is valid.
package editor

import (
	"errors"
	"fmt"

	"priority-notes/models"
	"priority-notes/validator"
)

// NoticeEmptyFields is shown to the user when a save is rejected
const NoticeEmptyFields = "Please enter a description and a title"

// checker is safe for concurrent use and caches struct metadata
var checker = validator.New()

var (
	// ErrEmptyFields means title or description was blank at save time
	ErrEmptyFields = errors.New(NoticeEmptyFields)
	// ErrMissingID means an edit result came back without the note's id
	ErrMissingID = errors.New("note can't be updated: missing id")
)

// Mode tells whether a form creates a note or edits an existing one
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

// String returns the screen title for the mode
func (m Mode) String() string {
	if m == ModeEdit {
		return "Edit Note"
	}
	return "Add Note"
}

// Form holds the user's input while a note is being added or edited
type Form struct {
	mode        Mode
	id          int64
	title       string
	description string
	priority    int
}

// NewAddForm returns an empty form for a fresh note
func NewAddForm() *Form {
	return &Form{
		mode:     ModeAdd,
		priority: models.MinPriority,
	}
}

// NewEditForm returns a form pre-filled with note's fields. The note's id is
// carried through to the saved result.
func NewEditForm(note models.Note) *Form {
	f := &Form{
		mode:        ModeEdit,
		id:          note.ID,
		title:       note.Title,
		description: note.Description,
	}
	f.SetPriority(note.Priority)
	return f
}

func (f *Form) Mode() Mode          { return f.mode }
func (f *Form) ID() int64           { return f.id }
func (f *Form) Title() string       { return f.title }
func (f *Form) Description() string { return f.description }
func (f *Form) Priority() int       { return f.priority }

func (f *Form) SetTitle(title string) {
	f.title = title
}

func (f *Form) SetDescription(description string) {
	f.description = description
}

// SetPriority behaves like the range-restricted picker: values outside
// [MinPriority, MaxPriority] snap to the nearest bound.
func (f *Form) SetPriority(priority int) {
	switch {
	case priority < models.MinPriority:
		priority = models.MinPriority
	case priority > models.MaxPriority:
		priority = models.MaxPriority
	}
	f.priority = priority
}

// Fill copies free-form input into the form. Unlike SetPriority the priority
// is taken as is and checked by Save, for surfaces without a picker.
func (f *Form) Fill(req models.NoteRequest) {
	f.title = req.Title
	f.description = req.Description
	f.priority = req.Priority
}

// Save validates the input and returns the candidate note. The form keeps its
// input when the save is rejected so the user can correct it.
func (f *Form) Save() (models.Note, error) {
	req := models.NoteRequest{
		Title:       f.title,
		Description: f.description,
		Priority:    f.priority,
	}

	if err := checker.Validate(&req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && (errs.Has("title") || errs.Has("description")) {
			return models.Note{}, fmt.Errorf("%w: %v", ErrEmptyFields, errs)
		}
		return models.Note{}, err
	}

	if f.mode == ModeEdit && f.id == 0 {
		return models.Note{}, ErrMissingID
	}

	return models.Note{
		ID:          f.id,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	}, nil
}

// Target receives saved notes
type Target interface {
	Insert(note models.Note)
	Update(note models.Note)
}

// Submit saves the form and hands the result to target: Insert for a new
// note, Update for an edited one. A rejected save reaches nothing.
func Submit(f *Form, target Target) (models.Note, error) {
	note, err := f.Save()
	if err != nil {
		return models.Note{}, err
	}

	if f.mode == ModeEdit {
		target.Update(note)
	} else {
		target.Insert(note)
	}
	return note, nil
}
