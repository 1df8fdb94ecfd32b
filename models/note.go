package models

const (
	MinPriority = 1
	MaxPriority = 10
)

// Note is a single row of the note table. ID is zero until the note has been
// persisted; after that it never changes.
type Note struct {
	ID          int64  `json:"id" yaml:"id,omitempty"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Priority    int    `json:"priority" yaml:"priority"`
}

// NoteRequest is the user input for the add and edit flows
type NoteRequest struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Priority    int    `json:"priority" validate:"gte=1,lte=10"`
}

// SameIdentity reports whether a and b are the same logical note.
func SameIdentity(a, b Note) bool {
	return a.ID == b.ID
}

// SameContent reports whether a and b render identically. ID is not compared.
func SameContent(a, b Note) bool {
	return a.Title == b.Title &&
		a.Description == b.Description &&
		a.Priority == b.Priority
}

// SameList reports whether two ordered lists hold the same notes in the same
// positions, by identity and content.
func SameList(a, b []Note) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !SameIdentity(a[i], b[i]) || !SameContent(a[i], b[i]) {
			return false
		}
	}
	return true
}

// PlaceholderNotes returns the notes a brand new store is seeded with
func PlaceholderNotes() []Note {
	return []Note{
		{Title: "Title 1", Description: "Description 1", Priority: 1},
		{Title: "Title 2", Description: "Description 2", Priority: 2},
		{Title: "Title 3", Description: "Description 3", Priority: 3},
	}
}
