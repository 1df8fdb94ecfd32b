package editor

import (
	"testing"

	"priority-notes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTarget is a mock implementation of Target interface
type MockTarget struct {
	mock.Mock
}

var _ Target = (*MockTarget)(nil)

func (m *MockTarget) Insert(note models.Note) { m.Called(note) }
func (m *MockTarget) Update(note models.Note) { m.Called(note) }

func TestNewAddForm(t *testing.T) {
	f := NewAddForm()

	assert.Equal(t, ModeAdd, f.Mode())
	assert.Equal(t, "Add Note", f.Mode().String())
	assert.Zero(t, f.ID())
	assert.Empty(t, f.Title())
	assert.Empty(t, f.Description())
	assert.Equal(t, 1, f.Priority())
}

func TestNewEditFormIsPrefilled(t *testing.T) {
	f := NewEditForm(models.Note{ID: 3, Title: "T", Description: "D", Priority: 7})

	assert.Equal(t, ModeEdit, f.Mode())
	assert.Equal(t, "Edit Note", f.Mode().String())
	assert.Equal(t, int64(3), f.ID())
	assert.Equal(t, "T", f.Title())
	assert.Equal(t, "D", f.Description())
	assert.Equal(t, 7, f.Priority())
}

func TestSetPriorityClamps(t *testing.T) {
	f := NewAddForm()

	f.SetPriority(0)
	assert.Equal(t, 1, f.Priority())
	f.SetPriority(42)
	assert.Equal(t, 10, f.Priority())
	f.SetPriority(6)
	assert.Equal(t, 6, f.Priority())
}

func TestSave(t *testing.T) {
	tests := []struct {
		name        string
		form        func() *Form
		wantErr     error
		wantNote    models.Note
		errContains string
	}{
		{
			name: "Add with valid input",
			form: func() *Form {
				f := NewAddForm()
				f.SetTitle("T")
				f.SetDescription("D")
				f.SetPriority(5)
				return f
			},
			wantNote: models.Note{Title: "T", Description: "D", Priority: 5},
		},
		{
			name: "Edit keeps the original id",
			form: func() *Form {
				f := NewEditForm(models.Note{ID: 3, Title: "old", Description: "old", Priority: 2})
				f.SetTitle("X")
				return f
			},
			wantNote: models.Note{ID: 3, Title: "X", Description: "old", Priority: 2},
		},
		{
			name: "Empty title rejected",
			form: func() *Form {
				f := NewAddForm()
				f.SetDescription("D")
				return f
			},
			wantErr: ErrEmptyFields,
		},
		{
			name: "Whitespace description rejected",
			form: func() *Form {
				f := NewAddForm()
				f.SetTitle("T")
				f.SetDescription("   ")
				return f
			},
			wantErr: ErrEmptyFields,
		},
		{
			name: "Whitespace title rejected on edit",
			form: func() *Form {
				f := NewEditForm(models.Note{ID: 3, Title: "T", Description: "D", Priority: 2})
				f.SetTitle("\t")
				return f
			},
			wantErr: ErrEmptyFields,
		},
		{
			name: "Filled priority out of range rejected",
			form: func() *Form {
				f := NewAddForm()
				f.Fill(models.NoteRequest{Title: "T", Description: "D", Priority: 11})
				return f
			},
			errContains: "priority must be less than or equal to 10",
		},
		{
			name: "Edit without id rejected",
			form: func() *Form {
				return NewEditForm(models.Note{Title: "T", Description: "D", Priority: 2})
			},
			wantErr: ErrMissingID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.form()
			note, err := f.Save()

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantNote, note)
			}
		})
	}
}

func TestSaveKeepsInputOnRejection(t *testing.T) {
	f := NewAddForm()
	f.SetTitle("Draft")
	f.SetPriority(4)

	_, err := f.Save()
	require.ErrorIs(t, err, ErrEmptyFields)

	assert.Equal(t, "Draft", f.Title())
	assert.Equal(t, 4, f.Priority())

	f.SetDescription("now complete")
	note, err := f.Save()
	require.NoError(t, err)
	assert.Equal(t, "now complete", note.Description)
}

func TestSubmit(t *testing.T) {
	t.Run("Add goes to Insert", func(t *testing.T) {
		target := new(MockTarget)
		target.On("Insert", models.Note{Title: "T", Description: "D", Priority: 1}).Once()

		f := NewAddForm()
		f.SetTitle("T")
		f.SetDescription("D")

		_, err := Submit(f, target)
		require.NoError(t, err)
		target.AssertExpectations(t)
		target.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("Edit goes to Update", func(t *testing.T) {
		target := new(MockTarget)
		edited := models.Note{ID: 8, Title: "T", Description: "D2", Priority: 9}
		target.On("Update", edited).Once()

		f := NewEditForm(models.Note{ID: 8, Title: "T", Description: "D", Priority: 9})
		f.SetDescription("D2")

		_, err := Submit(f, target)
		require.NoError(t, err)
		target.AssertExpectations(t)
		target.AssertNotCalled(t, "Insert", mock.Anything)
	})

	t.Run("Rejected save reaches nothing", func(t *testing.T) {
		for _, f := range []*Form{NewAddForm(), NewEditForm(models.Note{ID: 1, Title: " ", Description: "D", Priority: 1})} {
			target := new(MockTarget)
			_, err := Submit(f, target)
			assert.ErrorIs(t, err, ErrEmptyFields)
			assert.Empty(t, target.Calls)
		}
	})
}
