package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"priority-notes/config"
	"priority-notes/models"
	"priority-notes/services"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.Load()
	color.NoColor = true
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cli.db")
}

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--db", dbPath}, args...))

	err := root.Execute()
	return out.String(), err
}

func listNotes(t *testing.T, dbPath string) []models.Note {
	t.Helper()

	out, err := run(t, dbPath, "list", "--json")
	require.NoError(t, err)

	var notes []models.Note
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	return notes
}

func titles(notes []models.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}

func TestListTable(t *testing.T) {
	dbPath := setupTestDB(t)

	out, err := run(t, dbPath, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "PRIORITY")
	assert.Contains(t, lines[2], "Title 1")
	assert.Contains(t, lines[4], "Title 3")
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errContains string
		wantTitles  []string
	}{
		{
			name:       "Valid note sorted by priority",
			args:       []string{"add", "Pay rent", "Before friday", "--priority", "2"},
			wantTitles: []string{"Title 1", "Title 2", "Pay rent", "Title 3"},
		},
		{
			name:       "Default priority",
			args:       []string{"add", "Call", "Mum"},
			wantTitles: []string{"Title 1", "Call", "Title 2", "Title 3"},
		},
		{
			name:        "Blank title",
			args:        []string{"add", "  ", "Mum"},
			errContains: "Please enter a description and a title",
			wantTitles:  []string{"Title 1", "Title 2", "Title 3"},
		},
		{
			name:        "Priority out of range",
			args:        []string{"add", "T", "D", "-p", "11"},
			errContains: "priority must be less than or equal to 10",
			wantTitles:  []string{"Title 1", "Title 2", "Title 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := setupTestDB(t)

			out, err := run(t, dbPath, tt.args...)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
				assert.Contains(t, out, "Note Saved")
			}

			assert.Equal(t, tt.wantTitles, titles(listNotes(t, dbPath)))
		})
	}
}

func TestEdit(t *testing.T) {
	dbPath := setupTestDB(t)

	out, err := run(t, dbPath, "edit", "1", "--priority", "9", "--description", "Moved down")
	require.NoError(t, err)
	assert.Contains(t, out, "Note Updated")

	notes := listNotes(t, dbPath)
	assert.Equal(t, []string{"Title 2", "Title 3", "Title 1"}, titles(notes))
	assert.Equal(t, int64(1), notes[2].ID)
	assert.Equal(t, "Moved down", notes[2].Description)
	assert.Equal(t, 9, notes[2].Priority)

	_, err = run(t, dbPath, "edit", "99", "--title", "X")
	assert.ErrorIs(t, err, services.ErrNoteNotFound)

	_, err = run(t, dbPath, "edit", "2", "--title", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please enter a description and a title")

	_, err = run(t, dbPath, "edit", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid note id")

	assert.Equal(t, []string{"Title 2", "Title 3", "Title 1"}, titles(listNotes(t, dbPath)))
}

func TestDeleteAndClear(t *testing.T) {
	dbPath := setupTestDB(t)

	out, err := run(t, dbPath, "delete", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Note deleted")
	assert.Equal(t, []string{"Title 1", "Title 3"}, titles(listNotes(t, dbPath)))

	// Unknown ids are ignored
	_, err = run(t, dbPath, "delete", "99")
	require.NoError(t, err)
	assert.Len(t, listNotes(t, dbPath), 2)

	out, err = run(t, dbPath, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "All Notes Deleted")

	out, err = run(t, dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No notes found")

	// Placeholders are seeded once per file, never again after a clear
	assert.Empty(t, listNotes(t, dbPath))
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, file := range []string{"notes.yaml", "notes.json"} {
		t.Run(file, func(t *testing.T) {
			dbPath := setupTestDB(t)
			exportPath := filepath.Join(t.TempDir(), file)

			_, err := run(t, dbPath, "add", "Extra", "note", "-p", "7")
			require.NoError(t, err)
			before := listNotes(t, dbPath)

			out, err := run(t, dbPath, "export", exportPath)
			require.NoError(t, err)
			assert.Contains(t, out, "Exported 4 notes")

			_, err = run(t, dbPath, "clear")
			require.NoError(t, err)

			out, err = run(t, dbPath, "import", exportPath)
			require.NoError(t, err)
			assert.Contains(t, out, "Imported 4 of 4 notes")

			after := listNotes(t, dbPath)
			require.Len(t, after, len(before))
			for i := range before {
				assert.True(t, models.SameContent(before[i], after[i]), "note %d", i)
				assert.NotEqual(t, before[i].ID, after[i].ID, "imported notes get new ids")
			}
		})
	}
}

func TestExportToStdout(t *testing.T) {
	dbPath := setupTestDB(t)

	out, err := run(t, dbPath, "export", "--format", "json")
	require.NoError(t, err)

	doc, err := DecodeDocument(strings.NewReader(out), "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"Title 1", "Title 2", "Title 3"}, titles(doc.Notes))

	_, err = run(t, dbPath, "export", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestImportSkipsInvalidNotes(t *testing.T) {
	dbPath := setupTestDB(t)
	importPath := filepath.Join(t.TempDir(), "in.yml")

	content := `notes:
  - title: Good
    description: fine
    priority: 4
  - title: ""
    description: no title
    priority: 4
  - title: Loud
    description: too important
    priority: 0
`
	require.NoError(t, os.WriteFile(importPath, []byte(content), 0o644))

	out, err := run(t, dbPath, "import", importPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 of 3 notes")
	assert.Contains(t, out, "skipped note 2")
	assert.Contains(t, out, "skipped note 3")

	assert.Equal(t, []string{"Title 1", "Title 2", "Title 3", "Good"}, titles(listNotes(t, dbPath)))
}

func TestDocumentEncoding(t *testing.T) {
	doc := Document{Notes: []models.Note{{ID: 3, Title: "T", Description: "D", Priority: 2}}}

	var buf bytes.Buffer
	require.NoError(t, EncodeDocument(&buf, doc, "yaml"))
	assert.Equal(t, "notes:\n  - id: 3\n    title: T\n    description: D\n    priority: 2\n", buf.String())

	empty, err := DecodeDocument(strings.NewReader(""), "yaml")
	require.NoError(t, err)
	assert.Empty(t, empty.Notes)
}
