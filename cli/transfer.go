package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"priority-notes/editor"
	"priority-notes/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Document is the export file layout
type Document struct {
	Notes []models.Note `yaml:"notes" json:"notes"`
}

// formatFor picks the file format: the flag wins, then the file extension,
// then yaml
func formatFor(cmd *cobra.Command, path string) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = "json"
		default:
			format = "yaml"
		}
	}

	switch format {
	case "yaml", "yml":
		return "yaml", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use yaml or json)", format)
	}
}

// EncodeDocument writes doc in format
func EncodeDocument(w io.Writer, doc Document, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// DecodeDocument reads a document in format
func DecodeDocument(r io.Reader, format string) (Document, error) {
	var doc Document
	var err error
	if format == "json" {
		err = json.NewDecoder(r).Decode(&doc)
	} else {
		err = yaml.NewDecoder(r).Decode(&doc)
	}
	if err == io.EOF {
		return Document{}, nil
	}
	return doc, err
}

func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write all notes to a file, or stdout without one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			format, err := formatFor(cmd, path)
			if err != nil {
				return err
			}

			application, closeApp, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer closeApp()

			notes, err := application.ViewModel.AllNotes().Current(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read notes: %w", err)
			}

			if path == "" {
				return EncodeDocument(cmd.OutOrStdout(), Document{Notes: notes}, format)
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := EncodeDocument(f, Document{Notes: notes}, format); err != nil {
				f.Close()
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d notes to %s\n", color.New(color.FgGreen).Sprint("✓"), len(notes), path)
			return nil
		},
	}

	cmd.Flags().String("format", "", "yaml or json (default from the file extension)")

	return cmd
}

func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Add the notes of an exported file as new notes",
		Long: `Every note in the file goes through the same checks as "add" and gets a
new id. Notes that fail the checks are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := formatFor(cmd, path)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			doc, err := DecodeDocument(f, format)
			f.Close()
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			application, closeApp, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer closeApp()

			out := cmd.OutOrStdout()
			imported := 0
			for i, note := range doc.Notes {
				form := editor.NewAddForm()
				form.Fill(models.NoteRequest{Title: note.Title, Description: note.Description, Priority: note.Priority})

				if _, err := editor.Submit(form, application.ViewModel); err != nil {
					fmt.Fprintf(out, "%s skipped note %d (%q): %v\n", color.New(color.FgYellow).Sprint("!"), i+1, note.Title, describe(err))
					continue
				}
				imported++
			}

			if err := settle(cmd.Context(), application); err != nil {
				return fmt.Errorf("failed to import notes: %w", err)
			}

			fmt.Fprintf(out, "%s Imported %d of %d notes\n", color.New(color.FgGreen).Sprint("✓"), imported, len(doc.Notes))
			return nil
		},
	}

	cmd.Flags().String("format", "", "yaml or json (default from the file extension)")

	return cmd
}
