package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"priority-notes/editor"
	"priority-notes/models"
	"priority-notes/services"
	"priority-notes/validator"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// priorityColor marks a priority the same way the web badges do
func priorityColor(priority int) *color.Color {
	switch {
	case priority <= 3:
		return color.New(color.FgRed, color.Bold)
	case priority <= 6:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, most important first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			application, closeApp, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer closeApp()

			notes, err := application.ViewModel.AllNotes().Current(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list notes: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(notes)
			}

			if len(notes) == 0 {
				fmt.Fprintln(out, "No notes found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRIORITY\tTITLE\tDESCRIPTION")
			fmt.Fprintln(w, "--\t--------\t-----\t-----------")
			for _, n := range notes {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n.ID, priorityColor(n.Priority).Sprint(n.Priority), n.Title, n.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Bool("json", false, "Print the list as JSON")

	return cmd
}

func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [title] [description]",
		Short: "Add a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, _ := cmd.Flags().GetInt("priority")

			form := editor.NewAddForm()
			form.Fill(models.NoteRequest{Title: args[0], Description: args[1], Priority: priority})

			application, closeApp, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer closeApp()

			if _, err := editor.Submit(form, application.ViewModel); err != nil {
				return describe(err)
			}
			if err := settle(cmd.Context(), application); err != nil {
				return fmt.Errorf("failed to save note: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Note Saved\n", color.New(color.FgGreen).Sprint("✓"))
			return nil
		},
	}

	cmd.Flags().IntP("priority", "p", models.MinPriority, "Priority from 1 (highest) to 10")

	return cmd
}

func EditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [note-id]",
		Short: "Edit a note; fields without a flag keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			application, closeApp, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer closeApp()

			note, err := application.ViewModel.Find(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load note: %w", err)
			}
			if note == nil {
				return fmt.Errorf("%w: %d", services.ErrNoteNotFound, id)
			}

			req := models.NoteRequest{Title: note.Title, Description: note.Description, Priority: note.Priority}
			if cmd.Flags().Changed("title") {
				req.Title, _ = cmd.Flags().GetString("title")
			}
			if cmd.Flags().Changed("description") {
				req.Description, _ = cmd.Flags().GetString("description")
			}
			if cmd.Flags().Changed("priority") {
				req.Priority, _ = cmd.Flags().GetInt("priority")
			}

			form := editor.NewEditForm(*note)
			form.Fill(req)

			if _, err := editor.Submit(form, application.ViewModel); err != nil {
				return describe(err)
			}
			if err := settle(cmd.Context(), application); err != nil {
				return fmt.Errorf("failed to update note: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Note Updated\n", color.New(color.FgGreen).Sprint("✓"))
			return nil
		},
	}

	cmd.Flags().StringP("title", "t", "", "New title")
	cmd.Flags().StringP("description", "d", "", "New description")
	cmd.Flags().IntP("priority", "p", models.MinPriority, "New priority from 1 (highest) to 10")

	return cmd
}

func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [note-id]",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			application, closeApp, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer closeApp()

			application.ViewModel.Delete(models.Note{ID: id})
			if err := settle(cmd.Context(), application); err != nil {
				return fmt.Errorf("failed to delete note: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Note deleted\n", color.New(color.FgGreen).Sprint("✓"))
			return nil
		},
	}
}

func ClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, closeApp, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer closeApp()

			application.ViewModel.DeleteAll()
			if err := settle(cmd.Context(), application); err != nil {
				return fmt.Errorf("failed to delete notes: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s All Notes Deleted\n", color.New(color.FgGreen).Sprint("✓"))
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id: %s", arg)
	}
	return id, nil
}

// describe turns an editor rejection into the message the user sees
func describe(err error) error {
	var errs validator.ValidationErrors
	switch {
	case errors.Is(err, editor.ErrEmptyFields):
		return errors.New(editor.NoticeEmptyFields)
	case errors.Is(err, editor.ErrMissingID):
		return errors.New("Note can't be updated")
	case errors.As(err, &errs):
		return fmt.Errorf("invalid note: %w", errs)
	default:
		return err
	}
}
