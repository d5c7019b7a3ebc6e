package cli

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/dmitrijs2005/pdfnotes/internal/client/client"
	"github.com/dmitrijs2005/pdfnotes/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) notesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "notes",
		Short:             "Read and write the notes of a PDF",
		PersistentPreRunE: a.requireSession,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show ID",
			Short: "Print the notes of a PDF",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				notes, err := a.api.Notes(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, notesText(notes))
				return nil
			},
		},
		a.writeNotesCommand("save", "Save notes for a PDF", "Notes saved successfully",
			func(c client.Client) notesWriter { return c.SaveNotes }),
		a.writeNotesCommand("update", "Replace the notes of a PDF", "Notes updated successfully",
			func(c client.Client) notesWriter { return c.UpdateNotes }),
	)
	return cmd
}

// notesText turns stored notes back into what was typed. The server keeps
// notes as sanitized HTML, so plain text comes back entity-escaped; tags are
// left in place.
func notesText(stored string) string {
	return html.UnescapeString(stored)
}

type notesWriter func(ctx context.Context, id int64, notes string) (*models.Pdf, error)

// writeNotesCommand builds save and update. The API client only exists after
// setup, so pick chooses the method at run time.
func (a *App) writeNotesCommand(use, short, done string, pick func(client.Client) notesWriter) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Long:  short + ". Without --text the notes are read from standard input.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("text") {
				if text, err = GetMultiline(a.in, "Enter notes", a.out); err != nil {
					return err
				}
			}
			if _, err := pick(a.api)(cmd.Context(), id, text); err != nil {
				return err
			}
			fmt.Fprintln(a.out, done)
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "notes text (HTML allowed)")
	return cmd
}

func (a *App) askCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "ask ID QUESTION...",
		Short:             "Ask a question about a PDF",
		Args:              cobra.MinimumNArgs(2),
		PersistentPreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			question := strings.TrimSpace(strings.Join(args[1:], " "))
			if question == "" {
				return errors.New("question is empty")
			}
			answer, err := a.api.Ask(cmd.Context(), id, question)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, answer)
			return nil
		},
	}
}
