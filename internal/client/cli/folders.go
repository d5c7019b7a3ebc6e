package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) foldersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "folders",
		Short:             "Manage folders",
		PersistentPreRunE: a.requireSession,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List folders with their PDF counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				folders, err := a.api.Folders(cmd.Context())
				if err != nil {
					return err
				}
				return printFolders(a.out, folders)
			},
		},
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a folder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := a.api.CreateFolder(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Created folder %d %q\n", f.ID, f.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename ID NAME",
			Short: "Rename a folder",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				f, err := a.api.RenameFolder(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Renamed folder %d to %q\n", f.ID, f.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a folder; its PDFs are kept without a folder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.api.DeleteFolder(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted folder %d\n", id)
				return nil
			},
		},
	)
	return cmd
}
