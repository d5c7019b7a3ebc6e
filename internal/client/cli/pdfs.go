package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (a *App) pdfsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "pdfs",
		Short:             "Upload, list and manage PDFs",
		PersistentPreRunE: a.requireSession,
	}

	cmd.AddCommand(
		a.uploadCommand(),
		a.listPdfsCommand(),
		&cobra.Command{
			Use:   "show ID",
			Short: "Show a PDF and its notes",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				p, err := a.api.Pdf(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printPdf(a.out, p)
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a PDF and its file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.api.DeletePdf(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted PDF %d\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "favorite ID",
			Short: "Toggle the favorite mark of a PDF",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				fav, err := a.api.ToggleFavorite(cmd.Context(), id)
				if err != nil {
					return err
				}
				if fav {
					fmt.Fprintln(a.out, "Added to favorites")
				} else {
					fmt.Fprintln(a.out, "Removed from favorites")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "favorites",
			Short: "List favorite PDFs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				pdfs, err := a.api.Favorites(cmd.Context())
				if err != nil {
					return err
				}
				return printPdfs(a.out, pdfs)
			},
		},
		a.recentCommand(),
	)
	return cmd
}

func (a *App) uploadCommand() *cobra.Command {
	var (
		folder int64
		name   string
	)

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a PDF into a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			p, err := a.api.Upload(cmd.Context(), folder, name, filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Uploaded PDF %d %q (%s)\n", p.ID, p.Name, formatSize(p.Size))
			return nil
		},
	}
	cmd.Flags().Int64VarP(&folder, "folder", "f", 0, "target folder id")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (defaults to the file name)")
	_ = cmd.MarkFlagRequired("folder")
	return cmd
}

func (a *App) listPdfsCommand() *cobra.Command {
	var folder int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List PDFs in upload order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var folderID *int64
			if cmd.Flags().Changed("folder") {
				folderID = &folder
			}

			pdfs, cached, err := a.library.Pdfs(cmd.Context(), folderID)
			if err != nil {
				return err
			}
			if cached {
				fmt.Fprintln(a.err, "Server unreachable, showing the last cached listing")
			}
			return printPdfs(a.out, pdfs)
		},
	}
	cmd.Flags().Int64VarP(&folder, "folder", "f", 0, "only PDFs in this folder")
	return cmd
}

func (a *App) recentCommand() *cobra.Command {
	var days, limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently changed PDFs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pdfs, err := a.api.Recent(cmd.Context(), days, limit)
			if err != nil {
				return err
			}
			return printPdfs(a.out, pdfs)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "look back this many days (server default 7)")
	cmd.Flags().IntVar(&limit, "limit", 0, "at most this many PDFs (server default 10)")
	return cmd
}
