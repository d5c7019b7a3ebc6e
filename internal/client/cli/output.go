package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func mark(b bool, s string) string {
	if b {
		return s
	}
	return ""
}

func printFolders(w io.Writer, folders []models.Folder) error {
	if len(folders) == 0 {
		_, err := fmt.Fprintln(w, "No folders")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPDFS\tUPDATED")
	for _, f := range folders {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", f.ID, f.Name, len(f.Pdfs), formatTime(f.UpdatedAt))
	}
	return tw.Flush()
}

func printPdfs(w io.Writer, pdfs []models.Pdf) error {
	if len(pdfs) == 0 {
		_, err := fmt.Fprintln(w, "No PDFs")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tFOLDER\tSIZE\tFAV\tNOTES\tUPDATED")
	for _, p := range pdfs {
		updated := p.UpdatedAt
		if p.LastModified != nil {
			updated = *p.LastModified
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Folder(), formatSize(p.Size),
			mark(p.IsFavorite, "*"), mark(p.HasNotes, "yes"), formatTime(updated))
	}
	return tw.Flush()
}

func printPdf(w io.Writer, p *models.Pdf) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Folder:\t%s\n", p.Folder())
	fmt.Fprintf(tw, "Size:\t%s\n", formatSize(p.Size))
	fmt.Fprintf(tw, "File:\t%s\n", p.FileURL)
	fmt.Fprintf(tw, "Favorite:\t%t\n", p.IsFavorite)
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(p.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", formatTime(p.UpdatedAt))
	if err := tw.Flush(); err != nil {
		return err
	}
	if p.HasNotes {
		_, err := fmt.Fprintf(w, "\n%s\n", p.Notes)
		return err
	}
	return nil
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
