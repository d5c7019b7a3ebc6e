package rest

import (
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
	"github.com/dmitrijs2005/pdfnotes/internal/server/services"
)

type userView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type authView struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type folderView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type folderWithPdfsView struct {
	folderView
	PdfHandlers []pdfView `json:"pdf_handlers"`
}

// pdfView is the record as clients see it. folder_name is null once the
// folder has been deleted; last_modified is only set by the recent listing.
type pdfView struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	FolderID     *int64     `json:"folder_id"`
	Pdfname      string     `json:"pdfname"`
	PdfSize      int64      `json:"pdf_size"`
	FileURL      string     `json:"file_url"`
	Notes        string     `json:"notes"`
	IsFavorite   bool       `json:"is_favorite"`
	HasNotes     bool       `json:"has_notes"`
	FolderName   *string    `json:"folder_name"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

func newUserView(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email}
}

func newAuthView(res *services.AuthResult) authView {
	return authView{Token: res.Token, User: newUserView(res.User)}
}

func newFolderView(f *models.Folder) folderView {
	return folderView{
		ID:        f.ID,
		UserID:    f.UserID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func newFolderWithPdfsView(f services.FolderWithPdfs) folderWithPdfsView {
	return folderWithPdfsView{folderView: newFolderView(f.Folder), PdfHandlers: newPdfViews(f.Pdfs)}
}

func newPdfView(p *models.Pdf) pdfView {
	v := pdfView{
		ID:         p.ID,
		UserID:     p.UserID,
		FolderID:   p.FolderID,
		Pdfname:    p.Name,
		PdfSize:    p.Size,
		FileURL:    p.FileURL,
		Notes:      p.Notes,
		IsFavorite: p.IsFavorite,
		HasNotes:   p.HasNotes(),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.FolderID != nil {
		name := p.FolderName
		v.FolderName = &name
	}
	return v
}

func newPdfViews(pdfs []*models.Pdf) []pdfView {
	views := make([]pdfView, 0, len(pdfs))
	for _, p := range pdfs {
		views = append(views, newPdfView(p))
	}
	return views
}

func newRecentViews(pdfs []*models.Pdf) []pdfView {
	views := newPdfViews(pdfs)
	for i := range views {
		t := views[i].UpdatedAt
		views[i].LastModified = &t
	}
	return views
}
