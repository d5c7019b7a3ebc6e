package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/pdfnotes/internal/client/models"
)

// Client is the API surface used by the CLI.
type Client interface {
	SetToken(token string)

	Signup(ctx context.Context, email, password, confirmation string) (*models.Auth, error)
	Login(ctx context.Context, email, password string) (*models.Auth, error)
	Ping(ctx context.Context) error

	Folders(ctx context.Context) ([]models.Folder, error)
	CreateFolder(ctx context.Context, name string) (*models.Folder, error)
	RenameFolder(ctx context.Context, id int64, name string) (*models.Folder, error)
	DeleteFolder(ctx context.Context, id int64) error

	Upload(ctx context.Context, folderID int64, name, filename string, r io.Reader) (*models.Pdf, error)
	Pdfs(ctx context.Context, folderID *int64) ([]models.Pdf, error)
	Pdf(ctx context.Context, id int64) (*models.Pdf, error)
	DeletePdf(ctx context.Context, id int64) error
	ToggleFavorite(ctx context.Context, id int64) (bool, error)
	Favorites(ctx context.Context) ([]models.Pdf, error)
	Recent(ctx context.Context, days, limit int) ([]models.Pdf, error)

	Notes(ctx context.Context, id int64) (string, error)
	SaveNotes(ctx context.Context, id int64, notes string) (*models.Pdf, error)
	UpdateNotes(ctx context.Context, id int64, notes string) (*models.Pdf, error)

	Ask(ctx context.Context, id int64, question string) (string, error)
}
