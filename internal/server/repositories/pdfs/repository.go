package pdfs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
)

// Repository stores PDF records. Every method is scoped to the owning user.
// Read methods fill models.Pdf.FolderName.
type Repository interface {
	Create(ctx context.Context, pdf *models.Pdf) (*models.Pdf, error)
	Get(ctx context.Context, userID, id int64) (*models.Pdf, error)
	// List returns the user's records, restricted to one folder when folderID is not nil.
	List(ctx context.Context, userID int64, folderID *int64) ([]*models.Pdf, error)
	Favorites(ctx context.Context, userID int64) ([]*models.Pdf, error)
	// Recent returns records updated at or after since, newest first.
	Recent(ctx context.Context, userID int64, since time.Time, limit int) ([]*models.Pdf, error)
	UpdateNotes(ctx context.Context, userID, id int64, notes string) (*models.Pdf, error)
	// ToggleFavorite flips is_favorite in one statement and returns the new value.
	ToggleFavorite(ctx context.Context, userID, id int64) (bool, error)
	// Delete removes the record and returns it so the caller can drop the stored file.
	Delete(ctx context.Context, userID, id int64) (*models.Pdf, error)
	// DetachFolder clears folder_id on every record in the folder.
	DetachFolder(ctx context.Context, userID, folderID int64) (int64, error)
}
