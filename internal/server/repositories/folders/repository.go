package folders

import (
	"context"

	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
)

// Repository stores folders. Every method is scoped to the owning user; a
// folder belonging to someone else behaves as if it did not exist.
type Repository interface {
	Create(ctx context.Context, folder *models.Folder) (*models.Folder, error)
	Get(ctx context.Context, userID, id int64) (*models.Folder, error)
	List(ctx context.Context, userID int64) ([]*models.Folder, error)
	Rename(ctx context.Context, userID, id int64, name string) (*models.Folder, error)
	Delete(ctx context.Context, userID, id int64) error
}
