// Package pdfcache keeps the last PDF listing fetched from the server so the
// CLI can still show it when the server is unreachable.
package pdfcache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/client/models"
	"github.com/dmitrijs2005/pdfnotes/internal/dbx"
)

type Repository interface {
	// Replace swaps the whole cache for pdfs.
	Replace(ctx context.Context, pdfs []models.Pdf) error
	List(ctx context.Context, folderID *int64) ([]models.Pdf, error)
	Clear(ctx context.Context) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Replace should run inside a transaction; see repositories.Local.ReplacePdfs.
func (r *SQLiteRepository) Replace(ctx context.Context, pdfs []models.Pdf) error {
	if err := r.Clear(ctx); err != nil {
		return err
	}

	query := `INSERT INTO pdf_cache (id, folder_id, folder_name, pdfname, pdf_size, file_url, is_favorite, has_notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, p := range pdfs {
		var (
			folderID   sql.NullInt64
			folderName sql.NullString
		)
		if p.FolderID != nil {
			folderID = sql.NullInt64{Int64: *p.FolderID, Valid: true}
		}
		if p.FolderName != nil {
			folderName = sql.NullString{String: *p.FolderName, Valid: true}
		}
		_, err := r.db.ExecContext(ctx, query,
			p.ID, folderID, folderName, p.Name, p.Size, p.FileURL,
			p.IsFavorite, p.HasNotes, p.UpdatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to cache pdf %d: %w", p.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, folderID *int64) ([]models.Pdf, error) {
	query := `SELECT id, folder_id, folder_name, pdfname, pdf_size, file_url, is_favorite, has_notes, updated_at
		FROM pdf_cache`
	var args []any
	if folderID != nil {
		query += ` WHERE folder_id = ?`
		args = append(args, *folderID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select cached pdfs: %w", err)
	}
	defer rows.Close()

	result := []models.Pdf{}
	for rows.Next() {
		var (
			p          models.Pdf
			folderID   sql.NullInt64
			folderName sql.NullString
			updatedAt  string
		)
		if err := rows.Scan(&p.ID, &folderID, &folderName, &p.Name, &p.Size, &p.FileURL,
			&p.IsFavorite, &p.HasNotes, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached pdf: %w", err)
		}
		if folderID.Valid {
			p.FolderID = &folderID.Int64
		}
		if folderName.Valid {
			p.FolderName = &folderName.String
		}
		if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return nil, fmt.Errorf("bad cached timestamp %q: %w", updatedAt, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached pdfs: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pdf_cache`); err != nil {
		return fmt.Errorf("failed to clear pdf cache: %w", err)
	}
	return nil
}
