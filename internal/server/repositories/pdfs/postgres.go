package pdfs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/dbx"
	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
)

const selectColumns = `p.id, p.user_id, p.folder_id, p.pdfname, p.pdf_size, p.file_url, p.notes, p.is_favorite, p.created_at, p.updated_at, COALESCE(f.name, '')`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, pdf *models.Pdf) (*models.Pdf, error) {
	query :=
		`INSERT INTO pdf_handlers (user_id, folder_id, pdfname, pdf_size, file_url, notes, is_favorite)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		pdf.UserID, nullID(pdf.FolderID), pdf.Name, pdf.Size, pdf.FileURL, pdf.Notes, pdf.IsFavorite).
		Scan(&pdf.ID, &pdf.CreatedAt, &pdf.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return pdf, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.Pdf, error) {
	query := `SELECT ` + selectColumns + `
		 FROM pdf_handlers p
		 LEFT JOIN folders f ON f.id = p.folder_id
		 WHERE p.id = $1 AND p.user_id = $2
		 `

	return scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) List(ctx context.Context, userID int64, folderID *int64) ([]*models.Pdf, error) {
	if folderID == nil {
		return r.query(ctx, `SELECT `+selectColumns+`
		 FROM pdf_handlers p
		 LEFT JOIN folders f ON f.id = p.folder_id
		 WHERE p.user_id = $1
		 ORDER BY p.id
		 `, userID)
	}

	return r.query(ctx, `SELECT `+selectColumns+`
		 FROM pdf_handlers p
		 LEFT JOIN folders f ON f.id = p.folder_id
		 WHERE p.user_id = $1 AND p.folder_id = $2
		 ORDER BY p.id
		 `, userID, *folderID)
}

func (r *PostgresRepository) Favorites(ctx context.Context, userID int64) ([]*models.Pdf, error) {
	return r.query(ctx, `SELECT `+selectColumns+`
		 FROM pdf_handlers p
		 LEFT JOIN folders f ON f.id = p.folder_id
		 WHERE p.user_id = $1 AND p.is_favorite
		 ORDER BY p.id
		 `, userID)
}

func (r *PostgresRepository) Recent(ctx context.Context, userID int64, since time.Time, limit int) ([]*models.Pdf, error) {
	return r.query(ctx, `SELECT `+selectColumns+`
		 FROM pdf_handlers p
		 LEFT JOIN folders f ON f.id = p.folder_id
		 WHERE p.user_id = $1 AND p.updated_at >= $2
		 ORDER BY p.updated_at DESC, p.id DESC
		 LIMIT $3
		 `, userID, since, limit)
}

func (r *PostgresRepository) UpdateNotes(ctx context.Context, userID, id int64, notes string) (*models.Pdf, error) {
	query := `WITH p AS (
		   UPDATE pdf_handlers SET notes = $1, updated_at = now()
		   WHERE id = $2 AND user_id = $3
		   RETURNING *
		 )
		 SELECT ` + selectColumns + `
		 FROM p
		 LEFT JOIN folders f ON f.id = p.folder_id
		 `

	return scanOne(r.db.QueryRowContext(ctx, query, notes, id, userID))
}

func (r *PostgresRepository) ToggleFavorite(ctx context.Context, userID, id int64) (bool, error) {
	query :=
		`UPDATE pdf_handlers SET is_favorite = NOT is_favorite, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING is_favorite
		 `

	var fav bool
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&fav)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return fav, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) (*models.Pdf, error) {
	query := `WITH p AS (
		   DELETE FROM pdf_handlers
		   WHERE id = $1 AND user_id = $2
		   RETURNING *
		 )
		 SELECT ` + selectColumns + `
		 FROM p
		 LEFT JOIN folders f ON f.id = p.folder_id
		 `

	return scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) DetachFolder(ctx context.Context, userID, folderID int64) (int64, error) {
	query :=
		`UPDATE pdf_handlers SET folder_id = NULL, updated_at = now()
		 WHERE folder_id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, folderID, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Pdf, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Pdf, 0)
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Pdf, error) {
	p := &models.Pdf{}
	var folderID sql.NullInt64
	err := s.Scan(&p.ID, &p.UserID, &folderID, &p.Name, &p.Size, &p.FileURL,
		&p.Notes, &p.IsFavorite, &p.CreatedAt, &p.UpdatedAt, &p.FolderName)
	if err != nil {
		return nil, err
	}
	if folderID.Valid {
		id := folderID.Int64
		p.FolderID = &id
	}
	return p, nil
}

func scanOne(row *sql.Row) (*models.Pdf, error) {
	p, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
