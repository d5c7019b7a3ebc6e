// Package repositories opens the client's local SQLite state and exposes its
// repositories.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/pdfnotes/internal/client/migrations"
	"github.com/dmitrijs2005/pdfnotes/internal/client/models"
	"github.com/dmitrijs2005/pdfnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/pdfnotes/internal/client/repositories/pdfcache"
	"github.com/dmitrijs2005/pdfnotes/internal/dbx"
	"github.com/dmitrijs2005/pdfnotes/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// InMemory opens a throwaway database, for tests.
const InMemory = ":memory:"

type Local struct {
	db       *sql.DB
	Metadata metadata.Repository
	Pdfs     pdfcache.Repository
}

// Open creates the state file (0600) if needed and migrates it.
func Open(ctx context.Context, path string) (*Local, error) {
	if path != InMemory {
		if err := prepareFile(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: SQLite serialises writers anyway, and every
	// connection to :memory: would otherwise see its own database.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &Local{
		db:       db,
		Metadata: metadata.NewSQLiteRepository(db),
		Pdfs:     pdfcache.NewSQLiteRepository(db),
	}, nil
}

func prepareFile(path string) error {
	if _, err := filex.EnsureDir(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// ReplacePdfs refreshes the listing cache in one transaction.
func (l *Local) ReplacePdfs(ctx context.Context, pdfs []models.Pdf) error {
	return dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return pdfcache.NewSQLiteRepository(tx).Replace(ctx, pdfs)
	})
}

// Reset forgets the session and the cache.
func (l *Local) Reset(ctx context.Context) error {
	return dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := metadata.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return pdfcache.NewSQLiteRepository(tx).Clear(ctx)
	})
}

func (l *Local) Close() error {
	return l.db.Close()
}
