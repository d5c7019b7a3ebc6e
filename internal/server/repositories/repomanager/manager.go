// Package repomanager vends repository implementations and runs work that
// must be atomic across them.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/pdfnotes/internal/server/repositories/folders"
	"github.com/dmitrijs2005/pdfnotes/internal/server/repositories/pdfs"
	"github.com/dmitrijs2005/pdfnotes/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Folders() folders.Repository
	Pdfs() pdfs.Repository
	// WithTx runs fn against a manager whose repositories share one
	// transaction. An error returned by fn rolls everything back.
	WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
