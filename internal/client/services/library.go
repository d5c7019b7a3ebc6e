package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pdfnotes/internal/client/client"
	"github.com/dmitrijs2005/pdfnotes/internal/client/models"
	"github.com/dmitrijs2005/pdfnotes/internal/client/repositories"
)

// LibraryService lists PDFs, falling back to the local cache when the
// server cannot be reached.
type LibraryService interface {
	// Pdfs returns the listing and whether it came from the cache.
	Pdfs(ctx context.Context, folderID *int64) ([]models.Pdf, bool, error)
}

type libraryService struct {
	api   client.Client
	local *repositories.Local
}

func NewLibraryService(api client.Client, local *repositories.Local) LibraryService {
	return &libraryService{api: api, local: local}
}

func (s *libraryService) Pdfs(ctx context.Context, folderID *int64) ([]models.Pdf, bool, error) {
	pdfs, err := s.api.Pdfs(ctx, folderID)
	if err == nil {
		// Only the full listing refreshes the cache.
		if folderID == nil {
			if err := s.local.ReplacePdfs(ctx, pdfs); err != nil {
				return nil, false, err
			}
		}
		return pdfs, false, nil
	}
	if !errors.Is(err, client.ErrUnavailable) {
		return nil, false, err
	}

	cached, cacheErr := s.local.Pdfs.List(ctx, folderID)
	if cacheErr != nil {
		return nil, false, errors.Join(err, cacheErr)
	}
	return cached, true, nil
}
