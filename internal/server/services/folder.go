package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
	"github.com/dmitrijs2005/pdfnotes/internal/server/repositories/repomanager"
)

const maxFolderNameLength = 255

var errFolderNotFound = common.NewNotFoundError("Folder not found")

// FolderWithPdfs is a folder together with the PDFs filed in it.
type FolderWithPdfs struct {
	Folder *models.Folder
	Pdfs   []*models.Pdf
}

type FolderService struct {
	repomanager repomanager.RepositoryManager
}

func NewFolderService(m repomanager.RepositoryManager) *FolderService {
	return &FolderService{repomanager: m}
}

// List returns the user's folders, oldest first, each with its PDFs.
func (s *FolderService) List(ctx context.Context, userID int64) ([]FolderWithPdfs, error) {
	folders, err := s.repomanager.Folders().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	pdfs, err := s.repomanager.Pdfs().List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	byFolder := make(map[int64][]*models.Pdf, len(folders))
	for _, p := range pdfs {
		if p.FolderID != nil {
			byFolder[*p.FolderID] = append(byFolder[*p.FolderID], p)
		}
	}

	result := make([]FolderWithPdfs, 0, len(folders))
	for _, f := range folders {
		items := byFolder[f.ID]
		if items == nil {
			items = []*models.Pdf{}
		}
		result = append(result, FolderWithPdfs{Folder: f, Pdfs: items})
	}
	return result, nil
}

func (s *FolderService) Create(ctx context.Context, userID int64, name string) (*models.Folder, error) {
	name, err := validateFolderName(name)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Folders().Create(ctx, &models.Folder{UserID: userID, Name: name})
}

func (s *FolderService) Rename(ctx context.Context, userID, id int64, name string) (*models.Folder, error) {
	name, err := validateFolderName(name)
	if err != nil {
		return nil, err
	}

	f, err := s.repomanager.Folders().Rename(ctx, userID, id, name)
	if err != nil {
		return nil, folderErr(err)
	}
	return f, nil
}

// Delete removes the folder. Its PDFs stay and lose their folder reference;
// both steps share one transaction.
func (s *FolderService) Delete(ctx context.Context, userID, id int64) error {
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		if _, err := tx.Pdfs().DetachFolder(ctx, userID, id); err != nil {
			return err
		}
		return tx.Folders().Delete(ctx, userID, id)
	})
	if err != nil {
		return folderErr(err)
	}
	return nil
}

// Pdfs returns the folder and the PDFs filed in it.
func (s *FolderService) Pdfs(ctx context.Context, userID, id int64) (*FolderWithPdfs, error) {
	f, err := s.repomanager.Folders().Get(ctx, userID, id)
	if err != nil {
		return nil, folderErr(err)
	}
	pdfs, err := s.repomanager.Pdfs().List(ctx, userID, &f.ID)
	if err != nil {
		return nil, err
	}
	return &FolderWithPdfs{Folder: f, Pdfs: pdfs}, nil
}

func validateFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", common.NewValidationError("Name can't be blank")
	}
	if utf8.RuneCountInString(name) > maxFolderNameLength {
		return "", common.NewValidationError(fmt.Sprintf("Name is too long (maximum is %d characters)", maxFolderNameLength))
	}
	return name, nil
}

func folderErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errFolderNotFound
	}
	return err
}
