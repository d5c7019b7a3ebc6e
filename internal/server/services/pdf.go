package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/logging"
	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
	"github.com/dmitrijs2005/pdfnotes/internal/server/notes"
	"github.com/dmitrijs2005/pdfnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pdfnotes/internal/server/storage"
	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultRecentDays  = 7
	MaxRecentDays      = 36500
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100

	maxPdfNameLength = 255
	// sniffLen matches the mimetype library's default read limit.
	sniffLen = 3072
	// indexTimeout bounds a background indexing call.
	indexTimeout = 2 * time.Minute
)

var (
	errPdfNotFound   = common.NewNotFoundError("PDF handler not found")
	errNoNotes       = common.NewNotFoundError("No notes found for this PDF")
	errNoFile        = common.NewValidationError("No PDF file uploaded")
	errNoFolder      = common.NewValidationError("Folder ID is required")
	errNotPdf        = common.NewValidationError("Uploaded file is not a PDF")
	errEmptyNotes    = common.NewValidationError("Notes cannot be empty")
	errEmptyQuestion = common.NewValidationError("Question cannot be empty")
)

// Analyzer is the external question-answering service.
type Analyzer interface {
	Ask(ctx context.Context, pdfID int64, question string) (string, error)
	Index(ctx context.Context, pdfID int64, filename string, r io.Reader) error
}

// UploadInput describes one multipart upload. File and FolderID are
// required; Name and Size fall back to the file name and stored byte count.
type UploadInput struct {
	File     io.Reader
	Filename string
	FolderID *int64
	Name     string
	Size     *int64
}

type PdfService struct {
	repomanager repomanager.RepositoryManager
	store       storage.Store
	analyzer    Analyzer
	logger      logging.Logger
	now         func() time.Time

	wg sync.WaitGroup
}

// NewPdfService wires the service. analyzer may be nil, which disables Ask
// and background indexing.
func NewPdfService(m repomanager.RepositoryManager, store storage.Store, analyzer Analyzer, logger logging.Logger) *PdfService {
	return &PdfService{
		repomanager: m,
		store:       store,
		analyzer:    analyzer,
		logger:      logger,
		now:         time.Now,
	}
}

// Upload stores the file and creates its record.
func (s *PdfService) Upload(ctx context.Context, userID int64, in UploadInput) (*models.Pdf, error) {
	if in.File == nil {
		return nil, errNoFile
	}
	if in.FolderID == nil {
		return nil, errNoFolder
	}

	folder, err := s.repomanager.Folders().Get(ctx, userID, *in.FolderID)
	if err != nil {
		return nil, folderErr(err)
	}

	body, err := sniffPdf(in.File)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = in.Filename
	}
	if name == "" {
		name = storage.SanitizeName("")
	}
	if utf8.RuneCountInString(name) > maxPdfNameLength {
		return nil, common.NewValidationError(fmt.Sprintf("Pdfname is too long (maximum is %d characters)", maxPdfNameLength))
	}

	key, stored, err := s.store.Save(ctx, in.Filename, body)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	size := stored
	if in.Size != nil && *in.Size > 0 {
		size = *in.Size
	}

	pdf, err := s.repomanager.Pdfs().Create(ctx, &models.Pdf{
		UserID:   userID,
		FolderID: &folder.ID,
		Name:     name,
		Size:     size,
		FileURL:  storage.URL(key),
	})
	if err != nil {
		if derr := s.store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.logger.Error(ctx, "failed to remove orphaned upload", "key", key, "error", derr)
		}
		return nil, err
	}
	pdf.FolderName = folder.Name

	s.logger.Info(ctx, "pdf uploaded", "user_id", userID, "pdf_id", pdf.ID, "bytes", stored)
	s.indexAsync(ctx, pdf.ID, key)

	return pdf, nil
}

// sniffPdf checks the leading bytes and returns a reader positioned at the
// start of the content.
func sniffPdf(r io.Reader) (io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	if n == 0 || !mimetype.Detect(head).Is("application/pdf") {
		return nil, errNotPdf
	}

	if rs, ok := r.(io.ReadSeeker); ok {
		if _, err := rs.Seek(0, io.SeekStart); err == nil {
			return rs, nil
		}
	}
	return io.MultiReader(bytes.NewReader(head), r), nil
}

// indexAsync submits the stored file to the analyzer in the background.
// Failures are logged only.
func (s *PdfService) indexAsync(ctx context.Context, pdfID int64, key string) {
	if s.analyzer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), indexTimeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		rc, err := s.store.Open(ctx, key)
		if err != nil {
			s.logger.Warn(ctx, "index: open stored file", "pdf_id", pdfID, "error", err)
			return
		}
		defer rc.Close()

		if err := s.analyzer.Index(ctx, pdfID, key, rc); err != nil {
			s.logger.Warn(ctx, "index: analysis service", "pdf_id", pdfID, "error", err)
			return
		}
		s.logger.Info(ctx, "pdf indexed", "pdf_id", pdfID)
	}()
}

// Wait blocks until background indexing has finished.
func (s *PdfService) Wait() {
	s.wg.Wait()
}

// List returns the user's PDFs, optionally restricted to one folder.
func (s *PdfService) List(ctx context.Context, userID int64, folderID *int64) ([]*models.Pdf, error) {
	if folderID != nil {
		if _, err := s.repomanager.Folders().Get(ctx, userID, *folderID); err != nil {
			return nil, folderErr(err)
		}
	}
	return s.repomanager.Pdfs().List(ctx, userID, folderID)
}

func (s *PdfService) Show(ctx context.Context, userID, id int64) (*models.Pdf, error) {
	p, err := s.repomanager.Pdfs().Get(ctx, userID, id)
	if err != nil {
		return nil, pdfErr(err)
	}
	return p, nil
}

// SaveNotes replaces the notes after sanitizing them. Blank input, or input
// with no visible text left after sanitizing, is rejected.
func (s *PdfService) SaveNotes(ctx context.Context, userID, id int64, content string) (*models.Pdf, error) {
	if _, err := s.Show(ctx, userID, id); err != nil {
		return nil, err
	}

	clean := notes.Sanitize(content)
	if notes.IsBlank(clean) {
		return nil, errEmptyNotes
	}

	p, err := s.repomanager.Pdfs().UpdateNotes(ctx, userID, id, clean)
	if err != nil {
		return nil, pdfErr(err)
	}
	return p, nil
}

// UpdateNotes is SaveNotes for an existing note; the two differ only in the
// message the API reports.
func (s *PdfService) UpdateNotes(ctx context.Context, userID, id int64, content string) (*models.Pdf, error) {
	return s.SaveNotes(ctx, userID, id, content)
}

func (s *PdfService) ShowNotes(ctx context.Context, userID, id int64) (string, error) {
	p, err := s.Show(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if !p.HasNotes() {
		return "", errNoNotes
	}
	return p.Notes, nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *PdfService) ToggleFavorite(ctx context.Context, userID, id int64) (bool, error) {
	fav, err := s.repomanager.Pdfs().ToggleFavorite(ctx, userID, id)
	if err != nil {
		return false, pdfErr(err)
	}
	return fav, nil
}

func (s *PdfService) Favorites(ctx context.Context, userID int64) ([]*models.Pdf, error) {
	return s.repomanager.Pdfs().Favorites(ctx, userID)
}

// Recent returns PDFs updated within the last days, newest first. Values
// below 1 fall back to the defaults; days and limit are capped at
// MaxRecentDays and MaxRecentLimit.
func (s *PdfService) Recent(ctx context.Context, userID int64, days, limit int) ([]*models.Pdf, error) {
	if days < 1 {
		days = DefaultRecentDays
	}
	if limit < 1 {
		limit = DefaultRecentLimit
	}
	days = min(days, MaxRecentDays)
	limit = min(limit, MaxRecentLimit)

	since := s.now().AddDate(0, 0, -days)
	return s.repomanager.Pdfs().Recent(ctx, userID, since, limit)
}

// Delete removes the record, then the stored file on a best-effort basis.
func (s *PdfService) Delete(ctx context.Context, userID, id int64) error {
	p, err := s.repomanager.Pdfs().Delete(ctx, userID, id)
	if err != nil {
		return pdfErr(err)
	}

	if key, ok := storage.KeyFromURL(p.FileURL); ok {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "failed to remove stored file", "pdf_id", id, "key", key, "error", err)
		}
	}
	return nil
}

// Ask forwards a question about the PDF to the analysis service.
func (s *PdfService) Ask(ctx context.Context, userID, id int64, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errEmptyQuestion
	}
	if s.analyzer == nil {
		return "", common.ErrAnalysisDisabled
	}
	if _, err := s.Show(ctx, userID, id); err != nil {
		return "", err
	}

	answer, err := s.analyzer.Ask(ctx, id, question)
	if err != nil {
		s.logger.Warn(ctx, "analysis ask failed", "pdf_id", id, "error", err)
		return "", err
	}
	return answer, nil
}

func pdfErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errPdfNotFound
	}
	return err
}
