package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
	"github.com/dmitrijs2005/pdfnotes/internal/server/services"
	"github.com/dmitrijs2005/pdfnotes/internal/server/storage"
	"github.com/go-chi/chi/v5"
)

const (
	msgPdfNotFound  = "PDF handler not found"
	msgFileNotFound = "File not found"

	// multipartMemory is how much of a multipart body is held in memory
	// before parts spill to temporary files.
	multipartMemory = 8 << 20
)

// notesSaver is PdfService.SaveNotes or PdfService.UpdateNotes.
type notesSaver func(ctx context.Context, userID, id int64, content string) (*models.Pdf, error)

type notesRequest struct {
	Notes string `json:"notes"`
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) uploadPdf(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var in services.UploadInput
	err := r.ParseMultipartForm(multipartMemory)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		// No file part; the service reports what is missing.
	case err != nil:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return errBadRequest("Invalid multipart form", err)
	default:
		defer r.MultipartForm.RemoveAll()

		file, header, ferr := r.FormFile("pdf_file")
		if ferr == nil {
			defer file.Close()
			in.File = file
			in.Filename = header.Filename
		}
	}

	in.FolderID = optionalID(r.FormValue("folder_id"))
	in.Name = r.FormValue("pdfname")
	if size, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("pdf_size")), 10, 64); err == nil {
		in.Size = &size
	}

	pdf, err := s.pdfs.Upload(r.Context(), user.ID, in)
	if err != nil {
		return err
	}
	s.metrics.recordUpload(pdf.Size)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "PDF uploaded successfully",
		"pdf":     newPdfView(pdf),
	})
	return nil
}

func (s *Server) listPdfs(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())

	pdfs, err := s.pdfs.List(r.Context(), user.ID, optionalID(r.URL.Query().Get("folder_id")))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"pdfs": newPdfViews(pdfs)})
	return nil
}

func (s *Server) favorites(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())

	pdfs, err := s.pdfs.Favorites(r.Context(), user.ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"pdfs": newPdfViews(pdfs)})
	return nil
}

func (s *Server) recent(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())

	pdfs, err := s.pdfs.Recent(r.Context(), user.ID, queryInt(r, "days"), queryInt(r, "limit"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"pdfs": newRecentViews(pdfs)})
	return nil
}

func (s *Server) showPdf(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())
	id, err := pathID(r, msgPdfNotFound)
	if err != nil {
		return err
	}

	pdf, err := s.pdfs.Show(r.Context(), user.ID, id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"pdf": newPdfView(pdf)})
	return nil
}

func (s *Server) deletePdf(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())
	id, err := pathID(r, msgPdfNotFound)
	if err != nil {
		return err
	}

	if err := s.pdfs.Delete(r.Context(), user.ID, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) saveNotes(w http.ResponseWriter, r *http.Request) error {
	return s.writeNotes(w, r, s.pdfs.SaveNotes, "Notes saved successfully")
}

func (s *Server) updateNotes(w http.ResponseWriter, r *http.Request) error {
	return s.writeNotes(w, r, s.pdfs.UpdateNotes, "Notes updated successfully")
}

func (s *Server) writeNotes(w http.ResponseWriter, r *http.Request, save notesSaver, msg string) error {
	user := currentUser(r.Context())
	id, err := pathID(r, msgPdfNotFound)
	if err != nil {
		return err
	}

	var req notesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	pdf, err := save(r.Context(), user.ID, id, req.Notes)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg, "pdf": newPdfView(pdf)})
	return nil
}

func (s *Server) showNotes(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())
	id, err := pathID(r, msgPdfNotFound)
	if err != nil {
		return err
	}

	notes, err := s.pdfs.ShowNotes(r.Context(), user.ID, id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"notes": notes})
	return nil
}

func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())
	id, err := pathID(r, msgPdfNotFound)
	if err != nil {
		return err
	}

	fav, err := s.pdfs.ToggleFavorite(r.Context(), user.ID, id)
	if err != nil {
		return err
	}

	msg := "Removed from favorites"
	if fav {
		msg = "Added to favorites"
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg, "is_favorite": fav})
	return nil
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())
	id, err := pathID(r, msgPdfNotFound)
	if err != nil {
		return err
	}

	var req askRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	answer, err := s.pdfs.Ask(r.Context(), user.ID, id, req.Question)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"pdf_id": id, "question": req.Question, "answer": answer})
	return nil
}

// serveUpload streams a stored file. Keys are unguessable, so the route is
// public.
func (s *Server) serveUpload(w http.ResponseWriter, r *http.Request) error {
	key := chi.URLParam(r, "key")
	if !storage.ValidKey(key) {
		return errNotFound(msgFileNotFound)
	}

	rc, err := s.store.Open(r.Context(), key)
	if errors.Is(err, common.ErrorNotFound) {
		return errNotFound(msgFileNotFound)
	}
	if err != nil {
		return err
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn(r.Context(), "serving stored file interrupted", "key", key, "error", err)
	}
	return nil
}
