package rest

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pdfEnvelope struct {
	Message    string  `json:"message"`
	Pdf        pdfView `json:"pdf"`
	IsFavorite bool    `json:"is_favorite"`
}

type pdfList struct {
	Pdfs []pdfView `json:"pdfs"`
}

func TestUploadPdf(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("ivy@example.com")
	folder := env.createFolder(token, "Reading")

	rec := env.upload(token, map[string]string{"folder_id": fmt.Sprint(folder)}, "Deep Learning.pdf", pdfBytes)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[pdfEnvelope](t, rec)
	assert.Equal(t, "PDF uploaded successfully", got.Message)
	assert.Equal(t, "Deep Learning.pdf", got.Pdf.Pdfname)
	assert.Equal(t, int64(len(pdfBytes)), got.Pdf.PdfSize)
	require.NotNil(t, got.Pdf.FolderID)
	assert.Equal(t, folder, *got.Pdf.FolderID)
	require.NotNil(t, got.Pdf.FolderName)
	assert.Equal(t, "Reading", *got.Pdf.FolderName)
	assert.True(t, strings.HasPrefix(got.Pdf.FileURL, common.UploadsPathPrefix), got.Pdf.FileURL)
	assert.False(t, got.Pdf.IsFavorite)
	assert.False(t, got.Pdf.HasNotes)

	rec = env.do(http.MethodGet, got.Pdf.FileURL, "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, pdfBytes, rec.Body.String())
}

func TestUploadPdfExplicitNameAndSize(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("jack@example.com")
	folder := env.createFolder(token, "Reading")

	rec := env.upload(token, map[string]string{
		"folder_id": fmt.Sprint(folder),
		"pdfname":   "Chapter 1",
		"pdf_size":  "12345",
	}, "ch1.pdf", pdfBytes)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[pdfEnvelope](t, rec).Pdf
	assert.Equal(t, "Chapter 1", got.Pdfname)
	assert.Equal(t, int64(12345), got.PdfSize)
}

func TestUploadPdfRejections(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("kate@example.com")
	folder := env.createFolder(token, "Reading")
	other := env.signup("leo@example.com")
	foreign := env.createFolder(other, "Theirs")

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		content  string
		code     int
		msg      string
	}{
		{name: "no file", fields: map[string]string{"folder_id": fmt.Sprint(folder)}, code: http.StatusUnprocessableEntity, msg: "No PDF file uploaded"},
		{name: "no folder", filename: "a.pdf", content: pdfBytes, code: http.StatusUnprocessableEntity, msg: "Folder ID is required"},
		{name: "foreign folder", fields: map[string]string{"folder_id": fmt.Sprint(foreign)}, filename: "a.pdf", content: pdfBytes, code: http.StatusNotFound, msg: "Folder not found"},
		{name: "non-numeric folder", fields: map[string]string{"folder_id": "abc"}, filename: "a.pdf", content: pdfBytes, code: http.StatusNotFound, msg: "Folder not found"},
		{name: "not a pdf", fields: map[string]string{"folder_id": fmt.Sprint(folder)}, filename: "a.pdf", content: "just some text", code: http.StatusUnprocessableEntity, msg: "Uploaded file is not a PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.upload(token, tt.fields, tt.filename, tt.content)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Equal(t, tt.msg, errorMessage(t, rec))
		})
	}

	rec := env.doJSON(http.MethodPost, "/pdf_handlers", token, map[string]any{"folder_id": folder})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "No PDF file uploaded", errorMessage(t, rec))

	rec = env.doJSON(http.MethodGet, "/pdf_handlers", token, nil)
	assert.Empty(t, decode[pdfList](t, rec).Pdfs)
}

func TestUploadPdfTooLarge(t *testing.T) {
	env := newTestEnv(t, nil, func(cfg *config.Config) { cfg.MaxUploadBytes = 1024 })
	token := env.signup("mia@example.com")
	folder := env.createFolder(token, "Reading")

	big := pdfBytes + strings.Repeat("0", 4096)
	rec := env.upload(token, map[string]string{"folder_id": fmt.Sprint(folder)}, "big.pdf", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
}

func TestListPdfs(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("nina@example.com")
	a := env.createFolder(token, "A")
	b := env.createFolder(token, "B")
	env.uploadPdf(token, a, "one")
	env.uploadPdf(token, b, "two")

	rec := env.doJSON(http.MethodGet, "/pdf_handlers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[pdfList](t, rec).Pdfs
	require.Len(t, all, 2)
	assert.Equal(t, "one", all[0].Pdfname)
	assert.Equal(t, "A", *all[0].FolderName)

	rec = env.doJSON(http.MethodGet, fmt.Sprintf("/pdf_handlers?folder_id=%d", b), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inB := decode[pdfList](t, rec).Pdfs
	require.Len(t, inB, 1)
	assert.Equal(t, "two", inB[0].Pdfname)

	rec = env.doJSON(http.MethodGet, "/pdf_handlers?folder_id=999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPdfsAreScopedToOwner(t *testing.T) {
	env := newTestEnv(t, &stubAnalyzer{answer: "42"})
	owner := env.signup("olga@example.com")
	other := env.signup("pete@example.com")
	pdf := env.uploadPdf(owner, env.createFolder(owner, "Mine"), "secret")
	base := fmt.Sprintf("/pdf_handlers/%d", pdf.ID)

	tests := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, base, nil},
		{http.MethodDelete, base, nil},
		{http.MethodPost, base + "/save_notes", map[string]string{"notes": "<p>mine</p>"}},
		{http.MethodPatch, base + "/update_notes", map[string]string{"notes": "<p>mine</p>"}},
		{http.MethodGet, base + "/show_notes", nil},
		{http.MethodPost, base + "/toggle_favorite", nil},
		{http.MethodPost, base + "/ask", map[string]string{"question": "what?"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.doJSON(tt.method, tt.path, other, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "PDF handler not found", errorMessage(t, rec))
		})
	}

	for _, path := range []string{"/pdf_handlers", "/pdf_handlers/favorites", "/pdf_handlers/recent"} {
		rec := env.doJSON(http.MethodGet, path, other, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[pdfList](t, rec).Pdfs, path)
	}

	rec := env.doJSON(http.MethodGet, base, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[pdfEnvelope](t, rec).Pdf
	assert.False(t, got.IsFavorite)
	assert.Empty(t, got.Notes)
}

func TestNotes(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("quinn@example.com")
	pdf := env.uploadPdf(token, env.createFolder(token, "Notes"), "doc")
	base := fmt.Sprintf("/pdf_handlers/%d", pdf.ID)

	rec := env.doJSON(http.MethodGet, base+"/show_notes", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No notes found for this PDF", errorMessage(t, rec))

	for _, blank := range []any{nil, map[string]string{"notes": ""}, map[string]string{"notes": "<p> </p>"}, map[string]string{"notes": "<script>alert(1)</script>"}} {
		rec = env.doJSON(http.MethodPost, base+"/save_notes", token, blank)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "Notes cannot be empty", errorMessage(t, rec))
	}

	rec = env.doJSON(http.MethodPost, base+"/save_notes", token, map[string]string{"notes": `<p onclick="x()">Hello <strong>world</strong></p><script>bad()</script>`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[pdfEnvelope](t, rec)
	assert.Equal(t, "Notes saved successfully", saved.Message)
	assert.Equal(t, "<p>Hello <strong>world</strong></p>", saved.Pdf.Notes)
	assert.True(t, saved.Pdf.HasNotes)

	rec = env.doJSON(http.MethodPatch, base+"/update_notes", token, map[string]string{"notes": "<h2>Summary</h2>"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Notes updated successfully", decode[pdfEnvelope](t, rec).Message)

	rec = env.doJSON(http.MethodGet, base+"/show_notes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h2>Summary</h2>", decode[map[string]string](t, rec)["notes"])
}

func TestToggleFavoriteTwiceRestoresState(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("rita@example.com")
	pdf := env.uploadPdf(token, env.createFolder(token, "Favs"), "doc")
	path := fmt.Sprintf("/pdf_handlers/%d/toggle_favorite", pdf.ID)

	rec := env.doJSON(http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[pdfEnvelope](t, rec)
	assert.True(t, first.IsFavorite)
	assert.Equal(t, "Added to favorites", first.Message)

	rec = env.doJSON(http.MethodGet, "/pdf_handlers/favorites", token, nil)
	favs := decode[pdfList](t, rec).Pdfs
	require.Len(t, favs, 1)
	assert.Equal(t, pdf.ID, favs[0].ID)

	rec = env.doJSON(http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[pdfEnvelope](t, rec)
	assert.False(t, second.IsFavorite)
	assert.Equal(t, "Removed from favorites", second.Message)

	rec = env.doJSON(http.MethodGet, fmt.Sprintf("/pdf_handlers/%d", pdf.ID), token, nil)
	assert.Equal(t, pdf.IsFavorite, decode[pdfEnvelope](t, rec).Pdf.IsFavorite)

	rec = env.doJSON(http.MethodGet, "/pdf_handlers/favorites", token, nil)
	assert.Empty(t, decode[pdfList](t, rec).Pdfs)
}

func TestRecent(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("sam@example.com")
	folder := env.createFolder(token, "Recent")
	for i := range 3 {
		env.uploadPdf(token, folder, fmt.Sprintf("doc-%d", i))
	}

	rec := env.doJSON(http.MethodGet, "/pdf_handlers/recent?limit=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[pdfList](t, rec).Pdfs
	require.Len(t, got, 2)
	assert.Equal(t, "doc-2", got[0].Pdfname)
	require.NotNil(t, got[0].LastModified)
	assert.True(t, got[0].LastModified.Equal(got[0].UpdatedAt))

	rec = env.doJSON(http.MethodGet, "/pdf_handlers/recent?days=abc&limit=-4", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[pdfList](t, rec).Pdfs, 3)
}

func TestDeletePdf(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("tina@example.com")
	pdf := env.uploadPdf(token, env.createFolder(token, "Trash"), "doc")
	path := fmt.Sprintf("/pdf_handlers/%d", pdf.ID)

	rec := env.doJSON(http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, pdf.FileURL, "", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "File not found", errorMessage(t, rec))
}

func TestPdfNonNumericID(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("uma@example.com")

	rec := env.doJSON(http.MethodGet, "/pdf_handlers/xyz", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PDF handler not found", errorMessage(t, rec))
}

func TestAsk(t *testing.T) {
	analyzer := &stubAnalyzer{answer: "It is about gophers."}
	env := newTestEnv(t, analyzer)
	token := env.signup("vic@example.com")
	pdf := env.uploadPdf(token, env.createFolder(token, "Q&A"), "doc")
	path := fmt.Sprintf("/pdf_handlers/%d/ask", pdf.ID)

	rec := env.doJSON(http.MethodPost, path, token, map[string]string{"question": "What is it about?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "It is about gophers.", decode[map[string]any](t, rec)["answer"])

	rec = env.doJSON(http.MethodPost, path, token, map[string]string{"question": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Question cannot be empty", errorMessage(t, rec))

	analyzer.err = fmt.Errorf("%w: status 500", common.ErrAnalysisUnavailable)
	rec = env.doJSON(http.MethodPost, path, token, map[string]string{"question": "Again?"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	env.pdfs.Wait()
	analyzer.mu.Lock()
	defer analyzer.mu.Unlock()
	assert.Equal(t, []int64{pdf.ID}, analyzer.indexed)
}

func TestAskWithoutAnalysisService(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("wes@example.com")
	pdf := env.uploadPdf(token, env.createFolder(token, "Q&A"), "doc")

	rec := env.doJSON(http.MethodPost, fmt.Sprintf("/pdf_handlers/%d/ask", pdf.ID), token, map[string]string{"question": "Hello?"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServeUploadRejectsBadKeys(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/uploads/not-a-key", "/uploads/123e4567-e89b-12d3-a456-426614174000_missing.pdf"} {
		rec := env.do(http.MethodGet, path, "", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
