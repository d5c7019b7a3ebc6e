package rest

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("erin@example.com")

	rec := env.doJSON(http.MethodPost, "/folders", token, map[string]string{"name": "Papers"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	papers := decode[folderView](t, rec)
	assert.Equal(t, "Papers", papers.Name)

	books := env.createFolder(token, "Books")
	env.uploadPdf(token, papers.ID, "paper")

	rec = env.doJSON(http.MethodGet, "/folders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]folderWithPdfsView](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "Papers", list[0].Name)
	require.Len(t, list[0].PdfHandlers, 1)
	assert.Equal(t, "paper", list[0].PdfHandlers[0].Pdfname)
	assert.Equal(t, books, list[1].ID)
	assert.NotNil(t, list[1].PdfHandlers)
	assert.Empty(t, list[1].PdfHandlers)

	rec = env.doJSON(http.MethodPatch, fmt.Sprintf("/folders/%d", books), token, map[string]any{"folder": map[string]string{"name": "Novels"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Novels", decode[folderView](t, rec).Name)

	rec = env.doJSON(http.MethodPut, fmt.Sprintf("/folders/%d", books), token, map[string]string{"name": "Fiction"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Fiction", decode[folderView](t, rec).Name)

	rec = env.doJSON(http.MethodGet, fmt.Sprintf("/folders/%d/pdf_handlers", papers.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	byFolder := decode[struct {
		Pdfs   []pdfView  `json:"pdfs"`
		Folder folderView `json:"folder"`
	}](t, rec)
	assert.Equal(t, papers.ID, byFolder.Folder.ID)
	require.Len(t, byFolder.Pdfs, 1)
	require.NotNil(t, byFolder.Pdfs[0].FolderName)
	assert.Equal(t, "Papers", *byFolder.Pdfs[0].FolderName)
}

func TestFolderValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("frank@example.com")
	id := env.createFolder(token, "Inbox")

	rec := env.doJSON(http.MethodPost, "/folders", token, map[string]any{"folder": map[string]string{"name": "   "}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Name can't be blank", errorMessage(t, rec))

	rec = env.doJSON(http.MethodPost, "/folders", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.doJSON(http.MethodPatch, fmt.Sprintf("/folders/%d", id), token, map[string]string{"name": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Name can't be blank", errorMessage(t, rec))
}

func TestDeleteFolderKeepsPdfs(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("gina@example.com")
	folder := env.createFolder(token, "Temp")
	pdf := env.uploadPdf(token, folder, "report")

	rec := env.doJSON(http.MethodDelete, fmt.Sprintf("/folders/%d", folder), token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.doJSON(http.MethodGet, fmt.Sprintf("/pdf_handlers/%d", pdf.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[struct {
		Pdf pdfView `json:"pdf"`
	}](t, rec).Pdf
	assert.Nil(t, got.FolderID)
	assert.Nil(t, got.FolderName)

	rec = env.doJSON(http.MethodGet, "/pdf_handlers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"folder_id":null`)

	rec = env.doJSON(http.MethodDelete, fmt.Sprintf("/folders/%d", folder), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Folder not found", errorMessage(t, rec))
}

func TestFoldersAreScopedToOwner(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.signup("owner@example.com")
	other := env.signup("other@example.com")
	folder := env.createFolder(owner, "Private")
	path := fmt.Sprintf("/folders/%d", folder)

	tests := []struct {
		method, path string
		body         any
	}{
		{http.MethodPatch, path, map[string]string{"name": "Mine now"}},
		{http.MethodPut, path, map[string]string{"name": "Mine now"}},
		{http.MethodDelete, path, nil},
		{http.MethodGet, path + "/pdf_handlers", nil},
		{http.MethodGet, fmt.Sprintf("/pdf_handlers?folder_id=%d", folder), nil},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.doJSON(tt.method, tt.path, other, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "Folder not found", errorMessage(t, rec))
		})
	}

	rec := env.doJSON(http.MethodGet, "/folders", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]folderWithPdfsView](t, rec))

	rec = env.doJSON(http.MethodGet, "/folders", owner, nil)
	list := decode[[]folderWithPdfsView](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Private", list[0].Name)
}

func TestFolderNonNumericID(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup("hank@example.com")

	rec := env.doJSON(http.MethodDelete, "/folders/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Folder not found", errorMessage(t, rec))
}
