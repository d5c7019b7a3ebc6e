package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPdfFolder(t *testing.T) {
	var p Pdf
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"pdfname":"a.pdf","folder_id":null,"folder_name":null}`), &p))
	assert.Equal(t, "-", p.Folder())
	assert.Nil(t, p.FolderID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"folder_id":7,"folder_name":"Papers"}`), &p))
	assert.Equal(t, "Papers", p.Folder())
	assert.Equal(t, int64(7), *p.FolderID)
}

func TestFolderNestedPdfs(t *testing.T) {
	var f Folder
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Inbox","pdf_handlers":[{"id":2,"pdfname":"x"}]}`), &f))
	require.Len(t, f.Pdfs, 1)
	assert.Equal(t, "x", f.Pdfs[0].Name)
}
