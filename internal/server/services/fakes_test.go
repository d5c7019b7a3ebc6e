package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/logging"
	"github.com/dmitrijs2005/pdfnotes/internal/server/storage"
	"go.uber.org/zap"
)

const pdfBytes = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func nopLogger() logging.Logger {
	return logging.NewZapLogger(zap.NewNop())
}

type fakeStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	saveErr error
	deleted []string
}

func newFakeStore() *fakeStore { return &fakeStore{files: map[string][]byte{}} }

func (f *fakeStore) Save(_ context.Context, name string, r io.Reader) (string, int64, error) {
	if f.saveErr != nil {
		return "", 0, f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	key := storage.NewKey(name)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[key] = data
	return key, int64(len(data)), nil
}

func (f *fakeStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

type fakeAnalyzer struct {
	mu       sync.Mutex
	answer   string
	askErr   error
	indexed  map[int64][]byte
	indexErr error
}

func newFakeAnalyzer() *fakeAnalyzer { return &fakeAnalyzer{indexed: map[int64][]byte{}} }

func (f *fakeAnalyzer) Ask(_ context.Context, pdfID int64, question string) (string, error) {
	if f.askErr != nil {
		return "", f.askErr
	}
	return f.answer, nil
}

func (f *fakeAnalyzer) Index(_ context.Context, pdfID int64, _ string, r io.Reader) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[pdfID] = data
	return nil
}

var errBoom = errors.New("boom")
