// Package storage persists uploaded PDF bytes. Files are addressed by a key
// of the form "<uuid>_<sanitized name>" and published under /uploads/<key>.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/google/uuid"
)

// Store is implemented by the local directory and S3 backends.
type Store interface {
	// Save stores the contents of r under a fresh key derived from name.
	Save(ctx context.Context, name string, r io.Reader) (key string, size int64, err error)
	// Open returns the stored file, or common.ErrorNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the file. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	keyPattern  = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}_[A-Za-z0-9._-]+$`)
)

// SanitizeName reduces a client-supplied file name to a safe base name.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "document.pdf"
	}
	return name
}

// NewKey returns a unique storage key for name.
func NewKey(name string) string {
	return uuid.NewString() + "_" + SanitizeName(name)
}

// ValidKey reports whether key has the shape produced by NewKey.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// URL returns the public relative URL for key.
func URL(key string) string {
	return common.UploadsPathPrefix + key
}

// KeyFromURL is the inverse of URL.
func KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, common.UploadsPathPrefix)
	if !ok || !ValidKey(key) {
		return "", false
	}
	return key, true
}
