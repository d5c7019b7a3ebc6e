package models

import "time"

// Pdf is an uploaded document record (the pdf_handlers table).
type Pdf struct {
	ID     int64
	UserID int64
	// FolderID is nil once the owning folder has been deleted.
	FolderID   *int64
	Name       string
	Size       int64
	FileURL    string
	Notes      string
	IsFavorite bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// FolderName is filled by queries that join folders; empty when FolderID is nil.
	FolderName string
}

// HasNotes reports whether the record carries non-empty notes.
func (p *Pdf) HasNotes() bool {
	return p.Notes != ""
}
