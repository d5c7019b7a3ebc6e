// Package models holds the JSON shapes the client reads from the API.
package models

import "time"

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Auth is the body returned by signup and login.
type Auth struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Folder struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// Pdfs is only filled by the folder listing.
	Pdfs []Pdf `json:"pdf_handlers,omitempty"`
}

type Pdf struct {
	ID           int64      `json:"id"`
	FolderID     *int64     `json:"folder_id"`
	FolderName   *string    `json:"folder_name"`
	Name         string     `json:"pdfname"`
	Size         int64      `json:"pdf_size"`
	FileURL      string     `json:"file_url"`
	Notes        string     `json:"notes"`
	IsFavorite   bool       `json:"is_favorite"`
	HasNotes     bool       `json:"has_notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// Folder returns the folder name, or "-" for a PDF whose folder was deleted.
func (p Pdf) Folder() string {
	if p.FolderName == nil {
		return "-"
	}
	return *p.FolderName
}
