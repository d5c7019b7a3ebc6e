// Package clienttest provides an in-memory client.Client for tests of the
// layers above the HTTP client.
package clienttest

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/client/client"
	"github.com/dmitrijs2005/pdfnotes/internal/client/models"
	"github.com/dmitrijs2005/pdfnotes/internal/server/notes"
)

// Fake mimics the server closely enough for command tests. Set Err to make
// every call fail with it.
type Fake struct {
	mu sync.Mutex

	Err    error
	Token  string
	Answer string

	// Passwords by email.
	Users map[string]string
	// Uploaded file contents by PDF id.
	Files map[int64][]byte

	folders []models.Folder
	pdfs    []models.Pdf
	nextID  int64
	now     time.Time
}

var _ client.Client = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		Users:  map[string]string{},
		Files:  map[int64][]byte{},
		Answer: "42",
		now:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *Fake) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *Fake) tick() time.Time {
	f.now = f.now.Add(time.Minute)
	return f.now
}

func (f *Fake) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Token = token
}

func (f *Fake) authed() error {
	if f.Err != nil {
		return f.Err
	}
	if f.Token == "" {
		return &client.APIError{StatusCode: 401, Message: "Token missing"}
	}
	return nil
}

func (f *Fake) Signup(_ context.Context, email, password, confirmation string) (*models.Auth, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if _, ok := f.Users[email]; ok {
		return nil, &client.APIError{StatusCode: 422, Message: "Email has already been taken"}
	}
	if password != confirmation {
		return nil, &client.APIError{StatusCode: 422, Message: "Password confirmation doesn't match Password"}
	}
	f.Users[email] = password
	return &models.Auth{Token: "token-" + email, User: models.User{ID: f.id(), Email: email}}, nil
}

func (f *Fake) Login(_ context.Context, email, password string) (*models.Auth, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if p, ok := f.Users[email]; !ok || p != password {
		return nil, &client.APIError{StatusCode: 401, Message: "Invalid email or password"}
	}
	return &models.Auth{Token: "token-" + email, User: models.User{ID: 1, Email: email}}, nil
}

func (f *Fake) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Err
}

func (f *Fake) Folders(context.Context) ([]models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return nil, err
	}
	out := make([]models.Folder, 0, len(f.folders))
	for _, fo := range f.folders {
		fo.Pdfs = f.pdfsIn(&fo.ID)
		out = append(out, fo)
	}
	return out, nil
}

func (f *Fake) folder(id int64) (int, error) {
	for i, fo := range f.folders {
		if fo.ID == id {
			return i, nil
		}
	}
	return -1, &client.APIError{StatusCode: 404, Message: "Folder not found"}
}

func (f *Fake) CreateFolder(_ context.Context, name string) (*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &client.APIError{StatusCode: 422, Message: "Name can't be blank"}
	}
	now := f.tick()
	fo := models.Folder{ID: f.id(), Name: name, CreatedAt: now, UpdatedAt: now}
	f.folders = append(f.folders, fo)
	return &fo, nil
}

func (f *Fake) RenameFolder(_ context.Context, id int64, name string) (*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return nil, err
	}
	i, err := f.folder(id)
	if err != nil {
		return nil, err
	}
	f.folders[i].Name = name
	f.folders[i].UpdatedAt = f.tick()
	fo := f.folders[i]
	return &fo, nil
}

func (f *Fake) DeleteFolder(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return err
	}
	i, err := f.folder(id)
	if err != nil {
		return err
	}
	f.folders = append(f.folders[:i], f.folders[i+1:]...)
	for j := range f.pdfs {
		if p := f.pdfs[j].FolderID; p != nil && *p == id {
			f.pdfs[j].FolderID = nil
			f.pdfs[j].FolderName = nil
		}
	}
	return nil
}

func (f *Fake) Upload(_ context.Context, folderID int64, name, filename string, r io.Reader) (*models.Pdf, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return nil, err
	}
	i, err := f.folder(folderID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = filename
	}
	now := f.tick()
	folderName := f.folders[i].Name
	p := models.Pdf{
		ID: f.id(), FolderID: &folderID, FolderName: &folderName,
		Name: name, Size: int64(len(data)), FileURL: "/uploads/uuid_" + filename,
		CreatedAt: now, UpdatedAt: now,
	}
	f.pdfs = append(f.pdfs, p)
	f.Files[p.ID] = data
	return &p, nil
}

func (f *Fake) pdfsIn(folderID *int64) []models.Pdf {
	out := []models.Pdf{}
	for _, p := range f.pdfs {
		if folderID != nil && (p.FolderID == nil || *p.FolderID != *folderID) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *Fake) Pdfs(_ context.Context, folderID *int64) ([]models.Pdf, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return nil, err
	}
	return f.pdfsIn(folderID), nil
}

func (f *Fake) pdf(id int64) (int, error) {
	for i, p := range f.pdfs {
		if p.ID == id {
			return i, nil
		}
	}
	return -1, &client.APIError{StatusCode: 404, Message: "PDF handler not found"}
}

func (f *Fake) Pdf(_ context.Context, id int64) (*models.Pdf, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return nil, err
	}
	i, err := f.pdf(id)
	if err != nil {
		return nil, err
	}
	p := f.pdfs[i]
	return &p, nil
}

func (f *Fake) DeletePdf(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return err
	}
	i, err := f.pdf(id)
	if err != nil {
		return err
	}
	f.pdfs = append(f.pdfs[:i], f.pdfs[i+1:]...)
	delete(f.Files, id)
	return nil
}

func (f *Fake) ToggleFavorite(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return false, err
	}
	i, err := f.pdf(id)
	if err != nil {
		return false, err
	}
	f.pdfs[i].IsFavorite = !f.pdfs[i].IsFavorite
	return f.pdfs[i].IsFavorite, nil
}

func (f *Fake) Favorites(context.Context) ([]models.Pdf, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return nil, err
	}
	out := []models.Pdf{}
	for _, p := range f.pdfsIn(nil) {
		if p.IsFavorite {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Fake) Recent(_ context.Context, _, limit int) ([]models.Pdf, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return nil, err
	}
	out := f.pdfsIn(nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit <= 0 {
		limit = 10
	}
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		t := out[i].UpdatedAt
		out[i].LastModified = &t
	}
	return out, nil
}

func (f *Fake) Notes(_ context.Context, id int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return "", err
	}
	i, err := f.pdf(id)
	if err != nil {
		return "", err
	}
	if f.pdfs[i].Notes == "" {
		return "", &client.APIError{StatusCode: 404, Message: "No notes found for this PDF"}
	}
	return f.pdfs[i].Notes, nil
}

// setNotes stores content the way the server does: sanitized as HTML.
func (f *Fake) setNotes(id int64, content string) (*models.Pdf, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return nil, err
	}
	i, err := f.pdf(id)
	if err != nil {
		return nil, err
	}
	if notes.IsBlank(content) {
		return nil, &client.APIError{StatusCode: 422, Message: "Notes cannot be empty"}
	}
	f.pdfs[i].Notes = notes.Sanitize(content)
	f.pdfs[i].HasNotes = true
	f.pdfs[i].UpdatedAt = f.tick()
	p := f.pdfs[i]
	return &p, nil
}

func (f *Fake) SaveNotes(_ context.Context, id int64, notes string) (*models.Pdf, error) {
	return f.setNotes(id, notes)
}

func (f *Fake) UpdateNotes(_ context.Context, id int64, notes string) (*models.Pdf, error) {
	return f.setNotes(id, notes)
}

func (f *Fake) Ask(_ context.Context, id int64, question string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authed(); err != nil {
		return "", err
	}
	if _, err := f.pdf(id); err != nil {
		return "", err
	}
	if question == "" {
		return "", &client.APIError{StatusCode: 422, Message: "Question cannot be empty"}
	}
	return f.Answer, nil
}
