package repomanager

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
	"github.com/dmitrijs2005/pdfnotes/internal/server/repositories/folders"
	"github.com/dmitrijs2005/pdfnotes/internal/server/repositories/pdfs"
	"github.com/dmitrijs2005/pdfnotes/internal/server/repositories/users"
)

// memStore holds all tables of the in-memory backend behind one mutex.
type memStore struct {
	mu sync.Mutex

	lastUserID, lastFolderID, lastPdfID int64

	users   map[int64]*models.User
	folders map[int64]*models.Folder
	pdfs    map[int64]*models.Pdf

	now func() time.Time
}

type memSnapshot struct {
	lastUserID, lastFolderID, lastPdfID int64

	users   map[int64]*models.User
	folders map[int64]*models.Folder
	pdfs    map[int64]*models.Pdf
}

// snapshot copies the maps. Stored values are never mutated in place, so
// sharing the pointers is safe.
func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		lastUserID: s.lastUserID, lastFolderID: s.lastFolderID, lastPdfID: s.lastPdfID,
		users: maps.Clone(s.users), folders: maps.Clone(s.folders), pdfs: maps.Clone(s.pdfs),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.lastUserID, s.lastFolderID, s.lastPdfID = snap.lastUserID, snap.lastFolderID, snap.lastPdfID
	s.users, s.folders, s.pdfs = snap.users, snap.folders, snap.pdfs
}

// MemoryRepositoryManager keeps everything in process memory. It is used for
// local runs without PostgreSQL and by end-to-end handler tests.
type MemoryRepositoryManager struct {
	s *memStore
	// inTx is set on the manager handed to WithTx callbacks; the store lock
	// is already held.
	inTx bool
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{s: &memStore{
		users:   make(map[int64]*models.User),
		folders: make(map[int64]*models.Folder),
		pdfs:    make(map[int64]*models.Pdf),
		now:     func() time.Time { return time.Now().UTC() },
	}}
}

func (m *MemoryRepositoryManager) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.s.mu.Lock()
	return m.s.mu.Unlock
}

func (m *MemoryRepositoryManager) Users() users.Repository     { return memUsers{m} }
func (m *MemoryRepositoryManager) Folders() folders.Repository { return memFolders{m} }
func (m *MemoryRepositoryManager) Pdfs() pdfs.Repository       { return memPdfs{m} }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	if m.inTx {
		return fn(ctx, m)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	snap := m.s.snapshot()
	committed := false
	defer func() {
		if !committed {
			m.s.restore(snap)
		}
	}()

	if err := fn(ctx, &MemoryRepositoryManager{s: m.s, inTx: true}); err != nil {
		return err
	}
	committed = true
	return nil
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *MemoryRepositoryManager) Close() error                        { return nil }

type memUsers struct{ m *MemoryRepositoryManager }

func (r memUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	defer r.m.lock()()
	s := r.m.s

	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, common.ErrEmailTaken
		}
	}

	s.lastUserID++
	now := s.now()
	user.ID, user.CreatedAt, user.UpdatedAt = s.lastUserID, now, now
	stored := *user
	s.users[stored.ID] = &stored
	return user, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	defer r.m.lock()()

	for _, u := range r.m.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	defer r.m.lock()()

	u, ok := r.m.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

type memFolders struct{ m *MemoryRepositoryManager }

func (r memFolders) Create(_ context.Context, folder *models.Folder) (*models.Folder, error) {
	defer r.m.lock()()
	s := r.m.s

	s.lastFolderID++
	now := s.now()
	folder.ID, folder.CreatedAt, folder.UpdatedAt = s.lastFolderID, now, now
	stored := *folder
	s.folders[stored.ID] = &stored
	return folder, nil
}

func (r memFolders) Get(_ context.Context, userID, id int64) (*models.Folder, error) {
	defer r.m.lock()()

	f, ok := r.m.s.folders[id]
	if !ok || f.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *f
	return &c, nil
}

func (r memFolders) List(_ context.Context, userID int64) ([]*models.Folder, error) {
	defer r.m.lock()()

	result := make([]*models.Folder, 0)
	for _, id := range slices.Sorted(maps.Keys(r.m.s.folders)) {
		if f := r.m.s.folders[id]; f.UserID == userID {
			c := *f
			result = append(result, &c)
		}
	}
	return result, nil
}

func (r memFolders) Rename(_ context.Context, userID, id int64, name string) (*models.Folder, error) {
	defer r.m.lock()()
	s := r.m.s

	f, ok := s.folders[id]
	if !ok || f.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *f
	c.Name, c.UpdatedAt = name, s.now()
	s.folders[id] = &c
	out := c
	return &out, nil
}

func (r memFolders) Delete(_ context.Context, userID, id int64) error {
	defer r.m.lock()()
	s := r.m.s

	f, ok := s.folders[id]
	if !ok || f.UserID != userID {
		return common.ErrorNotFound
	}
	delete(s.folders, id)
	// Mirrors ON DELETE SET NULL.
	for pid, p := range s.pdfs {
		if p.FolderID != nil && *p.FolderID == id {
			c := *p
			c.FolderID = nil
			s.pdfs[pid] = &c
		}
	}
	return nil
}

type memPdfs struct{ m *MemoryRepositoryManager }

// view returns a copy of p with FolderName resolved. Caller holds the lock.
func (r memPdfs) view(p *models.Pdf) *models.Pdf {
	c := *p
	c.FolderName = ""
	if c.FolderID != nil {
		if f, ok := r.m.s.folders[*c.FolderID]; ok {
			c.FolderName = f.Name
		}
	}
	return &c
}

func (r memPdfs) owned(userID, id int64) (*models.Pdf, bool) {
	p, ok := r.m.s.pdfs[id]
	if !ok || p.UserID != userID {
		return nil, false
	}
	return p, true
}

func (r memPdfs) filter(keep func(p *models.Pdf) bool) []*models.Pdf {
	result := make([]*models.Pdf, 0)
	for _, id := range slices.Sorted(maps.Keys(r.m.s.pdfs)) {
		if p := r.m.s.pdfs[id]; keep(p) {
			result = append(result, r.view(p))
		}
	}
	return result
}

func (r memPdfs) Create(_ context.Context, pdf *models.Pdf) (*models.Pdf, error) {
	defer r.m.lock()()
	s := r.m.s

	s.lastPdfID++
	now := s.now()
	pdf.ID, pdf.CreatedAt, pdf.UpdatedAt = s.lastPdfID, now, now
	stored := *pdf
	stored.FolderName = ""
	s.pdfs[stored.ID] = &stored
	return pdf, nil
}

func (r memPdfs) Get(_ context.Context, userID, id int64) (*models.Pdf, error) {
	defer r.m.lock()()

	p, ok := r.owned(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.view(p), nil
}

func (r memPdfs) List(_ context.Context, userID int64, folderID *int64) ([]*models.Pdf, error) {
	defer r.m.lock()()

	return r.filter(func(p *models.Pdf) bool {
		if p.UserID != userID {
			return false
		}
		return folderID == nil || (p.FolderID != nil && *p.FolderID == *folderID)
	}), nil
}

func (r memPdfs) Favorites(_ context.Context, userID int64) ([]*models.Pdf, error) {
	defer r.m.lock()()

	return r.filter(func(p *models.Pdf) bool {
		return p.UserID == userID && p.IsFavorite
	}), nil
}

func (r memPdfs) Recent(_ context.Context, userID int64, since time.Time, limit int) ([]*models.Pdf, error) {
	defer r.m.lock()()

	result := r.filter(func(p *models.Pdf) bool {
		return p.UserID == userID && !p.UpdatedAt.Before(since)
	})
	slices.SortStableFunc(result, func(a, b *models.Pdf) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r memPdfs) UpdateNotes(_ context.Context, userID, id int64, notes string) (*models.Pdf, error) {
	defer r.m.lock()()

	p, ok := r.owned(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	c.Notes, c.UpdatedAt = notes, r.m.s.now()
	r.m.s.pdfs[id] = &c
	return r.view(&c), nil
}

func (r memPdfs) ToggleFavorite(_ context.Context, userID, id int64) (bool, error) {
	defer r.m.lock()()

	p, ok := r.owned(userID, id)
	if !ok {
		return false, common.ErrorNotFound
	}
	c := *p
	c.IsFavorite, c.UpdatedAt = !c.IsFavorite, r.m.s.now()
	r.m.s.pdfs[id] = &c
	return c.IsFavorite, nil
}

func (r memPdfs) Delete(_ context.Context, userID, id int64) (*models.Pdf, error) {
	defer r.m.lock()()

	p, ok := r.owned(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := r.view(p)
	delete(r.m.s.pdfs, id)
	return out, nil
}

func (r memPdfs) DetachFolder(_ context.Context, userID, folderID int64) (int64, error) {
	defer r.m.lock()()
	s := r.m.s

	var n int64
	for id, p := range s.pdfs {
		if p.UserID == userID && p.FolderID != nil && *p.FolderID == folderID {
			c := *p
			c.FolderID, c.UpdatedAt = nil, s.now()
			s.pdfs[id] = &c
			n++
		}
	}
	return n, nil
}
