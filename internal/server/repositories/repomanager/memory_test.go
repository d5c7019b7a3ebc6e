package repomanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, m *MemoryRepositoryManager) (user *models.User, folder *models.Folder, pdf *models.Pdf) {
	t.Helper()
	ctx := context.Background()

	user, err := m.Users().Create(ctx, &models.User{Email: "a@example.com", PasswordHash: []byte("h")})
	require.NoError(t, err)
	folder, err = m.Folders().Create(ctx, &models.Folder{UserID: user.ID, Name: "Work"})
	require.NoError(t, err)
	fid := folder.ID
	pdf, err = m.Pdfs().Create(ctx, &models.Pdf{UserID: user.ID, FolderID: &fid, Name: "a.pdf", FileURL: "/uploads/a"})
	require.NoError(t, err)
	return user, folder, pdf
}

func TestMemoryUsers(t *testing.T) {
	m := NewMemoryRepositoryManager()
	ctx := context.Background()

	u, err := m.Users().Create(ctx, &models.User{Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = m.Users().Create(ctx, &models.User{Email: "a@example.com"})
	require.ErrorIs(t, err, common.ErrEmailTaken)

	got, err := m.Users().GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = m.Users().GetByID(ctx, 99)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryScoping(t *testing.T) {
	m := NewMemoryRepositoryManager()
	ctx := context.Background()
	_, folder, pdf := seed(t, m)

	other := int64(999)
	_, err := m.Folders().Get(ctx, other, folder.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = m.Folders().Rename(ctx, other, folder.ID, "x")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, m.Folders().Delete(ctx, other, folder.ID), common.ErrorNotFound)

	_, err = m.Pdfs().Get(ctx, other, pdf.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = m.Pdfs().ToggleFavorite(ctx, other, pdf.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = m.Pdfs().Delete(ctx, other, pdf.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	list, err := m.Pdfs().List(ctx, other, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryFolderDeleteNullifiesPdfs(t *testing.T) {
	m := NewMemoryRepositoryManager()
	ctx := context.Background()
	user, folder, pdf := seed(t, m)

	got, err := m.Pdfs().Get(ctx, user.ID, pdf.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", got.FolderName)

	require.NoError(t, m.Folders().Delete(ctx, user.ID, folder.ID))

	got, err = m.Pdfs().Get(ctx, user.ID, pdf.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FolderID)
	assert.Empty(t, got.FolderName)
}

func TestMemoryToggleAndNotes(t *testing.T) {
	m := NewMemoryRepositoryManager()
	ctx := context.Background()
	user, _, pdf := seed(t, m)

	fav, err := m.Pdfs().ToggleFavorite(ctx, user.ID, pdf.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	favs, err := m.Pdfs().Favorites(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)

	fav, err = m.Pdfs().ToggleFavorite(ctx, user.ID, pdf.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	updated, err := m.Pdfs().UpdateNotes(ctx, user.ID, pdf.ID, "<p>n</p>")
	require.NoError(t, err)
	assert.True(t, updated.HasNotes())
	assert.Equal(t, "Work", updated.FolderName)
}

func TestMemoryRecent(t *testing.T) {
	m := NewMemoryRepositoryManager()
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	clock := base
	m.s.now = func() time.Time { return clock }

	for i := range 4 {
		clock = base.Add(time.Duration(i) * 24 * time.Hour)
		_, err := m.Pdfs().Create(ctx, &models.Pdf{UserID: 1, Name: "p"})
		require.NoError(t, err)
	}

	got, err := m.Pdfs().Recent(ctx, 1, base.Add(24*time.Hour), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(4), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestMemoryWithTx(t *testing.T) {
	m := NewMemoryRepositoryManager()
	ctx := context.Background()
	user, folder, pdf := seed(t, m)

	boom := errors.New("boom")
	err := m.WithTx(ctx, func(ctx context.Context, tx RepositoryManager) error {
		if _, err := tx.Pdfs().DetachFolder(ctx, user.ID, folder.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := m.Pdfs().Get(ctx, user.ID, pdf.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FolderID, "rolled back")

	err = m.WithTx(ctx, func(ctx context.Context, tx RepositoryManager) error {
		if _, err := tx.Pdfs().DetachFolder(ctx, user.ID, folder.ID); err != nil {
			return err
		}
		return tx.Folders().Delete(ctx, user.ID, folder.ID)
	})
	require.NoError(t, err)

	got, err = m.Pdfs().Get(ctx, user.ID, pdf.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FolderID)
	_, err = m.Folders().Get(ctx, user.ID, folder.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
