package upload_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsbay/internal/infrastructure/upload"
)

func openStore(t *testing.T) *upload.Store {
	t.Helper()
	store, err := upload.Open(filepath.Join(t.TempDir(), "uploads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_ResumeIsComplementOfUploaded(t *testing.T) {
	store := openStore(t)

	session, err := store.Create("order-1", "video.mp4", 5, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, session.MissingChunks())

	_, err = store.MarkUploaded(session.ID, 0)
	require.NoError(t, err)
	_, err = store.MarkUploaded(session.ID, 3)
	require.NoError(t, err)

	// A fresh load (a resuming client) sees exactly the chunks it still
	// has to send.
	reloaded, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, reloaded.MissingChunks())
}

func TestStore_MarkUploadedIsIdempotent(t *testing.T) {
	store := openStore(t)

	session, err := store.Create("order-1", "video.mp4", 3, 1<<20)
	require.NoError(t, err)

	_, err = store.MarkUploaded(session.ID, 1)
	require.NoError(t, err)
	again, err := store.MarkUploaded(session.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2}, again.MissingChunks())
}

func TestStore_MarkUploadedValidatesRange(t *testing.T) {
	store := openStore(t)

	session, err := store.Create("order-1", "video.mp4", 3, 1<<20)
	require.NoError(t, err)

	_, err = store.MarkUploaded(session.ID, -1)
	assert.Error(t, err)
	_, err = store.MarkUploaded(session.ID, 3)
	assert.Error(t, err)
}

func TestStore_CompleteRequiresAllChunks(t *testing.T) {
	store := openStore(t)

	session, err := store.Create("order-1", "video.mp4", 2, 1<<20)
	require.NoError(t, err)

	_, err = store.Complete(session.ID)
	assert.Error(t, err)

	_, err = store.MarkUploaded(session.ID, 0)
	require.NoError(t, err)
	_, err = store.MarkUploaded(session.ID, 1)
	require.NoError(t, err)

	completed, err := store.Complete(session.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)

	// A completed session rejects further chunk writes.
	_, err = store.MarkUploaded(session.ID, 0)
	assert.Error(t, err)
}

func TestStore_SessionsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uploads.db")

	store, err := upload.Open(path)
	require.NoError(t, err)
	session, err := store.Create("order-1", "video.mp4", 4, 1<<20)
	require.NoError(t, err)
	_, err = store.MarkUploaded(session.ID, 2)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := upload.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, loaded.MissingChunks())
}
