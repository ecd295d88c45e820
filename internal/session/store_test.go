package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"entrance-client/internal/model"
	"entrance-client/internal/session"
)

func TestMemoryStore(t *testing.T) {
	store := session.NewMemoryStore()
	require.Nil(t, store.Get())

	user := &model.User{ID: 1, Email: "resident@test.com", Role: model.RoleResident}
	require.NoError(t, store.Set(user))
	require.Equal(t, user, store.Get())

	require.NoError(t, store.Clear())
	require.Nil(t, store.Get())
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first := session.NewFileStore(path)
	user := &model.User{ID: 7, Email: "admin@test.com", Role: model.RoleBuildingManager}
	require.NoError(t, first.Set(user))

	// A fresh store over the same file sees the cached profile
	second := session.NewFileStore(path)
	got := second.Get()
	require.NotNil(t, got)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, user.Email, got.Email)
	require.Equal(t, user.Role, got.Role)
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	require.Nil(t, store.Get())
	require.NoError(t, store.Clear())
}

func TestFileStoreCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := session.NewFileStore(path)
	require.Nil(t, store.Get())
}

func TestFileStoreClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path)
	require.NoError(t, store.Set(&model.User{ID: 1}))

	require.NoError(t, store.Clear())
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
	require.Nil(t, store.Get())
}
