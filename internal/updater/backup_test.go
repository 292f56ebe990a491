package updater

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBackupPrunesOldest(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Foo")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "media"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Foo.toc"), []byte("## Title: Foo\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "media", "icon.tga"), []byte("tga"), 0644))

	bm := NewBackupManager(filepath.Join(root, "data"))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	bm.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	var last string
	for range MaxBackupsPerAddon + 2 {
		path, err := bm.CreateBackup(src, "Foo")
		require.NoError(t, err)
		last = path
	}

	backups, err := bm.ListBackups("Foo")
	require.NoError(t, err)
	require.Len(t, backups, MaxBackupsPerAddon)
	assert.Equal(t, filepath.Base(last), backups[0])
	assert.Equal(t, base.Add(3*time.Minute).Format(BackupTimestampFormat), backups[len(backups)-1])

	data, err := os.ReadFile(filepath.Join(last, "media", "icon.tga"))
	require.NoError(t, err)
	assert.Equal(t, "tga", string(data))
}

func TestListBackupsUnknownAddon(t *testing.T) {
	backups, err := NewBackupManager(t.TempDir()).ListBackups("Nope")
	require.NoError(t, err)
	assert.Empty(t, backups)
}
