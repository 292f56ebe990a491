package updater

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"
)

const (
	// MaxBackupsPerAddon is the maximum number of backups kept per addon
	MaxBackupsPerAddon = 3
	// BackupTimestampFormat names backup directories
	BackupTimestampFormat = "20060102-150405.000"
)

// BackupManager copies addon folders aside before they are removed.
// Backups live in <data>/backups/<addon id>/<timestamp>.
type BackupManager struct {
	backupDir string
	now       func() time.Time
}

// NewBackupManager creates a backup manager rooted at <dataDir>/backups
func NewBackupManager(dataDir string) *BackupManager {
	return &BackupManager{
		backupDir: filepath.Join(dataDir, "backups"),
		now:       time.Now,
	}
}

// CreateBackup copies addonPath to <backups>/<id>/<timestamp> and prunes
// backups beyond MaxBackupsPerAddon
func (bm *BackupManager) CreateBackup(addonPath, id string) (string, error) {
	addonBackupDir := filepath.Join(bm.backupDir, id)
	if err := os.MkdirAll(addonBackupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath := filepath.Join(addonBackupDir, bm.now().Format(BackupTimestampFormat))
	if err := os.CopyFS(backupPath, os.DirFS(addonPath)); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to backup addon: %w", err)
	}

	if err := bm.cleanupOldBackups(id); err != nil {
		return backupPath, fmt.Errorf("failed to cleanup old backups: %w", err)
	}

	return backupPath, nil
}

// ListBackups lists the backups of an addon, newest first
func (bm *BackupManager) ListBackups(id string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(bm.backupDir, id))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	backups := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			backups = append(backups, entry.Name())
		}
	}

	// Timestamps sort lexically
	slices.Sort(backups)
	slices.Reverse(backups)
	return backups, nil
}

func (bm *BackupManager) cleanupOldBackups(id string) error {
	backups, err := bm.ListBackups(id)
	if err != nil || len(backups) <= MaxBackupsPerAddon {
		return err
	}

	var errs []error
	for _, stale := range backups[MaxBackupsPerAddon:] {
		errs = append(errs, os.RemoveAll(filepath.Join(bm.backupDir, id, stale)))
	}
	return errors.Join(errs...)
}
