package updater

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/bnema/addonctl/internal/addons"
	"github.com/bnema/addonctl/internal/network"
	"github.com/bnema/addonctl/internal/wowi"
)

var ErrAddonNotFound = errors.New("addon not found")

// Downloader streams an addon archive into a directory
type Downloader interface {
	DownloadAddon(ctx context.Context, addon *addons.Addon, dir string, observe network.Observer) (string, error)
}

// Catalog answers file details for WoWInterface ids
type Catalog interface {
	FileDetails(ctx context.Context, ids []string) ([]wowi.FileDetails, error)
}

// Options configures a Manager
type Options struct {
	AddonsDir   string
	DownloadDir string
	DataDir     string
	Concurrency int
}

// Manager checks, downloads and removes addons of one AddOns directory
type Manager struct {
	addonsDir   string
	downloadDir string
	concurrency int
	downloader  Downloader
	catalog     Catalog
	store       *addons.DetailsStore
	backup      *BackupManager
	log         *log.Logger
	now         func() time.Time
}

// NewManager creates a new addon manager
func NewManager(opts Options, downloader Downloader, catalog Catalog, logger *log.Logger) *Manager {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Manager{
		addonsDir:   opts.AddonsDir,
		downloadDir: opts.DownloadDir,
		concurrency: opts.Concurrency,
		downloader:  downloader,
		catalog:     catalog,
		store:       addons.NewDetailsStore(opts.DataDir),
		backup:      NewBackupManager(opts.DataDir),
		log:         logger,
		now:         time.Now,
	}
}

// Load loads the details cache from disk
func (m *Manager) Load() error {
	return m.store.Load()
}

// Collection scans the AddOns directory, applies cached details and returns
// the addons in canonical order
func (m *Manager) Collection() (addons.Collection, error) {
	c, err := addons.Scan(m.addonsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan addons: %w", err)
	}

	if stale := c.Apply(m.store.Patches()); len(stale) > 0 {
		m.log.Debug("Cached details without installed addon", "ids", stale)
	}

	c.Sort()
	return c, nil
}

// Check fetches catalog details for every addon with a WoWInterface id,
// applies and caches them, and returns the IDs that are now updatable
func (m *Manager) Check(ctx context.Context, c addons.Collection) ([]string, error) {
	ids := wowi.IDs(c)
	if len(ids) == 0 {
		m.log.Info("No addons with a WoWInterface id to check")
		return nil, nil
	}

	files, err := m.catalog.FileDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog details: %w", err)
	}

	patches := wowi.Patches(c, files)
	c.Apply(patches)

	fetchedAt := m.now()
	for _, p := range patches {
		m.store.Put(p, fetchedAt)
	}
	if err := m.store.Save(); err != nil {
		m.log.Warn("Failed to save details cache", "error", err)
	}

	var updatable []string
	for _, a := range c.Updatable() {
		updatable = append(updatable, a.ID)
	}
	c.Sort()

	m.log.Info("Checked for updates", "checked", len(patches), "updatable", len(updatable))
	return updatable, nil
}

// Failure is a download that did not complete
type Failure struct {
	ID  string
	Err error
}

// UpdateResult contains results from an update run
type UpdateResult struct {
	Downloaded []string
	Skipped    []string
	Failed     []Failure
}

// Update downloads every updatable addon of targets that has a remote URL,
// running at most the configured number of downloads at once. Each addon is
// only touched by the goroutine downloading it.
func (m *Manager) Update(ctx context.Context, targets addons.Collection, observe network.Observer) *UpdateResult {
	result := &UpdateResult{}
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(m.concurrency)
	for _, a := range targets {
		if !a.IsUpdatable() || a.RemoteURL == "" {
			result.Skipped = append(result.Skipped, a.ID)
			continue
		}

		a.State = addons.Downloading()
		p.Go(func() {
			path, err := m.downloader.DownloadAddon(ctx, a, m.downloadDir, observe)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				a.State = addons.Idle("error")
				result.Failed = append(result.Failed, Failure{ID: a.ID, Err: err})
				m.log.Warn("Download failed", "addon", a.ID, "error", err)
				return
			}

			a.State = addons.Idle("downloaded")
			result.Downloaded = append(result.Downloaded, a.ID)
			m.log.Info("Addon downloaded", "addon", a.ID, "version", a.RemoteVersion, "path", path)
		})
	}
	p.Wait()

	slices.Sort(result.Downloaded)
	slices.SortFunc(result.Failed, func(a, b Failure) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return result
}

// Remove deletes the folders of an addon's combined dependencies and
// returns the IDs removed. Folders that do not exist are skipped.
func (m *Manager) Remove(c addons.Collection, id string, createBackup bool) ([]string, error) {
	target, ok := c.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAddonNotFound, id)
	}

	var removed []string
	for _, depID := range target.CombinedDependencies(c) {
		path := filepath.Join(m.addonsDir, depID)
		if a, ok := c.Get(depID); ok {
			path = a.Path
		}
		if !m.isAddonFolder(depID, path) {
			m.log.Warn("Refusing to remove suspicious addon id", "id", depID, "path", path)
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		if createBackup {
			backupPath, err := m.backup.CreateBackup(path, depID)
			if err != nil {
				m.log.Warn("Failed to create backup", "addon", depID, "error", err)
			} else {
				m.log.Info("Backup created", "addon", depID, "path", backupPath)
			}
		}

		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("failed to remove addon %s: %w", depID, err)
		}

		m.store.Delete(depID)
		removed = append(removed, depID)
		m.log.Info("Addon removed", "addon", depID)
	}

	if err := m.store.Save(); err != nil {
		m.log.Warn("Failed to save details cache after removal", "error", err)
	}

	return removed, nil
}

// isAddonFolder reports whether id is a bare folder name and path sits
// directly inside the AddOns directory. Ids like "." or ".." come straight
// from manifests and would otherwise resolve to the AddOns directory itself
// or to its parent.
func (m *Manager) isAddonFolder(id, path string) bool {
	if id == "." || id == ".." || !filepath.IsLocal(id) || filepath.Base(id) != id {
		return false
	}
	return filepath.Dir(filepath.Clean(path)) == filepath.Clean(m.addonsDir)
}

// AddonsDir returns the AddOns directory
func (m *Manager) AddonsDir() string {
	return m.addonsDir
}

// DownloadDir returns the directory archives are written to
func (m *Manager) DownloadDir() string {
	return m.downloadDir
}

// Backups returns the backup manager
func (m *Manager) Backups() *BackupManager {
	return m.backup
}
