package addons

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CachedDetails is the last catalog answer recorded for an addon
type CachedDetails struct {
	Details   AddonDetails `json:"details"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// detailsFile is the on-disk layout of details.json
type detailsFile struct {
	Addons map[string]CachedDetails `json:"addons"`
}

// DetailsStore persists remote details between runs
type DetailsStore struct {
	path  string
	store *detailsFile
	mu    sync.RWMutex
}

// NewDetailsStore creates a store backed by <dataDir>/details.json
func NewDetailsStore(dataDir string) *DetailsStore {
	return &DetailsStore{
		path:  filepath.Join(dataDir, "details.json"),
		store: &detailsFile{Addons: make(map[string]CachedDetails)},
	}
}

// Load reads the store from disk. A missing file yields an empty store.
func (s *DetailsStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.store = &detailsFile{Addons: make(map[string]CachedDetails)}
			return nil
		}
		return err
	}

	var f detailsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.Addons == nil {
		f.Addons = make(map[string]CachedDetails)
	}

	s.store = &f
	return nil
}

// Save writes the store to disk
func (s *DetailsStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Put records details fetched at the given time
func (s *DetailsStore) Put(details AddonDetails, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Addons[details.ID] = CachedDetails{Details: details, FetchedAt: fetchedAt}
}

// Get returns the cached details of an addon
func (s *DetailsStore) Get(id string) (CachedDetails, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cd, ok := s.store.Addons[id]
	return cd, ok
}

// Delete forgets an addon
func (s *DetailsStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.store.Addons, id)
}

// Patches returns every cached details record
func (s *DetailsStore) Patches() []AddonDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patches := make([]AddonDetails, 0, len(s.store.Addons))
	for _, cd := range s.store.Addons {
		patches = append(patches, cd.Details)
	}
	return patches
}
