package addons

import "path/filepath"

// StateKind identifies which lifecycle variant an addon is in
type StateKind int

const (
	StateIdle StateKind = iota
	StateUpdatable
	StateDownloading
	StateUnpacking
)

// State is the externally observable lifecycle flag of an addon.
// Note is only meaningful for StateIdle.
type State struct {
	Kind StateKind
	Note string
}

// Idle returns an idle state with an optional note (e.g. "downloaded")
func Idle(note string) State { return State{Kind: StateIdle, Note: note} }

// Updatable returns the updatable state
func Updatable() State { return State{Kind: StateUpdatable} }

// Downloading returns the downloading state
func Downloading() State { return State{Kind: StateDownloading} }

// Unpacking returns the unpacking state
func Unpacking() State { return State{Kind: StateUnpacking} }

func (s State) String() string {
	switch s.Kind {
	case StateUpdatable:
		return "updatable"
	case StateDownloading:
		return "downloading"
	case StateUnpacking:
		return "unpacking"
	default:
		if s.Note != "" {
			return s.Note
		}
		return "idle"
	}
}

// Addon represents a single installed addon folder.
//
// ID is the folder name. Other addons reference it by that name in their
// dependency lists, so it is the only identity an addon has.
type Addon struct {
	ID             string
	Title          string
	Version        string   // Empty when the addon has no independent release
	RemoteVersion  string   // Empty until details are applied
	RemoteFilename string   // Empty until details are applied
	RemoteURL      string   // Archive URL; required for downloads
	Path           string   // Full path to the addon folder
	Dependencies   []string // IDs of other addons, resolved by lookup
	State          State
	WowiID         string // WoWInterface file id, opaque here
}

// AddonDetails is remote metadata for exactly one addon
type AddonDetails struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
}

// NewAddon creates an addon whose ID is the base name of path
func NewAddon(title, version, path, wowiID string, dependencies []string) *Addon {
	return &Addon{
		ID:           filepath.Base(path),
		Title:        title,
		Version:      version,
		Path:         path,
		Dependencies: dependencies,
		State:        Idle(""),
		WowiID:       wowiID,
	}
}

// IsParent reports whether the addon carries its own version.
//
// A parent can take its dependencies with it on removal, but never another
// parent. A single download containing several folders can produce more than
// one parent when several of them declare a version.
func (a *Addon) IsParent() bool {
	return a.Version != ""
}

// IsUpdatable reports whether a remote version is known and differs from the
// local one. A missing local version always counts as different. An empty
// remote version means unknown, so it never makes an addon updatable.
func (a *Addon) IsUpdatable() bool {
	return a.RemoteVersion != "" && a.Version != a.RemoteVersion
}

// ApplyDetails merges remote metadata into the addon.
// The caller routes the patch; its ID is not checked. A patch with an empty
// version resets RemoteVersion to unknown.
func (a *Addon) ApplyDetails(patch AddonDetails) {
	a.RemoteVersion = patch.Version
	a.RemoteFilename = patch.Filename
	if patch.URL != "" {
		a.RemoteURL = patch.URL
	}

	switch {
	case a.IsUpdatable():
		a.State = Updatable()
	case a.State.Kind == StateUpdatable:
		// Versions match again, nothing left to update.
		a.State = Idle("")
	}
}

// Equal reports whether both addons have the same ID
func (a *Addon) Equal(other *Addon) bool {
	return a.ID == other.ID
}
