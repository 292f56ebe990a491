package addons

import (
	"cmp"
	"slices"
)

// Collection is the set of addons found in one AddOns directory
type Collection []*Addon

// index maps addon IDs to addons. It is rebuilt for every query.
func (c Collection) index() map[string]*Addon {
	idx := make(map[string]*Addon, len(c))
	for _, a := range c {
		idx[a.ID] = a
	}
	return idx
}

// Get returns the addon with the given ID
func (c Collection) Get(id string) (*Addon, bool) {
	for _, a := range c {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Apply routes each patch to the addon sharing its ID.
// It returns the IDs of patches that matched no addon.
func (c Collection) Apply(patches []AddonDetails) []string {
	idx := c.index()

	var unmatched []string
	for _, p := range patches {
		a, ok := idx[p.ID]
		if !ok {
			unmatched = append(unmatched, p.ID)
			continue
		}
		a.ApplyDetails(p)
	}
	return unmatched
}

// Updatable returns the addons whose remote version differs from the local one
func (c Collection) Updatable() Collection {
	var out Collection
	for _, a := range c {
		if a.IsUpdatable() {
			out = append(out, a)
		}
	}
	return out
}

// Sort orders the collection in place: updatable addons first, then by ID
func (c Collection) Sort() {
	slices.SortFunc(c, Compare)
}

// Compare is the canonical addon ordering. Updatable addons sort before the
// rest, ties are broken by ascending ID.
func Compare(a, b *Addon) int {
	au, bu := a.IsUpdatable(), b.IsUpdatable()
	if au != bu {
		if au {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.ID, b.ID)
}

// CombinedDependencies returns the IDs affected by an action on the addon:
// itself, its direct dependencies and their direct dependencies.
//
// A dependency that is a parent is skipped when the addon is a parent too, so
// one released addon never takes another one with it. Dependencies missing
// from the collection are ignored. The result is sorted and deduplicated.
//
// Example:
//
//	Foo: [Bar, Baz]
//	Bar: [Foo]
//	Baz: [Foo]
//
// With Baz as the target the result is [Bar, Baz, Foo].
func (a *Addon) CombinedDependencies(addons []*Addon) []string {
	idx := Collection(addons).index()

	deps := []string{a.ID}
	for _, id := range a.Dependencies {
		dep, ok := idx[id]
		if !ok {
			continue
		}
		if a.IsParent() && dep.IsParent() {
			continue
		}

		deps = append(deps, id)
		deps = append(deps, dep.Dependencies...)
	}

	slices.Sort(deps)
	return slices.Compact(deps)
}
