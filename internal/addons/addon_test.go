package addons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addon(id, version string, deps ...string) *Addon {
	return NewAddon(id, version, "/game/Interface/AddOns/"+id, "", deps)
}

func TestNewAddonUsesFolderNameAsID(t *testing.T) {
	a := NewAddon("Deadly Boss Mods", "10.1", "/game/Interface/AddOns/DBM-Core", "8814", nil)

	assert.Equal(t, "DBM-Core", a.ID)
	assert.Equal(t, Idle(""), a.State)
	assert.True(t, a.IsParent())
}

func TestIsUpdatable(t *testing.T) {
	tests := []struct {
		name          string
		version       string
		remoteVersion string
		want          bool
	}{
		{name: "no remote version", version: "1.0", remoteVersion: "", want: false},
		{name: "same version", version: "1.0", remoteVersion: "1.0", want: false},
		{name: "different version", version: "1.0", remoteVersion: "1.1", want: true},
		{name: "no local version", version: "", remoteVersion: "1.1", want: true},
		{name: "neither version", version: "", remoteVersion: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := addon("Foo", tt.version)
			a.RemoteVersion = tt.remoteVersion
			assert.Equal(t, tt.want, a.IsUpdatable())
		})
	}
}

func TestApplyDetailsIsIdempotent(t *testing.T) {
	patch := AddonDetails{ID: "Foo", Version: "2.0", Filename: "Foo-2.0.zip", URL: "https://example.com/foo.zip"}

	once := addon("Foo", "1.0")
	once.ApplyDetails(patch)

	twice := addon("Foo", "1.0")
	twice.ApplyDetails(patch)
	twice.ApplyDetails(patch)

	assert.Equal(t, once, twice)
	assert.Equal(t, "2.0", twice.RemoteVersion)
	assert.Equal(t, "Foo-2.0.zip", twice.RemoteFilename)
	assert.Equal(t, "https://example.com/foo.zip", twice.RemoteURL)
	assert.Equal(t, Updatable(), twice.State)
}

func TestApplyDetailsKeepsURLWhenPatchHasNone(t *testing.T) {
	a := addon("Foo", "1.0")
	a.RemoteURL = "https://example.com/old.zip"

	a.ApplyDetails(AddonDetails{ID: "Foo", Version: "1.1", Filename: "Foo.zip"})

	assert.Equal(t, "https://example.com/old.zip", a.RemoteURL)
}

func TestApplyDetailsDemotesOnVersionParity(t *testing.T) {
	a := addon("Foo", "1.0")
	a.ApplyDetails(AddonDetails{ID: "Foo", Version: "1.1"})
	require.Equal(t, Updatable(), a.State)

	a.Version = "1.1"
	a.ApplyDetails(AddonDetails{ID: "Foo", Version: "1.1"})

	assert.Equal(t, Idle(""), a.State)
}

func TestApplyDetailsLeavesOtherStatesAlone(t *testing.T) {
	a := addon("Foo", "1.0")
	a.State = Idle("downloaded")

	a.ApplyDetails(AddonDetails{ID: "Foo", Version: "1.0"})

	assert.Equal(t, Idle("downloaded"), a.State)
}

func TestCombinedDependenciesExample(t *testing.T) {
	foo := addon("Foo", "", "Bar", "Baz")
	bar := addon("Bar", "", "Foo")
	baz := addon("Baz", "", "Foo")
	collection := Collection{foo, bar, baz}

	assert.Equal(t, []string{"Bar", "Baz", "Foo"}, baz.CombinedDependencies(collection))
	assert.Equal(t, []string{"Bar", "Baz", "Foo"}, foo.CombinedDependencies(collection))
}

func TestCombinedDependenciesIncludesSelf(t *testing.T) {
	lonely := addon("Lonely", "1.0")

	assert.Equal(t, []string{"Lonely"}, lonely.CombinedDependencies(nil))
}

func TestCombinedDependenciesSkipsParentOfParent(t *testing.T) {
	a := addon("A", "1.0", "B", "C")
	b := addon("B", "2.0")
	c := addon("C", "")
	collection := Collection{a, b, c}

	assert.Equal(t, []string{"A", "C"}, a.CombinedDependencies(collection))
}

func TestCombinedDependenciesKeepsParentOfNonParent(t *testing.T) {
	child := addon("Child", "", "Lib")
	lib := addon("Lib", "3.0")

	assert.Equal(t, []string{"Child", "Lib"}, child.CombinedDependencies(Collection{child, lib}))
}

func TestCombinedDependenciesExpandsOneHop(t *testing.T) {
	a := addon("A", "1.0", "C")
	c := addon("C", "", "D")
	d := addon("D", "", "E")
	e := addon("E", "")
	collection := Collection{a, c, d, e}

	assert.Equal(t, []string{"A", "C", "D"}, a.CombinedDependencies(collection))
}

func TestCombinedDependenciesIgnoresDanglingIDs(t *testing.T) {
	a := addon("A", "", "Missing", "B")
	b := addon("B", "")

	assert.Equal(t, []string{"A", "B"}, a.CombinedDependencies(Collection{a, b}))
}

func TestCombinedDependenciesHandlesCycles(t *testing.T) {
	foo := addon("Foo", "", "Bar")
	bar := addon("Bar", "", "Foo")
	collection := Collection{foo, bar}

	assert.Equal(t, []string{"Bar", "Foo"}, foo.CombinedDependencies(collection))
	assert.Equal(t, []string{"Bar", "Foo"}, bar.CombinedDependencies(collection))
}

func TestCombinedDependenciesDeduplicates(t *testing.T) {
	a := addon("A", "", "B", "C", "B")
	b := addon("B", "", "C", "A")
	c := addon("C", "", "B")

	assert.Equal(t, []string{"A", "B", "C"}, a.CombinedDependencies(Collection{a, b, c}))
}

func TestCollectionSort(t *testing.T) {
	zeta := addon("Zeta", "1.0")
	zeta.RemoteVersion = "1.1"
	alpha := addon("Alpha", "1.0")
	beta := addon("Beta", "")
	beta.RemoteVersion = "0.9"

	c := Collection{zeta, alpha, beta}
	c.Sort()

	var ids []string
	for _, a := range c {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"Beta", "Zeta", "Alpha"}, ids)
}

func TestEqualComparesIDOnly(t *testing.T) {
	a := addon("Foo", "1.0")
	b := addon("Foo", "2.0")
	b.State = Downloading()

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(addon("Bar", "1.0")))
}

func TestCollectionApplyRoutesByID(t *testing.T) {
	foo := addon("Foo", "1.0")
	bar := addon("Bar", "1.0")
	c := Collection{foo, bar}

	unmatched := c.Apply([]AddonDetails{
		{ID: "Foo", Version: "1.1"},
		{ID: "Gone", Version: "9.9"},
	})

	assert.Equal(t, []string{"Gone"}, unmatched)
	assert.Equal(t, "1.1", foo.RemoteVersion)
	assert.Empty(t, bar.RemoteVersion)

	updatable := c.Updatable()
	require.Len(t, updatable, 1)
	assert.Equal(t, "Foo", updatable[0].ID)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle("").String())
	assert.Equal(t, "downloaded", Idle("downloaded").String())
	assert.Equal(t, "updatable", Updatable().String())
	assert.Equal(t, "downloading", Downloading().String())
	assert.Equal(t, "unpacking", Unpacking().String())
}

func TestApplyDetailsEmptyVersionIsUnknown(t *testing.T) {
	a := addon("Foo", "")
	a.ApplyDetails(AddonDetails{ID: "Foo", Version: ""})
	assert.False(t, a.IsUpdatable())
	assert.Equal(t, Idle(""), a.State)

	b := addon("Bar", "1.0")
	b.ApplyDetails(AddonDetails{ID: "Bar", Version: "1.1"})
	require.True(t, b.IsUpdatable())

	b.ApplyDetails(AddonDetails{ID: "Bar", Version: ""})
	assert.Empty(t, b.RemoteVersion)
	assert.False(t, b.IsUpdatable())
	assert.Equal(t, Idle(""), b.State)
}
