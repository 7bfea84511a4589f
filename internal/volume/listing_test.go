package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podconsole/internal/podman"
)

func ids(vols []podman.Volume) []string {
	out := make([]string, len(vols))
	for i, v := range vols {
		out[i] = v.ID
	}
	return out
}

func TestSort_LatestFirstUntaggedLast(t *testing.T) {
	vols := []podman.Volume{
		{ID: "A", RepoTags: []string{"app:1.0"}},
		{ID: "B", RepoTags: []string{"app:latest"}},
		{ID: "C"},
	}
	Sort(vols, podman.OwnerUser)
	assert.Equal(t, []string{"B", "A", "C"}, ids(vols))
}

func TestSort_ByPrimaryTag(t *testing.T) {
	vols := []podman.Volume{
		{ID: "B", RepoTags: []string{"mmm:latest"}},
		{ID: "A", RepoTags: []string{"zzz:1.0", "aaa:latest"}},
	}
	Sort(vols, podman.OwnerUser)
	assert.Equal(t, []string{"A", "B"}, ids(vols))
	assert.Equal(t, "aaa:latest", PrimaryTag(vols[0]))
	assert.Equal(t, "", PrimaryTag(podman.Volume{ID: "C"}))
}

func TestSort_PreferredScopeFirst(t *testing.T) {
	vols := []podman.Volume{
		{ID: "s1", RepoTags: []string{"a:1"}, IsSystem: true},
		{ID: "u1", RepoTags: []string{"z:1"}},
		{ID: "u2"},
	}
	Sort(vols, podman.OwnerUser)
	assert.Equal(t, []string{"u1", "u2", "s1"}, ids(vols))

	Sort(vols, podman.OwnerSystem)
	assert.Equal(t, []string{"s1", "u1", "u2"}, ids(vols))
}

func TestFilter_OwnerScope(t *testing.T) {
	vols := []podman.Volume{
		{ID: "s1", RepoTags: []string{"db:latest"}, IsSystem: true},
		{ID: "u1", RepoTags: []string{"db:1"}},
		{ID: "s2", RepoTags: []string{"web:latest"}, IsSystem: true},
		{ID: "u2", RepoTags: []string{"web:1"}},
	}
	for _, text := range []string{"", "db", "WEB", "nomatch"} {
		got := Filter(vols, Options{OwnerFilter: "system", BothScopes: true, TextFilter: text})
		for _, v := range got {
			assert.True(t, v.IsSystem, "text %q let %s through", text, v.ID)
		}
	}
	assert.Equal(t, []string{"s1", "s2"}, ids(Filter(vols, Options{OwnerFilter: "system", BothScopes: true})))
	assert.Equal(t, []string{"s2"}, ids(Filter(vols, Options{OwnerFilter: "system", BothScopes: true, TextFilter: "WEB"})))

	// With only one scope available the owner filter is ignored.
	assert.Len(t, Filter(vols, Options{OwnerFilter: "system"}), 4)
	assert.Equal(t, []string{"u1", "u2"}, ids(Filter(vols, Options{OwnerFilter: "user", BothScopes: true})))
}

func TestFilter_Intermediate(t *testing.T) {
	vols := []podman.Volume{
		{ID: "t", RepoTags: []string{"a:1"}},
		{ID: "u"},
	}
	assert.Equal(t, []string{"t"}, ids(Filter(vols, Options{})))
	assert.Equal(t, []string{"t", "u"}, ids(Filter(vols, Options{ShowIntermediate: true})))
	assert.Empty(t, Filter(vols, Options{ShowIntermediate: true, TextFilter: "zzz"}))

	assert.True(t, HasIntermediate(vols, Options{}))
	assert.False(t, HasIntermediate(vols, Options{TextFilter: "a"}))
	assert.False(t, HasIntermediate(vols[:1], Options{}))
}

func TestComputeStats(t *testing.T) {
	vols := []podman.Volume{
		{ID: "a", Size: 100},
		{ID: "b", Size: 50},
		{ID: "a", Size: 10, IsSystem: true},
	}
	assert.Equal(t, Stats{}, ComputeStats(vols, nil))

	usedBy := podman.UsedBy{podman.Key("a", false): {"web"}}
	st := ComputeStats(vols, usedBy)
	assert.Equal(t, 3, st.Total)
	assert.EqualValues(t, 160, st.TotalSize)
	assert.Equal(t, 2, st.Unused)
	assert.EqualValues(t, 60, st.UnusedSize)
	require.Len(t, st.UnusedVolumes, 2)
	assert.Equal(t, "b", st.UnusedVolumes[0].ID)
	assert.True(t, st.UnusedVolumes[1].IsSystem)

	groups := UnusedByOwner(st.UnusedVolumes)
	assert.Len(t, groups[podman.OwnerUser], 1)
	assert.Len(t, groups[podman.OwnerSystem], 1)
}

func TestBuildUsedBy(t *testing.T) {
	ctrs := []podman.Container{
		{ID: "c1", Names: []string{"web"}, Mounts: []podman.MountPoint{
			{Type: "volume", Name: "data"},
			{Type: "bind", Source: "/srv"},
		}},
		{ID: "c2", Names: []string{"db"}, IsSystem: true, Mounts: []podman.MountPoint{
			{Type: "volume", Name: "data"},
		}},
		{ID: "c3", Names: []string{"worker"}, Mounts: []podman.MountPoint{
			{Type: "volume", Name: "data"},
		}},
	}
	usedBy := BuildUsedBy(ctrs)
	assert.Equal(t, []string{"web", "worker"}, usedBy[podman.Key("data", false)])
	assert.Equal(t, []string{"db"}, usedBy[podman.Key("data", true)])
	assert.Len(t, usedBy, 2)
	assert.Equal(t, 2, UsedByCount(podman.Volume{ID: "data"}, usedBy))
}
