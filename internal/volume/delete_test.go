package volume

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podconsole/internal/podman"
	"podconsole/internal/podman/podmantest"
)

func TestDeleteDialog_PreselectsLatest(t *testing.T) {
	d := NewDeleteDialog(podman.Volume{ID: "v", RepoTags: []string{"x:1.0", "x:latest"}})
	assert.Equal(t, Confirming, d.State())
	assert.Equal(t, []string{"x:latest", "x:1.0"}, d.Tags())
	assert.True(t, d.Selected("x:latest"))
	assert.False(t, d.Selected("x:1.0"))
	assert.False(t, d.CanSelectAll())
}

func TestDeleteDialog_ConfirmDisabledWhenNothingSelected(t *testing.T) {
	d := NewDeleteDialog(podman.Volume{ID: "v", RepoTags: []string{"x:latest", "x:1.0"}})
	d.Toggle("x:latest")
	assert.False(t, d.CanConfirm())
	_, err := d.Confirm()
	assert.ErrorIs(t, err, ErrNothingSelected)
	assert.Equal(t, Confirming, d.State())
}

func TestDeleteDialog_AllSelectedDeletes(t *testing.T) {
	d := NewDeleteDialog(podman.Volume{ID: "v", RepoTags: []string{"a:1", "a:2", "a:latest"}})
	require.True(t, d.CanSelectAll())
	d.SelectAll()
	plan, err := d.Confirm()
	require.NoError(t, err)
	assert.True(t, plan.DeleteAll)
	assert.Equal(t, Deleting, d.State())

	_, err = d.Confirm()
	assert.Error(t, err, "second confirm is rejected")
}

func TestDeleteDialog_UntaggedVolumeDeletes(t *testing.T) {
	d := NewDeleteDialog(podman.Volume{ID: "v"})
	assert.True(t, d.CanConfirm())
	plan, err := d.Confirm()
	require.NoError(t, err)
	assert.True(t, plan.DeleteAll)
}

// The ":latest" tag is pre-selected; the user swaps the selection to
// x:1.0 and confirms. Exactly one untag for x:1.0, no delete.
func TestDeleteFlow_PartialUntag(t *testing.T) {
	fake := podmantest.New()
	v := podman.Volume{ID: "vol1", RepoTags: []string{"x:latest", "x:1.0"}, IsSystem: true}
	d := NewDeleteDialog(v)
	d.Toggle("x:latest")
	d.Toggle("x:1.0")

	plan, err := d.Confirm()
	require.NoError(t, err)
	require.False(t, plan.DeleteAll)
	require.NoError(t, Execute(context.Background(), fake, v, plan))

	untags := fake.CallsTo("untagVolume")
	require.Len(t, untags, 1)
	assert.Equal(t, "vol1", untags[0].ID)
	assert.True(t, untags[0].IsSystem)
	assert.Equal(t, []any{"1.0", "x"}, untags[0].Args)
	assert.Empty(t, fake.CallsTo("deleteVolume"))
}

func TestUntag_HaltsOnFirstFailure(t *testing.T) {
	fake := podmantest.New()
	fake.FailFor("untagVolume", "2", "no such tag", "a:2 not found")
	v := podman.Volume{ID: "v", RepoTags: []string{"a:1", "a:2", "a:3", "a:latest"}}

	err := Untag(context.Background(), fake, v, []string{"a:1", "a:2", "a:3"})
	var ue *UntagError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "a:2", ue.Tag)
	assert.Equal(t, []string{"a:1"}, ue.Done)
	assert.Equal(t, "Failed to remove volume a:2", ue.Error())
	assert.Equal(t, "no such tag: a:2 not found", ue.Err.Detail())
	assert.Len(t, fake.CallsTo("untagVolume"), 2, "a:3 is never attempted")
}

func TestExecute_DeleteFailureOffersForce(t *testing.T) {
	fake := podmantest.New()
	fake.Fail("deleteVolume", "volume in use", "used by web")
	v := podman.Volume{ID: "v", RepoTags: []string{"a:latest"}}
	d := NewDeleteDialog(v)
	plan, err := d.Confirm()
	require.NoError(t, err)

	err = Execute(context.Background(), fake, v, plan)
	var de *DeleteError
	require.ErrorAs(t, err, &de)
	d.DeleteFailed(de.Err.Message)
	assert.Equal(t, ForceConfirming, d.State())
	assert.Equal(t, "volume in use", d.Reason())
	calls := fake.CallsTo("deleteVolume")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{false}, calls[0].Args)
}

func TestForceDelete(t *testing.T) {
	fake := podmantest.New()
	v := podman.Volume{ID: "v", RepoTags: []string{"a:latest"}}
	require.NoError(t, ForceDelete(context.Background(), fake, v))
	assert.Equal(t, []any{true}, fake.CallsTo("deleteVolume")[0].Args)

	fake.Fail("deleteVolume", "busy", "device busy")
	err := ForceDelete(context.Background(), fake, v)
	var fe *ForceError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Failed to force remove volume a:latest", fe.Error())
	assert.True(t, errors.Is(err, fe.Err))
}
