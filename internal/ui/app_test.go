package ui

import (
	"reflect"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podconsole/internal/podman"
	"podconsole/internal/podman/podmantest"
	"podconsole/internal/volume"
)

// newTestApp builds the root model over fake and loads one snapshot.
func newTestApp(t *testing.T, fake *podmantest.Fake, scopes ...podman.Owner) *appModelAdapter {
	t.Helper()
	a := NewAppModel(Options{
		Client:  fake,
		Scopes:  scopes,
		User:    "alice",
		Timeout: time.Second,
	})
	adapter := &appModelAdapter{AppModel: a}
	run(t, adapter, adapter.refresh())
	return adapter
}

// run executes cmd and feeds every message of this package it yields back
// into the model until nothing is left. Commands that block (ticks, cursor
// blinks) are dropped.
func run(t *testing.T, a *appModelAdapter, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := execCmd(c)
		if !ok {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if !ownMsg(msg) {
			continue
		}
		_, next := a.Update(msg)
		queue = append(queue, next)
	}
}

func execCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(100 * time.Millisecond):
		return nil, false
	}
}

func ownMsg(msg tea.Msg) bool {
	if msg == nil {
		return false
	}
	return reflect.TypeOf(msg).PkgPath() == reflect.TypeOf(RefreshMsg{}).PkgPath()
}

// send delivers msg and runs whatever it triggers.
func send(t *testing.T, a *appModelAdapter, msg tea.Msg) {
	t.Helper()
	_, cmd := a.Update(msg)
	run(t, a, cmd)
}

// press types keys one at a time.
func press(t *testing.T, a *appModelAdapter, keys ...string) {
	t.Helper()
	for _, k := range keys {
		send(t, a, keyMsg(k))
	}
}

func topView[T View](t *testing.T, a *appModelAdapter) T {
	t.Helper()
	top, ok := a.Overlays.Peek()
	require.True(t, ok, "expected an overlay")
	v, ok := top.View.(T)
	require.True(t, ok, "top overlay is %T", top.View)
	return v
}

func webContainer() podman.Container {
	return podman.Container{ID: "c1", Names: []string{"web"}, Image: "docker.io/library/nginx:latest", ImageID: "sha256:abc", State: "running"}
}

func TestSnapshot_LoadsEveryScope(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[true] = []podman.Container{{ID: "s1", Names: []string{"db"}, IsSystem: true,
		Mounts: []podman.MountPoint{{Type: "volume", Name: "data"}}}}
	fake.Containers[false] = []podman.Container{webContainer()}
	fake.Volumes[true] = []podman.Volume{{ID: "data", RepoTags: []string{"data:latest"}, IsSystem: true}}
	fake.Volumes[false] = []podman.Volume{{ID: "cache", RepoTags: []string{"cache:latest"}}}

	a := newTestApp(t, fake, podman.OwnerSystem, podman.OwnerUser)

	assert.True(t, a.Snapshot.Loaded)
	assert.Len(t, a.Snapshot.Containers, 2)
	assert.Len(t, a.Volumes.Rows(), 2)
	assert.Equal(t, []string{"db"}, a.Snapshot.UsedBy[podman.Key("data", true)])
	assert.Equal(t, 1, a.Volumes.Stats().Unused)
	assert.False(t, a.loading)
	assert.Empty(t, a.Status)
}

func TestSnapshot_OlderLoadIsDropped(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{{ID: "old", RepoTags: []string{"old:latest"}}}
	a := newTestApp(t, fake, podman.OwnerUser)

	older := a.loadSnapshot()()
	fake.Volumes[false] = []podman.Volume{{ID: "new", RepoTags: []string{"new:latest"}}}
	newer := a.loadSnapshot()()

	send(t, a, newer)
	send(t, a, older)

	require.Len(t, a.Snapshot.Volumes, 1)
	assert.Equal(t, "new", a.Snapshot.Volumes[0].ID)
}

func TestSnapshot_FailedContainerListingLeavesUsedByUnknown(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{{ID: "cache", RepoTags: []string{"cache:latest"}}}
	fake.Fail("listContainers", "connection refused", "dial unix")

	a := newTestApp(t, fake, podman.OwnerUser)

	assert.Nil(t, a.Snapshot.UsedBy)
	assert.Len(t, a.Volumes.Rows(), 1, "volumes still list")
	assert.Equal(t, volume.Stats{}, a.Volumes.Stats())
	assert.True(t, a.StatusIsError)
	assert.Contains(t, a.Status, "list user containers")
}

func TestRename_EmptyNameIssuesNoCall(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{webContainer()}
	a := newTestApp(t, fake, podman.OwnerUser)

	send(t, a, ShowRenameMsg{})
	modal := topView[*RenameModal](t, a)
	assert.NotEmpty(t, modal.Value(), "dialog starts with a generated name")

	modal.SetValue("   ")
	press(t, a, "enter")

	assert.Empty(t, fake.CallsTo("rename"))
	assert.Equal(t, errContainerNameRequired, modal.FieldError())
	assert.Equal(t, 1, a.Overlays.Len())

	press(t, a, "x")
	assert.Empty(t, modal.FieldError(), "typing clears the field error")
}

func TestRename_ConflictShowsBannerAndKeepsDialog(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{webContainer()}
	fake.Fail("rename", "conflict", "name in use")
	a := newTestApp(t, fake, podman.OwnerUser)

	send(t, a, ShowRenameMsg{})
	modal := topView[*RenameModal](t, a)
	modal.SetValue("api")
	press(t, a, "enter")

	calls := fake.CallsTo("rename")
	require.Len(t, calls, 1)
	assert.Equal(t, "c1", calls[0].ID)
	assert.False(t, calls[0].IsSystem)
	assert.Equal(t, []any{"api"}, calls[0].Args)

	require.NotNil(t, modal.Banner())
	assert.Equal(t, "Failed to rename container web", modal.Banner().Message)
	assert.Contains(t, modal.Banner().Detail, "conflict")
	assert.Contains(t, modal.Banner().Detail, "name in use")
	assert.True(t, a.Overlays.IsTop(modal), "dialog stays open")

	press(t, a, "ctrl+x")
	assert.Nil(t, modal.Banner())

	press(t, a, "enter")
	assert.Len(t, fake.CallsTo("rename"), 2, "submit is enabled again after a failure")
}

func TestRename_SuccessReinspectsContainer(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{webContainer()}
	ins := podman.ContainerInspect{ID: "c1", Name: "/api"}
	ins.State.Status = "exited"
	fake.Inspects[podman.Key("c1", false)] = ins
	a := newTestApp(t, fake, podman.OwnerUser)

	send(t, a, ShowRenameMsg{})
	topView[*RenameModal](t, a).SetValue("api")
	press(t, a, "enter")

	assert.Equal(t, 0, a.Overlays.Len())
	assert.Len(t, fake.CallsTo("inspectContainer"), 1)
	sel := a.Containers.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, []string{"api"}, sel.Names)
	assert.Equal(t, "exited", sel.State)
	assert.Equal(t, "Renamed web to api", a.Status)
}

func TestRename_PatchSurvivesOlderLoad(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{webContainer()}
	fake.Inspects[podman.Key("c1", false)] = podman.ContainerInspect{ID: "c1", Name: "/api"}
	a := newTestApp(t, fake, podman.OwnerUser)

	// A periodic load reads the container before the rename lands.
	stale := a.loadSnapshot()()
	send(t, a, ShowRenameMsg{})
	topView[*RenameModal](t, a).SetValue("api")
	press(t, a, "enter")
	send(t, a, stale)

	sel := a.Containers.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, []string{"api"}, sel.Names)
	assert.False(t, a.loading)
}

func TestRename_ResultAfterDismissIsDropped(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{webContainer()}
	a := newTestApp(t, fake, podman.OwnerUser)

	send(t, a, ShowRenameMsg{})
	modal := topView[*RenameModal](t, a)
	press(t, a, "esc")
	require.Equal(t, 0, a.Overlays.Len())

	send(t, a, renameResultMsg{Modal: modal, Container: webContainer(), Name: "api",
		Err: &podman.APIError{Message: "conflict", Reason: "name in use"}})
	assert.Nil(t, modal.Banner())
	assert.Equal(t, 0, a.Overlays.Len())
}

func TestRename_NoSelection(t *testing.T) {
	a := newTestApp(t, podmantest.New(), podman.OwnerUser)
	send(t, a, ShowRenameMsg{})
	assert.Equal(t, 0, a.Overlays.Len())
	assert.Equal(t, "No container selected", a.Status)
}

func taggedVolume() podman.Volume {
	return podman.Volume{ID: "v1", RepoTags: []string{"quay.io/app:2.0", "quay.io/app:latest", "quay.io/app:1.0"}, Size: 2048}
}

func openDelete(t *testing.T, fake *podmantest.Fake) (*appModelAdapter, *VolumeDeleteModal) {
	t.Helper()
	a := newTestApp(t, fake, podman.OwnerUser)
	send(t, a, SwitchModeMsg{Mode: ModeVolumes})
	send(t, a, ShowDeleteVolumeMsg{})
	return a, topView[*VolumeDeleteModal](t, a)
}

func TestVolumeDelete_UntagsSelectedTagsInOrder(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{taggedVolume()}
	a, modal := openDelete(t, fake)

	d := modal.Dialog
	require.Equal(t, []string{"quay.io/app:latest", "quay.io/app:1.0", "quay.io/app:2.0"}, d.Tags())
	assert.Equal(t, []string{"quay.io/app:latest"}, d.Checked(), "latest is pre-selected")

	press(t, a, "j", " ")
	assert.Equal(t, []string{"quay.io/app:latest", "quay.io/app:1.0"}, d.Checked())

	listed := len(fake.CallsTo("listVolumes"))
	press(t, a, "enter")

	calls := fake.CallsTo("untagVolume")
	require.Len(t, calls, 2)
	assert.Equal(t, []any{"latest", "quay.io/app"}, calls[0].Args)
	assert.Equal(t, []any{"1.0", "quay.io/app"}, calls[1].Args)
	assert.Empty(t, fake.CallsTo("deleteVolume"))
	assert.Equal(t, 0, a.Overlays.Len())
	assert.Equal(t, volume.Idle, d.State())
	assert.Greater(t, len(fake.CallsTo("listVolumes")), listed, "listing refreshes")
}

func TestVolumeDelete_UntagFailureHaltsAndNotifies(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{taggedVolume()}
	fake.FailFor("untagVolume", "latest", "volume busy", "in use")
	a, _ := openDelete(t, fake)

	press(t, a, "j", " ", "enter")

	assert.Len(t, fake.CallsTo("untagVolume"), 1, "sequence stops at the first failure")
	assert.Equal(t, 0, a.Overlays.Len())
	require.Equal(t, 1, a.Notifications.Len())
	n := a.Notifications.Items()[0]
	assert.Equal(t, "Failed to remove volume quay.io/app:latest", n.Message)
	assert.Equal(t, "volume busy: in use", n.Detail)

	press(t, a, "ctrl+x")
	assert.Equal(t, 0, a.Notifications.Len())
}

func TestVolumeDelete_SelectAllDeletesVolume(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{taggedVolume()}
	a, _ := openDelete(t, fake)

	press(t, a, "a", "enter")

	calls := fake.CallsTo("deleteVolume")
	require.Len(t, calls, 1)
	assert.Equal(t, "v1", calls[0].ID)
	assert.Equal(t, []any{false}, calls[0].Args)
	assert.Empty(t, fake.CallsTo("untagVolume"))
}

func TestVolumeDelete_NothingSelectedCannotConfirm(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{taggedVolume()}
	a, modal := openDelete(t, fake)

	press(t, a, " ", "enter")
	assert.Empty(t, modal.Dialog.Checked())
	assert.Empty(t, fake.CallsTo("deleteVolume"))
	assert.Empty(t, fake.CallsTo("untagVolume"))
	assert.Equal(t, volume.Confirming, modal.Dialog.State())
}

func TestVolumeDelete_RefusedOffersForceRemove(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{{ID: "v2", RepoTags: []string{"app:latest"}}}
	fake.Fail("deleteVolume", "volume is being used", "container abc uses it")
	a, modal := openDelete(t, fake)
	d := modal.Dialog

	press(t, a, "enter")

	force := topView[*ConfirmModal](t, a)
	assert.Equal(t, volume.ForceConfirming, d.State())
	assert.Equal(t, "volume is being used: container abc uses it", d.Reason())
	assert.Contains(t, force.Details, d.Reason())

	press(t, a, "y")

	calls := fake.CallsTo("deleteVolume")
	require.Len(t, calls, 2)
	assert.Equal(t, []any{false}, calls[0].Args)
	assert.Equal(t, []any{true}, calls[1].Args)
	assert.Equal(t, 0, a.Overlays.Len())
	assert.Equal(t, volume.Idle, d.State())
	require.Equal(t, 1, a.Notifications.Len())
	n := a.Notifications.Items()[0]
	assert.Equal(t, "Failed to force remove volume app:latest", n.Message)
	assert.Equal(t, "volume is being used: container abc uses it", n.Detail)
}

func TestVolumeDelete_ForceConfirmedTwiceRemovesOnce(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{{ID: "v2", RepoTags: []string{"app:latest"}}}
	fake.Fail("deleteVolume", "volume is being used", "container abc uses it")
	a, modal := openDelete(t, fake)
	press(t, a, "enter")
	force := topView[*ConfirmModal](t, a)
	delete(fake.Errors, "deleteVolume")

	// Both keys arrive before the first confirm is handled.
	_, first := a.Update(keyMsg("y"))
	_, second := a.Update(keyMsg("y"))
	assert.Nil(t, second)
	run(t, a, first)
	send(t, a, ForceRemoveVolumeMsg{Modal: force, Dialog: modal.Dialog})

	calls := fake.CallsTo("deleteVolume")
	require.Len(t, calls, 2)
	assert.Equal(t, []any{true}, calls[1].Args)
	assert.Equal(t, 0, a.Notifications.Len())
	assert.Equal(t, "Volume app:latest removed", a.Status)
}

func TestVolumeDelete_ForceCancelClosesDialog(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{{ID: "v2", RepoTags: []string{"app:latest"}}}
	fake.Fail("deleteVolume", "volume is being used", "container abc uses it")
	a, modal := openDelete(t, fake)

	press(t, a, "enter", "esc")

	assert.Equal(t, 0, a.Overlays.Len())
	assert.Equal(t, volume.Idle, modal.Dialog.State())
	assert.Len(t, fake.CallsTo("deleteVolume"), 1)
}

func TestVolumeDelete_UntaggedVolumeIsDeletable(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{{ID: "anon"}}
	a := newTestApp(t, fake, podman.OwnerUser)
	send(t, a, SwitchModeMsg{Mode: ModeVolumes})
	send(t, a, ToggleIntermediateMsg{})
	send(t, a, ShowDeleteVolumeMsg{})

	press(t, a, "enter")
	calls := fake.CallsTo("deleteVolume")
	require.Len(t, calls, 1)
	assert.Equal(t, "anon", calls[0].ID)
}

func TestPrune_ChoosesScopes(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[true] = []podman.Volume{{ID: "a", RepoTags: []string{"a:latest"}, IsSystem: true}}
	fake.Volumes[false] = []podman.Volume{{ID: "b", RepoTags: []string{"b:latest"}}}
	a := newTestApp(t, fake, podman.OwnerSystem, podman.OwnerUser)

	send(t, a, ShowPruneMsg{})
	modal := topView[*PruneModal](t, a)
	assert.Equal(t, []podman.Owner{podman.OwnerSystem, podman.OwnerUser}, modal.Owners())

	press(t, a, "u")
	assert.Equal(t, []podman.Owner{podman.OwnerSystem}, modal.Owners())

	press(t, a, "y")
	calls := fake.CallsTo("pruneVolumes")
	require.Len(t, calls, 1)
	assert.True(t, calls[0].IsSystem)
	assert.Equal(t, 0, a.Overlays.Len())
}

func TestPrune_ConfirmedTwicePrunesOnce(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{{ID: "b", RepoTags: []string{"b:latest"}}}
	a := newTestApp(t, fake, podman.OwnerUser)
	send(t, a, ShowPruneMsg{})
	modal := topView[*PruneModal](t, a)

	_, first := a.Update(keyMsg("y"))
	_, second := a.Update(keyMsg("enter"))
	assert.Nil(t, second)
	run(t, a, first)
	send(t, a, PruneVolumesMsg{Modal: modal, Owners: []podman.Owner{podman.OwnerUser}})

	assert.Len(t, fake.CallsTo("pruneVolumes"), 1)
	assert.Equal(t, 0, a.Overlays.Len())
}

func TestPrune_NothingUnused(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{{ID: "c", Names: []string{"c"},
		Mounts: []podman.MountPoint{{Type: "volume", Name: "b"}}}}
	fake.Volumes[false] = []podman.Volume{{ID: "b", RepoTags: []string{"b:latest"}}}
	a := newTestApp(t, fake, podman.OwnerUser)

	send(t, a, ShowPruneMsg{})
	assert.Equal(t, 0, a.Overlays.Len())
	assert.Equal(t, "No unused volumes", a.Status)
}

func TestVolumes_FilterCapturesKeys(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{
		{ID: "1", RepoTags: []string{"quay.io/db:latest"}},
		{ID: "2", RepoTags: []string{"quay.io/web:latest"}},
	}
	a := newTestApp(t, fake, podman.OwnerUser)
	press(t, a, "3")
	require.Equal(t, ModeVolumes, a.Mode)

	press(t, a, "/", "q")
	assert.True(t, a.Volumes.Capturing())
	assert.Equal(t, "q", a.Volumes.Options().TextFilter, "q is typed, not bound")

	press(t, a, "backspace", "d", "b", "enter")
	assert.False(t, a.Volumes.Capturing())
	require.Len(t, a.Volumes.Rows(), 1)
	assert.Equal(t, "1", a.Volumes.Rows()[0].ID)

	press(t, a, "/", "esc")
	assert.Empty(t, a.Volumes.Options().TextFilter)
	assert.Len(t, a.Volumes.Rows(), 2)
}

func TestVolumes_LeaderBindingsOnlyInVolumesMode(t *testing.T) {
	fake := podmantest.New()
	fake.Volumes[false] = []podman.Volume{{ID: "anon"}, {ID: "1", RepoTags: []string{"x:latest"}}}
	a := newTestApp(t, fake, podman.OwnerUser)

	press(t, a, " ", "v", "i")
	assert.False(t, a.Volumes.Options().ShowIntermediate, "volume bindings are inactive on the containers screen")

	press(t, a, "3", " ", "v", "i")
	assert.True(t, a.Volumes.Options().ShowIntermediate)
	assert.Len(t, a.Volumes.Rows(), 2)
}

func TestVolumeDetails(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{{ID: "c", Names: []string{"web"},
		Mounts: []podman.MountPoint{{Type: "volume", Name: "1"}}}}
	fake.Volumes[false] = []podman.Volume{{ID: "1", RepoTags: []string{"x:latest"}}}
	a := newTestApp(t, fake, podman.OwnerUser)
	press(t, a, "3", "enter")

	top, ok := a.Overlays.Peek()
	require.True(t, ok)
	assert.Contains(t, top.View.View(), "web")
	press(t, a, "esc")
	assert.Equal(t, 0, a.Overlays.Len())
}

func TestCreatePod_InvalidNameIssuesNoCall(t *testing.T) {
	fake := podmantest.New()
	a := newTestApp(t, fake, podman.OwnerUser)
	send(t, a, ShowCreatePodMsg{})
	modal := topView[*PodCreateModal](t, a)
	assert.NotEmpty(t, modal.Form().Name)
	assert.Equal(t, fieldName, modal.Focused())

	press(t, a, "ctrl+u", "-bad", "enter")

	assert.Empty(t, fake.CallsTo("createPod"))
	assert.Equal(t, "-bad", modal.Form().Name)
	assert.NotEmpty(t, modal.Errors()[fieldName])
	assert.Equal(t, fieldName, modal.Focused())

	press(t, a, "ctrl+u", "enter")
	assert.Empty(t, fake.CallsTo("createPod"))
	assert.Equal(t, "Pod name is required", modal.Errors()[fieldName])
}

func TestCreatePod_SendsSpecToChosenOwner(t *testing.T) {
	fake := podmantest.New()
	a := newTestApp(t, fake, podman.OwnerSystem, podman.OwnerUser)
	send(t, a, ShowCreatePodMsg{})
	modal := topView[*PodCreateModal](t, a)
	assert.Equal(t, podman.OwnerSystem, modal.Form().Owner, "system is the default owner")

	press(t, a, "ctrl+u", "web")
	press(t, a, "tab", " ")
	assert.Equal(t, podman.OwnerUser, modal.Form().Owner)

	press(t, a, "ctrl+p", "80", "shift+tab", "8080")
	press(t, a, "ctrl+b", "/srv", "tab", "/data", "tab", " ")
	press(t, a, "enter")

	calls := fake.CallsTo("createPod")
	require.Len(t, calls, 1)
	assert.False(t, calls[0].IsSystem)
	spec := calls[0].Args[0].(podman.PodSpec)
	assert.Equal(t, "web", spec.Name)
	assert.Equal(t, []podman.PortMapping{{ContainerPort: 80, HostPort: 8080, Protocol: "tcp"}}, spec.PortMappings)
	require.Len(t, spec.Mounts, 1)
	assert.Equal(t, "/srv", spec.Mounts[0].Source)
	assert.Equal(t, "/data", spec.Mounts[0].Destination)
	assert.Equal(t, "ro", spec.Mounts[0].Options[0])

	assert.Equal(t, 0, a.Overlays.Len())
	assert.Equal(t, "Pod web created", a.Status)
}

func TestCreatePod_InvalidPortFocusesField(t *testing.T) {
	fake := podmantest.New()
	a := newTestApp(t, fake, podman.OwnerUser)
	send(t, a, ShowCreatePodMsg{})
	modal := topView[*PodCreateModal](t, a)

	press(t, a, "ctrl+p")
	port := modal.Focused()
	press(t, a, "99999", "tab", "tab", "enter")

	assert.Empty(t, fake.CallsTo("createPod"))
	assert.Equal(t, "Port must be a number between 1 and 65535", modal.Errors()[port])
	assert.Equal(t, port, modal.Focused())

	press(t, a, "ctrl+d")
	assert.Equal(t, 0, modal.Form().Ports.Len())
	assert.Empty(t, modal.Errors())
}

func TestCreatePod_RemoveRowKeepsOtherRows(t *testing.T) {
	a := newTestApp(t, podmantest.New(), podman.OwnerUser)
	send(t, a, ShowCreatePodMsg{})
	modal := topView[*PodCreateModal](t, a)

	press(t, a, "ctrl+p", "80", "ctrl+p", "443")
	require.Equal(t, 2, modal.Form().Ports.Len())

	// Back to the first row, then drop it.
	press(t, a, "shift+tab", "shift+tab", "shift+tab", "shift+tab")
	press(t, a, "ctrl+d")
	require.Equal(t, 1, modal.Form().Ports.Len())
	assert.Equal(t, "443", modal.Form().Ports.At(0).Value.ContainerPort)
}

func TestCreatePod_FailureShowsBanner(t *testing.T) {
	fake := podmantest.New()
	fake.Fail("createPod", "pod already exists", "name web taken")
	a := newTestApp(t, fake, podman.OwnerUser)
	send(t, a, ShowCreatePodMsg{})
	modal := topView[*PodCreateModal](t, a)

	press(t, a, "ctrl+u", "web", "enter")

	require.Len(t, fake.CallsTo("createPod"), 1)
	require.NotNil(t, modal.Banner())
	assert.Equal(t, "Pod failed to be created", modal.Banner().Message)
	assert.Equal(t, "pod already exists: name web taken", modal.Banner().Detail)
	assert.True(t, a.Overlays.IsTop(modal))
}

func TestHistory_LoadsAndReturns(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{webContainer()}
	fake.History["sha256:abc"] = []podman.HistoryRecord{
		{ID: "l2", Created: 200, CreatedBy: "/bin/sh -c #(nop) CMD [\"nginx\"]", Size: 0},
		{ID: "l1", Created: 100, CreatedBy: "/bin/sh -c #(nop) ADD file:abc in /", Size: 1 << 20},
	}
	a := newTestApp(t, fake, podman.OwnerUser)

	press(t, a, "h")
	require.Equal(t, ModeHistory, a.Mode)
	require.NotNil(t, a.History)
	assert.Len(t, a.History.Entries(), 2)
	assert.NotEmpty(t, a.History.SelectedCommand())

	calls := fake.CallsTo("imageHistory")
	require.Len(t, calls, 1)
	assert.Equal(t, "sha256:abc", calls[0].ID)

	press(t, a, "esc")
	assert.Equal(t, ModeContainers, a.Mode)
	assert.Nil(t, a.History)
}

func TestHistory_FailureShowsBanner(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{webContainer()}
	fake.Fail("imageHistory", "image not known", "sha256:abc")
	a := newTestApp(t, fake, podman.OwnerUser)

	send(t, a, ShowHistoryMsg{})
	require.NotNil(t, a.History)
	require.NotNil(t, a.History.Banner())
	assert.Equal(t, "Failed to load image history", a.History.Banner().Message)
	assert.Equal(t, "image not known: sha256:abc", a.History.Banner().Detail)
}

func TestHistory_StaleResultIgnored(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{webContainer()}
	a := newTestApp(t, fake, podman.OwnerUser)
	send(t, a, ShowHistoryMsg{})

	send(t, a, historyLoadedMsg{Image: "sha256:other", Err: &podman.APIError{Message: "boom"}})
	assert.Nil(t, a.History.Banner())
}

func TestSwitchMode_HistoryNeedsImage(t *testing.T) {
	a := newTestApp(t, podmantest.New(), podman.OwnerUser)
	send(t, a, SwitchModeMsg{Mode: ModeHistory})
	assert.Equal(t, ModeContainers, a.Mode)
	press(t, a, "2")
	assert.Equal(t, ModePods, a.Mode)
}

func TestView_RendersWithoutSize(t *testing.T) {
	fake := podmantest.New()
	fake.Containers[false] = []podman.Container{webContainer()}
	a := newTestApp(t, fake, podman.OwnerUser)

	out := a.View()
	assert.Contains(t, out, "podconsole")
	assert.Contains(t, out, "web")

	send(t, a, ShowRenameMsg{})
	assert.Contains(t, a.View(), "Rename container web")
}
