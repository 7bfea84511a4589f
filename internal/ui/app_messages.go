package ui

import (
	"time"

	"podconsole/internal/podman"
	"podconsole/internal/volume"
)

// SwitchModeMsg changes the screen (number keys, SPC g ...).
type SwitchModeMsg struct {
	Mode AppMode
}

// RefreshMsg triggers a snapshot reload.
type RefreshMsg struct{}

// SnapshotLoadedMsg carries a freshly read snapshot. Errs holds one error
// per listing that failed; the other listings are still valid. Seq orders
// loads by the time they were started.
type SnapshotLoadedMsg struct {
	Seq      uint64
	Snapshot Snapshot
	Errs     []error
}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}

// DismissNotificationMsg removes the oldest global banner.
type DismissNotificationMsg struct{}

// ShowRenameMsg opens the rename dialog for the selected container.
type ShowRenameMsg struct{}

// RenameContainerMsg is sent by the rename dialog on submit.
type RenameContainerMsg struct {
	Modal     *RenameModal
	Container podman.Container
	Name      string
}

// renameResultMsg reports the outcome of RenameContainer.
type renameResultMsg struct {
	Modal     *RenameModal
	Container podman.Container
	Name      string
	Err       error
}

// ContainerRenamedMsg announces a successful rename. The backend sends no
// rename event, so the root model re-reads that one container.
type ContainerRenamedMsg struct {
	ID       string
	IsSystem bool
	Name     string
}

// containerInspectedMsg carries the fresh state of one container.
type containerInspectedMsg struct {
	Key     string
	Inspect podman.ContainerInspect
	Err     error
}

// ShowCreatePodMsg opens the pod creation dialog.
type ShowCreatePodMsg struct{}

// CreatePodMsg is sent by the pod dialog on submit.
type CreatePodMsg struct {
	Modal *PodCreateModal
	Owner podman.Owner
	Spec  podman.PodSpec
}

// podCreateResultMsg reports the outcome of CreatePod.
type podCreateResultMsg struct {
	Modal *PodCreateModal
	Name  string
	ID    string
	Err   error
}

// ShowDeleteVolumeMsg opens the delete dialog for the selected volume.
type ShowDeleteVolumeMsg struct{}

// DeleteVolumeMsg is sent by the delete dialog on confirm.
type DeleteVolumeMsg struct {
	Modal *VolumeDeleteModal
	Plan  volume.Plan
}

// volumeDeleteResultMsg reports the outcome of a delete or untag plan.
type volumeDeleteResultMsg struct {
	Modal *VolumeDeleteModal
	Err   error
}

// ForceRemoveVolumeMsg is sent when the force prompt is confirmed.
type ForceRemoveVolumeMsg struct {
	Modal  *ConfirmModal
	Dialog *volume.DeleteDialog
}

// volumeForceResultMsg reports the outcome of a forced removal.
type volumeForceResultMsg struct {
	Dialog *volume.DeleteDialog
	Err    error
}

// ShowPruneMsg opens the prune dialog.
type ShowPruneMsg struct{}

// PruneVolumesMsg is sent by the prune dialog with the scopes to prune.
type PruneVolumesMsg struct {
	Modal  *PruneModal
	Owners []podman.Owner
}

// volumesPrunedMsg reports the prune of one scope.
type volumesPrunedMsg struct {
	Owner   podman.Owner
	Reports []podman.PruneReport
	Err     error
}

// ShowVolumeDetailsMsg opens the details of the selected volume.
type ShowVolumeDetailsMsg struct{}

// ToggleIntermediateMsg flips "show intermediate volumes".
type ToggleIntermediateMsg struct{}

// CycleOwnerFilterMsg moves the volume owner filter to the next value.
type CycleOwnerFilterMsg struct{}

// ShowHistoryMsg opens the image history of the selected container.
type ShowHistoryMsg struct{}

// historyLoadedMsg carries an image history.
type historyLoadedMsg struct {
	Image   string
	Records []podman.HistoryRecord
	Err     error
}

// CopyCommandMsg copies the selected history command to the clipboard.
type CopyCommandMsg struct {
	Command string
}

// copiedMsg reports the clipboard write.
type copiedMsg struct {
	Err error
}

// OpenShellMsg opens a shell pane into the selected container.
type OpenShellMsg struct{}

// OpenLogsMsg opens a log-follow pane for the selected container.
type OpenLogsMsg struct{}

// tickMsg triggers periodic refresh of the snapshot and the pane tracker.
type tickMsg time.Time
