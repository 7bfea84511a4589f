package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/docker/go-units"

	"podconsole/internal/logging"
	"podconsole/internal/volume"
)

// handleShowDeleteVolume opens the delete dialog for the selected volume.
func (a *appModelAdapter) handleShowDeleteVolume() (tea.Model, tea.Cmd) {
	v := a.Volumes.Selected()
	if v == nil {
		a.setStatus("No volume selected", true)
		return a, nil
	}
	modal := NewVolumeDeleteModal(volume.NewDeleteDialog(*v))
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, nil
}

func (a *appModelAdapter) handleDeleteVolume(msg DeleteVolumeMsg) (tea.Model, tea.Cmd) {
	logging.Log.WithFields(logging.Fields{
		"volume":     msg.Modal.Dialog.Volume.ID,
		"delete_all": msg.Plan.DeleteAll,
		"untag":      msg.Plan.Untag,
	}).Info("delete volume")
	return a, deleteVolumeCmd(a.Client, a.Timeout, msg.Modal, msg.Plan)
}

// handleVolumeDeleteResult finishes a delete plan. A refused delete turns
// the dialog into the force prompt; a failed untag becomes a global banner
// because the untags before it are already applied.
func (a *appModelAdapter) handleVolumeDeleteResult(msg volumeDeleteResultMsg) (tea.Model, tea.Cmd) {
	d := msg.Modal.Dialog
	var (
		delErr   *volume.DeleteError
		untagErr *volume.UntagError
	)
	switch {
	case msg.Err == nil:
		a.Overlays.PopIf(msg.Modal)
		d.Close()
		a.setStatus(fmt.Sprintf("Volume %s updated", d.Volume.Name()), false)
		return a, a.refresh()

	case errors.As(msg.Err, &delErr):
		logging.Log.WithError(msg.Err).Warn("delete volume refused")
		if !a.Overlays.IsTop(msg.Modal) {
			d.Close()
			return a, nil
		}
		d.DeleteFailed(delErr.Err.Detail())
		a.Overlays.Replace(NewForceRemoveModal(d))
		return a, nil

	case errors.As(msg.Err, &untagErr):
		logging.Log.WithError(untagErr.Err).WithField("done", untagErr.Done).Warn("untag volume failed")
		a.Overlays.PopIf(msg.Modal)
		d.Close()
		a.Notifications.Push(NewBanner(untagErr.Error(), untagErr.Err))
		return a, a.refresh()
	}

	a.Overlays.PopIf(msg.Modal)
	d.Close()
	a.Notifications.Push(NewBanner(fmt.Sprintf("Failed to remove volume %s", d.Volume.Name()), msg.Err))
	return a, a.refresh()
}

// handleForceRemoveVolume issues the forced delete once; a confirm whose
// prompt is no longer on top was already handled or cancelled.
func (a *appModelAdapter) handleForceRemoveVolume(msg ForceRemoveVolumeMsg) (tea.Model, tea.Cmd) {
	if !a.Overlays.PopIf(msg.Modal) {
		return a, nil
	}
	logging.Log.WithField("volume", msg.Dialog.Volume.ID).Info("force remove volume")
	return a, forceRemoveCmd(a.Client, a.Timeout, msg.Dialog)
}

func (a *appModelAdapter) handleVolumeForceResult(msg volumeForceResultMsg) (tea.Model, tea.Cmd) {
	msg.Dialog.Close()
	if msg.Err != nil {
		logging.Log.WithError(msg.Err).Warn("force remove volume failed")
		a.Notifications.Push(NewBanner(msg.Err.Error(), msg.Err))
		return a, a.refresh()
	}
	a.setStatus(fmt.Sprintf("Volume %s removed", msg.Dialog.Volume.Name()), false)
	return a, a.refresh()
}

// handleShowPrune opens the prune dialog over the unused volumes.
func (a *appModelAdapter) handleShowPrune() (tea.Model, tea.Cmd) {
	stats := volume.ComputeStats(a.Snapshot.Volumes, a.Snapshot.UsedBy)
	if len(stats.UnusedVolumes) == 0 {
		a.setStatus("No unused volumes", false)
		return a, nil
	}
	modal := NewPruneModal(volume.UnusedByOwner(stats.UnusedVolumes), a.ownerLabel)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, nil
}

// handlePruneVolumes issues one prune per chosen scope.
func (a *appModelAdapter) handlePruneVolumes(msg PruneVolumesMsg) (tea.Model, tea.Cmd) {
	if !a.Overlays.PopIf(msg.Modal) {
		return a, nil
	}
	cmds := make([]tea.Cmd, 0, len(msg.Owners))
	for _, owner := range msg.Owners {
		cmds = append(cmds, pruneCmd(a.Client, a.Timeout, owner))
	}
	a.setStatus("Pruning unused volumes…", false)
	return a, tea.Batch(cmds...)
}

func (a *appModelAdapter) handleVolumesPruned(msg volumesPrunedMsg) (tea.Model, tea.Cmd) {
	label := a.ownerLabel(msg.Owner.IsSystem())
	if msg.Err != nil {
		logging.Log.WithError(msg.Err).WithField("owner", msg.Owner).Warn("prune volumes failed")
		a.Notifications.Push(NewBanner(fmt.Sprintf("Failed to prune unused volumes of %s", label), msg.Err))
		return a, a.refresh()
	}
	var size int64
	removed := 0
	for _, r := range msg.Reports {
		if r.Err != "" {
			logging.Log.WithField("volume", r.ID).Warn("prune: " + r.Err)
			continue
		}
		removed++
		size += r.Size
	}
	a.setStatus(fmt.Sprintf("Pruned %d volumes of %s, %s reclaimed", removed, label, units.HumanSize(float64(size))), false)
	return a, a.refresh()
}

func (a *appModelAdapter) handleShowVolumeDetails() (tea.Model, tea.Cmd) {
	v := a.Volumes.Selected()
	if v == nil {
		a.setStatus("No volume selected", true)
		return a, nil
	}
	var usedBy []string
	if a.Snapshot.UsedBy != nil {
		usedBy = a.Snapshot.UsedBy[v.Key()]
	}
	a.Overlays.Push(Overlay{View: NewVolumeDetailsModal(*v, usedBy, a.Snapshot.UsedBy != nil, a.ownerLabel), Dismiss: "esc"})
	return a, nil
}
