package ui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"podconsole/internal/logging"
	"podconsole/internal/tmux"
)

// loadSnapshot returns the snapshot load command, nil when no scope is
// reachable.
func (a *AppModel) loadSnapshot() tea.Cmd {
	if a.Client == nil || len(a.Scopes) == 0 {
		return nil
	}
	a.loadSeq++
	return loadSnapshotCmd(a.Client, a.Scopes, a.Timeout, a.loadSeq)
}

// refresh starts a snapshot reload and the header spinner.
func (a *appModelAdapter) refresh() tea.Cmd {
	cmd := a.loadSnapshot()
	if cmd == nil {
		return nil
	}
	if a.loading {
		return cmd
	}
	a.loading = true
	return tea.Batch(cmd, a.spinner.Tick)
}

// handleTick prunes dead panes, reloads the snapshot and schedules the next tick.
func (a *appModelAdapter) handleTick() (tea.Model, tea.Cmd) {
	if a.Sessions != nil {
		if n, err := a.Sessions.Prune(); err != nil {
			logging.Log.WithError(err).Debug("prune panes")
		} else if n > 0 {
			logging.Log.WithField("pruned", n).Debug("dropped dead panes")
		}
	}
	return a, tea.Batch(a.refresh(), tickCmd(a.RefreshInterval))
}

// handleSnapshotLoaded swaps in the new snapshot and hands it to the views.
// A load that started before the state on screen was produced is dropped.
func (a *appModelAdapter) handleSnapshotLoaded(msg SnapshotLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq <= a.appliedSeq {
		logging.Log.WithField("seq", msg.Seq).Debug("drop stale snapshot")
		return a, nil
	}
	a.appliedSeq = msg.Seq
	a.loading = a.appliedSeq < a.loadSeq
	for _, err := range msg.Errs {
		logging.Log.WithError(err).Warn("refresh")
	}
	if len(msg.Errs) > 0 {
		a.setStatus(msg.Errs[0].Error(), true)
	}
	a.Snapshot = msg.Snapshot
	a.applySnapshot()
	a.forgetVanishedPanes()
	return a, nil
}

func (a *AppModel) applySnapshot() {
	a.Containers.SetContainers(a.Snapshot.Containers, a.paneCounts())
	a.Pods.SetPods(a.Snapshot.Pods)
	a.Volumes.SetBothScopes(a.BothScopes())
	a.Volumes.SetVolumes(a.Snapshot.Volumes, a.Snapshot.UsedBy)
}

// paneCounts returns the number of open panes per container key.
func (a *AppModel) paneCounts() map[string]int {
	if a.Sessions == nil {
		return nil
	}
	out := map[string]int{}
	for _, key := range a.Sessions.Keys() {
		shells, logs := a.Sessions.CountFor(key)
		out[key] = shells + logs
	}
	return out
}

// forgetVanishedPanes kills the panes of containers that are gone from the
// snapshot. Skipped when any listing failed so a flaky service does not
// close the user's shells.
func (a *AppModel) forgetVanishedPanes() {
	if a.Sessions == nil || !a.Snapshot.Loaded || a.Snapshot.UsedBy == nil {
		return
	}
	keys := make([]string, len(a.Snapshot.Containers))
	for i, c := range a.Snapshot.Containers {
		keys[i] = c.Key()
	}
	for _, key := range a.Sessions.Keys() {
		if slices.Contains(keys, key) {
			continue
		}
		for _, id := range a.Sessions.Forget(key) {
			_ = tmux.KillPane(id) // dead panes are fine
		}
	}
}
