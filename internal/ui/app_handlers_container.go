package ui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"podconsole/internal/logging"
	"podconsole/internal/podman"
	"podconsole/internal/session"
	"podconsole/internal/tmux"
)

// handleShowRename opens the rename dialog for the selected container.
func (a *appModelAdapter) handleShowRename() (tea.Model, tea.Cmd) {
	c := a.Containers.Selected()
	if c == nil {
		a.setStatus("No container selected", true)
		return a, nil
	}
	modal := NewRenameModal(*c)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

func (a *appModelAdapter) handleRenameContainer(msg RenameContainerMsg) (tea.Model, tea.Cmd) {
	logging.Log.WithFields(logging.Fields{
		"container": msg.Container.ID,
		"owner":     podman.OwnerOf(msg.Container.IsSystem),
		"name":      msg.Name,
	}).Info("rename container")
	return a, renameCmd(a.Client, a.Timeout, msg.Modal, msg.Container, msg.Name)
}

// handleRenameResult closes the dialog on success. A failure stays in the
// dialog as a banner, unless the user closed it meanwhile.
func (a *appModelAdapter) handleRenameResult(msg renameResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logging.Log.WithError(msg.Err).WithField("container", msg.Container.ID).Warn("rename failed")
		if a.Overlays.IsTop(msg.Modal) {
			title := fmt.Sprintf("Failed to rename container %s", strings.Join(msg.Container.Names, ", "))
			msg.Modal.Failed(NewBanner(title, msg.Err))
		}
		return a, nil
	}
	a.Overlays.PopIf(msg.Modal)
	a.setStatus(fmt.Sprintf("Renamed %s to %s", msg.Container.Name(), msg.Name), false)
	renamed := ContainerRenamedMsg{ID: msg.Container.ID, IsSystem: msg.Container.IsSystem, Name: msg.Name}
	return a, func() tea.Msg { return renamed }
}

func (a *appModelAdapter) handleContainerRenamed(msg ContainerRenamedMsg) (tea.Model, tea.Cmd) {
	return a, inspectContainerCmd(a.Client, a.Timeout, msg.ID, msg.IsSystem)
}

// handleContainerInspected patches one container of the snapshot.
func (a *appModelAdapter) handleContainerInspected(msg containerInspectedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logging.Log.WithError(msg.Err).WithField("key", msg.Key).Warn("inspect after rename")
		return a, a.refresh()
	}
	ctrs := make([]podman.Container, len(a.Snapshot.Containers))
	copy(ctrs, a.Snapshot.Containers)
	for i := range ctrs {
		if ctrs[i].Key() != msg.Key {
			continue
		}
		ctrs[i].Names = []string{strings.TrimPrefix(msg.Inspect.Name, "/")}
		ctrs[i].State = lo.CoalesceOrEmpty(msg.Inspect.State.Status, ctrs[i].State)
		if msg.Inspect.Mounts != nil {
			ctrs[i].Mounts = msg.Inspect.Mounts
		}
	}
	a.Snapshot.Containers = ctrs
	// Loads still in flight read the container before the rename.
	a.appliedSeq = a.loadSeq
	a.loading = false
	a.applySnapshot()
	return a, nil
}

// handleShowHistory switches to the image history of the selected container.
func (a *appModelAdapter) handleShowHistory() (tea.Model, tea.Cmd) {
	c := a.Containers.Selected()
	if c == nil {
		a.setStatus("No container selected", true)
		return a, nil
	}
	image := lo.CoalesceOrEmpty(c.ImageID, c.Image)
	a.History = NewHistoryView(image, c.Image, a.ownerLabel(c.IsSystem))
	if a.width > 0 {
		a.History.Update(tea.WindowSizeMsg{Width: a.width, Height: max(a.height-6, 5)})
	}
	a.Mode = ModeHistory
	return a, tea.Batch(a.History.Init(), historyCmd(a.Client, a.Timeout, image, c.IsSystem))
}

func (a *appModelAdapter) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	if a.History == nil || a.History.Image != msg.Image {
		return a, nil
	}
	if msg.Err != nil {
		logging.Log.WithError(msg.Err).WithField("image", msg.Image).Warn("image history")
		a.History.Failed(NewBanner("Failed to load image history", msg.Err))
		return a, nil
	}
	a.History.SetRecords(msg.Records)
	return a, nil
}

func (a *appModelAdapter) handleCopied(msg copiedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.setStatus(fmt.Sprintf("Copy: %v", msg.Err), true)
		return a, nil
	}
	a.setStatus("Command copied to clipboard", false)
	return a, nil
}

// handleOpenPane opens a shell or log pane for the selected container, or
// focuses the one already open.
func (a *appModelAdapter) handleOpenPane(paneType session.PaneType) (tea.Model, tea.Cmd) {
	c := a.Containers.Selected()
	if c == nil {
		a.setStatus("No container selected", true)
		return a, nil
	}
	if a.Sessions == nil || !tmux.InTmux() {
		a.setStatus(fmt.Sprintf("Open %s: run podconsole inside tmux", paneType), true)
		return a, nil
	}
	if p, ok := a.Sessions.Find(c.Key(), paneType); ok {
		if err := tmux.SelectPane(p.PaneID); err == nil {
			return a, nil
		}
		a.Sessions.Unregister(p.PaneID)
	}

	target := tmux.Target{
		URL:     a.URLs[podman.OwnerOf(c.IsSystem)],
		ID:      c.ID,
		Elevate: c.IsSystem && os.Geteuid() != 0,
	}
	argv := tmux.ExecArgs(target)
	if paneType == session.PaneLogs {
		argv = tmux.LogsArgs(target)
	}
	paneID, err := tmux.SplitPane(argv)
	if err != nil {
		a.setStatus(fmt.Sprintf("Open %s: %v", paneType, err), true)
		return a, nil
	}
	a.Sessions.Register(c.Key(), c.Name(), paneID, paneType)
	a.Containers.SetContainers(a.Snapshot.Containers, a.paneCounts())
	return a, nil
}
