package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/docker/docker/pkg/namesgenerator"
	"github.com/samber/lo"

	"podconsole/internal/logging"
	"podconsole/internal/podman"
)

// handleShowCreatePod opens the pod dialog. The owner defaults to system
// when that service is available.
func (a *appModelAdapter) handleShowCreatePod() (tea.Model, tea.Cmd) {
	if len(a.Scopes) == 0 {
		a.setStatus("No podman service available", true)
		return a, nil
	}
	owner := lo.Ternary(a.Available(podman.OwnerSystem), podman.OwnerSystem, podman.OwnerUser)
	modal := NewPodCreateModal(namesgenerator.GetRandomName(0), owner, a.BothScopes(), a.ownerLabel)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

func (a *appModelAdapter) handleCreatePod(msg CreatePodMsg) (tea.Model, tea.Cmd) {
	logging.Log.WithFields(logging.Fields{
		"pod":   msg.Spec.Name,
		"owner": msg.Owner,
		"ports": len(msg.Spec.PortMappings),
	}).Info("create pod")
	return a, createPodCmd(a.Client, a.Timeout, msg.Modal, msg.Owner, msg.Spec)
}

func (a *appModelAdapter) handlePodCreateResult(msg podCreateResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logging.Log.WithError(msg.Err).WithField("pod", msg.Name).Warn("create pod failed")
		if a.Overlays.IsTop(msg.Modal) {
			msg.Modal.Failed(NewBanner("Pod failed to be created", msg.Err))
		}
		return a, nil
	}
	a.Overlays.PopIf(msg.Modal)
	a.setStatus(fmt.Sprintf("Pod %s created", msg.Name), false)
	return a, a.refresh()
}
