package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"podconsole/internal/podman"
	"podconsole/internal/volume"
)

// loadSnapshotCmd reads containers, pods and volumes of every scope in
// parallel. A failed listing is reported in Errs and leaves its part of the
// snapshot empty; the used-by lookup stays nil unless every container
// listing succeeded.
func loadSnapshotCmd(c podman.Client, scopes []podman.Owner, timeout time.Duration, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			wg         sync.WaitGroup
			mu         sync.Mutex
			snap       Snapshot
			errs       []error
			ctrsFailed bool
		)
		fail := func(err error) {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}

		for _, owner := range scopes {
			isSystem := owner.IsSystem()
			wg.Add(3)
			go func() {
				defer wg.Done()
				ctrs, err := c.ListContainers(ctx, isSystem)
				if err != nil {
					fail(fmt.Errorf("list %s containers: %w", owner, err))
					mu.Lock()
					ctrsFailed = true
					mu.Unlock()
					return
				}
				mu.Lock()
				snap.Containers = append(snap.Containers, ctrs...)
				mu.Unlock()
			}()
			go func() {
				defer wg.Done()
				pods, err := c.ListPods(ctx, isSystem)
				if err != nil {
					fail(fmt.Errorf("list %s pods: %w", owner, err))
					return
				}
				mu.Lock()
				snap.Pods = append(snap.Pods, pods...)
				mu.Unlock()
			}()
			go func() {
				defer wg.Done()
				vols, err := c.ListVolumes(ctx, isSystem)
				if err != nil {
					fail(fmt.Errorf("list %s volumes: %w", owner, err))
					return
				}
				mu.Lock()
				snap.Volumes = append(snap.Volumes, vols...)
				mu.Unlock()
			}()
		}
		wg.Wait()

		if !ctrsFailed {
			snap.UsedBy = volume.BuildUsedBy(snap.Containers)
		}
		snap.Loaded = true
		return SnapshotLoadedMsg{Seq: seq, Snapshot: snap, Errs: errs}
	}
}

// tickCmd schedules the next periodic refresh.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func renameCmd(c podman.Client, timeout time.Duration, m *RenameModal, ctr podman.Container, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := c.RenameContainer(ctx, ctr.IsSystem, ctr.ID, podman.RenameOptions{Name: name})
		return renameResultMsg{Modal: m, Container: ctr, Name: name, Err: err}
	}
}

// inspectContainerCmd re-reads one container after a rename.
func inspectContainerCmd(c podman.Client, timeout time.Duration, id string, isSystem bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ins, err := c.InspectContainer(ctx, isSystem, id)
		return containerInspectedMsg{Key: podman.Key(id, isSystem), Inspect: ins, Err: err}
	}
}

func createPodCmd(c podman.Client, timeout time.Duration, m *PodCreateModal, owner podman.Owner, spec podman.PodSpec) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		id, err := c.CreatePod(ctx, owner.IsSystem(), spec)
		return podCreateResultMsg{Modal: m, Name: spec.Name, ID: id, Err: err}
	}
}

// deleteVolumeCmd runs a delete plan. Untags run one after another inside
// this single command.
func deleteVolumeCmd(c podman.Client, timeout time.Duration, m *VolumeDeleteModal, plan volume.Plan) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return volumeDeleteResultMsg{Modal: m, Err: volume.Execute(ctx, c, m.Dialog.Volume, plan)}
	}
}

func forceRemoveCmd(c podman.Client, timeout time.Duration, d *volume.DeleteDialog) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return volumeForceResultMsg{Dialog: d, Err: volume.ForceDelete(ctx, c, d.Volume)}
	}
}

func pruneCmd(c podman.Client, timeout time.Duration, owner podman.Owner) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reports, err := c.PruneVolumes(ctx, owner.IsSystem())
		return volumesPrunedMsg{Owner: owner, Reports: reports, Err: err}
	}
}

func historyCmd(c podman.Client, timeout time.Duration, image string, isSystem bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		recs, err := c.ImageHistory(ctx, isSystem, image)
		return historyLoadedMsg{Image: image, Records: recs, Err: err}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{Err: clipboard.WriteAll(text)}
	}
}
