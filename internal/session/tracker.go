// Package session tracks the tmux panes podconsole opened for containers.
// Panes are keyed by the container's id+ownerScope key, so a shell into a
// system container and one into a user container with the same id stay
// apart. The Tracker lives on the root model and survives view switches.
package session

import (
	"sync"
	"time"
)

// PaneType distinguishes shell vs log-follow panes.
type PaneType string

const (
	PaneShell PaneType = "shell"
	PaneLogs  PaneType = "logs"
)

// TrackedPane holds metadata about one active tmux pane.
type TrackedPane struct {
	PaneID       string   // tmux pane ID (e.g. "%42")
	Type         PaneType // shell or logs
	ContainerKey string   // podman.Key of the container
	Name         string   // container name when the pane was opened
	CreatedAt    time.Time
}

// LivenessChecker returns the set of currently live tmux pane IDs.
// In production this calls tmux.ListPaneIDs(); tests can inject a stub.
type LivenessChecker func() (map[string]bool, error)

// Tracker maps container keys to active tmux panes.
// Safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	panes    map[string][]TrackedPane
	liveness LivenessChecker
}

// New creates a Tracker with the given liveness checker.
// If liveness is nil, Prune becomes a no-op.
func New(liveness LivenessChecker) *Tracker {
	return &Tracker{
		panes:    make(map[string][]TrackedPane),
		liveness: liveness,
	}
}

// Register adds a pane for the container key.
func (t *Tracker) Register(key, name, paneID string, paneType PaneType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.panes[key] = append(t.panes[key], TrackedPane{
		PaneID:       paneID,
		Type:         paneType,
		ContainerKey: key,
		Name:         name,
		CreatedAt:    time.Now(),
	})
}

// Unregister removes a specific pane by ID.
// Returns true if the pane was found and removed.
func (t *Tracker) Unregister(paneID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, panes := range t.panes {
		for i, p := range panes {
			if p.PaneID == paneID {
				t.panes[key] = append(panes[:i], panes[i+1:]...)
				if len(t.panes[key]) == 0 {
					delete(t.panes, key)
				}
				return true
			}
		}
	}
	return false
}

// PanesFor returns a copy of the panes tracked for key, nil if none.
func (t *Tracker) PanesFor(key string) []TrackedPane {
	t.mu.RLock()
	defer t.mu.RUnlock()
	panes := t.panes[key]
	if len(panes) == 0 {
		return nil
	}
	out := make([]TrackedPane, len(panes))
	copy(out, panes)
	return out
}

// Find returns the first pane of the given type for key.
func (t *Tracker) Find(key string, paneType PaneType) (TrackedPane, bool) {
	for _, p := range t.PanesFor(key) {
		if p.Type == paneType {
			return p, true
		}
	}
	return TrackedPane{}, false
}

// Count returns the total number of tracked panes.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, panes := range t.panes {
		n += len(panes)
	}
	return n
}

// CountFor returns (shells, logs) for a container key.
func (t *Tracker) CountFor(key string) (shells, logs int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.panes[key] {
		switch p.Type {
		case PaneShell:
			shells++
		case PaneLogs:
			logs++
		}
	}
	return
}

// Prune removes dead panes by checking liveness via tmux list-panes.
// Returns the number of panes pruned.
func (t *Tracker) Prune() (int, error) {
	if t.liveness == nil {
		return 0, nil
	}
	live, err := t.liveness()
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	pruned := 0
	for key, panes := range t.panes {
		var kept []TrackedPane
		for _, p := range panes {
			if live[p.PaneID] {
				kept = append(kept, p)
			} else {
				pruned++
			}
		}
		if len(kept) == 0 {
			delete(t.panes, key)
		} else {
			t.panes[key] = kept
		}
	}
	return pruned, nil
}

// Forget drops every pane of a container that no longer exists and returns
// their IDs so the caller can kill them.
func (t *Tracker) Forget(key string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var ids []string
	for _, p := range t.panes[key] {
		ids = append(ids, p.PaneID)
	}
	delete(t.panes, key)
	return ids
}

// Keys returns the container keys that have at least one tracked pane.
func (t *Tracker) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.panes))
	for k := range t.panes {
		keys = append(keys, k)
	}
	return keys
}
