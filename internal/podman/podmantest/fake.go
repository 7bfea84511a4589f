// Package podmantest provides a recording in-memory podman.Client for tests.
package podmantest

import (
	"context"
	"fmt"
	"sync"

	"podconsole/internal/podman"
)

// Call records one client invocation.
type Call struct {
	Op       string
	IsSystem bool
	ID       string
	Args     []any
}

// Fake is a podman.Client that records every call and answers from its
// fields. Set Errors[op] to make an operation fail. Safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	Containers map[bool][]podman.Container
	Pods       map[bool][]podman.Pod
	Volumes    map[bool][]podman.Volume
	History    map[string][]podman.HistoryRecord
	Inspects   map[string]podman.ContainerInspect

	// Errors makes the named op ("rename", "createPod", "deleteVolume",
	// "untagVolume", "pruneVolumes", "listVolumes", ...) fail.
	Errors map[string]error
	// ErrorsByArg fails an op only for a matching first argument, e.g.
	// ErrorsByArg["untagVolume"]["1.0"] fails untagging tag 1.0.
	ErrorsByArg map[string]map[string]error

	calls []Call
}

// Ensure Fake implements podman.Client.
var _ podman.Client = (*Fake)(nil)

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		Containers:  map[bool][]podman.Container{},
		Pods:        map[bool][]podman.Pod{},
		Volumes:     map[bool][]podman.Volume{},
		History:     map[string][]podman.HistoryRecord{},
		Inspects:    map[string]podman.ContainerInspect{},
		Errors:      map[string]error{},
		ErrorsByArg: map[string]map[string]error{},
	}
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the recorded calls of one op.
func (f *Fake) CallsTo(op string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Fail makes op fail with an *podman.APIError built from message and reason.
func (f *Fake) Fail(op, message, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[op] = &podman.APIError{Message: message, Reason: reason}
}

// FailFor makes op fail only when its first argument equals arg.
func (f *Fake) FailFor(op, arg, message, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ErrorsByArg[op] == nil {
		f.ErrorsByArg[op] = map[string]error{}
	}
	f.ErrorsByArg[op][arg] = &podman.APIError{Message: message, Reason: reason}
}

func (f *Fake) record(op string, isSystem bool, id string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: op, IsSystem: isSystem, ID: id, Args: args})
	if len(args) > 0 {
		if byArg, ok := f.ErrorsByArg[op]; ok {
			if err, ok := byArg[fmt.Sprint(args[0])]; ok {
				return err
			}
		}
	}
	return f.Errors[op]
}

// RenameContainer implements podman.Client.
func (f *Fake) RenameContainer(_ context.Context, isSystem bool, id string, opts podman.RenameOptions) error {
	return f.record("rename", isSystem, id, opts.Name)
}

// CreatePod implements podman.Client.
func (f *Fake) CreatePod(_ context.Context, isSystem bool, spec podman.PodSpec) (string, error) {
	if err := f.record("createPod", isSystem, spec.Name, spec); err != nil {
		return "", err
	}
	return "pod-" + spec.Name, nil
}

// DeleteVolume implements podman.Client.
func (f *Fake) DeleteVolume(_ context.Context, isSystem bool, id string, force bool) error {
	return f.record("deleteVolume", isSystem, id, force)
}

// UntagVolume implements podman.Client.
func (f *Fake) UntagVolume(_ context.Context, isSystem bool, id, repo, tag string) error {
	return f.record("untagVolume", isSystem, id, tag, repo)
}

// PruneVolumes implements podman.Client.
func (f *Fake) PruneVolumes(_ context.Context, isSystem bool) ([]podman.PruneReport, error) {
	if err := f.record("pruneVolumes", isSystem, ""); err != nil {
		return nil, err
	}
	return nil, nil
}

// ListVolumes implements podman.Client.
func (f *Fake) ListVolumes(_ context.Context, isSystem bool) ([]podman.Volume, error) {
	if err := f.record("listVolumes", isSystem, ""); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]podman.Volume(nil), f.Volumes[isSystem]...), nil
}

// ListContainers implements podman.Client.
func (f *Fake) ListContainers(_ context.Context, isSystem bool) ([]podman.Container, error) {
	if err := f.record("listContainers", isSystem, ""); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]podman.Container(nil), f.Containers[isSystem]...), nil
}

// InspectContainer implements podman.Client.
func (f *Fake) InspectContainer(_ context.Context, isSystem bool, id string) (podman.ContainerInspect, error) {
	if err := f.record("inspectContainer", isSystem, id); err != nil {
		return podman.ContainerInspect{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ins, ok := f.Inspects[podman.Key(id, isSystem)]
	if !ok {
		return podman.ContainerInspect{}, &podman.APIError{Message: "no such container", Reason: id, Status: 404}
	}
	return ins, nil
}

// ListPods implements podman.Client.
func (f *Fake) ListPods(_ context.Context, isSystem bool) ([]podman.Pod, error) {
	if err := f.record("listPods", isSystem, ""); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]podman.Pod(nil), f.Pods[isSystem]...), nil
}

// ImageHistory implements podman.Client.
func (f *Fake) ImageHistory(_ context.Context, isSystem bool, image string) ([]podman.HistoryRecord, error) {
	if err := f.record("imageHistory", isSystem, image); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.History[image], nil
}
