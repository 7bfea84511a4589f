package podman

import (
	"context"
	"fmt"
)

// Client is the contract between the console and the Podman service. Every
// operation takes the owner scope flag so a call reaches the system service
// or the user session. Failures are *APIError.
type Client interface {
	RenameContainer(ctx context.Context, isSystem bool, id string, opts RenameOptions) error
	CreatePod(ctx context.Context, isSystem bool, spec PodSpec) (string, error)
	DeleteVolume(ctx context.Context, isSystem bool, id string, force bool) error
	UntagVolume(ctx context.Context, isSystem bool, id, repo, tag string) error
	PruneVolumes(ctx context.Context, isSystem bool) ([]PruneReport, error)

	ListVolumes(ctx context.Context, isSystem bool) ([]Volume, error)
	ListContainers(ctx context.Context, isSystem bool) ([]Container, error)
	InspectContainer(ctx context.Context, isSystem bool, id string) (ContainerInspect, error)
	ListPods(ctx context.Context, isSystem bool) ([]Pod, error)
	ImageHistory(ctx context.Context, isSystem bool, image string) ([]HistoryRecord, error)
}

// Connections routes each call to the service of the requested owner scope.
// A nil service means that scope is unavailable.
type Connections struct {
	System *Service
	User   *Service
}

// Ensure Connections implements Client.
var _ Client = (*Connections)(nil)

// Available reports whether the owner scope has a service.
func (c *Connections) Available(o Owner) bool {
	if o.IsSystem() {
		return c.System != nil
	}
	return c.User != nil
}

// For returns the service for the scope.
func (c *Connections) For(isSystem bool) (*Service, error) {
	s := c.User
	if isSystem {
		s = c.System
	}
	if s == nil {
		return nil, &APIError{
			Message: fmt.Sprintf("%s service", OwnerOf(isSystem)),
			Reason:  ErrServiceUnavailable.Error(),
		}
	}
	return s, nil
}

// RenameContainer implements Client.
func (c *Connections) RenameContainer(ctx context.Context, isSystem bool, id string, opts RenameOptions) error {
	s, err := c.For(isSystem)
	if err != nil {
		return err
	}
	return s.RenameContainer(ctx, id, opts)
}

// CreatePod implements Client.
func (c *Connections) CreatePod(ctx context.Context, isSystem bool, spec PodSpec) (string, error) {
	s, err := c.For(isSystem)
	if err != nil {
		return "", err
	}
	return s.CreatePod(ctx, spec)
}

// DeleteVolume implements Client.
func (c *Connections) DeleteVolume(ctx context.Context, isSystem bool, id string, force bool) error {
	s, err := c.For(isSystem)
	if err != nil {
		return err
	}
	return s.DeleteVolume(ctx, id, force)
}

// UntagVolume implements Client.
func (c *Connections) UntagVolume(ctx context.Context, isSystem bool, id, repo, tag string) error {
	s, err := c.For(isSystem)
	if err != nil {
		return err
	}
	return s.UntagVolume(ctx, id, repo, tag)
}

// PruneVolumes implements Client.
func (c *Connections) PruneVolumes(ctx context.Context, isSystem bool) ([]PruneReport, error) {
	s, err := c.For(isSystem)
	if err != nil {
		return nil, err
	}
	return s.PruneVolumes(ctx)
}

// ListVolumes implements Client.
func (c *Connections) ListVolumes(ctx context.Context, isSystem bool) ([]Volume, error) {
	s, err := c.For(isSystem)
	if err != nil {
		return nil, err
	}
	return s.ListVolumes(ctx)
}

// ListContainers implements Client.
func (c *Connections) ListContainers(ctx context.Context, isSystem bool) ([]Container, error) {
	s, err := c.For(isSystem)
	if err != nil {
		return nil, err
	}
	return s.ListContainers(ctx)
}

// InspectContainer implements Client.
func (c *Connections) InspectContainer(ctx context.Context, isSystem bool, id string) (ContainerInspect, error) {
	s, err := c.For(isSystem)
	if err != nil {
		return ContainerInspect{}, err
	}
	return s.InspectContainer(ctx, id)
}

// ListPods implements Client.
func (c *Connections) ListPods(ctx context.Context, isSystem bool) ([]Pod, error) {
	s, err := c.For(isSystem)
	if err != nil {
		return nil, err
	}
	return s.ListPods(ctx)
}

// ImageHistory implements Client.
func (c *Connections) ImageHistory(ctx context.Context, isSystem bool, image string) ([]HistoryRecord, error) {
	s, err := c.For(isSystem)
	if err != nil {
		return nil, err
	}
	return s.ImageHistory(ctx, image)
}
