// Package podman is the thin client podconsole uses to reach the Podman
// libpod REST API. It owns the wire types and nothing else: container, pod
// and volume lifecycles all live in the Podman service.
package podman

import (
	"strconv"
	"time"
)

// Owner is the ownership scope of a Podman object. It decides which backend
// connection (system service or user session) a call targets.
type Owner string

const (
	OwnerSystem Owner = "system"
	OwnerUser   Owner = "user"
)

// OwnerOf returns the owner scope for the isSystem flag carried by objects.
func OwnerOf(isSystem bool) Owner {
	if isSystem {
		return OwnerSystem
	}
	return OwnerUser
}

// IsSystem reports whether o is the system scope.
func (o Owner) IsSystem() bool { return o == OwnerSystem }

// Valid reports whether o is one of the two known scopes.
func (o Owner) Valid() bool { return o == OwnerSystem || o == OwnerUser }

// Other returns the opposite scope.
func (o Owner) Other() Owner {
	if o.IsSystem() {
		return OwnerUser
	}
	return OwnerSystem
}

// Key builds the id+ownerScope key used for row identity and the used-by
// lookup. The same id can exist in both scopes.
func Key(id string, isSystem bool) string {
	return id + strconv.FormatBool(isSystem)
}

// Container is the listing projection of a container.
type Container struct {
	ID       string       `json:"Id"`
	Names    []string     `json:"Names"`
	Image    string       `json:"Image"`
	ImageID  string       `json:"ImageID"`
	State    string       `json:"State"`
	Status   string       `json:"Status"`
	Pod      string       `json:"Pod"`
	PodName  string       `json:"PodName"`
	Created  time.Time    `json:"Created"`
	IsInfra  bool         `json:"IsInfra"`
	Mounts   []MountPoint `json:"-"`
	IsSystem bool         `json:"-"`
}

// Name returns the primary display name.
func (c Container) Name() string {
	if len(c.Names) == 0 {
		return ShortID(c.ID)
	}
	return c.Names[0]
}

// Key returns the container's id+ownerScope key.
func (c Container) Key() string { return Key(c.ID, c.IsSystem) }

// MountPoint is a mount as reported by container inspect.
type MountPoint struct {
	Type        string `json:"Type"`
	Name        string `json:"Name"`
	Source      string `json:"Source"`
	Destination string `json:"Destination"`
	RW          bool   `json:"RW"`
}

// ContainerInspect is the subset of the inspect document podconsole reads.
type ContainerInspect struct {
	ID      string       `json:"Id"`
	Name    string       `json:"Name"`
	Image   string       `json:"Image"`
	Created time.Time    `json:"Created"`
	Mounts  []MountPoint `json:"Mounts"`
	State   struct {
		Status string `json:"Status"`
	} `json:"State"`
}

// Pod is the listing projection of a pod.
type Pod struct {
	ID         string         `json:"Id"`
	Name       string         `json:"Name"`
	Status     string         `json:"Status"`
	Created    time.Time      `json:"Created"`
	InfraID    string         `json:"InfraId"`
	Containers []PodContainer `json:"Containers"`
	IsSystem   bool           `json:"-"`
}

// Key returns the pod's id+ownerScope key.
func (p Pod) Key() string { return Key(p.ID, p.IsSystem) }

// PodContainer is a member entry of a pod listing.
type PodContainer struct {
	ID     string `json:"Id"`
	Names  string `json:"Names"`
	Status string `json:"Status"`
}

// Volume is the listing projection of a volume.
type Volume struct {
	ID       string    `json:"Id"`
	RepoTags []string  `json:"RepoTags"`
	Size     int64     `json:"Size"`
	Created  time.Time `json:"Created"`
	IsSystem bool      `json:"-"`
}

// Key returns the volume's id+ownerScope key.
func (v Volume) Key() string { return Key(v.ID, v.IsSystem) }

// Tagged reports whether the volume carries at least one tag.
func (v Volume) Tagged() bool { return len(v.RepoTags) > 0 }

// Name returns the first tag, or the short id for untagged volumes.
func (v Volume) Name() string {
	if len(v.RepoTags) > 0 {
		return v.RepoTags[0]
	}
	return ShortID(v.ID)
}

// HistoryRecord is one layer of an image history.
type HistoryRecord struct {
	ID        string   `json:"Id"`
	Created   int64    `json:"Created"`
	CreatedBy string   `json:"CreatedBy"`
	Tags      []string `json:"Tags"`
	Size      int64    `json:"Size"`
	Comment   string   `json:"Comment"`
}

// CreatedAt converts the unix timestamp to a time.
func (h HistoryRecord) CreatedAt() time.Time { return time.Unix(h.Created, 0) }

// UsedBy maps a volume key to the names of the containers referencing it.
// A nil UsedBy means the lookup has not been loaded.
type UsedBy map[string][]string

// PortMapping is one entry of PodSpec.PortMappings.
type PortMapping struct {
	ContainerPort uint16 `json:"container_port"`
	Protocol      string `json:"protocol"`
	HostPort      uint16 `json:"host_port,omitempty"`
	HostIP        string `json:"host_ip,omitempty"`
}

// Mount is one entry of PodSpec.Mounts.
type Mount struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Type        string   `json:"type"`
	Options     []string `json:"options"`
}

// PodSpec is the pod creation payload.
type PodSpec struct {
	Name         string        `json:"name,omitempty"`
	NoInfra      bool          `json:"no_infra,omitempty"`
	PortMappings []PortMapping `json:"portmappings,omitempty"`
	Mounts       []Mount       `json:"mounts,omitempty"`
}

// RenameOptions carries the new container name.
type RenameOptions struct {
	Name string `json:"name"`
}

// PruneReport is one entry of the volume prune response.
type PruneReport struct {
	ID   string `json:"Id"`
	Size int64  `json:"Size"`
	Err  string `json:"Err,omitempty"`
}

// ShortID truncates a hex id to the 12 characters shown in listings.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
