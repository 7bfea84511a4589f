package volume

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"podconsole/internal/podman"
)

// OwnerAll is the owner filter value that shows both scopes.
const OwnerAll = "all"

// Options are the listing filter controls.
type Options struct {
	// OwnerFilter is OwnerAll, "system" or "user".
	OwnerFilter string
	// BothScopes is set when the system and user services are both
	// available. The owner filter only applies then.
	BothScopes bool
	// TextFilter is matched case-insensitively against every tag.
	TextFilter string
	// ShowIntermediate includes untagged volumes.
	ShowIntermediate bool
}

func (o Options) ownerMatch(v podman.Volume) bool {
	if !o.BothScopes || o.OwnerFilter == "" || o.OwnerFilter == OwnerAll {
		return true
	}
	if o.OwnerFilter == string(podman.OwnerSystem) {
		return v.IsSystem
	}
	return !v.IsSystem
}

// Filter returns the volumes the listing shows for opts, in input order.
func Filter(vols []podman.Volume, opts Options) []podman.Volume {
	needle := strings.ToLower(opts.TextFilter)
	return lo.Filter(vols, func(v podman.Volume, _ int) bool {
		if !opts.ownerMatch(v) {
			return false
		}
		if !opts.ShowIntermediate && !v.Tagged() {
			return false
		}
		if needle == "" {
			return true
		}
		return lo.SomeBy(v.RepoTags, func(t string) bool {
			return strings.Contains(strings.ToLower(t), needle)
		})
	})
}

// Sort orders vols in place: volumes of the preferred scope first, then
// within a scope tagged volumes by PrimaryTag and untagged volumes last.
func Sort(vols []podman.Volume, preferred podman.Owner) {
	slices.SortStableFunc(vols, func(a, b podman.Volume) int {
		if a.IsSystem != b.IsSystem {
			if a.IsSystem == preferred.IsSystem() {
				return -1
			}
			return 1
		}
		switch {
		case !a.Tagged() && !b.Tagged():
			return 0
		case !a.Tagged():
			return 1
		case !b.Tagged():
			return -1
		}
		return CompareTags(PrimaryTag(a), PrimaryTag(b))
	})
}

// Project filters and sorts in one step.
func Project(vols []podman.Volume, opts Options, preferred podman.Owner) []podman.Volume {
	out := Filter(vols, opts)
	Sort(out, preferred)
	return out
}

// HasIntermediate reports whether the "show intermediate volumes" toggle
// applies: some untagged volume passes the owner filter and no text filter
// is set.
func HasIntermediate(vols []podman.Volume, opts Options) bool {
	if opts.TextFilter != "" {
		return false
	}
	return lo.SomeBy(vols, func(v podman.Volume) bool {
		return !v.Tagged() && opts.ownerMatch(v)
	})
}

// Stats are the aggregate figures shown above the listing.
type Stats struct {
	Total      int
	TotalSize  int64
	Unused     int
	UnusedSize int64
	// UnusedVolumes backs the prune action.
	UnusedVolumes []podman.Volume
}

// ComputeStats aggregates over the full collection. Until the used-by lookup
// is loaded (nil) every figure is zero.
func ComputeStats(vols []podman.Volume, usedBy podman.UsedBy) Stats {
	if usedBy == nil {
		return Stats{}
	}
	unused := lo.Filter(vols, func(v podman.Volume, _ int) bool {
		_, ok := usedBy[v.Key()]
		return !ok
	})
	size := func(v podman.Volume) int64 { return v.Size }
	return Stats{
		Total:         len(vols),
		TotalSize:     lo.SumBy(vols, size),
		Unused:        len(unused),
		UnusedSize:    lo.SumBy(unused, size),
		UnusedVolumes: unused,
	}
}

// BuildUsedBy derives the used-by lookup from container mounts of type
// "volume". Container names keep listing order.
func BuildUsedBy(ctrs []podman.Container) podman.UsedBy {
	out := podman.UsedBy{}
	for _, c := range ctrs {
		for _, m := range c.Mounts {
			if m.Type != "volume" || m.Name == "" {
				continue
			}
			k := podman.Key(m.Name, c.IsSystem)
			if !slices.Contains(out[k], c.Name()) {
				out[k] = append(out[k], c.Name())
			}
		}
	}
	return out
}

// UsedByCount returns how many containers reference v.
func UsedByCount(v podman.Volume, usedBy podman.UsedBy) int {
	return len(usedBy[v.Key()])
}

// UnusedByOwner groups unused volumes by scope, for the prune dialog.
func UnusedByOwner(unused []podman.Volume) map[podman.Owner][]podman.Volume {
	return lo.GroupBy(unused, func(v podman.Volume) podman.Owner {
		return podman.OwnerOf(v.IsSystem)
	})
}
