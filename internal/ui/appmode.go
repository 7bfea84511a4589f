package ui

// AppMode is the screen shown under the overlays.
type AppMode int

const (
	ModeContainers AppMode = iota
	ModePods
	ModeVolumes
	ModeHistory
)

func (m AppMode) String() string {
	switch m {
	case ModeContainers:
		return "Containers"
	case ModePods:
		return "Pods"
	case ModeVolumes:
		return "Volumes"
	case ModeHistory:
		return "History"
	default:
		return "Unknown"
	}
}

// listingModes are the modes reachable with the number keys, in tab order.
var listingModes = []AppMode{ModeContainers, ModePods, ModeVolumes}
