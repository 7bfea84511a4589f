package podform

// Protocols accepted for a port mapping.
var Protocols = []string{"tcp", "udp"}

// Mount modes, in the order the form cycles through them.
var (
	Modes   = []string{"rw", "ro"}
	SELinux = []string{"", "z", "Z"}
)

// PortRow is the editable form of a port mapping. Every field is kept as the
// text the user typed; parsing happens in BuildSpec.
type PortRow struct {
	HostIP        string
	HostPort      string
	ContainerPort string
	Protocol      string
}

// Complete reports whether the row carries a container port. Incomplete rows
// are dropped from the payload.
func (r PortRow) Complete() bool { return trim(r.ContainerPort) != "" }

// MountRow is the editable form of a bind mount.
type MountRow struct {
	Source      string
	Destination string
	Mode        string
	SELinux     string
}

// Complete reports whether both paths are set.
func (r MountRow) Complete() bool {
	return trim(r.Source) != "" && trim(r.Destination) != ""
}

// DefaultPort is the row appended by "add port mapping".
var DefaultPort = PortRow{Protocol: "tcp"}

// DefaultMount is the row appended by "add volume".
var DefaultMount = MountRow{Mode: "rw"}

// Next returns the element after cur in opts, wrapping around. Unknown
// values map to the first option.
func Next(opts []string, cur string) string {
	for i, o := range opts {
		if o == cur {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}
