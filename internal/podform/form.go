package podform

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"podconsole/internal/podman"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Validation failures shown under the offending field.
var (
	ErrNameRequired = errors.New("Pod name is required")
	ErrNameInvalid  = errors.New("Name can only contain letters, numbers, and the characters _ . -")
	ErrPortInvalid  = errors.New("Port must be a number between 1 and 65535")
)

// ValidateName checks a pod name. The first character must be alphanumeric.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if !namePattern.MatchString(name) {
		return ErrNameInvalid
	}
	return nil
}

// ParsePort parses a port number in 1-65535.
func ParsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(trim(s), 10, 16)
	if err != nil || n == 0 {
		return 0, ErrPortInvalid
	}
	return uint16(n), nil
}

// Form is the full pod creation form.
type Form struct {
	Name    string
	NoInfra bool
	Owner   podman.Owner
	Ports   List[PortRow]
	Mounts  List[MountRow]
}

// NewForm returns a form with the given default name and owner and no rows.
func NewForm(name string, owner podman.Owner) Form {
	return Form{
		Name:   name,
		Owner:  owner,
		Ports:  NewList(DefaultPort),
		Mounts: NewList(DefaultMount),
	}
}

// FieldError ties a validation failure to a form field. Field is "name",
// "port.<i>.host", "port.<i>.container" or "port.<i>.protocol".
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }

func (e FieldError) Unwrap() error { return e.Err }

// Validate returns every field error of the form, in field order. Rows that
// will be dropped as incomplete are still checked when a port was typed.
func (f Form) Validate() []FieldError {
	var errs []FieldError
	if err := ValidateName(f.Name); err != nil {
		errs = append(errs, FieldError{Field: "name", Err: err})
	}
	for i, p := range f.Ports.Values() {
		if trim(p.HostPort) != "" {
			if _, err := ParsePort(p.HostPort); err != nil {
				errs = append(errs, FieldError{Field: fmt.Sprintf("port.%d.host", i), Err: err})
			}
		}
		if trim(p.ContainerPort) != "" {
			if _, err := ParsePort(p.ContainerPort); err != nil {
				errs = append(errs, FieldError{Field: fmt.Sprintf("port.%d.container", i), Err: err})
			}
		}
		if !lo.Contains(Protocols, p.Protocol) {
			errs = append(errs, FieldError{
				Field: fmt.Sprintf("port.%d.protocol", i),
				Err:   fmt.Errorf("unknown protocol %q", p.Protocol),
			})
		}
	}
	return errs
}

// BuildSpec converts the form into the creation payload. Port rows without a
// container port and mount rows without both paths are dropped; empty host
// port and host IP are omitted. It fails with the first field error when the
// form does not validate.
func BuildSpec(f Form) (podman.PodSpec, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return podman.PodSpec{}, errs[0]
	}
	spec := podman.PodSpec{Name: f.Name, NoInfra: f.NoInfra}

	for _, p := range lo.Filter(f.Ports.Values(), func(p PortRow, _ int) bool { return p.Complete() }) {
		cp, _ := ParsePort(p.ContainerPort)
		pm := podman.PortMapping{ContainerPort: cp, Protocol: p.Protocol}
		if trim(p.HostPort) != "" {
			pm.HostPort, _ = ParsePort(p.HostPort)
		}
		pm.HostIP = trim(p.HostIP)
		spec.PortMappings = append(spec.PortMappings, pm)
	}

	for _, m := range lo.Filter(f.Mounts.Values(), func(m MountRow, _ int) bool { return m.Complete() }) {
		opts := []string{lo.Ternary(m.Mode == "", "rw", m.Mode)}
		if m.SELinux != "" {
			opts = append(opts, m.SELinux)
		}
		spec.Mounts = append(spec.Mounts, podman.Mount{
			Source:      trim(m.Source),
			Destination: trim(m.Destination),
			Type:        "bind",
			Options:     opts,
		})
	}
	return spec, nil
}

func trim(s string) string { return strings.TrimSpace(s) }
