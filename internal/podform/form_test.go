package podform

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podconsole/internal/podman"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		want error
	}{
		{"", ErrNameRequired},
		{"web", nil},
		{"web_1.prod-a", nil},
		{"9lives", nil},
		{"-web", ErrNameInvalid},
		{"_web", ErrNameInvalid},
		{"web app", ErrNameInvalid},
		{"web/app", ErrNameInvalid},
		{"wéb", ErrNameInvalid},
		{"web:1", ErrNameInvalid},
	}
	for _, tt := range tests {
		got := ValidateName(tt.name)
		if !errors.Is(got, tt.want) {
			t.Errorf("ValidateName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"80", 80, false},
		{" 8080 ", 8080, false},
		{"65535", 65535, false},
		{"0", 0, true},
		{"65536", 0, true},
		{"-1", 0, true},
		{"http", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePort(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePort(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePort(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestForm_ValidateBlocksBadInput(t *testing.T) {
	f := NewForm("", podman.OwnerUser)
	f.Ports = f.Ports.Add().Update(0, func(p PortRow) PortRow {
		p.ContainerPort = "70000"
		p.HostPort = "abc"
		return p
	})

	errs := f.Validate()
	require.Len(t, errs, 3)
	assert.Equal(t, "name", errs[0].Field)
	assert.ErrorIs(t, errs[0], ErrNameRequired)
	assert.Equal(t, "port.0.host", errs[1].Field)
	assert.Equal(t, "port.0.container", errs[2].Field)
	assert.ErrorIs(t, errs[2], ErrPortInvalid)

	_, err := BuildSpec(f)
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestBuildSpec_RoundTrip(t *testing.T) {
	f := NewForm("web", podman.OwnerSystem)
	f.Ports = f.Ports.Add().Add().Add()
	f.Ports = f.Ports.Update(0, func(p PortRow) PortRow {
		p.ContainerPort, p.HostPort, p.HostIP = "80", "8080", "127.0.0.1"
		return p
	})
	f.Ports = f.Ports.Update(1, func(p PortRow) PortRow {
		p.ContainerPort, p.Protocol = "53", "udp"
		return p
	})
	// Row 2 has no container port and is dropped.
	f.Ports = f.Ports.Update(2, func(p PortRow) PortRow {
		p.HostPort = "9000"
		return p
	})
	f.Mounts = f.Mounts.Add().Add()
	f.Mounts = f.Mounts.Update(0, func(m MountRow) MountRow {
		m.Source, m.Destination, m.Mode, m.SELinux = "/srv/data", "/data", "ro", "Z"
		return m
	})
	f.Mounts = f.Mounts.Update(1, func(m MountRow) MountRow {
		m.Source = "/only/source"
		return m
	})

	spec, err := BuildSpec(f)
	require.NoError(t, err)

	raw, err := json.Marshal(spec)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "web", body["name"])
	assert.NotContains(t, body, "no_infra")

	pms := body["portmappings"].([]any)
	require.Len(t, pms, 2)
	first := pms[0].(map[string]any)
	assert.EqualValues(t, 80, first["container_port"])
	assert.EqualValues(t, 8080, first["host_port"])
	assert.Equal(t, "127.0.0.1", first["host_ip"])
	assert.Equal(t, "tcp", first["protocol"])
	second := pms[1].(map[string]any)
	assert.EqualValues(t, 53, second["container_port"])
	assert.Equal(t, "udp", second["protocol"])
	assert.NotContains(t, second, "host_port")
	assert.NotContains(t, second, "host_ip")

	mounts := body["mounts"].([]any)
	require.Len(t, mounts, 1)
	m := mounts[0].(map[string]any)
	assert.Equal(t, "bind", m["type"])
	assert.Equal(t, "/srv/data", m["source"])
	assert.Equal(t, "/data", m["destination"])
	assert.Equal(t, []any{"ro", "Z"}, m["options"])
}

func TestBuildSpec_EmptyListsOmitted(t *testing.T) {
	f := NewForm("web", podman.OwnerUser)
	f.NoInfra = true
	spec, err := BuildSpec(f)
	require.NoError(t, err)
	assert.Nil(t, spec.PortMappings)
	assert.Nil(t, spec.Mounts)
	assert.True(t, spec.NoInfra)
}
