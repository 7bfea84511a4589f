package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/docker/go-units"
	"github.com/samber/lo"

	"podconsole/internal/podman"
	"podconsole/internal/ui/textutil"
	"podconsole/internal/volume"
)

// VolumeDetailsModal shows one volume and the containers using it.
type VolumeDetailsModal struct {
	Volume podman.Volume
	UsedBy []string
	loaded bool
	label  func(isSystem bool) string
}

// Ensure VolumeDetailsModal implements View.
var _ View = (*VolumeDetailsModal)(nil)

// NewVolumeDetailsModal creates the details view. loaded is false while the
// used-by lookup is not known yet.
func NewVolumeDetailsModal(v podman.Volume, usedBy []string, loaded bool, label func(isSystem bool) string) *VolumeDetailsModal {
	return &VolumeDetailsModal{Volume: v, UsedBy: usedBy, loaded: loaded, label: label}
}

// Init implements View.
func (m *VolumeDetailsModal) Init() tea.Cmd { return nil }

// Update implements View.
func (m *VolumeDetailsModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc", "enter", "q":
			return m, func() tea.Msg { return DismissModalMsg{} }
		}
	}
	return m, nil
}

// View implements View.
func (m *VolumeDetailsModal) View() string {
	v := m.Volume
	var b strings.Builder
	b.WriteString(ModalStyles.Title.Render(v.Name()) + "\n\n")
	row := func(label, value string) {
		b.WriteString(ModalStyles.Label.Render(textutil.PadRight(label, 9)) + textutil.Truncate(value, 60) + "\n")
	}
	row("ID", v.ID)
	row("Owner", m.label(v.IsSystem))
	row("Size", units.HumanSize(float64(v.Size)))
	if !v.Created.IsZero() {
		row("Created", units.HumanDuration(time.Since(v.Created))+" ago")
	}
	for i, tag := range volume.SortTags(v.RepoTags) {
		row(lo.Ternary(i == 0, "Tags", ""), tag)
	}
	b.WriteString("\n" + Styles.Section.Render("Used by") + "\n")
	switch {
	case !m.loaded:
		b.WriteString(Styles.Empty.Render("loading…") + "\n")
	case len(m.UsedBy) == 0:
		b.WriteString(Styles.Empty.Render("no containers") + "\n")
	default:
		for _, name := range m.UsedBy {
			b.WriteString("  " + name + "\n")
		}
	}
	b.WriteString("\n" + ModalStyles.Help.Render("Esc: close"))
	return ModalStyles.BoxDefault.Render(b.String())
}
