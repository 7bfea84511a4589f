package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/docker/go-units"
	"github.com/samber/lo"

	"podconsole/internal/podman"
)

// PruneModal confirms removing every unused volume. When both scopes have
// unused volumes the user picks which scopes to prune with s and u.
type PruneModal struct {
	unused map[podman.Owner][]podman.Volume
	chosen map[podman.Owner]bool
	label  func(isSystem bool) string
	sent   bool
}

// Ensure PruneModal implements View.
var _ View = (*PruneModal)(nil)

// NewPruneModal lists unused per scope; every scope starts selected.
func NewPruneModal(unused map[podman.Owner][]podman.Volume, label func(isSystem bool) string) *PruneModal {
	chosen := map[podman.Owner]bool{}
	for owner := range unused {
		chosen[owner] = true
	}
	return &PruneModal{unused: unused, chosen: chosen, label: label}
}

// Owners returns the scopes that will be pruned, system first.
func (m *PruneModal) Owners() []podman.Owner {
	return lo.Filter([]podman.Owner{podman.OwnerSystem, podman.OwnerUser}, func(o podman.Owner, _ int) bool {
		return m.chosen[o] && len(m.unused[o]) > 0
	})
}

func (m *PruneModal) choosable() bool {
	return len(m.unused[podman.OwnerSystem]) > 0 && len(m.unused[podman.OwnerUser]) > 0
}

// Init implements View.
func (m *PruneModal) Init() tea.Cmd { return nil }

// Update implements View.
func (m *PruneModal) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "esc":
		return m, func() tea.Msg { return DismissModalMsg{} }
	case "s":
		if m.choosable() && !m.sent {
			m.chosen[podman.OwnerSystem] = !m.chosen[podman.OwnerSystem]
		}
	case "u":
		if m.choosable() && !m.sent {
			m.chosen[podman.OwnerUser] = !m.chosen[podman.OwnerUser]
		}
	case "enter", "y":
		owners := m.Owners()
		if len(owners) == 0 || m.sent {
			return m, nil
		}
		m.sent = true
		return m, func() tea.Msg { return PruneVolumesMsg{Modal: m, Owners: owners} }
	}
	return m, nil
}

// View implements View.
func (m *PruneModal) View() string {
	var b strings.Builder
	b.WriteString(ModalStyles.TitleWarning.Render("Prune unused volumes?") + "\n")
	for _, owner := range []podman.Owner{podman.OwnerSystem, podman.OwnerUser} {
		vols := m.unused[owner]
		if len(vols) == 0 {
			continue
		}
		head := fmt.Sprintf("%s (%d)", m.label(owner.IsSystem()), len(vols))
		if m.choosable() {
			head = lo.Ternary(m.chosen[owner], "[x] ", "[ ] ") + head
		}
		b.WriteString("\n" + Styles.Section.Render(head) + "\n")
		for _, v := range vols {
			b.WriteString(fmt.Sprintf("  %s  %s  %s\n", podman.ShortID(v.ID), v.Name(), units.HumanSize(float64(v.Size))))
		}
	}
	help := "y/Enter: prune  Esc: cancel"
	if m.choosable() {
		help = "s/u: toggle scope  " + help
	}
	if m.sent {
		help = "Pruning…"
	}
	b.WriteString("\n" + ModalStyles.Help.Render(help))
	return ModalStyles.BoxWarning.Render(b.String())
}
