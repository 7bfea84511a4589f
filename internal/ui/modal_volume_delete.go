package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"podconsole/internal/volume"
)

// VolumeDeleteModal is the tag checklist in front of a volume delete.
// j/k move, space toggles, a selects all (more than two tags), enter confirms.
type VolumeDeleteModal struct {
	Dialog *volume.DeleteDialog
	cursor int
}

// Ensure VolumeDeleteModal implements View.
var _ View = (*VolumeDeleteModal)(nil)

// NewVolumeDeleteModal wraps an open delete dialog.
func NewVolumeDeleteModal(d *volume.DeleteDialog) *VolumeDeleteModal {
	return &VolumeDeleteModal{Dialog: d}
}

// Init implements View.
func (m *VolumeDeleteModal) Init() tea.Cmd { return nil }

// Dismissed implements dismisser.
func (m *VolumeDeleteModal) Dismissed() { m.Dialog.Close() }

// Update implements View.
func (m *VolumeDeleteModal) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if km.String() == "esc" {
		return m, func() tea.Msg { return DismissModalMsg{} }
	}
	if m.Dialog.State() != volume.Confirming {
		return m, nil
	}
	tags := m.Dialog.Tags()
	switch km.String() {
	case "j", "down":
		if m.cursor < len(tags)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "x":
		if m.cursor < len(tags) {
			m.Dialog.Toggle(tags[m.cursor])
		}
	case "a":
		if m.Dialog.CanSelectAll() {
			m.Dialog.SelectAll()
		}
	case "enter":
		plan, err := m.Dialog.Confirm()
		if err != nil {
			return m, nil
		}
		req := DeleteVolumeMsg{Modal: m, Plan: plan}
		return m, func() tea.Msg { return req }
	}
	return m, nil
}

// View implements View.
func (m *VolumeDeleteModal) View() string {
	d := m.Dialog
	var b strings.Builder
	b.WriteString(ModalStyles.TitleWarning.Render(fmt.Sprintf("Delete %s?", d.Volume.Name())) + "\n\n")

	tags := d.Tags()
	if len(tags) == 0 {
		b.WriteString(ModalStyles.Label.Render("This volume has no tags.") + "\n")
	} else {
		b.WriteString(ModalStyles.Label.Render("Tags to remove:") + "\n")
		for i, t := range tags {
			box := "[ ]"
			if d.Selected(t) {
				box = "[x]"
			}
			line := fmt.Sprintf("%s %s", box, t)
			if i == m.cursor {
				line = ModalStyles.Focused.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		if len(d.Checked()) == len(tags) {
			b.WriteString(ModalStyles.Details.Render("All tags selected: the volume will be deleted.") + "\n")
		}
	}

	var help string
	switch {
	case d.State() == volume.Deleting:
		help = "Deleting…"
	case d.CanConfirm():
		help = "space: toggle  Enter: delete  Esc: cancel"
	default:
		help = "space: toggle  (select a tag to delete)  Esc: cancel"
	}
	if d.State() == volume.Confirming && d.CanSelectAll() {
		help += "  a: select all"
	}
	b.WriteString("\n" + ModalStyles.Help.Render(help))
	return ModalStyles.BoxWarning.Render(b.String())
}
