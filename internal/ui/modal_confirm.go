package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"podconsole/internal/volume"
)

// ConfirmModal is a generic confirmation modal.
// Enter or y confirms once; Esc cancels.
type ConfirmModal struct {
	Title       string
	Label       string
	Details     string // Optional warning details
	OnConfirm   func() tea.Msg
	OnCancel    func() // Optional, runs when the modal is dismissed
	boxStyle    lipgloss.Style
	titleStyle  lipgloss.Style
	detailStyle lipgloss.Style
	confirmed   bool
}

// Ensure ConfirmModal implements View.
var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a generic confirmation modal.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:       title,
		Label:       label,
		OnConfirm:   onConfirm,
		boxStyle:    ModalStyles.BoxWarning,
		titleStyle:  ModalStyles.TitleWarning,
		detailStyle: ModalStyles.Details,
	}
}

// WithDetails adds warning details to the modal.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewForceRemoveModal asks whether to force-remove a volume whose plain
// delete was refused. The refusal reason is shown as details.
func NewForceRemoveModal(d *volume.DeleteDialog) *ConfirmModal {
	var m *ConfirmModal
	m = NewConfirmModal(
		"Force remove volume?",
		fmt.Sprintf("Volume: %s", d.Volume.Name()),
		func() tea.Msg { return ForceRemoveVolumeMsg{Modal: m, Dialog: d} },
	).WithDetails(d.Reason() + "\nContainers using this volume will be removed as well.")
	m.OnCancel = d.Close
	return m
}

// Dismissed implements dismisser.
func (m *ConfirmModal) Dismissed() {
	if m.OnCancel != nil {
		m.OnCancel()
	}
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "n":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil && !m.confirmed {
				m.confirmed = true
				return m, m.OnConfirm
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := m.titleStyle.Render(m.Title) + "\n\n"
	content += ModalStyles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + m.detailStyle.Render(m.Details)
	}
	help := "y/Enter: confirm  Esc: cancel"
	if m.confirmed {
		help = "Working…"
	}
	content += "\n\n" + ModalStyles.Help.Render(help)
	return m.boxStyle.Render(content)
}
