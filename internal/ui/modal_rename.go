package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/docker/docker/pkg/namesgenerator"

	"podconsole/internal/podman"
)

// errContainerNameRequired is shown under the field on an empty submit.
const errContainerNameRequired = "Container name is required"

// RenameModal asks for a new container name. It issues at most one rename
// per submit and stays open with a banner when the rename fails.
type RenameModal struct {
	Container podman.Container

	input      textinput.Model
	fieldErr   string
	banner     *Banner
	submitting bool
}

// Ensure RenameModal implements View.
var _ View = (*RenameModal)(nil)

// NewRenameModal creates the dialog pre-filled with a random name.
func NewRenameModal(c podman.Container) *RenameModal {
	ti := textinput.New()
	ti.Placeholder = "container-name"
	ti.Width = 40
	ti.CharLimit = 128
	ti.SetValue(namesgenerator.GetRandomName(0))
	ti.CursorEnd()
	ti.Focus()
	return &RenameModal{Container: c, input: ti}
}

// Value returns the typed name.
func (m *RenameModal) Value() string { return m.input.Value() }

// SetValue replaces the typed name.
func (m *RenameModal) SetValue(s string) {
	m.input.SetValue(s)
	m.fieldErr = ""
}

// FieldError returns the inline validation message, empty when valid.
func (m *RenameModal) FieldError() string { return m.fieldErr }

// Banner returns the failure banner, nil when none is shown.
func (m *RenameModal) Banner() *Banner { return m.banner }

// Failed shows the banner of a failed rename and re-enables submit.
func (m *RenameModal) Failed(b Banner) {
	m.banner = &b
	m.submitting = false
}

// Init implements View.
func (m *RenameModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *RenameModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "ctrl+x":
			m.banner = nil
			return m, nil
		case "enter":
			return m, m.submit()
		}
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.fieldErr = ""
	}
	return m, cmd
}

func (m *RenameModal) submit() tea.Cmd {
	if m.submitting {
		return nil
	}
	name := strings.TrimSpace(m.input.Value())
	if name == "" {
		m.fieldErr = errContainerNameRequired
		return nil
	}
	m.submitting = true
	req := RenameContainerMsg{Modal: m, Container: m.Container, Name: name}
	return func() tea.Msg { return req }
}

// View implements View.
func (m *RenameModal) View() string {
	var b strings.Builder
	b.WriteString(ModalStyles.Title.Render("Rename container "+m.Container.Name()) + "\n\n")
	if m.banner != nil {
		b.WriteString(m.banner.View() + "\n\n")
	}
	b.WriteString(ModalStyles.Label.Render("New container name") + "\n")
	b.WriteString(m.input.View() + "\n")
	if m.fieldErr != "" {
		b.WriteString(ModalStyles.FieldError.Render(m.fieldErr) + "\n")
	}
	help := "Enter: rename  Esc: cancel"
	if m.banner != nil {
		help += "  ctrl+x: dismiss error"
	}
	if m.submitting {
		help = "Renaming…"
	}
	b.WriteString("\n" + ModalStyles.Help.Render(help))
	return ModalStyles.BoxDefault.Render(b.String())
}
