package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"podconsole/internal/podform"
	"podconsole/internal/podman"
)

// PodCreateModal is the pod creation form. One text input edits whichever
// text field has focus; the form itself lives in a podform.Form.
//
// tab/shift+tab move between fields, space cycles choices, ctrl+p adds a
// port mapping, ctrl+b adds a volume, ctrl+d removes the focused row.
type PodCreateModal struct {
	form        podform.Form
	ownerChoice bool
	label       func(isSystem bool) string

	focus      FocusManager
	input      textinput.Model
	errs       map[string]string
	banner     *Banner
	submitting bool
}

// Ensure PodCreateModal implements View.
var _ View = (*PodCreateModal)(nil)

const (
	fieldName  = "name"
	fieldOwner = "owner"
	fieldInfra = "infra"
)

// NewPodCreateModal creates the form with a default name. The owner field
// is only offered when both scopes are available.
func NewPodCreateModal(name string, owner podman.Owner, ownerChoice bool, label func(isSystem bool) string) *PodCreateModal {
	ti := textinput.New()
	ti.Width = 40
	ti.CharLimit = 253
	m := &PodCreateModal{
		form:        podform.NewForm(name, owner),
		ownerChoice: ownerChoice,
		label:       label,
		input:       ti,
		errs:        map[string]string{},
	}
	m.focus = FocusManager{OnChange: func(_, to string) { m.loadInput(to) }}
	m.focus.SetOrder(m.fieldOrder())
	m.loadInput(m.focus.Current)
	return m
}

// Form returns the current form state.
func (m *PodCreateModal) Form() podform.Form { return m.form }

// Errors returns the inline validation messages keyed by field ID.
func (m *PodCreateModal) Errors() map[string]string { return m.errs }

// Banner returns the failure banner, nil when none is shown.
func (m *PodCreateModal) Banner() *Banner { return m.banner }

// Focused returns the ID of the focused field.
func (m *PodCreateModal) Focused() string { return m.focus.Current }

// Failed shows the banner of a failed creation and re-enables submit.
func (m *PodCreateModal) Failed(b Banner) {
	m.banner = &b
	m.submitting = false
}

// Init implements View.
func (m *PodCreateModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *PodCreateModal) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	switch km.String() {
	case "esc":
		return m, func() tea.Msg { return DismissModalMsg{} }
	case "ctrl+x":
		m.banner = nil
		return m, nil
	case "enter":
		return m, m.submit()
	case "tab", "down":
		m.focus.Next()
		return m, nil
	case "shift+tab", "up":
		m.focus.Prev()
		return m, nil
	case "ctrl+p":
		m.addPort()
		return m, nil
	case "ctrl+b":
		m.addMount()
		return m, nil
	case "ctrl+d":
		m.removeFocusedRow()
		return m, nil
	}

	id := m.focus.Current
	if !isTextField(id) {
		switch km.String() {
		case " ", "right", "left", "l", "h":
			m.cycle(id)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.value(id) {
		m.setValue(id, v)
		delete(m.errs, id)
	}
	return m, cmd
}

// submit validates the form and sends the spec. Invalid forms issue no call.
func (m *PodCreateModal) submit() tea.Cmd {
	if m.submitting {
		return nil
	}
	m.errs = map[string]string{}
	if errs := m.form.Validate(); len(errs) > 0 {
		for _, fe := range errs {
			if id := m.fieldID(fe.Field); id != "" {
				m.errs[id] = fe.Err.Error()
			}
		}
		m.focus.SetFocus(m.fieldID(errs[0].Field))
		return nil
	}
	spec, err := podform.BuildSpec(m.form)
	if err != nil {
		return nil
	}
	m.submitting = true
	req := CreatePodMsg{Modal: m, Owner: m.form.Owner, Spec: spec}
	return func() tea.Msg { return req }
}

func (m *PodCreateModal) addPort() {
	m.form.Ports = m.form.Ports.Add()
	key := m.form.Ports.At(m.form.Ports.Len() - 1).Key
	m.focus.SetOrder(m.fieldOrder())
	m.focus.SetFocus(rowField("port", key, "container"))
}

func (m *PodCreateModal) addMount() {
	m.form.Mounts = m.form.Mounts.Add()
	key := m.form.Mounts.At(m.form.Mounts.Len() - 1).Key
	m.focus.SetOrder(m.fieldOrder())
	m.focus.SetFocus(rowField("mount", key, "source"))
}

func (m *PodCreateModal) removeFocusedRow() {
	section, key, _ := splitField(m.focus.Current)
	switch section {
	case "port":
		m.form.Ports = m.form.Ports.Remove(indexOfKey(m.form.Ports, key))
	case "mount":
		m.form.Mounts = m.form.Mounts.Remove(indexOfKey(m.form.Mounts, key))
	default:
		return
	}
	for id := range m.errs {
		if s, k, _ := splitField(id); s == section && k == key {
			delete(m.errs, id)
		}
	}
	m.focus.SetOrder(m.fieldOrder())
	m.loadInput(m.focus.Current)
}

// fieldOrder is the tab order. Row fields are identified by the row's
// synthetic key so focus survives removing an earlier row.
func (m *PodCreateModal) fieldOrder() []string {
	order := []string{fieldName}
	if m.ownerChoice {
		order = append(order, fieldOwner)
	}
	order = append(order, fieldInfra)
	for _, r := range m.form.Ports.Rows() {
		for _, sub := range []string{"hostip", "hostport", "container", "protocol"} {
			order = append(order, rowField("port", r.Key, sub))
		}
	}
	for _, r := range m.form.Mounts.Rows() {
		for _, sub := range []string{"source", "dest", "mode", "selinux"} {
			order = append(order, rowField("mount", r.Key, sub))
		}
	}
	return order
}

// fieldID maps a podform field path ("port.<index>.host") to a field ID.
func (m *PodCreateModal) fieldID(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) == 1 {
		return parts[0]
	}
	i, err := strconv.Atoi(parts[1])
	if err != nil || len(parts) < 3 || parts[0] != "port" || i >= m.form.Ports.Len() {
		return ""
	}
	sub := map[string]string{"host": "hostport", "container": "container", "protocol": "protocol"}[parts[2]]
	return rowField("port", m.form.Ports.At(i).Key, sub)
}

func rowField(section string, key int, sub string) string {
	return fmt.Sprintf("%s.%d.%s", section, key, sub)
}

func splitField(id string) (section string, key int, sub string) {
	parts := strings.SplitN(id, ".", 3)
	if len(parts) != 3 {
		return id, -1, ""
	}
	key, err := strconv.Atoi(parts[1])
	if err != nil {
		return id, -1, ""
	}
	return parts[0], key, parts[2]
}

func indexOfKey[T any](l podform.List[T], key int) int {
	for i, r := range l.Rows() {
		if r.Key == key {
			return i
		}
	}
	return -1
}

func isTextField(id string) bool {
	switch id {
	case fieldOwner, fieldInfra:
		return false
	}
	_, _, sub := splitField(id)
	switch sub {
	case "protocol", "mode", "selinux":
		return false
	}
	return true
}

func (m *PodCreateModal) value(id string) string {
	switch id {
	case fieldName:
		return m.form.Name
	case fieldOwner:
		return string(m.form.Owner)
	case fieldInfra:
		return strconv.FormatBool(!m.form.NoInfra)
	}
	section, key, sub := splitField(id)
	switch section {
	case "port":
		i := indexOfKey(m.form.Ports, key)
		if i < 0 {
			return ""
		}
		r := m.form.Ports.At(i).Value
		return map[string]string{
			"hostip":    r.HostIP,
			"hostport":  r.HostPort,
			"container": r.ContainerPort,
			"protocol":  r.Protocol,
		}[sub]
	case "mount":
		i := indexOfKey(m.form.Mounts, key)
		if i < 0 {
			return ""
		}
		r := m.form.Mounts.At(i).Value
		return map[string]string{
			"source":  r.Source,
			"dest":    r.Destination,
			"mode":    r.Mode,
			"selinux": r.SELinux,
		}[sub]
	}
	return ""
}

func (m *PodCreateModal) setValue(id, v string) {
	if id == fieldName {
		m.form.Name = v
		return
	}
	section, key, sub := splitField(id)
	switch section {
	case "port":
		m.form.Ports = m.form.Ports.Update(indexOfKey(m.form.Ports, key), func(r podform.PortRow) podform.PortRow {
			switch sub {
			case "hostip":
				r.HostIP = v
			case "hostport":
				r.HostPort = v
			case "container":
				r.ContainerPort = v
			case "protocol":
				r.Protocol = v
			}
			return r
		})
	case "mount":
		m.form.Mounts = m.form.Mounts.Update(indexOfKey(m.form.Mounts, key), func(r podform.MountRow) podform.MountRow {
			switch sub {
			case "source":
				r.Source = v
			case "dest":
				r.Destination = v
			case "mode":
				r.Mode = v
			case "selinux":
				r.SELinux = v
			}
			return r
		})
	}
}

// cycle steps a choice or toggle field to its next value.
func (m *PodCreateModal) cycle(id string) {
	switch id {
	case fieldOwner:
		m.form.Owner = m.form.Owner.Other()
		return
	case fieldInfra:
		m.form.NoInfra = !m.form.NoInfra
		return
	}
	_, _, sub := splitField(id)
	opts := map[string][]string{
		"protocol": podform.Protocols,
		"mode":     podform.Modes,
		"selinux":  podform.SELinux,
	}[sub]
	if opts != nil {
		m.setValue(id, podform.Next(opts, m.value(id)))
		delete(m.errs, id)
	}
}

// loadInput points the shared text input at field id.
func (m *PodCreateModal) loadInput(id string) {
	if !isTextField(id) {
		m.input.Blur()
		return
	}
	_, _, sub := splitField(id)
	m.input.Placeholder = map[string]string{
		"hostip":    "0.0.0.0",
		"hostport":  "8080",
		"container": "80",
		"source":    "/host/path",
		"dest":      "/container/path",
	}[sub]
	m.input.Width = lo.Ternary(id == fieldName, 40, 16)
	m.input.SetValue(m.value(id))
	m.input.CursorEnd()
	m.input.Focus()
}

// renderField shows the input for the focused text field and the plain
// value elsewhere.
func (m *PodCreateModal) renderField(id, text string) string {
	if id == m.focus.Current {
		if isTextField(id) {
			return m.input.View()
		}
		return ModalStyles.Focused.Render("‹" + text + "›")
	}
	if text == "" {
		return Styles.Dim.Render("·")
	}
	return text
}

func (m *PodCreateModal) renderErr(ids ...string) string {
	var out []string
	for _, id := range ids {
		if e := m.errs[id]; e != "" {
			out = append(out, ModalStyles.FieldError.Render("  "+e))
		}
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(lo.Uniq(out), "\n") + "\n"
}

// View implements View.
func (m *PodCreateModal) View() string {
	var b strings.Builder
	b.WriteString(ModalStyles.Title.Render("Create pod") + "\n\n")
	if m.banner != nil {
		b.WriteString(m.banner.View() + "\n\n")
	}

	b.WriteString("Name    " + m.renderField(fieldName, m.form.Name) + "\n")
	b.WriteString(m.renderErr(fieldName))
	if m.ownerChoice {
		b.WriteString("Owner   " + m.renderField(fieldOwner, m.label(m.form.Owner.IsSystem())) + "\n")
	}
	infra := lo.Ternary(m.form.NoInfra, "[ ] infra container", "[x] infra container")
	b.WriteString("Infra   " + m.renderField(fieldInfra, infra) + "\n")

	b.WriteString("\n" + Styles.Section.Render("Port mappings") + "\n")
	if m.form.Ports.Len() == 0 {
		b.WriteString(Styles.Empty.Render("  none") + "\n")
	}
	for i, r := range m.form.Ports.Rows() {
		f := func(sub string) string { return rowField("port", r.Key, sub) }
		b.WriteString(fmt.Sprintf("  %d  IP %s  host %s  container %s  %s\n", i+1,
			m.renderField(f("hostip"), r.Value.HostIP),
			m.renderField(f("hostport"), r.Value.HostPort),
			m.renderField(f("container"), r.Value.ContainerPort),
			m.renderField(f("protocol"), r.Value.Protocol)))
		b.WriteString(m.renderErr(f("hostport"), f("container"), f("protocol")))
	}

	b.WriteString("\n" + Styles.Section.Render("Volumes") + "\n")
	if m.form.Mounts.Len() == 0 {
		b.WriteString(Styles.Empty.Render("  none") + "\n")
	}
	for i, r := range m.form.Mounts.Rows() {
		f := func(sub string) string { return rowField("mount", r.Key, sub) }
		b.WriteString(fmt.Sprintf("  %d  %s → %s  %s  %s\n", i+1,
			m.renderField(f("source"), r.Value.Source),
			m.renderField(f("dest"), r.Value.Destination),
			m.renderField(f("mode"), r.Value.Mode),
			m.renderField(f("selinux"), lo.CoalesceOrEmpty(r.Value.SELinux, "no label"))))
	}

	help := "tab: next  space: change  ctrl+p: add port  ctrl+b: add volume  ctrl+d: remove row  Enter: create  Esc: cancel"
	if m.submitting {
		help = "Creating…"
	}
	b.WriteString("\n" + ModalStyles.Help.Render(help))
	return ModalStyles.BoxDefault.Render(b.String())
}
