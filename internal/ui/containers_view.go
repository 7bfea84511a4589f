package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"podconsole/internal/podman"
)

// ContainersView lists containers of every available scope.
type ContainersView struct {
	table      table.Model
	containers []podman.Container
	panes      map[string]int
	label      func(isSystem bool) string
	loaded     bool
}

// Ensure ContainersView implements View.
var _ View = (*ContainersView)(nil)

// NewContainersView creates an empty listing; label names owner scopes.
func NewContainersView(label func(isSystem bool) string) *ContainersView {
	return &ContainersView{
		table: newTable([]table.Column{
			{Title: "Name", Width: 28},
			{Title: "Image", Width: 36},
			{Title: "Owner", Width: 10},
			{Title: "State", Width: 10},
			{Title: "Pod", Width: 16},
			{Title: "Panes", Width: 5},
		}),
		label: label,
	}
}

// SetContainers replaces the listing. Infra containers are hidden; rows are
// ordered by name, then scope.
func (v *ContainersView) SetContainers(ctrs []podman.Container, panes map[string]int) {
	shown := make([]podman.Container, 0, len(ctrs))
	for _, c := range ctrs {
		if !c.IsInfra {
			shown = append(shown, c)
		}
	}
	slices.SortStableFunc(shown, func(a, b podman.Container) int {
		if c := strings.Compare(a.Name(), b.Name()); c != 0 {
			return c
		}
		return strings.Compare(a.Key(), b.Key())
	})
	v.containers = shown
	v.panes = panes
	v.loaded = true

	rows := make([]table.Row, len(shown))
	for i, c := range shown {
		p := ""
		if n := panes[c.Key()]; n > 0 {
			p = fmt.Sprint(n)
		}
		rows[i] = table.Row{c.Name(), c.Image, v.label(c.IsSystem), c.State, c.PodName, p}
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Selected returns the container under the cursor, nil when empty.
func (v *ContainersView) Selected() *podman.Container {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.containers) {
		return nil
	}
	c := v.containers[i]
	return &c
}

// Init implements View.
func (v *ContainersView) Init() tea.Cmd { return nil }

// Update implements View.
func (v *ContainersView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.table.SetHeight(msg.Height - 2)
		v.table.SetWidth(msg.Width)
		return v, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return v, func() tea.Msg { return ShowRenameMsg{} }
		case "h", "enter":
			return v, func() tea.Msg { return ShowHistoryMsg{} }
		case "s":
			return v, func() tea.Msg { return OpenShellMsg{} }
		case "l":
			return v, func() tea.Msg { return OpenLogsMsg{} }
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View implements View.
func (v *ContainersView) View() string {
	title := Styles.Title.Render(fmt.Sprintf("Containers (%d)", len(v.containers)))
	hint := Styles.Hint.Render("r: rename  h: image history  s: shell  l: logs  [SPC] commands")
	if !v.loaded {
		return title + "\n" + Styles.Empty.Render("Loading…")
	}
	if len(v.containers) == 0 {
		return title + "\n" + Styles.Empty.Render("No containers") + "\n" + hint
	}
	return title + "\n" + v.table.View() + "\n" + hint
}
