package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/docker/go-units"

	"podconsole/internal/podman"
)

// PodsView lists pods of every available scope.
type PodsView struct {
	table  table.Model
	pods   []podman.Pod
	label  func(isSystem bool) string
	loaded bool
}

// Ensure PodsView implements View.
var _ View = (*PodsView)(nil)

// NewPodsView creates an empty listing.
func NewPodsView(label func(isSystem bool) string) *PodsView {
	return &PodsView{
		table: newTable([]table.Column{
			{Title: "Name", Width: 28},
			{Title: "Owner", Width: 10},
			{Title: "Status", Width: 12},
			{Title: "Containers", Width: 10},
			{Title: "Created", Width: 16},
		}),
		label: label,
	}
}

// SetPods replaces the listing, ordered by name.
func (v *PodsView) SetPods(pods []podman.Pod) {
	sorted := slices.Clone(pods)
	slices.SortStableFunc(sorted, func(a, b podman.Pod) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Key(), b.Key())
	})
	v.pods = sorted
	v.loaded = true

	rows := make([]table.Row, len(sorted))
	for i, p := range sorted {
		created := ""
		if !p.Created.IsZero() {
			created = units.HumanDuration(time.Since(p.Created)) + " ago"
		}
		rows[i] = table.Row{p.Name, v.label(p.IsSystem), p.Status, fmt.Sprint(len(p.Containers)), created}
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Pods returns the listed pods in display order.
func (v *PodsView) Pods() []podman.Pod { return v.pods }

// Init implements View.
func (v *PodsView) Init() tea.Cmd { return nil }

// Update implements View.
func (v *PodsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.table.SetHeight(msg.Height - 2)
		v.table.SetWidth(msg.Width)
		return v, nil
	case tea.KeyMsg:
		if msg.String() == "c" {
			return v, func() tea.Msg { return ShowCreatePodMsg{} }
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View implements View.
func (v *PodsView) View() string {
	title := Styles.Title.Render(fmt.Sprintf("Pods (%d)", len(v.pods)))
	hint := Styles.Hint.Render("c: create pod  [SPC] commands")
	if !v.loaded {
		return title + "\n" + Styles.Empty.Render("Loading…")
	}
	if len(v.pods) == 0 {
		return title + "\n" + Styles.Empty.Render("No pods") + "\n" + hint
	}
	return title + "\n" + v.table.View() + "\n" + hint
}
