package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/docker/go-units"

	"podconsole/internal/history"
	"podconsole/internal/podman"
	"podconsole/internal/ui/textutil"
)

// HistoryView lists the layers of one image, newest first. Read-only; the
// selected command can be copied.
type HistoryView struct {
	// Image is the image id the history was requested for.
	Image string
	// Title is the image name shown in the header.
	Title string
	Owner string

	table   table.Model
	spinner spinner.Model
	entries []history.Entry
	banner  *Banner
	loading bool
	width   int
}

// Ensure HistoryView implements View.
var _ View = (*HistoryView)(nil)

// NewHistoryView creates the view in loading state.
func NewHistoryView(image, title, owner string) *HistoryView {
	return &HistoryView{
		Image: image,
		Title: title,
		Owner: owner,
		table: newTable([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Created", Width: 16},
			{Title: "Size", Width: 9},
			{Title: "Comment", Width: 16},
			{Title: "Command", Width: 60},
		}),
		spinner: newSpinner(),
		loading: true,
		width:   100,
	}
}

// SetRecords projects the backend records into rows.
func (v *HistoryView) SetRecords(recs []podman.HistoryRecord) {
	v.loading = false
	v.banner = nil
	v.entries = history.Project(recs)
	rows := make([]table.Row, len(v.entries))
	for i, e := range v.entries {
		rows[i] = table.Row{
			fmt.Sprint(e.Index),
			units.HumanDuration(time.Since(e.Created)) + " ago",
			e.SizeText(),
			e.Comment,
			textutil.FirstLine(e.Command),
		}
	}
	v.table.SetRows(rows)
	v.table.SetCursor(0)
}

// Failed shows why the history could not be read.
func (v *HistoryView) Failed(b Banner) {
	v.loading = false
	v.banner = &b
}

// Banner returns the load failure, nil when none.
func (v *HistoryView) Banner() *Banner { return v.banner }

// Entries returns the projected rows.
func (v *HistoryView) Entries() []history.Entry { return v.entries }

// SelectedCommand returns the command of the layer under the cursor.
func (v *HistoryView) SelectedCommand() string {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.entries) {
		return ""
	}
	return v.entries[i].Command
}

// Init implements View.
func (v *HistoryView) Init() tea.Cmd { return v.spinner.Tick }

// Update implements View.
func (v *HistoryView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.table.SetHeight(msg.Height - 6)
		v.table.SetWidth(msg.Width)
		return v, nil
	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace":
			return v, func() tea.Msg { return SwitchModeMsg{Mode: ModeContainers} }
		case "y", "c":
			if cmd := v.SelectedCommand(); cmd != "" {
				return v, func() tea.Msg { return CopyCommandMsg{Command: cmd} }
			}
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View implements View.
func (v *HistoryView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(textutil.Truncate("History of "+v.Title, max(v.width-20, 20))) + "  " + Styles.Dim.Render(v.Owner))
	if v.loading {
		b.WriteString(" " + v.spinner.View())
	}
	b.WriteString("\n")
	if v.banner != nil {
		b.WriteString(v.banner.View() + "\n")
	}
	switch {
	case v.loading:
		b.WriteString(Styles.Empty.Render("Loading…"))
	case len(v.entries) == 0 && v.banner == nil:
		b.WriteString(Styles.Empty.Render("No layers"))
	case len(v.entries) > 0:
		total := units.HumanSizeWithPrecision(float64(history.TotalSize(v.entries)), 3)
		b.WriteString(Styles.Dim.Render(fmt.Sprintf("%d layers, %s", len(v.entries), total)) + "\n")
		b.WriteString(v.table.View() + "\n")
		cmd := lipgloss.NewStyle().Width(max(v.width-2, 20)).Render(v.SelectedCommand())
		b.WriteString(Styles.Section.Render("Command") + "\n" + Styles.Normal.Render(cmd))
	}
	b.WriteString("\n" + Styles.Hint.Render("y: copy command  esc: back"))
	return b.String()
}
