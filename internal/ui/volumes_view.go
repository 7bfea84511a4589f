package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/docker/go-units"
	"github.com/samber/lo"

	"podconsole/internal/podman"
	"podconsole/internal/volume"
)

// ownerFilterCycle is the order "o" steps the owner filter through.
var ownerFilterCycle = []string{volume.OwnerAll, string(podman.OwnerSystem), string(podman.OwnerUser)}

// VolumesView is the volume listing: filtered, sorted, with usage stats
// computed over the whole collection.
type VolumesView struct {
	table     table.Model
	filter    textinput.Model
	filtering bool

	opts      volume.Options
	preferred podman.Owner
	label     func(isSystem bool) string

	all    []podman.Volume
	usedBy podman.UsedBy
	rows   []podman.Volume
	stats  volume.Stats
	loaded bool
}

// Ensure VolumesView implements View.
var _ View = (*VolumesView)(nil)

// NewVolumesView creates an empty listing with the initial filter options.
func NewVolumesView(label func(isSystem bool) string, opts volume.Options, preferred podman.Owner) *VolumesView {
	fi := textinput.New()
	fi.Prompt = "/"
	fi.Placeholder = "filter by tag"
	fi.Width = 30
	return &VolumesView{
		table: newTable([]table.Column{
			{Title: "Name", Width: 40},
			{Title: "ID", Width: 12},
			{Title: "Owner", Width: 10},
			{Title: "Size", Width: 9},
			{Title: "Created", Width: 14},
			{Title: "Used by", Width: 7},
		}),
		filter:    fi,
		opts:      opts,
		preferred: preferred,
		label:     label,
	}
}

// SetVolumes replaces the collection and the used-by lookup.
func (v *VolumesView) SetVolumes(vols []podman.Volume, usedBy podman.UsedBy) {
	v.all = vols
	v.usedBy = usedBy
	v.loaded = true
	v.stats = volume.ComputeStats(vols, usedBy)
	v.project()
}

// SetBothScopes tells the view whether the owner filter applies.
func (v *VolumesView) SetBothScopes(both bool) {
	if v.opts.BothScopes != both {
		v.opts.BothScopes = both
		v.project()
	}
}

// Options returns the current filter options.
func (v *VolumesView) Options() volume.Options { return v.opts }

// Rows returns the listed volumes in display order.
func (v *VolumesView) Rows() []podman.Volume { return v.rows }

// Stats returns the usage stats of the whole collection.
func (v *VolumesView) Stats() volume.Stats { return v.stats }

// Capturing implements capturer while the filter is being typed.
func (v *VolumesView) Capturing() bool { return v.filtering }

// Selected returns the volume under the cursor, nil when empty.
func (v *VolumesView) Selected() *podman.Volume {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.rows) {
		return nil
	}
	vol := v.rows[i]
	return &vol
}

// CycleOwnerFilter steps the owner filter: all, system, user.
func (v *VolumesView) CycleOwnerFilter() {
	next := ownerFilterCycle[0]
	for i, f := range ownerFilterCycle {
		if f == v.opts.OwnerFilter {
			next = ownerFilterCycle[(i+1)%len(ownerFilterCycle)]
		}
	}
	v.opts.OwnerFilter = next
	v.project()
}

// ToggleIntermediate flips whether untagged volumes are listed.
func (v *VolumesView) ToggleIntermediate() {
	v.opts.ShowIntermediate = !v.opts.ShowIntermediate
	v.project()
}

// SetTextFilter sets the tag filter.
func (v *VolumesView) SetTextFilter(s string) {
	v.filter.SetValue(s)
	v.opts.TextFilter = s
	v.project()
}

func (v *VolumesView) project() {
	v.rows = volume.Project(v.all, v.opts, v.preferred)
	rows := make([]table.Row, len(v.rows))
	for i, vol := range v.rows {
		used := "-"
		if v.usedBy != nil {
			used = fmt.Sprint(volume.UsedByCount(vol, v.usedBy))
		}
		created := ""
		if !vol.Created.IsZero() {
			created = units.HumanDuration(time.Since(vol.Created)) + " ago"
		}
		name := vol.Name()
		if n := len(vol.RepoTags); n > 1 {
			name = fmt.Sprintf("%s +%d", volume.PrimaryTag(vol), n-1)
		}
		rows[i] = table.Row{
			name,
			podman.ShortID(vol.ID),
			v.label(vol.IsSystem),
			units.HumanSize(float64(vol.Size)),
			created,
			used,
		}
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Init implements View.
func (v *VolumesView) Init() tea.Cmd { return nil }

// Update implements View.
func (v *VolumesView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.table.SetHeight(msg.Height - 4)
		v.table.SetWidth(msg.Width)
		return v, nil
	case ToggleIntermediateMsg:
		v.ToggleIntermediate()
		return v, nil
	case CycleOwnerFilterMsg:
		v.CycleOwnerFilter()
		return v, nil
	case tea.KeyMsg:
		if v.filtering {
			return v, v.updateFilter(msg)
		}
		switch msg.String() {
		case "/":
			v.filtering = true
			return v, v.filter.Focus()
		case "o":
			v.CycleOwnerFilter()
			return v, nil
		case "i":
			v.ToggleIntermediate()
			return v, nil
		case "d":
			return v, func() tea.Msg { return ShowDeleteVolumeMsg{} }
		case "p":
			if len(v.stats.UnusedVolumes) == 0 {
				return v, nil
			}
			return v, func() tea.Msg { return ShowPruneMsg{} }
		case "enter":
			return v, func() tea.Msg { return ShowVolumeDetailsMsg{} }
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// updateFilter edits the tag filter. Enter keeps it, esc clears it.
func (v *VolumesView) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		v.filtering = false
		v.filter.Blur()
		return nil
	case "esc":
		v.filtering = false
		v.filter.Blur()
		v.SetTextFilter("")
		return nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	if v.filter.Value() != v.opts.TextFilter {
		v.opts.TextFilter = v.filter.Value()
		v.project()
	}
	return cmd
}

// View implements View.
func (v *VolumesView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(fmt.Sprintf("Volumes (%d)", len(v.rows))))
	if v.loaded {
		b.WriteString("  " + Styles.Dim.Render(v.statsLine()))
	}
	b.WriteString("\n")

	var controls []string
	if v.filtering || v.opts.TextFilter != "" {
		controls = append(controls, v.filter.View())
	}
	if v.opts.BothScopes {
		controls = append(controls, "owner: "+v.ownerFilterLabel())
	}
	if volume.HasIntermediate(v.all, v.opts) {
		controls = append(controls, "intermediate: "+map[bool]string{true: "shown", false: "hidden"}[v.opts.ShowIntermediate])
	}
	if len(controls) > 0 {
		b.WriteString(strings.Join(controls, "  ") + "\n")
	}

	switch {
	case !v.loaded:
		b.WriteString(Styles.Empty.Render("Loading…"))
		return b.String()
	case len(v.rows) == 0 && v.opts.TextFilter != "":
		b.WriteString(Styles.Empty.Render("No volumes match the filter"))
	case len(v.rows) == 0:
		b.WriteString(Styles.Empty.Render("No volumes"))
	default:
		b.WriteString(v.table.View())
	}
	hint := "/: filter  d: delete  enter: details"
	if v.opts.BothScopes {
		hint += "  o: owner"
	}
	if volume.HasIntermediate(v.all, v.opts) {
		hint += "  i: intermediate"
	}
	if len(v.stats.UnusedVolumes) > 0 {
		hint += "  p: prune unused"
	}
	b.WriteString("\n" + Styles.Hint.Render(hint))
	return b.String()
}

func (v *VolumesView) statsLine() string {
	s := v.stats
	if v.usedBy == nil {
		// Usage is unknown until the container listings arrive.
		size := lo.SumBy(v.all, func(vol podman.Volume) int64 { return vol.Size })
		return fmt.Sprintf("%d total, %s", len(v.all), units.HumanSize(float64(size)))
	}
	line := fmt.Sprintf("%d total, %s", s.Total, units.HumanSize(float64(s.TotalSize)))
	return line + fmt.Sprintf("  ·  %d unused, %s", s.Unused, units.HumanSize(float64(s.UnusedSize)))
}

func (v *VolumesView) ownerFilterLabel() string {
	switch v.opts.OwnerFilter {
	case string(podman.OwnerSystem):
		return v.label(true)
	case string(podman.OwnerUser):
		return v.label(false)
	}
	return volume.OwnerAll
}
