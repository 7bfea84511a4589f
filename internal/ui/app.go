package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"podconsole/internal/podman"
	"podconsole/internal/session"
	"podconsole/internal/volume"
)

// Snapshot is the state read from Podman. It is replaced wholesale on every
// refresh; views only ever get copies of its slices.
type Snapshot struct {
	Containers []podman.Container
	Pods       []podman.Pod
	Volumes    []podman.Volume
	// UsedBy is nil until the container listings of every scope loaded.
	UsedBy podman.UsedBy
	Loaded bool
}

// Options configure NewAppModel.
type Options struct {
	Client podman.Client
	// Scopes are the owner scopes whose service answered, system first.
	Scopes []podman.Owner
	// URLs are the `podman --url` connection strings per scope, used for
	// shell and log panes.
	URLs map[podman.Owner]string
	// User names the user scope in listings.
	User string
	// Preferred sorts first in listings.
	Preferred podman.Owner
	// OwnerFilter is the initial volume owner filter.
	OwnerFilter     string
	RefreshInterval time.Duration
	Timeout         time.Duration
	Sessions        *session.Tracker
}

// AppModel is the root model. It switches between the listing screens and
// stacks modals over them.
type AppModel struct {
	Mode       AppMode
	Client     podman.Client
	Scopes     []podman.Owner
	URLs       map[podman.Owner]string
	User       string
	Preferred  podman.Owner
	Snapshot   Snapshot
	Containers *ContainersView
	Pods       *PodsView
	Volumes    *VolumesView
	History    *HistoryView

	Overlays      OverlayStack
	KeyHandler    *KeyHandler
	Sessions      *session.Tracker
	Notifications Notifications

	Status        string
	StatusIsError bool

	RefreshInterval time.Duration
	Timeout         time.Duration

	spinner       spinner.Model
	loading       bool
	// loadSeq numbers snapshot loads as they start; appliedSeq is the
	// newest state shown. Older results are dropped.
	loadSeq, appliedSeq uint64
	width, height int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model.
func NewAppModel(opts Options) *AppModel {
	preferred := lo.Ternary(opts.Preferred.Valid(), opts.Preferred, podman.OwnerUser)
	a := &AppModel{
		Mode:            ModeContainers,
		Client:          opts.Client,
		Scopes:          opts.Scopes,
		URLs:            opts.URLs,
		User:            lo.CoalesceOrEmpty(opts.User, string(podman.OwnerUser)),
		Preferred:       preferred,
		Sessions:        opts.Sessions,
		RefreshInterval: lo.Ternary(opts.RefreshInterval > 0, opts.RefreshInterval, 5*time.Second),
		Timeout:         lo.Ternary(opts.Timeout > 0, opts.Timeout, 30*time.Second),
		spinner:         newSpinner(),
	}
	a.Containers = NewContainersView(a.ownerLabel)
	a.Pods = NewPodsView(a.ownerLabel)
	a.Volumes = NewVolumesView(a.ownerLabel, volume.Options{
		OwnerFilter: lo.CoalesceOrEmpty(opts.OwnerFilter, volume.OwnerAll),
		BothScopes:  a.BothScopes(),
	}, preferred)
	a.KeyHandler = NewKeyHandler(defaultBindings())
	return a
}

// defaultBindings registers the global and leader bindings.
func defaultBindings() *KeybindRegistry {
	send := func(msg tea.Msg) tea.Cmd { return func() tea.Msg { return msg } }
	containers := []AppMode{ModeContainers}
	pods := []AppMode{ModePods}
	volumes := []AppMode{ModeVolumes}

	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC r", send(RefreshMsg{}), "Refresh")
	reg.BindWithDesc("ctrl+r", send(RefreshMsg{}), "Refresh")
	reg.Bind("ctrl+x", send(DismissNotificationMsg{}))

	reg.BindWithDesc("1", send(SwitchModeMsg{Mode: ModeContainers}), "Containers")
	reg.BindWithDesc("2", send(SwitchModeMsg{Mode: ModePods}), "Pods")
	reg.BindWithDesc("3", send(SwitchModeMsg{Mode: ModeVolumes}), "Volumes")
	reg.BindWithDesc("SPC g c", send(SwitchModeMsg{Mode: ModeContainers}), "Containers")
	reg.BindWithDesc("SPC g p", send(SwitchModeMsg{Mode: ModePods}), "Pods")
	reg.BindWithDesc("SPC g v", send(SwitchModeMsg{Mode: ModeVolumes}), "Volumes")

	reg.BindWithDescForMode("SPC c r", send(ShowRenameMsg{}), "Rename", containers)
	reg.BindWithDescForMode("SPC c h", send(ShowHistoryMsg{}), "Image history", containers)
	reg.BindWithDescForMode("SPC c s", send(OpenShellMsg{}), "Shell", containers)
	reg.BindWithDescForMode("SPC c l", send(OpenLogsMsg{}), "Logs", containers)

	reg.BindWithDescForMode("SPC p c", send(ShowCreatePodMsg{}), "Create pod", pods)

	reg.BindWithDescForMode("SPC v d", send(ShowDeleteVolumeMsg{}), "Delete", volumes)
	reg.BindWithDescForMode("SPC v p", send(ShowPruneMsg{}), "Prune unused", volumes)
	reg.BindWithDescForMode("SPC v i", send(ToggleIntermediateMsg{}), "Intermediate", volumes)
	reg.BindWithDescForMode("SPC v o", send(CycleOwnerFilterMsg{}), "Owner filter", volumes)
	reg.BindWithDescForMode("SPC v enter", send(ShowVolumeDetailsMsg{}), "Details", volumes)
	return reg
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))
	return s
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (a *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: a}
}

// BothScopes reports whether the system and user services are both
// available.
func (a *AppModel) BothScopes() bool {
	return lo.Contains(a.Scopes, podman.OwnerSystem) && lo.Contains(a.Scopes, podman.OwnerUser)
}

// Available reports whether owner has a service.
func (a *AppModel) Available(owner podman.Owner) bool {
	return lo.Contains(a.Scopes, owner)
}

// ownerLabel names the scope of an object in listings.
func (a *AppModel) ownerLabel(isSystem bool) string {
	if isSystem {
		return string(podman.OwnerSystem)
	}
	return a.User
}

func (a *AppModel) setStatus(s string, isErr bool) {
	a.Status = s
	a.StatusIsError = isErr
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	a.loading = true
	return tea.Batch(a.spinner.Tick, a.loadSnapshot(), tickCmd(a.RefreshInterval))
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleWindowSize(msg)
	case tea.KeyMsg:
		return a.handleKey(msg)
	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case tickMsg:
		return a.handleTick()
	case RefreshMsg:
		return a, a.refresh()
	case SnapshotLoadedMsg:
		return a.handleSnapshotLoaded(msg)
	case SwitchModeMsg:
		return a.handleSwitchMode(msg)
	case DismissModalMsg:
		a.dismissTop()
		return a, nil
	case DismissNotificationMsg:
		a.Notifications.Dismiss()
		return a, nil

	case ShowRenameMsg:
		return a.handleShowRename()
	case RenameContainerMsg:
		return a.handleRenameContainer(msg)
	case renameResultMsg:
		return a.handleRenameResult(msg)
	case ContainerRenamedMsg:
		return a.handleContainerRenamed(msg)
	case containerInspectedMsg:
		return a.handleContainerInspected(msg)
	case ShowHistoryMsg:
		return a.handleShowHistory()
	case historyLoadedMsg:
		return a.handleHistoryLoaded(msg)
	case CopyCommandMsg:
		return a, copyCmd(msg.Command)
	case copiedMsg:
		return a.handleCopied(msg)
	case OpenShellMsg:
		return a.handleOpenPane(session.PaneShell)
	case OpenLogsMsg:
		return a.handleOpenPane(session.PaneLogs)

	case ShowCreatePodMsg:
		return a.handleShowCreatePod()
	case CreatePodMsg:
		return a.handleCreatePod(msg)
	case podCreateResultMsg:
		return a.handlePodCreateResult(msg)

	case ShowDeleteVolumeMsg:
		return a.handleShowDeleteVolume()
	case DeleteVolumeMsg:
		return a.handleDeleteVolume(msg)
	case volumeDeleteResultMsg:
		return a.handleVolumeDeleteResult(msg)
	case ForceRemoveVolumeMsg:
		return a.handleForceRemoveVolume(msg)
	case volumeForceResultMsg:
		return a.handleVolumeForceResult(msg)
	case ShowPruneMsg:
		return a.handleShowPrune()
	case PruneVolumesMsg:
		return a.handlePruneVolumes(msg)
	case volumesPrunedMsg:
		return a.handleVolumesPruned(msg)
	case ShowVolumeDetailsMsg:
		return a.handleShowVolumeDetails()
	case ToggleIntermediateMsg, CycleOwnerFilterMsg:
		a.Volumes.Update(msg)
		return a, nil
	}

	// Everything else (cursor blinks and the like) goes to whatever has focus.
	if a.Overlays.Len() > 0 {
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}
	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// capturer is implemented by views that take free text input, during which
// keys bypass the global bindings.
type capturer interface {
	Capturing() bool
}

func (a *appModelAdapter) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.dismissTop()
			return a, nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}
	view := a.currentView()
	if c, ok := view.(capturer); ok && c.Capturing() {
		v, cmd := view.Update(msg)
		a.setCurrentView(v)
		return a, cmd
	}
	if a.KeyHandler != nil {
		a.KeyHandler.Mode = a.Mode
		if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
			return a, cmd
		}
	}
	v, cmd := view.Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// dismisser is implemented by modals that must clean up when closed
// without submitting.
type dismisser interface {
	Dismissed()
}

func (a *appModelAdapter) dismissTop() {
	top, ok := a.Overlays.Pop()
	if !ok {
		return
	}
	if d, ok := top.View.(dismisser); ok {
		d.Dismissed()
	}
}

func (a *appModelAdapter) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width, a.height = msg.Width, msg.Height
	inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-6, 5)}
	a.Containers.Update(inner)
	a.Pods.Update(inner)
	a.Volumes.Update(inner)
	if a.History != nil {
		a.History.Update(inner)
	}
	return a, nil
}

func (a *appModelAdapter) handleSwitchMode(msg SwitchModeMsg) (tea.Model, tea.Cmd) {
	if msg.Mode == ModeHistory && a.History == nil {
		return a, nil
	}
	a.Mode = msg.Mode
	if msg.Mode != ModeHistory {
		a.History = nil
	}
	return a, nil
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var b strings.Builder
	b.WriteString(a.renderHeader() + "\n")
	b.WriteString(a.Notifications.View())
	b.WriteString(a.currentView().View())
	if a.Status != "" {
		style := lo.Ternary(a.StatusIsError, Styles.Error, Styles.Status)
		b.WriteString("\n" + style.Render(a.Status))
	}
	base := b.String()

	if top, ok := a.Overlays.Peek(); ok {
		if a.width > 0 && a.height > 0 {
			return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, top.View.View())
		}
		return base + "\n" + top.View.View()
	}
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		base += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
	}
	return base
}

func (a *appModelAdapter) renderHeader() string {
	tabs := make([]string, 0, len(listingModes)+1)
	for i, m := range listingModes {
		label := fmt.Sprintf("%d %s", i+1, m)
		tabs = append(tabs, lo.Ternary(a.Mode == m, Styles.Selected.Render(label), Styles.Muted.Render(label)))
	}
	if a.Mode == ModeHistory {
		tabs = append(tabs, Styles.Selected.Render(ModeHistory.String()))
	}
	header := Styles.Title.Render("podconsole") + "  " + strings.Join(tabs, "  ")
	scopes := lo.Map(a.Scopes, func(o podman.Owner, _ int) string { return a.ownerLabel(o.IsSystem()) })
	if len(scopes) == 0 {
		header += "  " + Styles.Error.Render("no podman service")
	} else {
		header += "  " + Styles.Dim.Render("["+strings.Join(scopes, ", ")+"]")
	}
	if a.loading {
		header += " " + a.spinner.View()
	}
	return header
}

func (a *appModelAdapter) currentView() View {
	switch a.Mode {
	case ModePods:
		return a.Pods
	case ModeVolumes:
		return a.Volumes
	case ModeHistory:
		if a.History != nil {
			return a.History
		}
	}
	return a.Containers
}

func (a *appModelAdapter) setCurrentView(v View) {
	switch v := v.(type) {
	case *ContainersView:
		a.Containers = v
	case *PodsView:
		a.Pods = v
	case *VolumesView:
		a.Volumes = v
	case *HistoryView:
		a.History = v
	}
}
