package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a modal view with the key that dismisses it.
type Overlay struct {
	View    View
	Dismiss string // e.g. "esc"
}

// IsDismissKey reports whether key dismisses this overlay.
func (o *Overlay) IsDismissKey(key string) bool {
	return key == o.Dismiss
}

// OverlayStack manages the modals stacked over the current screen. The
// topmost overlay receives input first.
type OverlayStack struct {
	Stack []Overlay
}

// Push adds an overlay to the top of the stack.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop removes and returns the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Peek returns the top overlay without removing it.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Len returns the number of overlays in the stack.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// IsTop reports whether v is the topmost overlay. Results of remote calls
// use it to find out whether the dialog that issued them is still open.
func (s *OverlayStack) IsTop(v View) bool {
	top, ok := s.Peek()
	return ok && top.View == v
}

// PopIf pops the top overlay only when it is v.
func (s *OverlayStack) PopIf(v View) bool {
	if !s.IsTop(v) {
		return false
	}
	s.Pop()
	return true
}

// Replace swaps the top overlay's view for v, keeping its dismiss key.
func (s *OverlayStack) Replace(v View) {
	if len(s.Stack) == 0 {
		s.Push(Overlay{View: v, Dismiss: "esc"})
		return
	}
	s.Stack[len(s.Stack)-1].View = v
}

// UpdateTop passes msg to the top overlay's Update and replaces its View with the result.
// Returns the cmd from the overlay's Update. Caller must run the cmd.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	newView, cmd := top.View.Update(msg)
	top.View = newView
	return cmd, true
}
