// Package ui is the Bubble Tea front end of podconsole.
//
// Core abstractions:
//   - View: a screen or modal with its own Init/Update/View (Elm-style)
//   - OverlayStack: modals stacked over the current screen; the top one gets keys first
//   - KeybindRegistry / KeyHandler: spacemacs-style SPC leader bindings
//   - FocusManager: tab order across the fields of a form
//
// The root AppModel owns the snapshot of containers, pods and volumes read
// from Podman and hands copies to the listing views. Every remote call runs
// inside a tea.Cmd and reports back as a message.
package ui
