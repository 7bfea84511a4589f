package ui

import "github.com/charmbracelet/lipgloss"

// ModalStyles are the Styles entries modals use, under modal names.
var ModalStyles = struct {
	BoxDefault   lipgloss.Style
	BoxWarning   lipgloss.Style
	BoxCompact   lipgloss.Style
	Title        lipgloss.Style
	TitleWarning lipgloss.Style
	Label        lipgloss.Style
	Help         lipgloss.Style
	Details      lipgloss.Style
	FieldError   lipgloss.Style
	Focused      lipgloss.Style
}{
	BoxDefault:   Styles.Box,
	BoxWarning:   Styles.BoxDanger,
	BoxCompact:   Styles.BoxCompact,
	Title:        Styles.Title,
	TitleWarning: Styles.TitleWarning,
	Label:        Styles.Label,
	Help:         Styles.Hint,
	Details:      Styles.Details,
	FieldError:   Styles.Error,
	Focused:      Styles.Selected,
}
