package ui

import (
	"strings"

	"podconsole/internal/podman"
)

// Banner is a dismissible failure notice: a short message and the backend
// detail ("<message>: <reason>").
type Banner struct {
	Message string
	Detail  string
}

// NewBanner builds a banner for a failed call.
func NewBanner(message string, err error) Banner {
	b := Banner{Message: message}
	if apiErr := podman.AsAPIError(err); apiErr != nil {
		b.Detail = apiErr.Detail()
	}
	return b
}

// View renders the banner.
func (b Banner) View() string {
	s := Styles.TitleWarning.Render(b.Message)
	if b.Detail != "" {
		s += "\n" + Styles.Details.Render(b.Detail)
	}
	return Styles.Banner.Render(s)
}

// Notifications are the global banners shown above the current screen,
// oldest first.
type Notifications struct {
	items []Banner
}

// Push adds a banner.
func (n *Notifications) Push(b Banner) {
	n.items = append(n.items, b)
}

// Dismiss removes the oldest banner.
func (n *Notifications) Dismiss() {
	if len(n.items) > 0 {
		n.items = n.items[1:]
	}
}

// Len returns the number of banners.
func (n *Notifications) Len() int { return len(n.items) }

// Items returns the banners, oldest first.
func (n *Notifications) Items() []Banner { return n.items }

// View renders every banner followed by the dismiss hint.
func (n *Notifications) View() string {
	if len(n.items) == 0 {
		return ""
	}
	views := make([]string, len(n.items))
	for i, b := range n.items {
		views[i] = b.View()
	}
	return strings.Join(views, "\n") + "\n" + Styles.Hint.Render("ctrl+x: dismiss") + "\n"
}
