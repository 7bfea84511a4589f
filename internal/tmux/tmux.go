// Package tmux opens container shells and log followers in tmux panes via
// exec. Commands target the current session automatically, so podconsole
// must run inside tmux (TMUX env set) for these to work.
package tmux

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// InTmux reports whether the process runs inside a tmux client.
func InTmux() bool { return os.Getenv("TMUX") != "" }

func run(name string, args ...string) (string, error) {
	cmd := exec.Command("tmux", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tmux %s: %w: %s", name, err, strings.TrimSpace(out.String()))
	}
	return strings.TrimSpace(out.String()), nil
}

// SplitPane runs argv in a new pane to the right of the current one and
// returns the new pane ID (e.g. %4). Focus moves to the new pane.
func SplitPane(argv []string) (paneID string, err error) {
	return run("split-window", "split-window", "-h", "-P", "-F", "#{pane_id}", ShellJoin(argv))
}

// SelectPane focuses an existing pane.
func SelectPane(paneID string) error {
	_, err := run("select-pane", "select-pane", "-t", paneID)
	return err
}

// KillPane kills the pane with the given ID.
func KillPane(paneID string) error {
	_, err := run("kill-pane", "kill-pane", "-t", paneID)
	return err
}

// ListPaneIDs returns all live pane IDs across all tmux sessions/windows.
// Each ID looks like "%42". Used for liveness checks by the session tracker.
func ListPaneIDs() (map[string]bool, error) {
	out, err := run("list-panes", "list-panes", "-a", "-F", "#{pane_id}")
	if err != nil {
		return nil, err
	}
	panes := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			panes[line] = true
		}
	}
	return panes, nil
}

// Target identifies the container a pane command runs against.
type Target struct {
	// URL is the podman connection URL, e.g. unix:///run/podman/podman.sock.
	URL string
	ID  string
	// Elevate prefixes sudo; the system socket is root-only.
	Elevate bool
}

func (t Target) podman(args ...string) []string {
	argv := []string{"podman", "--url", t.URL}
	if t.Elevate {
		argv = append([]string{"sudo"}, argv...)
	}
	return append(argv, args...)
}

// ExecArgs is the command line of an interactive shell in the container.
func ExecArgs(t Target) []string {
	return t.podman("exec", "-it", t.ID, "sh")
}

// LogsArgs is the command line following the container's logs.
func LogsArgs(t Target) []string {
	return t.podman("logs", "-f", "--tail", "200", t.ID)
}

// ShellJoin quotes argv for the shell tmux hands the pane command to.
func ShellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		if a != "" && strings.IndexFunc(a, needsQuote) < 0 {
			quoted[i] = a
			continue
		}
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=%@+,", r)
}
