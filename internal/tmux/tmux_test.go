package tmux

import (
	"testing"
)

func TestExecArgs(t *testing.T) {
	got := ShellJoin(ExecArgs(Target{URL: "unix:///run/user/1000/podman/podman.sock", ID: "abc123"}))
	want := "podman --url unix:///run/user/1000/podman/podman.sock exec -it abc123 sh"
	if got != want {
		t.Errorf("ExecArgs = %q, want %q", got, want)
	}

	got = ShellJoin(LogsArgs(Target{URL: "unix:///run/podman/podman.sock", ID: "abc123", Elevate: true}))
	want = "sudo podman --url unix:///run/podman/podman.sock logs -f --tail 200 abc123"
	if got != want {
		t.Errorf("LogsArgs = %q, want %q", got, want)
	}
}

func TestShellJoin(t *testing.T) {
	tests := []struct {
		argv []string
		want string
	}{
		{[]string{"echo", "ok"}, "echo ok"},
		{[]string{"echo", "two words"}, "echo 'two words'"},
		{[]string{"echo", "it's"}, `echo 'it'\''s'`},
		{[]string{"echo", ""}, "echo ''"},
	}
	for _, tt := range tests {
		if got := ShellJoin(tt.argv); got != tt.want {
			t.Errorf("ShellJoin(%q) = %q, want %q", tt.argv, got, tt.want)
		}
	}
}

func TestSplitPane_KillPane(t *testing.T) {
	if !InTmux() {
		t.Skip("Skipping tmux test: not running inside tmux")
	}
	paneID, err := SplitPane([]string{"sleep", "30"})
	if err != nil {
		t.Fatalf("SplitPane: %v", err)
	}
	if paneID == "" {
		t.Fatal("SplitPane returned empty pane ID")
	}
	live, err := ListPaneIDs()
	if err != nil {
		t.Fatalf("ListPaneIDs: %v", err)
	}
	if !live[paneID] {
		t.Errorf("ListPaneIDs() missing %s", paneID)
	}
	if err := KillPane(paneID); err != nil {
		t.Fatalf("KillPane: %v", err)
	}
}
