package metadata

import (
	"testing"

	"github.com/eddmann/kitmeta/internal/platform"
)

func TestNormalizeShortcut(t *testing.T) {
	tests := []struct {
		in   string
		p    platform.Platform
		want string
	}{
		{"cmd+shift+p", platform.Mac, "Command+Shift+p"},
		{"cmd+shift+p", platform.Other, "Control+Shift+p"},
		{"CMD SHIFT P", platform.Mac, "Command+Shift+P"},
		{"ctl alt delete", platform.Windows, "Control+Alt+Delete"},
		{"option space", platform.Mac, "Option+Space"},
		{"  cmd   ;  ", platform.Mac, "Command+;"},
		{"", platform.Mac, ""},
	}

	for _, tt := range tests {
		if got := NormalizeShortcut(tt.in, tt.p); got != tt.want {
			t.Errorf("NormalizeShortcut(%q, %s) = %q, want %q", tt.in, tt.p, got, tt.want)
		}
	}
}

func TestFriendlyShortcut(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Command+Shift+p", "cmd+shift+p"},
		{"Shift+Command+P", "cmd+shift+p"},
		{"Control+Alt+Delete", "ctrl+alt+delete"},
		{"Option+Space", "opt+space"},
		{"F5", "f5"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FriendlyShortcut(tt.in); got != tt.want {
			t.Errorf("FriendlyShortcut(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
