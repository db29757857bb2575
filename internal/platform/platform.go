// Package platform identifies the desktop OS family that shortcut and theme
// rules depend on
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform is one of Mac, Windows or Other
type Platform string

const (
	Mac     Platform = "mac"
	Windows Platform = "win"
	Other   Platform = "other"
)

// Current returns the platform of the running process
func Current() Platform {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a runtime.GOOS value to a Platform
func FromGOOS(goos string) Platform {
	switch goos {
	case "darwin":
		return Mac
	case "windows":
		return Windows
	default:
		return Other
	}
}

// Parse accepts "mac", "win", "other" and the GOOS names darwin, windows
// and linux. An empty string selects the current platform
func Parse(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Current(), nil
	case "mac", "darwin", "macos":
		return Mac, nil
	case "win", "windows":
		return Windows, nil
	case "other", "linux":
		return Other, nil
	}
	return "", fmt.Errorf("unknown platform %q (want mac, win or other)", s)
}

// IsMac reports whether p is Mac
func (p Platform) IsMac() bool {
	return p == Mac
}
