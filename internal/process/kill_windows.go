//go:build windows

// Package process kills browser process trees.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its children with taskkill.
// Errors are ignored; the tree may already be gone.
func KillProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
