//go:build !windows

package launcher

import "os/exec"

// attachConsole shares the parent's terminal with the child.
func attachConsole(cmd *exec.Cmd, cfg Config) {
	cmd.Stdin = cfg.Stdin
	cmd.Stdout = cfg.Stdout
	cmd.Stderr = cfg.Stderr
}
