//go:build windows

package launcher

import (
	"os/exec"
	"syscall"
)

// createNewConsole is CREATE_NEW_CONSOLE from the Win32 process creation flags.
const createNewConsole = 0x00000010

// attachConsole gives the child its own console window; stdio is not shared.
func attachConsole(cmd *exec.Cmd, _ Config) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNewConsole}
}
