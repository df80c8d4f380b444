//go:build unix

package execeng

import (
	"os"
	"os/exec"
	"syscall"
)

// setupProcessGroup places the candidate in its own process group and
// makes cancellation kill the whole group. Without this only the
// direct child dies on timeout and any process it forked keeps
// running past the limit.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
}
