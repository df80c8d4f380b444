//go:build unix

package execeng

import (
	"os/exec"
	"runtime"
	"syscall"
)

// peakMemKiB extracts the child's peak resident set size from rusage.
// Linux reports Maxrss in KiB, darwin in bytes.
func peakMemKiB(cmd *exec.Cmd) int64 {
	if cmd.ProcessState == nil {
		return 0
	}
	ru, ok := cmd.ProcessState.SysUsage().(*syscall.Rusage)
	if !ok || ru == nil {
		return 0
	}
	if runtime.GOOS == "darwin" {
		return int64(ru.Maxrss) / 1024
	}
	return int64(ru.Maxrss)
}
