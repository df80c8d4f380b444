//go:build !unix

package execeng

import "os/exec"

// setupProcessGroup is a no-op where process groups are unavailable;
// the default CommandContext kill applies to the direct child only.
func setupProcessGroup(_ *exec.Cmd) {}
