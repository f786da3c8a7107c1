//go:build unix

package execbackend

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// exitCodeFromError maps a finished exec.Cmd's error to (exit code,
// message), following the donor's signal convention (interp/handler.go,
// DefaultExecHandler): a process killed by a signal reports 128+signal.
// golang.org/x/sys/unix supplies the signal-name lookup used in the
// diagnostic message.
func exitCodeFromError(err error) (int, string) {
	if err == nil {
		return 0, ""
	}
	var exitErr *exec.ExitError
	if !asExitError(err, &exitErr) {
		return 1, err.Error()
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		sig := ws.Signal()
		return 128 + int(sig), "signal: " + unix.Signal(sig).String()
	}
	return exitErr.ExitCode(), ""
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}
