//go:build !unix

package execbackend

import "os/exec"

// exitCodeFromError on non-Unix platforms has no signal/WaitStatus
// concept to decode; it reports the plain exit code.
func exitCodeFromError(err error) (int, string) {
	if err == nil {
		return 0, ""
	}
	var exitErr *exec.ExitError
	if ee, ok := err.(*exec.ExitError); ok {
		exitErr = ee
		return exitErr.ExitCode(), ""
	}
	return 1, err.Error()
}
