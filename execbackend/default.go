package execbackend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// DefaultBackend runs commands as real child processes via os/exec.
// KillTimeout bounds how long a context-cancelled child is given to
// exit after SIGINT/Interrupt before DefaultBackend escalates to
// Kill, mirroring the donor's DefaultExecHandler (interp/handler.go).
// The zero value is ready to use, with no kill grace period.
type DefaultBackend struct {
	KillTimeout time.Duration
}

// InitJobControl is a no-op: this shell does not implement terminal
// job control (see spec.md's Non-goals).
func (b *DefaultBackend) InitJobControl() error { return nil }

func (b *DefaultBackend) Execute(ctx context.Context, cmd Command) (Result, error) {
	path, err := exec.LookPath(cmd.Name)
	if err != nil {
		return Result{ExitCode: 127, ErrorMessage: fmt.Sprintf("%s: command not found", cmd.Name)}, nil
	}

	ec := exec.CommandContext(ctx, path, cmd.Args...)
	ec.Dir = cmd.Dir
	ec.Env = resolveEnv(cmd)
	if b.KillTimeout > 0 {
		ec.Cancel = func() error { return ec.Process.Signal(os.Interrupt) }
		ec.WaitDelay = b.KillTimeout
	}

	var stdoutCapture, stderrCapture bytes.Buffer
	captured := map[string]string{}

	stdin, closeIn, err := openStream(cmd.Stdin, os.O_RDONLY)
	if err != nil {
		return Result{ExitCode: 1, ErrorMessage: err.Error()}, nil
	}
	if closeIn != nil {
		defer closeIn()
	}
	ec.Stdin = stdin

	stdout, closeOut, err := wireOutput(cmd.Stdout, &stdoutCapture, os.Stdout)
	if err != nil {
		return Result{ExitCode: 1, ErrorMessage: err.Error()}, nil
	}
	if closeOut != nil {
		defer closeOut()
	}
	ec.Stdout = stdout

	stderr, closeErr, err := wireOutput(cmd.Stderr, &stderrCapture, os.Stderr)
	if err != nil {
		return Result{ExitCode: 1, ErrorMessage: err.Error()}, nil
	}
	if closeErr != nil {
		defer closeErr()
	}
	ec.Stderr = stderr

	runErr := ec.Run()

	if cmd.Stdout.Mode == StreamCapture {
		captured["stdout"] = stdoutCapture.String()
	}
	if cmd.Stderr.Mode == StreamCapture {
		captured["stderr"] = stderrCapture.String()
	}

	code, msg := exitCodeFromError(runErr)
	return Result{ExitCode: code, ErrorMessage: msg, Captured: captured}, nil
}

func resolveEnv(cmd Command) []string {
	switch cmd.EnvMode {
	case EnvReplace:
		return cmd.Env
	default:
		return append(os.Environ(), cmd.Env...)
	}
}

func openStream(spec StreamSpec, flag int) (io.Reader, func(), error) {
	switch spec.Mode {
	case StreamFile:
		f, err := os.OpenFile(spec.FilePath, flag, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	case StreamNull:
		return bytes.NewReader(nil), nil, nil
	default:
		return os.Stdin, nil, nil
	}
}

func wireOutput(spec StreamSpec, capture *bytes.Buffer, inherit io.Writer) (io.Writer, func(), error) {
	switch spec.Mode {
	case StreamFile:
		flag := os.O_WRONLY | os.O_CREATE
		if spec.FileAppend {
			flag |= os.O_APPEND
		} else {
			flag |= os.O_TRUNC
		}
		f, err := os.OpenFile(spec.FilePath, flag, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	case StreamNull:
		return io.Discard, nil, nil
	case StreamCapture:
		return capture, nil, nil
	default:
		return inherit, nil, nil
	}
}
