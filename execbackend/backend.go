// Package execbackend defines the execution-backend contract from
// §4.K: the interpreter core never launches a process itself, it
// hands a fully-resolved Command to a Backend and reports whatever
// Result comes back. DefaultBackend is grounded on the donor's
// DefaultExecHandler (interp/handler.go) — PATH resolution, process
// launch, and signal-to-exit-code mapping — narrowed to this shell's
// simple-command/pipeline scope (no job control, no process groups).
package execbackend

import "context"

// StreamMode selects where a command's stdin, stdout, or stderr
// connects.
type StreamMode int

const (
	// StreamInherit connects the stream to the host's own.
	StreamInherit StreamMode = iota
	// StreamFile connects the stream to a file, per FilePath/FileAppend.
	StreamFile
	// StreamNull discards (or, for stdin, never supplies) data.
	StreamNull
	// StreamCapture buffers the stream in memory for the caller to read
	// back from the Result.
	StreamCapture
)

// StreamSpec configures one of a Command's three standard streams.
type StreamSpec struct {
	Mode       StreamMode
	FilePath   string
	FileAppend bool
}

// EnvMode selects how Command.Env combines with the backend's own
// environment.
type EnvMode int

const (
	// EnvInherit overlays Env on top of the backend's environment.
	EnvInherit EnvMode = iota
	// EnvReplace uses Env as the complete environment, ignoring the
	// backend's own.
	EnvReplace
)

// Command is a fully-resolved request to run one external program:
// every variable reference has already been expanded by §4.I, and
// every redirection has already been mapped to a StreamSpec.
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Env     []string
	EnvMode EnvMode
	Stdin   StreamSpec
	Stdout  StreamSpec
	Stderr  StreamSpec
}

// Result reports what happened after a Backend tried to run a
// Command or Pipeline.
type Result struct {
	ExitCode     int
	ErrorMessage string
	// Captured holds the buffered output for any stream configured
	// with StreamCapture, keyed "stdout" or "stderr".
	Captured map[string]string
}

// Backend is the external collaborator the interpreter calls into for
// every Command statement. A second implementation satisfying this
// contract, RecordingBackend, exists purely for tests that must not
// launch real processes.
type Backend interface {
	Execute(ctx context.Context, cmd Command) (Result, error)
	InitJobControl() error
}

// PipelineExecutor is implemented by a Backend that runs a whole
// pipeline in one call, for example by wiring stdout of command i to
// stdin of command i+1. RecordingBackend implements it without any
// wiring: it runs each command independently. The interpreter
// type-asserts for this interface and hands the pipeline to it when
// present, and otherwise falls back to its own sequential synthesis.
type PipelineExecutor interface {
	ExecutePipeline(ctx context.Context, cmds []Command) (Result, error)
}
