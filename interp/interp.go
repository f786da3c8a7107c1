// Package interp is the interpreter driver from §4.J: it owns the
// session's variable store and history, and dispatches each AST
// statement to an execution backend (package execbackend). Its
// functional-options construction (New, RunnerOption) is grounded
// directly on the donor's interp.Runner/RunnerOption pattern
// (interp/api.go) — the same idea of building up a configured runner
// through a slice of small option functions, narrowed to the handful
// of things this shell's core actually needs to configure.
package interp

import (
	"fmt"

	"github.com/wsollers/wshell/execbackend"
	"github.com/wsollers/wshell/history"
	"github.com/wsollers/wshell/iostreams"
	"github.com/wsollers/wshell/policy"
)

// Runner is the interpreter driver: variable store, history, and a
// reference to an execution backend and the session's two output
// destinations. A Runner is not safe for concurrent use.
type Runner struct {
	vars     map[string]string
	pol      *policy.Policy
	hist     *history.Ring
	backend  execbackend.Backend
	stdout   iostreams.Sink
	stderr   iostreams.Sink
	lastExit int
}

// RunnerOption configures a Runner at construction time.
type RunnerOption func(*Runner) error

// New builds a Runner, applying opts in order over sensible defaults:
// policy.Default(), a fresh history.Ring, an execbackend.DefaultBackend,
// and stdout/stderr left unset (callers nearly always want WithStdout
// and WithStderr; when no stderr Sink is set, diagnostics are silently
// dropped rather than written, so a Runner built purely to exercise
// assignments and comments in tests need not set them).
func New(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		vars:    make(map[string]string),
		pol:     policy.Default(),
		hist:    history.New(0),
		backend: &execbackend.DefaultBackend{},
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// WithPolicy overrides the policy used to validate assignment names
// and enforce variable-count limits.
func WithPolicy(pol *policy.Policy) RunnerOption {
	return func(r *Runner) error {
		r.pol = pol
		return nil
	}
}

// WithBackend overrides the execution backend. Tests typically supply
// an *execbackend.RecordingBackend here.
func WithBackend(b execbackend.Backend) RunnerOption {
	return func(r *Runner) error {
		r.backend = b
		return nil
	}
}

// WithHistory overrides the history ring used to record executed
// lines.
func WithHistory(h *history.Ring) RunnerOption {
	return func(r *Runner) error {
		r.hist = h
		return nil
	}
}

// WithStdout sets the sink statements write their normal output to.
// The core itself writes nothing to stdout directly — only diagnostics
// to stderr — but hosts may still want it available for symmetry with
// WithStderr and for a future builtin that needs it.
func WithStdout(sink iostreams.Sink) RunnerOption {
	return func(r *Runner) error {
		r.stdout = sink
		return nil
	}
}

// WithStderr sets the sink error diagnostics are written to.
func WithStderr(sink iostreams.Sink) RunnerOption {
	return func(r *Runner) error {
		r.stderr = sink
		return nil
	}
}

// WithInitialVars seeds the variable store, typically from a loaded
// rcfile.Load result.
func WithInitialVars(vars map[string]string) RunnerOption {
	return func(r *Runner) error {
		for k, v := range vars {
			r.vars[k] = v
		}
		return nil
	}
}

// Vars returns a copy of the current variable store.
func (r *Runner) Vars() map[string]string {
	out := make(map[string]string, len(r.vars))
	for k, v := range r.vars {
		out[k] = v
	}
	return out
}

// History returns the session's history ring.
func (r *Runner) History() *history.Ring { return r.hist }

// LastExitCode returns the exit code of the most recently executed
// statement.
func (r *Runner) LastExitCode() int { return r.lastExit }

func (r *Runner) diagnostic(format string, args ...interface{}) {
	if r.stderr == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	r.stderr.Write([]byte(msg + "\n"))
}
