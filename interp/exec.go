package interp

import (
	"context"
	"fmt"

	"github.com/wsollers/wshell/ast"
	"github.com/wsollers/wshell/execbackend"
	"github.com/wsollers/wshell/expand"
)

// ExecStatusFailure is the implementation-defined nonzero exit code
// reported when a Command cannot even be constructed, e.g. its name
// expands to the empty string — §4.J names this case without fixing a
// particular value.
const ExecStatusFailure = 1

// ExecuteProgram runs prog's statements in order, returning the exit
// code of the last one executed. A statement-level error is reported
// to stderr and recorded as the running exit code, but execution
// continues with the next statement, per §4.J.
func (r *Runner) ExecuteProgram(ctx context.Context, prog *ast.Program) int {
	exitCode := 0
	for _, stmt := range prog.Statements {
		code, err := r.ExecuteStatement(ctx, stmt)
		exitCode = code
		if err != nil {
			r.diagnostic("%v", err)
		}
	}
	r.lastExit = exitCode
	return exitCode
}

// ExecuteStatement dispatches stmt by its concrete variant, per
// §4.J's dispatch table, and records the returned exit code as the
// Runner's LastExitCode.
func (r *Runner) ExecuteStatement(ctx context.Context, stmt ast.Statement) (code int, err error) {
	defer func() { r.lastExit = code }()
	switch s := stmt.(type) {
	case ast.Comment:
		return 0, nil
	case ast.Assignment:
		return r.executeAssignment(s)
	case ast.Command:
		return r.executeCommand(ctx, s)
	case ast.Pipeline:
		return r.executePipeline(ctx, s)
	case ast.Sequence:
		return r.executeSequence(ctx, s)
	default:
		return ExecStatusFailure, fmt.Errorf("interp: unknown statement type %T", stmt)
	}
}

func (r *Runner) executeAssignment(a ast.Assignment) (int, error) {
	if !r.pol.IsValidName(a.Name) {
		return ExecStatusFailure, fmt.Errorf("invalid variable name %q", a.Name)
	}
	if _, exists := r.vars[a.Name]; !exists && len(r.vars) >= r.pol.MaxVariableCount {
		return ExecStatusFailure, fmt.Errorf("variable store is at its limit of %d entries", r.pol.MaxVariableCount)
	}
	r.vars[a.Name] = a.Value
	return 0, nil
}

func (r *Runner) lookup() expand.Lookup {
	return expand.MapLookup(r.vars)
}

// buildCommand expands a Command's name, arguments, and redirection
// targets per §4.I, then maps its redirections to backend stream
// specs. Later redirections of the same kind win, matching parse
// order (§5's ordering guarantee).
func (r *Runner) buildCommand(c ast.Command) (execbackend.Command, error) {
	name := expand.Expand(c.Name.Text, r.lookup())
	if name == "" {
		return execbackend.Command{}, fmt.Errorf("empty command name after expansion")
	}

	args := make([]string, len(c.Args))
	for i, w := range c.Args {
		args[i] = expand.Expand(w.Text, r.lookup())
	}

	cmd := execbackend.Command{Name: name, Args: args}
	for _, rd := range c.Redirs {
		target := expand.Expand(rd.Target.Text, r.lookup())
		switch rd.Kind {
		case ast.Input:
			cmd.Stdin = execbackend.StreamSpec{Mode: execbackend.StreamFile, FilePath: target}
		case ast.OutputTruncate:
			cmd.Stdout = execbackend.StreamSpec{Mode: execbackend.StreamFile, FilePath: target}
		case ast.OutputAppend:
			cmd.Stdout = execbackend.StreamSpec{Mode: execbackend.StreamFile, FilePath: target, FileAppend: true}
		}
	}
	return cmd, nil
}

func (r *Runner) executeCommand(ctx context.Context, c ast.Command) (int, error) {
	cmd, err := r.buildCommand(c)
	if err != nil {
		return ExecStatusFailure, err
	}

	if c.Background {
		go func() {
			// The core performs no job tracking of backgrounded
			// commands (see spec.md's job-control Non-goal); detach
			// from the triggering context so a cancellation of the
			// foreground session does not cut a background job short.
			_, _ = r.backend.Execute(context.Background(), cmd)
		}()
		return 0, nil
	}

	res, err := r.backend.Execute(ctx, cmd)
	if err != nil {
		return ExecStatusFailure, fmt.Errorf("%s: %v", c.Name.Text, err)
	}
	if res.ErrorMessage != "" {
		return res.ExitCode, fmt.Errorf("%s: %s", c.Name.Text, res.ErrorMessage)
	}
	return res.ExitCode, nil
}

// executePipeline runs each command of p in turn. When the backend
// implements execbackend.PipelineExecutor it is given the chance to
// wire true pipes; otherwise the core falls back to the sequential
// semantics §4.J and §9 specify as this scope's contract.
func (r *Runner) executePipeline(ctx context.Context, p ast.Pipeline) (int, error) {
	cmds := make([]execbackend.Command, len(p.Commands))
	for i, c := range p.Commands {
		built, err := r.buildCommand(c)
		if err != nil {
			return ExecStatusFailure, err
		}
		cmds[i] = built
	}

	if pe, ok := r.backend.(execbackend.PipelineExecutor); ok {
		res, err := pe.ExecutePipeline(ctx, cmds)
		if err != nil {
			return ExecStatusFailure, err
		}
		if res.ErrorMessage != "" {
			return res.ExitCode, fmt.Errorf("%s", res.ErrorMessage)
		}
		return res.ExitCode, nil
	}

	exitCode := 0
	var lastErr error
	for i, cmd := range cmds {
		res, err := r.backend.Execute(ctx, cmd)
		exitCode = res.ExitCode
		if err != nil {
			lastErr = fmt.Errorf("%s: %v", p.Commands[i].Name.Text, err)
		} else if res.ErrorMessage != "" {
			lastErr = fmt.Errorf("%s: %s", p.Commands[i].Name.Text, res.ErrorMessage)
		}
	}
	return exitCode, lastErr
}

func (r *Runner) executeSequence(ctx context.Context, s ast.Sequence) (int, error) {
	exitCode := 0
	var lastErr error
	for _, child := range s.Statements {
		code, err := r.ExecuteStatement(ctx, child)
		exitCode = code
		if err != nil {
			lastErr = err
		}
	}
	return exitCode, lastErr
}
