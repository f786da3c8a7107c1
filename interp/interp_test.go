package interp

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/wsollers/wshell/ast"
	"github.com/wsollers/wshell/execbackend"
	"github.com/wsollers/wshell/iostreams"
)

func newTestRunner(c *qt.C) (*Runner, *execbackend.RecordingBackend, *iostreams.StringSink) {
	backend := execbackend.NewRecordingBackend()
	stderr := iostreams.NewStringSink("stderr")
	r, err := New(WithBackend(backend), WithStderr(stderr))
	c.Assert(err, qt.IsNil)
	return r, backend, stderr
}

func TestExecuteComment(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c)
	code, err := r.ExecuteStatement(context.Background(), ast.Comment{Text: "hi"})
	c.Assert(err, qt.IsNil)
	c.Assert(code, qt.Equals, 0)
}

func TestExecuteAssignment(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c)
	_, err := r.ExecuteStatement(context.Background(), ast.Assignment{Name: "X", Value: "42"})
	c.Assert(err, qt.IsNil)
	c.Assert(r.Vars()["X"], qt.Equals, "42")
}

func TestExecuteAssignmentInvalidName(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c)
	_, err := r.ExecuteStatement(context.Background(), ast.Assignment{Name: "9bad", Value: "1"})
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestExecuteCommandExpandsArgs(t *testing.T) {
	c := qt.New(t)
	r, backend, _ := newTestRunner(c)
	_, err := r.ExecuteStatement(context.Background(), ast.Assignment{Name: "X", Value: "42"})
	c.Assert(err, qt.IsNil)

	cmd := ast.NewCommand(ast.Word{Text: "echo"}, []ast.Word{{Text: "$X"}}, nil, false)
	code, err := r.ExecuteStatement(context.Background(), cmd)
	c.Assert(err, qt.IsNil)
	c.Assert(code, qt.Equals, 0)
	c.Assert(len(backend.Calls), qt.Equals, 1)
	c.Assert(backend.Calls[0].Args, qt.DeepEquals, []string{"42"})
}

func TestExecuteCommandEmptyNameAfterExpansion(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c)
	cmd := ast.NewCommand(ast.Word{Text: "$UNSET"}, nil, nil, false)
	code, err := r.ExecuteStatement(context.Background(), cmd)
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(code, qt.Equals, ExecStatusFailure)
}

func TestExecuteCommandRedirections(t *testing.T) {
	c := qt.New(t)
	r, backend, _ := newTestRunner(c)
	cmd := ast.NewCommand(ast.Word{Text: "sort"}, nil, []ast.Redirection{
		{Kind: ast.Input, Target: ast.Word{Text: "in.txt"}},
		{Kind: ast.OutputTruncate, Target: ast.Word{Text: "out.txt"}},
	}, false)
	_, err := r.ExecuteStatement(context.Background(), cmd)
	c.Assert(err, qt.IsNil)
	got := backend.Calls[0]
	c.Assert(got.Stdin.FilePath, qt.Equals, "in.txt")
	c.Assert(got.Stdout.FilePath, qt.Equals, "out.txt")
	c.Assert(got.Stdout.FileAppend, qt.IsFalse)
}

func TestExecutePipelineRunsEveryCommand(t *testing.T) {
	c := qt.New(t)
	r, backend, _ := newTestRunner(c)
	backend.Results["false"] = execbackend.Result{ExitCode: 1}
	pipe := ast.NewPipeline([]ast.Command{
		ast.NewCommand(ast.Word{Text: "cat"}, nil, nil, false),
		ast.NewCommand(ast.Word{Text: "false"}, nil, nil, false),
	})
	code, err := r.ExecuteStatement(context.Background(), pipe)
	c.Assert(err, qt.IsNil)
	c.Assert(code, qt.Equals, 1)
	c.Assert(len(backend.Calls), qt.Equals, 2)
}

func TestExecutePipelineSequentialFallbackSurfacesError(t *testing.T) {
	c := qt.New(t)
	backend := execbackend.NewRecordingBackend()
	backend.Results["false"] = execbackend.Result{ExitCode: 1, ErrorMessage: "boom"}
	r, err := New(WithBackend(sequentialOnlyBackend{backend}))
	c.Assert(err, qt.IsNil)
	pipe := ast.NewPipeline([]ast.Command{
		ast.NewCommand(ast.Word{Text: "cat"}, nil, nil, false),
		ast.NewCommand(ast.Word{Text: "false"}, nil, nil, false),
	})
	code, err := r.ExecuteStatement(context.Background(), pipe)
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(code, qt.Equals, 1)
	c.Assert(len(backend.Calls), qt.Equals, 2)
}

// sequentialOnlyBackend embeds a Backend but deliberately hides any
// PipelineExecutor it might satisfy, so tests can exercise the core's
// own sequential-pipeline fallback regardless of what the wrapped
// backend supports.
type sequentialOnlyBackend struct {
	execbackend.Backend
}

func TestExecuteSequence(t *testing.T) {
	c := qt.New(t)
	r, backend, _ := newTestRunner(c)
	seq := ast.NewSequence([]ast.Statement{
		ast.NewCommand(ast.Word{Text: "echo"}, []ast.Word{{Text: "one"}}, nil, false),
		ast.NewCommand(ast.Word{Text: "echo"}, []ast.Word{{Text: "two"}}, nil, false),
	})
	code, err := r.ExecuteStatement(context.Background(), seq)
	c.Assert(err, qt.IsNil)
	c.Assert(code, qt.Equals, 0)
	c.Assert(len(backend.Calls), qt.Equals, 2)
}

func TestExecuteProgramContinuesAfterError(t *testing.T) {
	c := qt.New(t)
	r, backend, stderr := newTestRunner(c)
	backend.Results["false"] = execbackend.Result{ExitCode: 1, ErrorMessage: "boom"}
	prog := &ast.Program{Statements: []ast.Statement{
		ast.NewCommand(ast.Word{Text: "false"}, nil, nil, false),
		ast.NewCommand(ast.Word{Text: "echo"}, []ast.Word{{Text: "still runs"}}, nil, false),
	}}
	code := r.ExecuteProgram(context.Background(), prog)
	c.Assert(code, qt.Equals, 0)
	c.Assert(len(backend.Calls), qt.Equals, 2)
	c.Assert(stderr.String(), qt.Not(qt.Equals), "")
}

func TestRunLineParsesAndExecutes(t *testing.T) {
	c := qt.New(t)
	r, backend, _ := newTestRunner(c)
	code, err := r.RunLine(context.Background(), "echo hi")
	c.Assert(err, qt.IsNil)
	c.Assert(code, qt.Equals, 0)
	c.Assert(len(backend.Calls), qt.Equals, 1)
	c.Assert(r.History().Items(), qt.DeepEquals, []string{"echo hi"})
}

func TestRunLineBlankLineIsNoop(t *testing.T) {
	c := qt.New(t)
	r, backend, _ := newTestRunner(c)
	code, err := r.RunLine(context.Background(), "   ")
	c.Assert(err, qt.IsNil)
	c.Assert(code, qt.Equals, 0)
	c.Assert(len(backend.Calls), qt.Equals, 0)
	c.Assert(r.History().Empty(), qt.IsTrue)
}

func TestRunLineParseErrorNotPushedToHistory(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(c)
	_, err := r.RunLine(context.Background(), "| grep foo")
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(r.History().Empty(), qt.IsTrue)
}

func TestWithInitialVars(t *testing.T) {
	c := qt.New(t)
	backend := execbackend.NewRecordingBackend()
	r, err := New(WithBackend(backend), WithInitialVars(map[string]string{"HOME": "/home/x"}))
	c.Assert(err, qt.IsNil)
	c.Assert(r.Vars()["HOME"], qt.Equals, "/home/x")
}
