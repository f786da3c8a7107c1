// Command wsh is the shell's command-line entry point: it loads the
// user's RC file, then either runs a "-c" command string, runs a
// script file, or starts an interactive REPL, depending on the
// arguments and whether stdin is a terminal. Its three-way dispatch
// and the REPL's plain reader/writer parameters are grounded directly
// on the donor's cmd/gosh/main.go (runAll/run/runPath/runInteractive).
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/wsollers/wshell/ast"
	"github.com/wsollers/wshell/interp"
	"github.com/wsollers/wshell/iostreams"
	"github.com/wsollers/wshell/parser"
	"github.com/wsollers/wshell/policy"
	"github.com/wsollers/wshell/rcfile"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wsh", flag.ContinueOnError)
	fs.SetOutput(stderr)
	command := fs.String("c", "", "run the given command string instead of reading a script or starting a session")
	noRC := fs.Bool("norc", false, "skip loading the per-user RC file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	pol := policy.Default()
	r, err := interp.New(
		interp.WithPolicy(pol),
		interp.WithStdout(iostreams.NewStreamSink("stdout", stdout)),
		interp.WithStderr(iostreams.NewStreamSink("stderr", stderr)),
		interp.WithInitialVars(loadRC(*noRC, pol, stderr)),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx := context.Background()
	switch {
	case *command != "":
		return runOnce(ctx, r, iostreams.NewStringSource("<command-line>", *command, pol), stderr)
	case fs.NArg() > 0:
		return runOnce(ctx, r, iostreams.NewFileSource(fs.Arg(0), pol), stderr)
	default:
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return runInteractive(ctx, r, stdin, stdout)
		}
		src := iostreams.NewStreamSource("<stdin>", stdin, pol)
		return runOnce(ctx, r, src, stderr)
	}
}

func loadRC(skip bool, pol *policy.Policy, stderr io.Writer) map[string]string {
	if skip {
		return nil
	}
	path, err := rcfile.DefaultPath()
	if err != nil {
		fmt.Fprintf(stderr, "wsh: %v\n", err)
		return nil
	}
	vars, err := rcfile.Load(path, pol)
	if err != nil {
		var ce *rcfile.ConfigError
		if errors.As(err, &ce) && ce.Kind == rcfile.FileNotFound {
			return nil
		}
		fmt.Fprintf(stderr, "wsh: %v\n", err)
		return nil
	}
	return vars
}

// runOnce parses src as a complete program and executes it in order,
// per §6's script-mode contract: a parse error terminates the script
// with a nonzero exit code and a diagnostic on stderr.
func runOnce(ctx context.Context, r *interp.Runner, src iostreams.Source, stderr io.Writer) int {
	prog, err := parser.ParseProgram(src)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return r.ExecuteProgram(ctx, prog)
}

// runInteractive reads lines from stdin one at a time, printing a
// prompt and re-reading on IncompleteInput, until EOF or a standalone
// "exit" command. It takes a plain io.Reader and io.Writer, so its
// tests drive it with a strings.Reader and a bytes.Buffer rather than
// a pty: a REPL's line protocol does not require a real terminal to
// exercise.
func runInteractive(ctx context.Context, r *interp.Runner, stdin io.Reader, stdout io.Writer) int {
	in := bufio.NewReader(stdin)
	var pending string
	for {
		if pending == "" {
			fmt.Fprint(stdout, "$ ")
		} else {
			fmt.Fprint(stdout, "> ")
		}
		line, err := in.ReadString('\n')
		if line == "" && err != nil {
			break
		}
		joined := pending + line

		stmt, perr := parser.ParseLine(joined)
		if perr != nil {
			if parser.IsIncomplete(perr) {
				pending = joined
				if err != nil {
					break
				}
				continue
			}
			fmt.Fprintln(stdout, perr)
			pending = ""
			if err != nil {
				break
			}
			continue
		}
		pending = ""

		if isExit(stmt) {
			return 0
		}
		if stmt != nil {
			r.History().Push(trimNewline(joined))
			code, execErr := r.ExecuteStatement(ctx, stmt)
			if execErr != nil {
				fmt.Fprintln(stdout, execErr)
			}
			_ = code
		}
		if err != nil {
			break
		}
	}
	return r.LastExitCode()
}

func isExit(stmt ast.Statement) bool {
	cmd, ok := stmt.(ast.Command)
	return ok && cmd.Name.Text == "exit" && len(cmd.Args) == 0 && len(cmd.Redirs) == 0 && !cmd.Background
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
