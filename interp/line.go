package interp

import (
	"context"
	"strings"

	"github.com/wsollers/wshell/parser"
)

// RunLine parses and executes a single line of interactive input. A
// blank line is a no-op: it is neither pushed to history nor
// executed. A line that parses to parser.IsIncomplete is returned
// as-is so the host can read another line, join it to this one, and
// retry — it is recorded in history only once execution actually
// happens, matching §5's ordering guarantee that history push order
// matches statement execution order.
func (r *Runner) RunLine(ctx context.Context, line string, opts ...parser.Option) (int, error) {
	if strings.TrimSpace(line) == "" {
		return 0, nil
	}
	stmt, err := parser.ParseLine(line, opts...)
	if err != nil {
		return ExecStatusFailure, err
	}
	if stmt == nil {
		return 0, nil
	}
	r.hist.Push(line)
	code, execErr := r.ExecuteStatement(ctx, stmt)
	r.lastExit = code
	if execErr != nil {
		r.diagnostic("%v", execErr)
	}
	return code, execErr
}
